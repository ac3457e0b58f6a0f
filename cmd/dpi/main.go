/*
Dpi is an interactive DP dialogue script shell. Each line submitted is
appended to a growing in-memory buffer, which is recompiled as a single
source file after every line, with diagnostics printed immediately.

Usage:

	dpi [flags]

The flags are:

	-v, --version
		Give the current version of dpi and then exit.

Type ":reset" alone on a line to discard the buffer and start over. Exit
with Ctrl-D (EOF) or Ctrl-C.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/dekarrin/dpc/internal/diag"
	"github.com/dekarrin/dpc/internal/resolver"
	"github.com/dekarrin/dpc/internal/session"
)

var flagVersion = pflag.BoolP("version", "v", false, "Give the current version of dpi and then exit.")

const (
	version      = "0.1.0"
	replSourceID = "repl.dp"
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("dpi %s\n", version)
		return
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "dp> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL could not start readline: %s\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	res := resolver.NewMemResolver(map[string]string{replSourceID: ""})
	sess := session.New(res)

	var buf strings.Builder

	for {
		line, err := rl.Readline()
		if err != nil {
			// io.EOF (Ctrl-D) or readline.ErrInterrupt (Ctrl-C): either way,
			// the session is over.
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":reset" {
			buf.Reset()
			res.Set(replSourceID, "")
			continue
		}

		buf.WriteString(line)
		buf.WriteString("\n")
		res.Set(replSourceID, buf.String())

		result, err := sess.Compile(context.Background(), replSourceID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR %s\n", err)
			continue
		}

		for _, d := range result.Diagnostics {
			fmt.Println(diag.Render(d))
		}
		if result.Success {
			fmt.Printf("OK - %d label(s)\n", len(result.Labels.Labels))
		}
	}
}
