/*
Dpc compiles one or more DP dialogue script files and reports diagnostics.

Usage:

	dpc [flags] FILE [FILE ...]

Each FILE is compiled as a root source; its imports are resolved relative
to it and compiled transitively. Diagnostics are printed to stdout in the
order they were produced, rendered with a word-wrapped message and a
cursor line under the offending column where source text is available.

The flags are:

	-v, --version
		Give the current version of dpc and then exit.

	--config FILE
		Load a TOML configuration file before applying environment
		variables and flags (see internal/config).

Exit status is 0 if every given file compiled with no errors, 1 if any
file produced at least one error diagnostic, and 2 if a file could not be
read at all.
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/dpc/internal/config"
	"github.com/dekarrin/dpc/internal/diag"
	"github.com/dekarrin/dpc/internal/resolver"
	"github.com/dekarrin/dpc/internal/session"
)

const (
	ExitSuccess = iota
	ExitCompileErrors
	ExitInitError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of dpc and then exit.")
	flagConfig  = pflag.String("config", "", "Path to a TOML configuration file.")
)

const version = "0.1.0"

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("dpc %s\n", version)
		return
	}

	args := pflag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "No source files given.\nDo -h for help.\n")
		os.Exit(ExitInitError)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL could not load config: %s\n", err)
		os.Exit(ExitInitError)
	}
	cfg.ApplyFlags(pflag.CommandLine)

	sess := session.New(resolver.FSResolver{})
	allOK := true
	readFailed := false

	for _, path := range args {
		result, err := sess.Compile(context.Background(), path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
			readFailed = true
			continue
		}

		for _, d := range result.Diagnostics {
			fmt.Println(diag.Render(d))
		}
		if !result.Success {
			allOK = false
		}
	}

	if readFailed {
		os.Exit(ExitInitError)
	}
	if !allOK {
		os.Exit(ExitCompileErrors)
	}
}
