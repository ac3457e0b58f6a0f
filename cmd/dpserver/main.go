/*
Dpserver starts the DP compiler-frontend-as-a-service HTTP API.

Usage:

	dpserver [flags]

Once started, dpserver listens for HTTP requests and exposes
POST /api/v1/compile and GET /api/v1/definition, both gated behind a
bearer JWT signed with the configured token secret.

The flags are:

	-v, --version
		Give the current version of dpserver and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, falls back to the DP_LISTEN_ADDRESS
		environment variable, then the config file, then "localhost:8080".

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If not given, falls
		back to DP_TOKEN_SECRET, then the config file, then a randomly
		generated secret (in which case all tokens become invalid at
		shutdown, which is fine for local testing but not production use).

	--cache-dir DIR
		Directory for the persistent sqlite compile-result cache. If empty,
		the cache is in-memory only for the life of the process.

	--config FILE
		Load a TOML configuration file before applying environment
		variables and flags.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/dpc/internal/cachestore"
	"github.com/dekarrin/dpc/internal/config"
	"github.com/dekarrin/dpc/internal/resolver"
	"github.com/dekarrin/dpc/internal/service"
	"github.com/dekarrin/dpc/internal/session"
)

const version = "0.1.0"

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of dpserver and then exit.")
	flagListen   = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret   = pflag.StringP("secret", "s", "", "Use the given secret for token signing.")
	flagCacheDir = pflag.String("cache-dir", "", "Directory for the persistent compile-result cache.")
	flagConfig   = pflag.String("config", "", "Path to a TOML configuration file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("dpserver %s\n", version)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments.\nDo -h for help.\n")
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "[dpserver] ", log.LstdFlags)

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		logger.Fatalf("FATAL could not load config: %s", err)
	}
	cfg.ApplyFlags(pflag.CommandLine)

	secret := []byte(cfg.TokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			logger.Fatalf("FATAL could not generate token secret: %s", err)
		}
		logger.Printf("WARN  using generated token secret; all tokens issued will become invalid at shutdown")
	}

	sess := session.New(resolver.FSResolver{})

	if cfg.CacheDir != "" {
		if err := os.MkdirAll(cfg.CacheDir, 0770); err != nil {
			logger.Fatalf("FATAL could not create cache directory: %s", err)
		}
		store, err := cachestore.Open(cfg.CacheDir)
		if err != nil {
			logger.Fatalf("FATAL could not open compile-result cache: %s", err)
		}
		defer store.Close()
		sess.UseCacheStore(store)
	}

	svc := service.New(sess, secret, logger)

	addr := cfg.ListenAddress
	if addr == "" {
		addr = "localhost:8080"
	}

	logger.Printf("INFO  listening on %s", addr)
	if err := http.ListenAndServe(addr, svc.Router()); err != nil {
		logger.Fatalf("FATAL server stopped: %s", err)
	}
}
