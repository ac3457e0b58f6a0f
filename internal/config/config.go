// Package config loads DP compiler configuration in three layers, lowest
// precedence first: a TOML file, then DP_*-prefixed environment variables,
// then command-line flags (mirroring the teacher's env-var-then-flag
// layering in cmd/tqserver/main.go, extended here with a file layer).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/dekarrin/dpc/internal/dpcerrors"
)

const (
	EnvListenAddress = "DP_LISTEN_ADDRESS"
	EnvTokenSecret   = "DP_TOKEN_SECRET"
	EnvCacheDir      = "DP_CACHE_DIR"
)

// Defaults are the built-in values used when neither a file, an env var,
// nor a flag supplies one.
var Defaults = Config{
	ListenAddress: "localhost:8080",
	CacheDir:      "",
}

// Config is the settings shared by cmd/dpserver and cmd/dpc.
type Config struct {
	ListenAddress string `toml:"listen_address"`
	TokenSecret   string `toml:"token_secret"`
	CacheDir      string `toml:"cache_dir"`
}

// Load builds a Config starting from Defaults, overlaying a TOML file at
// path (if path is non-empty) and then DP_*-prefixed environment
// variables. Call ApplyFlags afterward to apply the highest-precedence
// layer.
func Load(path string) (Config, error) {
	cfg := Defaults

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, dpcerrors.New("cannot read config file "+path, err)
		}
	}

	if v := os.Getenv(EnvListenAddress); v != "" {
		cfg.ListenAddress = v
	}
	if v := os.Getenv(EnvTokenSecret); v != "" {
		cfg.TokenSecret = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		cfg.CacheDir = v
	}

	return cfg, nil
}

// ApplyFlags overlays any explicitly-set flags in fs onto c, following the
// teacher's `pflag.Lookup(name).Changed` convention for "was this actually
// given" rather than trusting a flag's zero value.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) {
	if fs.Changed("listen") {
		if v, err := fs.GetString("listen"); err == nil {
			c.ListenAddress = v
		}
	}
	if fs.Changed("secret") {
		if v, err := fs.GetString("secret"); err == nil {
			c.TokenSecret = v
		}
	}
	if fs.Changed("cache-dir") {
		if v, err := fs.GetString("cache-dir"); err == nil {
			c.CacheDir = v
		}
	}
}
