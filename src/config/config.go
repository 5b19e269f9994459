// Package config collects settings for the viewer, reader and server from
// defaults, an optional .env file, the environment and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/iafilius/PopulationPyramid/src/logging"
	"github.com/iafilius/PopulationPyramid/src/pyramid"
	"github.com/iafilius/PopulationPyramid/src/source"
)

// Environment variable names.
const (
	EnvSource   = "PYRAMID_SOURCE"
	EnvLogLevel = "PYRAMID_LOG_LEVEL"
	EnvAddr     = "PYRAMID_ADDR"
	EnvMissing  = "PYRAMID_MISSING"
	EnvHeight   = "PYRAMID_HEIGHT"
)

// Config is the resolved runtime configuration.
type Config struct {
	Source   string
	LogLevel string
	Addr     string
	Missing  pyramid.MissingPolicy
	Height   int
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Source:   source.DefaultPath,
		LogLevel: "info",
		Addr:     ":8080",
		Missing:  pyramid.MissingOmit,
		Height:   pyramid.DefaultOptions().Height,
	}
}

// Load applies env files (".env" when none are given; missing files are
// skipped) and then the process environment on top of the defaults.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, p := range envFiles {
		// godotenv never overrides variables already set in the environment
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
		logging.Debugf("[config] loaded %s", p)
	}
	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSource); ok && strings.TrimSpace(v) != "" {
		c.Source = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		if _, valid := logging.ParseLevel(v); !valid {
			return fmt.Errorf("%s: unknown level %q", EnvLogLevel, v)
		}
		c.LogLevel = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup(EnvMissing); ok && v != "" {
		c.Missing = pyramid.ParseMissingPolicy(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(EnvHeight); ok && v != "" {
		h, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || h <= 0 {
			return fmt.Errorf("%s: want a positive integer, got %q", EnvHeight, v)
		}
		c.Height = h
	}
	return nil
}

// RegisterFlags binds the settings to fs, using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Source, "source", c.Source, "CSV file path or http(s) URL with Age,Male,Female columns")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&c.Addr, "addr", c.Addr, "Listen address for the HTTP server")
	fs.IntVar(&c.Height, "height", c.Height, "Chart height in pixels")
	fs.Func("missing", "Unparseable values: omit or zero (default "+string(c.Missing)+")", func(s string) error {
		switch pyramid.MissingPolicy(s) {
		case pyramid.MissingOmit, pyramid.MissingZero:
			c.Missing = pyramid.MissingPolicy(s)
			return nil
		}
		return fmt.Errorf("unknown policy %q", s)
	})
}

// Options returns the chart configuration with the configurable parts applied.
func (c Config) Options() pyramid.Options {
	o := pyramid.DefaultOptions()
	if c.Height > 0 {
		o.Height = c.Height
	}
	o.Missing = c.Missing
	return o
}

// Apply pushes process-wide settings such as the log level.
func (c Config) Apply() {
	logging.SetLevel(c.LogLevel)
}
