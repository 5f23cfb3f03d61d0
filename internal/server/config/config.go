// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: bind address of the HTTP listener.
//   - ShutdownTimeout: how long in-flight requests may take after a signal.
//   - RegisterMessageOnly: answer /register with a message and no session.
//   - LogLevel, LogFormat: see logging.New.
type Config struct {
	Addr                string
	ShutdownTimeout     time.Duration
	RegisterMessageOnly bool
	LogLevel            string
	LogFormat           string
}

// LoadDefaults populates c with the values the CLI expects out of the box.
func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:5000"
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
