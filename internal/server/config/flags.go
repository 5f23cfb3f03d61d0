package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/authdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     listen address (e.g. "127.0.0.1:5000")
//	-t duration   shutdown timeout (e.g. "5s")
//	-m bool       register answers with a message only
//	-l string     log level
//	-f string     log format
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to run server")
	fs.DurationVar(&cfg.ShutdownTimeout, "t", cfg.ShutdownTimeout, "graceful shutdown timeout")
	fs.BoolVar(&cfg.RegisterMessageOnly, "m", cfg.RegisterMessageOnly, "register without opening a session")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")

	if err := fs.Parse(flagx.Select(args, "a", "t", "m", "l", "f")); err != nil {
		panic(err)
	}
}
