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
//	-a string   server origin
//	-u string   API base path or URL
//	-l string   log level
//	-f string   log format
//
// Only these flags are picked out of args (flagx.Select), so -c/-config and
// anything else on the command line does not break parsing.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "server origin")
	fs.StringVar(&cfg.APIURL, "u", cfg.APIURL, "api base path or absolute url")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")

	if err := fs.Parse(flagx.Select(args, "a", "u", "l", "f")); err != nil {
		panic(err)
	}
}
