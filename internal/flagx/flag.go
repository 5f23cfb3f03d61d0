// Package flagx lets several loaders share one command line: each picks out
// only the flags it owns and parses them with its own flag.FlagSet.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Select returns the subset of args that belongs to the named flags.
//
// Names are given without dashes; both "-name" and "--name" spellings match.
// Supported forms are "-name value" and "-name=value". A value is taken from
// the next argument only when it does not itself start with '-'.
// The result is never nil.
func Select(args []string, names ...string) []string {
	owned := make(map[string]struct{}, len(names))
	for _, n := range names {
		owned[n] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if _, ok := owned[name]; !ok {
			continue
		}

		out = append(out, arg)
		if hasValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigPath extracts the JSON config file path given with -c or -config.
// It returns "" when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Select(args, "c", "config"))

	return path
}
