package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds runtime settings for the authdesk CLI.
//
// Fields:
//   - ServerAddr: origin of the deployment, e.g. http://127.0.0.1:5000.
//   - APIURL: base of the authentication API. Either a path ("/api") that is
//     resolved against ServerAddr, or an absolute URL that replaces it.
//   - LogLevel, LogFormat: see logging.New.
type Config struct {
	ServerAddr string
	APIURL     string
	LogLevel   string
	LogFormat  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "http://127.0.0.1:5000"
	c.APIURL = "/api"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}

// BaseURL returns the absolute API base URL without a trailing slash.
func (c *Config) BaseURL() (string, error) {
	api, err := url.Parse(strings.TrimSpace(c.APIURL))
	if err != nil {
		return "", fmt.Errorf("invalid api url %q: %w", c.APIURL, err)
	}
	if api.IsAbs() {
		return strings.TrimRight(api.String(), "/"), nil
	}

	origin, err := url.Parse(strings.TrimSpace(c.ServerAddr))
	if err != nil {
		return "", fmt.Errorf("invalid server address %q: %w", c.ServerAddr, err)
	}
	if !origin.IsAbs() || origin.Host == "" {
		return "", fmt.Errorf("server address %q must be an absolute URL", c.ServerAddr)
	}
	if !strings.HasPrefix(api.Path, "/") {
		api.Path = "/" + api.Path
	}

	return strings.TrimRight(origin.ResolveReference(api).String(), "/"), nil
}
