package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvServerAddr = "AUTHDESK_SERVER_ADDR"
	EnvAPIURL     = "AUTHDESK_API_URL"
	EnvLogLevel   = "AUTHDESK_LOG_LEVEL"
	EnvLogFormat  = "AUTHDESK_LOG_FORMAT"
)

// dotenvFiles are loaded by parseEnv. A missing file is not an error.
var dotenvFiles = []string{".env"}

// parseEnv overlays Config with AUTHDESK_* variables. godotenv.Load never
// overrides variables that are already set in the process.
func parseEnv(cfg *Config) {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			panic(err)
		}
	}

	setIfNotEmpty(&cfg.ServerAddr, os.Getenv(EnvServerAddr))
	setIfNotEmpty(&cfg.APIURL, os.Getenv(EnvAPIURL))
	setIfNotEmpty(&cfg.LogLevel, os.Getenv(EnvLogLevel))
	setIfNotEmpty(&cfg.LogFormat, os.Getenv(EnvLogFormat))
}
