package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authdesk/internal/flagx"
	"github.com/dmitrijs2005/authdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Pointer fields distinguish "absent" from the zero value.
type JsonConfig struct {
	Addr                string          `json:"addr"`
	ShutdownTimeout     *timex.Duration `json:"shutdown_timeout"`
	RegisterMessageOnly *bool           `json:"register_message_only"`
	LogLevel            string          `json:"log_level"`
	LogFormat           string          `json:"log_format"`
}

// parseJson overlays Config with the JSON file named by -c or -config.
//
// Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Addr != "" {
		cfg.Addr = jc.Addr
	}
	if jc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
	if jc.RegisterMessageOnly != nil {
		cfg.RegisterMessageOnly = *jc.RegisterMessageOnly
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
}
