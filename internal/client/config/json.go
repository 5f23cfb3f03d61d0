package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authdesk/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty fields
// leave the current value untouched.
type JsonConfig struct {
	ServerAddr string `json:"server_addr"`
	APIURL     string `json:"api_url"`
	LogLevel   string `json:"log_level"`
	LogFormat  string `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing.
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

	setIfNotEmpty(&cfg.ServerAddr, jc.ServerAddr)
	setIfNotEmpty(&cfg.APIURL, jc.APIURL)
	setIfNotEmpty(&cfg.LogLevel, jc.LogLevel)
	setIfNotEmpty(&cfg.LogFormat, jc.LogFormat)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
