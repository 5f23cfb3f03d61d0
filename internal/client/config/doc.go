// Package config loads runtime configuration for the authdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment (see parseEnv). A .env file in the working directory is
//     loaded first; variables already set in the process win over it.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   server origin, e.g. http://127.0.0.1:5000
//	-u string   API base: a path resolved against -a, or an absolute URL
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (text, json, zap)
//
// Environment
//
//	AUTHDESK_SERVER_ADDR, AUTHDESK_API_URL, AUTHDESK_LOG_LEVEL, AUTHDESK_LOG_FORMAT
//
// # JSON schema
//
//	{
//	  "server_addr": "http://127.0.0.1:5000",
//	  "api_url": "/api",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
