// Package config loads runtime configuration for the tgcloud client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Environment variables; a .env file in the working directory fills in
//     whatever the process environment does not set.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-b string   storage backend: telegram or s3
//	-s string   session file
//	-d string   upload history file
//	-p string   default phone number for auth
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "backend": "telegram",
//	  "api_id": 12345,
//	  "api_hash": "0123456789abcdef",
//	  "session_file": "telegram_cloud.session",
//	  "store_path": "telegram_cloud.json",
//	  "log_level": "info",
//	  "s3": {"bucket": "uploads", "region": "eu-central-1", "prefix": "me"}
//	}
//
// Primary API
//
//   - type Config: runtime settings
//   - func LoadConfig(args) (*Config, error): defaults, JSON, env, flags, then Validate
//   - func (*Config) Validate() error: per-backend checks, wraps common.ErrConfig
package config
