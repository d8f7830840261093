// Package config loads runtime configuration for the gophauth CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional JSON or YAML file given with --config / -c.
//  3. Command-line flags that were set explicitly.
//
// File keys:
//
//	server_url: http://127.0.0.1:8080/api
//	storage_path: ~/.config/gophauth/session.db
//	request_timeout: 10s
//	expiry_check_interval: 30s
//	log_format: text
//	log_level: warn
package config
