// Package config provides configuration management for the mcpb CLI and
// the values supplied when a bundle is resolved.
//
// # Application Configuration
//
// The application config lives at ~/.config/mcpb/config.yaml (or under
// $MCPB_CONFIG_DIR) and is managed through Viper. Environment variables
// prefixed with MCPB_ override file values.
//
//	version: 1
//	strict: false          # treat warnings as failures in `mcpb validate`
//	log_format: text       # or json
//	values: ~/mcpb/values.yaml
//	user_config:
//	  weather-server:
//	    region: eu-west-1
//
// Call [Init] once at startup and then [Load].
//
// # Resolve Values
//
// [LoadValues] reads a values file in YAML, TOML or JSON:
//
//	user_config:
//	  api_key: sk-example
//	system_config:
//	  port: 8080
//	oauth:
//	  access_token: abc
//
// [CheckUserValues] and [CheckSystemValues] check values against the
// manifest's declarations before resolution. Their errors name fields,
// never values.
package config
