// Package config provides configuration loading and validation for credkit
// consumers.
//
// It uses Viper to load configuration from files and environment variables,
// supporting multiple formats (YAML, JSON, TOML) and environment-specific
// overrides.
//
// # Usage
//
//	var cfg identity.Config
//	err := config.LoadConfig("cuidar-api", &cfg)
//
// Environment variables override file values using underscore-separated
// paths (e.g., AUTH_JWT_SECRET sets auth.jwt.secret). Variables from a .env
// file found in the standard locations are applied on top of the YAML file.
package config
