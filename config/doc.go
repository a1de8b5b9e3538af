// Package config provides configuration loading and validation for wirekit
// applications.
//
// It uses Viper to load configuration from YAML, JSON or TOML files, loads a
// .env file with godotenv when one is found, and lets WIREKIT_* environment
// variables override file values.
//
// # Usage
//
//	var cfg config.ServiceConfig
//	err := config.LoadConfig("catalog", &cfg)
//
// WIREKIT_INSPECT_ENABLED=true enables the inspection server regardless of
// what the file says.
package config
