// Package config provides configuration loading for aopkit.
//
// Settings are read from aopkit.yml (searched in standard locations or
// given explicitly), overlaid with AOPKIT_-prefixed environment variables,
// optionally seeded from a .env file. The result carries the default proxy
// flags and the logging configuration.
//
//	var settings config.Settings
//	if err := config.Load(&settings); err != nil { ... }
//	logger.Init(settings.Logging)
package config
