// Package config loads, normalizes, and validates filmtrend configuration
// from TOML files and environment variables.
package config
