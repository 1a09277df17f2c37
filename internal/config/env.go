// Package config loads and validates the services' configuration: required
// environment variables plus strict JSON configuration files.
package config

import (
	"fmt"
	"os"
)

// Environment variable names.
const (
	EnvCentralConfig = "CENCON_CONFIG"
	EnvCentralDB     = "CENCON_DB"
	EnvCentralPinout = "CENCON_PINOUT"
	EnvConsoleConfig = "PWRCON_CONFIG"
)

// RequiredEnv returns the variable's value, or an error when it is unset or
// empty. Missing required variables are fatal at service start.
func RequiredEnv(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}

// Env returns the variable's value, or fallback when it is unset.
func Env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
