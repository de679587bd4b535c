// Package config provides Viper-backed configuration helpers for the CLI.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Configuration keys for input paths. Each key also resolves from the
// matching environment variable (REGISTRY_FILE, EXECUTIVES_FILE, ...).
const (
	KeyRegistryFile      = "registry_file"
	KeyExecutivesFile    = "executives_file"
	KeyFacilitiesFile    = "facilities_file"
	KeyOrganizationsFile = "organizations_file"
	KeyContactsFile      = "contacts_file"
	KeyPlanDir           = "plan_dir"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// Viper misses env vars it was never told about; fall back to the OS.
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// InputPath resolves an input path: an explicit flag value wins,
// otherwise the config key (or its environment variable) decides.
func InputPath(flagValue, key string) string {
	if flagValue != "" {
		return flagValue
	}
	return GetString(key)
}
