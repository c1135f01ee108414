// Package config loads projmigrate settings from flags, environment variables
// and an optional YAML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyGitHubToken       = "github.token"
	KeyGitHubBaseURL     = "github.base-url"
	KeyGitHubProxyURL    = "github.proxy-url"
	KeyTelemetryDisabled = "telemetry.disabled"
	KeyUpdateCheckOff    = "update-check.disabled"
	KeyTitleMismatch     = "title-mismatch"
	KeyRateLimitInterval = "rate-limit.interval"
)

// EnvPrefix prefixes every environment variable, e.g. PROJMIGRATE_GITHUB_TOKEN.
const EnvPrefix = "PROJMIGRATE"

var v *viper.Viper

// Initialize sets up the viper instance, reading the default config file if
// one exists.
func Initialize() error {
	return InitializeWithFile("")
}

// InitializeWithFile sets up the viper instance. A non-empty path must point
// at a readable config file; otherwise the default location is tried and a
// missing file is fine.
func InitializeWithFile(path string) error {
	v = viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyGitHubToken, "")
	v.SetDefault(KeyGitHubBaseURL, "https://api.github.com")
	v.SetDefault(KeyGitHubProxyURL, "")
	v.SetDefault(KeyTelemetryDisabled, false)
	v.SetDefault(KeyUpdateCheckOff, false)
	v.SetDefault(KeyTitleMismatch, "warn")
	v.SetDefault(KeyRateLimitInterval, 30*time.Second)

	// The token is commonly exported as GITHUB_TOKEN by CI and the gh CLI.
	if err := v.BindEnv(KeyGitHubToken, EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return fmt.Errorf("binding %s: %w", KeyGitHubToken, err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
		return nil
	}

	dir, err := Dir()
	if err != nil {
		// No home directory; run on flags and environment alone.
		return nil
	}
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// Dir returns the directory holding config.yaml.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "projmigrate"), nil
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// Set overrides a key, typically from an explicitly passed flag.
func Set(key string, value interface{}) {
	ensure()
	v.Set(key, value)
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	ensure()
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	ensure()
	return v.GetBool(key)
}

// GetDuration retrieves a duration configuration value.
func GetDuration(key string) time.Duration {
	ensure()
	return v.GetDuration(key)
}

// ResetForTesting drops the viper instance so the next access re-initializes.
func ResetForTesting() {
	v = nil
}

func ensure() {
	if v == nil {
		_ = Initialize()
	}
}
