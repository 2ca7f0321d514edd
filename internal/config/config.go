// Package config loads engine configuration from flags, environment variables
// and an optional .env file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AppTag identifies backups produced by this application. Import rejects
// backup files carrying a different tag.
const AppTag = "moodmark"

// Config holds the engine configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Remote RemoteConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-device storage configuration.
type DataConfig struct {
	// BasePath is the directory holding the local database.
	BasePath string
}

// RemoteConfig holds remote store adapter configuration. An empty BaseURL
// means no remote is configured and the engine runs local-only.
type RemoteConfig struct {
	BaseURL string
	Token   string
	OwnerID string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Load reads configuration with precedence:
// 1. Command-line flags (highest).
// 2. Environment variables.
// 3. .env file.
// 4. Defaults (lowest).
func Load() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for local storage")
	remoteURL := flag.String("remote-url", "", "Remote store base URL (empty = local-only)")
	remoteToken := flag.String("remote-token", "", "Bearer token for the remote store")
	ownerID := flag.String("owner-id", "", "Authenticated owner identity for sync")
	remoteTimeout := flag.String("remote-timeout", "", "Remote request timeout (default: 30s)")
	envFile := flag.String("env-file", ".env", "Path to .env file")
	flag.Parse()

	// Load .env if present (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Remote: RemoteConfig{
			BaseURL: getConfigValue(*remoteURL, "REMOTE_URL", ""),
			Token:   getConfigValue(*remoteToken, "REMOTE_TOKEN", ""),
			OwnerID: getConfigValue(*ownerID, "OWNER_ID", ""),
			RPS:     getFloatConfigValue("", "REMOTE_RPS", 5.0),
			Burst:   getIntConfigValue("", "REMOTE_BURST", 10),
		},
	}

	timeoutStr := getConfigValue(*remoteTimeout, "REMOTE_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid remote timeout %q: %w", timeoutStr, err)
	}
	cfg.Remote.Timeout = timeout

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	// Sync needs an owner identity when a remote is configured.
	if c.Remote.BaseURL != "" && c.Remote.OwnerID == "" {
		return errors.New("OWNER_ID is required when REMOTE_URL is set")
	}

	return nil
}

// HasRemote reports whether a remote store is configured.
func (c *Config) HasRemote() bool { return c.Remote.BaseURL != "" }

// expandPath expands ~ and makes the path absolute. Empty paths fall back to
// defaultPath.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Moodmark", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Real env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
