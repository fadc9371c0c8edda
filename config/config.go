// Package config handles application configuration.
//
// Settings come from three layers, later ones winning: built-in defaults, a
// key = value .conf file in the data directory, and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/Klingon-tech/seedsmith/internal/seed"
)

// Config holds runtime configuration.
type Config struct {
	// Core
	Network seed.Network `conf:"network"`
	DataDir string       `conf:"datadir"`

	// Word entry
	Wordlist WordlistConfig

	// Registry store
	Storage StorageConfig

	// Entropy capture
	Entropy EntropyConfig

	// Share splitting defaults
	Shares SharesConfig

	// Logging
	Log LogConfig
}

// WordlistConfig selects the wordlist used for new mnemonics.
type WordlistConfig struct {
	Language string `conf:"wordlist.language"`
}

// StorageConfig selects the registry backend. Both backends are memory-only.
type StorageConfig struct {
	Backend string `conf:"storage.backend"` // memory or badger
}

// EntropyConfig holds entropy capture settings.
type EntropyConfig struct {
	DeviceIDPath string `conf:"entropy.deviceid"` // File holding the device serial
	WordCount    int    `conf:"entropy.words"`    // 12 or 24
}

// SharesConfig holds the default threshold and share count for splitting.
type SharesConfig struct {
	Threshold int `conf:"shares.threshold"`
	Count     int `conf:"shares.count"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.seedsmith
//	macOS:   ~/Library/Application Support/Seedsmith
//	Windows: %APPDATA%\Seedsmith
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".seedsmith"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Seedsmith")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Seedsmith")
		}
		return filepath.Join(home, "AppData", "Roaming", "Seedsmith")
	default:
		return filepath.Join(home, ".seedsmith")
	}
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "seedsmith.conf")
}
