package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/seedsmith/internal/seed"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = seed.Network(value)
	case "datadir":
		cfg.DataDir = value

	// Word entry
	case "wordlist.language", "language":
		cfg.Wordlist.Language = value

	// Storage
	case "storage.backend":
		cfg.Storage.Backend = strings.ToLower(value)

	// Entropy
	case "entropy.deviceid":
		cfg.Entropy.DeviceIDPath = value
	case "entropy.words":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Entropy.WordCount = n

	// Shares
	case "shares.threshold":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Shares.Threshold = n
	case "shares.count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Shares.Count = n

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string, network seed.Network) error {
	content := `# Seedsmith Configuration
#
# Seeds, passphrases and shares are never written here or anywhere else
# on disk.

# Network for fingerprints and extended keys: main, test, regtest or signet
network = ` + string(network) + `

# Data directory (default: ~/.seedsmith)
# datadir = ~/.seedsmith

# ============================================================================
# Word Entry
# ============================================================================

# Wordlist language: en, es, fr, it, ja, ko, zh_Hans, zh_Hant
wordlist.language = en

# ============================================================================
# Registry Store
# ============================================================================

# Backend: memory or badger (both in memory only)
storage.backend = memory

# ============================================================================
# Entropy
# ============================================================================

# File holding the device serial mixed into captured entropy
# entropy.deviceid = /proc/cpuinfo

# Mnemonic length for new seeds: 12 or 24
entropy.words = 24

# ============================================================================
# Shares
# ============================================================================

shares.threshold = 2
shares.count = 3

# ============================================================================
# Logging
# ============================================================================

log.level = warn
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0600)
}
