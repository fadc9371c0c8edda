package config

import (
	"fmt"

	"github.com/Klingon-tech/seedsmith/internal/log"
	"github.com/Klingon-tech/seedsmith/internal/seed"
	"github.com/Klingon-tech/seedsmith/internal/shares"
	"github.com/Klingon-tech/seedsmith/internal/storage"
	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
)

// Validate checks runtime config for obvious operator mistakes. The network
// name is normalized in place.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	net, err := seed.ParseNetwork(string(cfg.Network))
	if err != nil {
		return fmt.Errorf("network: %w", err)
	}
	cfg.Network = net

	if _, err := wordlist.Load(wordlist.Language(cfg.Wordlist.Language)); err != nil {
		return fmt.Errorf("wordlist.language: %w", err)
	}

	switch cfg.Storage.Backend {
	case storage.BackendMemory, storage.BackendBadger:
	default:
		return fmt.Errorf("storage.backend must be %q or %q", storage.BackendMemory, storage.BackendBadger)
	}

	if _, err := mnemonic.EntropyLen(cfg.Entropy.WordCount); err != nil {
		return fmt.Errorf("entropy.words: %w", err)
	}

	if err := shares.CheckParameters(cfg.Shares.Threshold, cfg.Shares.Count); err != nil {
		return fmt.Errorf("shares: %w", err)
	}

	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}

	return nil
}
