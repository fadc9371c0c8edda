package config

import (
	"github.com/Klingon-tech/seedsmith/internal/entropy"
	"github.com/Klingon-tech/seedsmith/internal/seed"
	"github.com/Klingon-tech/seedsmith/internal/storage"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
)

// Default returns the default configuration for the given network.
func Default(network seed.Network) *Config {
	if network == "" {
		network = seed.Mainnet
	}
	return &Config{
		Network: network,
		DataDir: DefaultDataDir(),
		Wordlist: WordlistConfig{
			Language: string(wordlist.English),
		},
		Storage: StorageConfig{
			Backend: storage.BackendMemory,
		},
		Entropy: EntropyConfig{
			DeviceIDPath: entropy.DefaultCPUInfoPath,
			WordCount:    24,
		},
		Shares: SharesConfig{
			Threshold: 2,
			Count:     3,
		},
		Log: LogConfig{
			Level: "warn",
			JSON:  false,
		},
	}
}
