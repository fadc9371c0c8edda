package seed

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network selects the version bytes used when serializing extended keys.
type Network string

// Supported networks.
const (
	Mainnet Network = "main"
	Testnet Network = "test"
	Regtest Network = "regtest"
	Signet  Network = "signet"
)

// Networks lists every supported network.
func Networks() []Network {
	return []Network{Mainnet, Testnet, Regtest, Signet}
}

// ParseNetwork accepts a network name or one of its common aliases.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "main", "mainnet", "bitcoin":
		return Mainnet, nil
	case "test", "testnet", "testnet3":
		return Testnet, nil
	case "regtest":
		return Regtest, nil
	case "signet":
		return Signet, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, s)
}

// Params returns the chain parameters for the network.
func (n Network) Params() (*chaincfg.Params, error) {
	switch n {
	case Mainnet:
		return &chaincfg.MainNetParams, nil
	case Testnet:
		return &chaincfg.TestNet3Params, nil
	case Regtest:
		return &chaincfg.RegressionNetParams, nil
	case Signet:
		return &chaincfg.SigNetParams, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownNetwork, string(n))
}

// PublicKeyVersion returns the 4-byte version prefix of extended public keys.
func (n Network) PublicKeyVersion() ([]byte, error) {
	params, err := n.Params()
	if err != nil {
		return nil, err
	}
	version := params.HDPublicKeyID
	return version[:], nil
}

// CoinType returns the BIP-44 coin type for the network: 0 on mainnet,
// 1 everywhere else.
func (n Network) CoinType() (uint32, error) {
	params, err := n.Params()
	if err != nil {
		return 0, err
	}
	return params.HDCoinType, nil
}

func (n Network) String() string {
	return string(n)
}
