package seed

import (
	"encoding/hex"
	"fmt"

	"github.com/Klingon-tech/seedsmith/pkg/crypto"
	"github.com/tyler-smith/go-bip32"
)

// MasterSeedSize is the length of a derived master seed in bytes (512 bits).
const MasterSeedSize = 64

// HDKey represents a hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != MasterSeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", MasterSeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add bip32.FirstHardenedChild to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *HDKey) PublicKeyBytes() []byte {
	pub := k.key.PublicKey()
	return pub.Key
}

// Fingerprint returns the first four bytes of HASH160 of the public key,
// hex encoded.
func (k *HDKey) Fingerprint() string {
	return hex.EncodeToString(crypto.Hash160(k.PublicKeyBytes())[:4])
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.key.Depth
}

// Neuter returns a public-key-only copy.
func (k *HDKey) Neuter() *HDKey {
	return &HDKey{key: k.key.PublicKey()}
}

// ExtendedPublicKey serializes the public half of the key with the
// network's version bytes.
func (k *HDKey) ExtendedPublicKey(net Network) (string, error) {
	version, err := net.PublicKeyVersion()
	if err != nil {
		return "", err
	}
	pub := *k.key.PublicKey()
	pub.Version = version
	out := pub.B58Serialize()
	if out == "" {
		return "", fmt.Errorf("serialize extended public key")
	}
	return out, nil
}
