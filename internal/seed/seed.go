// Package seed models validated mnemonic seeds and the keys derived from
// them.
//
// A Seed is immutable and can only be obtained from a Builder, so every Seed
// in the program carries a checksum-valid word sequence. Two variants are
// supported: standard BIP-39 seeds in any supported language, and English
// Electrum seeds.
package seed

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Klingon-tech/seedsmith/internal/log"
	"github.com/Klingon-tech/seedsmith/pkg/crypto"
	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrUnsupportedVariant = errors.New("operation not supported for seed variant")
	ErrInvalidPath        = errors.New("invalid derivation path")
	ErrUnknownNetwork     = errors.New("unknown network")
	ErrNoPath             = errors.New("no derivation path given")
)

// Variant selects how a word sequence is validated and stretched.
type Variant int

const (
	Standard Variant = iota
	Electrum
)

func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case Electrum:
		return "electrum"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Seed is a validated mnemonic together with its optional passphrase.
type Seed struct {
	lang       wordlist.Language
	sep        string
	words      []string
	passphrase string
	variant    Variant
	electrum   ElectrumKind
	override   string
}

// Language returns the wordlist language.
func (s *Seed) Language() wordlist.Language {
	return s.lang
}

// Words returns a copy of the mnemonic words.
func (s *Seed) Words() []string {
	return slices.Clone(s.words)
}

// WordCount returns the number of words.
func (s *Seed) WordCount() int {
	return len(s.words)
}

// Phrase returns the words joined with the language's separator.
func (s *Seed) Phrase() string {
	return strings.Join(s.words, s.sep)
}

// Passphrase returns the BIP-39 (or Electrum) passphrase.
func (s *Seed) Passphrase() string {
	return s.passphrase
}

// HasPassphrase reports whether a non-empty passphrase is set.
func (s *Seed) HasPassphrase() bool {
	return s.passphrase != ""
}

// Variant returns the seed variant.
func (s *Seed) Variant() Variant {
	return s.variant
}

// ElectrumKind returns the Electrum seed type, or ElectrumNone for
// standard seeds.
func (s *Seed) ElectrumKind() ElectrumKind {
	return s.electrum
}

// DerivationOverride returns the path that replaces the caller's choice for
// this seed, or "" when there is none.
func (s *Seed) DerivationOverride() string {
	return s.override
}

// Equal reports whether two seeds have the same language, words,
// passphrase and variant.
func (s *Seed) Equal(other *Seed) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.lang == other.lang &&
		s.passphrase == other.passphrase &&
		s.variant == other.variant &&
		slices.Equal(s.words, other.words)
}

// WithPassphrase returns a copy of the seed carrying passphrase, NFKD
// normalized.
func (s *Seed) WithPassphrase(passphrase string) *Seed {
	c := *s
	c.words = slices.Clone(s.words)
	c.passphrase = norm.NFKD.String(passphrase)
	return &c
}

// Entropy returns the entropy encoded by a standard seed.
func (s *Seed) Entropy() ([]byte, error) {
	if s.variant != Standard {
		return nil, fmt.Errorf("%w: entropy of %s seed", ErrUnsupportedVariant, s.variant)
	}
	wl, err := wordlist.Load(s.lang)
	if err != nil {
		return nil, err
	}
	return mnemonic.ToEntropy(wl, s.words)
}

// MasterSeed stretches the phrase and passphrase into the 64-byte BIP-32
// seed.
func (s *Seed) MasterSeed() []byte {
	defer log.Benchmark("master seed")()
	if s.variant == Electrum {
		return electrumMasterSeed(s.Phrase(), s.passphrase)
	}
	return bip39.NewSeed(norm.NFKD.String(s.Phrase()), s.passphrase)
}

// MasterKey returns the BIP-32 master key.
func (s *Seed) MasterKey() (*HDKey, error) {
	ms := s.MasterSeed()
	defer crypto.Zero(ms)
	return NewMasterKey(ms)
}

// Fingerprint returns the master key fingerprint as 8 hex characters. The
// fingerprint does not depend on the network; net is only validated.
func (s *Seed) Fingerprint(net Network) (string, error) {
	if _, err := net.Params(); err != nil {
		return "", err
	}
	master, err := s.MasterKey()
	if err != nil {
		return "", err
	}
	return master.Fingerprint(), nil
}

// XPub derives the key at path and returns its extended public key
// serialized for net. When the seed has a derivation override, an empty
// path uses it.
func (s *Seed) XPub(net Network, path string) (string, error) {
	if path == "" {
		path = s.override
	}
	if path == "" {
		return "", ErrNoPath
	}
	indices, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	master, err := s.MasterKey()
	if err != nil {
		return "", err
	}
	key, err := master.DerivePath(indices...)
	if err != nil {
		return "", fmt.Errorf("derive %s: %w", path, err)
	}
	return key.ExtendedPublicKey(net)
}

func (s *Seed) String() string {
	return fmt.Sprintf("Seed(%s, %s, %d words)", s.variant, s.lang, len(s.words))
}
