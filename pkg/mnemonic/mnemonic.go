// Package mnemonic converts between entropy and 12 or 24 word BIP-39
// mnemonics through go-bip39 and solves the final word of a partially chosen
// mnemonic.
package mnemonic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Klingon-tech/seedsmith/pkg/crypto"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
	"github.com/tyler-smith/go-bip39"
)

// BitsPerWord is the number of bits each word encodes.
const BitsPerWord = 11

// Supported mnemonic lengths.
const (
	Words12 = 12
	Words24 = 24
)

var (
	ErrInvalidChecksum      = errors.New("invalid mnemonic checksum")
	ErrUnknownWord          = errors.New("word not in wordlist")
	ErrInvalidEntropyLength = errors.New("entropy must be 16 or 32 bytes")
	ErrInvalidWordCount     = errors.New("mnemonic must be 12 or 24 words")
)

// WordCountFor returns the mnemonic length for an entropy length in bytes.
func WordCountFor(entropyLen int) (int, error) {
	switch entropyLen {
	case 16:
		return Words12, nil
	case 32:
		return Words24, nil
	}
	return 0, fmt.Errorf("%w: got %d", ErrInvalidEntropyLength, entropyLen)
}

// EntropyLen returns the entropy length in bytes for a mnemonic length.
func EntropyLen(wordCount int) (int, error) {
	switch wordCount {
	case Words12:
		return 16, nil
	case Words24:
		return 32, nil
	}
	return 0, fmt.Errorf("%w: got %d", ErrInvalidWordCount, wordCount)
}

func indexBits(wl *wordlist.WordList, words []string) (bitString, error) {
	bits := make(bitString, 0, len(words)*BitsPerWord)
	for i, w := range words {
		idx, ok := wl.Index(w)
		if !ok {
			return nil, fmt.Errorf("%w: word %d %q", ErrUnknownWord, i+1, w)
		}
		bits = bits.appendUint(uint(idx), BitsPerWord)
	}
	return bits, nil
}

// FromEntropy converts 16 or 32 bytes of entropy into a 12 or 24 word
// mnemonic.
func FromEntropy(wl *wordlist.WordList, entropy []byte) ([]string, error) {
	if _, err := WordCountFor(len(entropy)); err != nil {
		return nil, err
	}
	var phrase string
	err := wl.UseBIP39(func() error {
		var err error
		phrase, err = bip39.NewMnemonic(entropy)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("encode mnemonic: %w", err)
	}
	return strings.Split(phrase, " "), nil
}

// ToEntropy returns the entropy encoded by a 12 or 24 word mnemonic.
func ToEntropy(wl *wordlist.WordList, words []string) ([]byte, error) {
	canonical, err := canonicalWords(wl, words)
	if err != nil {
		return nil, err
	}
	var entropy []byte
	err = wl.UseBIP39(func() error {
		var err error
		entropy, err = bip39.EntropyFromMnemonic(strings.Join(canonical, " "))
		return err
	})
	switch {
	case errors.Is(err, bip39.ErrChecksumIncorrect):
		return nil, ErrInvalidChecksum
	case err != nil:
		return nil, fmt.Errorf("decode mnemonic: %w", err)
	}
	return entropy, nil
}

// Validate checks word count, membership and checksum.
func Validate(wl *wordlist.WordList, words []string) error {
	_, err := ToEntropy(wl, words)
	return err
}

// IsValid reports whether words form a valid 12 or 24 word mnemonic.
func IsValid(wl *wordlist.WordList, words []string) bool {
	canonical, err := canonicalWords(wl, words)
	if err != nil {
		return false
	}
	var ok bool
	_ = wl.UseBIP39(func() error {
		ok = bip39.IsMnemonicValid(strings.Join(canonical, " "))
		return nil
	})
	return ok
}

// canonicalWords checks the word count and maps every word to the list's
// own spelling.
func canonicalWords(wl *wordlist.WordList, words []string) ([]string, error) {
	if _, err := EntropyLen(len(words)); err != nil {
		return nil, err
	}
	out := make([]string, len(words))
	for i, w := range words {
		c, ok := wl.Canonical(w)
		if !ok {
			return nil, fmt.Errorf("%w: word %d %q", ErrUnknownWord, i+1, w)
		}
		out[i] = c
	}
	return out, nil
}

// Generate creates a mnemonic from operating system randomness.
func Generate(wl *wordlist.WordList, wordCount int) ([]string, error) {
	n, err := EntropyLen(wordCount)
	if err != nil {
		return nil, err
	}
	entropy, err := bip39.NewEntropy(n * 8)
	if err != nil {
		return nil, fmt.Errorf("generate entropy: %w", err)
	}
	defer crypto.Zero(entropy)
	return FromEntropy(wl, entropy)
}

// Phrase joins words with the list's separator.
func Phrase(wl *wordlist.WordList, words []string) string {
	return strings.Join(words, wl.Separator())
}

// Split breaks a phrase into words on any whitespace.
func Split(phrase string) []string {
	return strings.Fields(phrase)
}
