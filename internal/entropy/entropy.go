// Package entropy folds several entropy sources into the fixed-width secret
// behind a new mnemonic.
//
// Sources are chained through SHA-256: the first source is hashed on its
// own, every later source is hashed together with the running state. A
// 12-word mnemonic uses the first 16 bytes of the final state, a 24-word
// mnemonic all 32.
package entropy

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/Klingon-tech/seedsmith/internal/log"
	"github.com/Klingon-tech/seedsmith/pkg/crypto"
	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
)

var (
	ErrUnsupportedLength = errors.New("unsupported mnemonic length")
	ErrNoEntropy         = errors.New("no entropy sources to mix")
)

// fallbackState seeds the chain when the first source is unavailable.
var fallbackState = []byte("0")

// OutputLen returns how many mixed bytes a mnemonic of wordCount words uses.
func OutputLen(wordCount int) (int, error) {
	switch wordCount {
	case mnemonic.Words12:
		return 16, nil
	case mnemonic.Words24:
		return 32, nil
	}
	return 0, fmt.Errorf("%w: %d words", ErrUnsupportedLength, wordCount)
}

// Mix chains sources through SHA-256 and returns the entropy for a
// wordCount-word mnemonic. A nil or empty first source is replaced by the
// fallback state instead of being hashed; at least one source must then
// follow it.
func Mix(wordCount int, sources ...[]byte) ([]byte, error) {
	n, err := OutputLen(wordCount)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, ErrNoEntropy
	}

	var state []byte
	if len(sources[0]) == 0 {
		if len(sources) == 1 {
			return nil, ErrNoEntropy
		}
		state = append([]byte(nil), fallbackState...)
		log.Entropy.Debug().Msg("First entropy source unavailable, using fallback state")
	} else {
		sum := sha256.Sum256(sources[0])
		state = sum[:]
	}

	h := sha256.New()
	for _, src := range sources[1:] {
		h.Reset()
		h.Write(state)
		h.Write(src)
		crypto.Zero(state)
		state = h.Sum(nil)
	}

	out := make([]byte, n)
	copy(out, state)
	crypto.Zero(state)

	log.Entropy.Debug().
		Int("sources", len(sources)).
		Int("bytes", n).
		Msg("Entropy mixed")
	return out, nil
}

// ToMnemonic mixes sources and encodes the result as a mnemonic.
func ToMnemonic(wl *wordlist.WordList, wordCount int, sources ...[]byte) ([]string, error) {
	ent, err := Mix(wordCount, sources...)
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(ent)
	return mnemonic.FromEntropy(wl, ent)
}
