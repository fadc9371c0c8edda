package seed

import (
	"fmt"
	"slices"

	"github.com/Klingon-tech/seedsmith/internal/log"
	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
	"golang.org/x/text/unicode/norm"
)

// Builder collects the parts of a Seed and validates them in Build.
//
//	s, err := seed.NewBuilder(wl).Words(words).Passphrase("x").Build()
type Builder struct {
	wl         *wordlist.WordList
	words      []string
	passphrase string
	variant    Variant
	override   string
}

// NewBuilder starts a standard-variant seed over wl.
func NewBuilder(wl *wordlist.WordList) *Builder {
	return &Builder{wl: wl, variant: Standard}
}

// Words sets the mnemonic words.
func (b *Builder) Words(words []string) *Builder {
	b.words = slices.Clone(words)
	return b
}

// Phrase sets the mnemonic words from a whitespace separated phrase.
func (b *Builder) Phrase(phrase string) *Builder {
	b.words = mnemonic.Split(phrase)
	return b
}

// Passphrase sets the optional passphrase. It is stored NFKD-normalized.
func (b *Builder) Passphrase(p string) *Builder {
	b.passphrase = norm.NFKD.String(p)
	return b
}

// Variant sets the seed variant.
func (b *Builder) Variant(v Variant) *Builder {
	b.variant = v
	return b
}

// DerivationOverride pins the derivation path used when callers pass none.
func (b *Builder) DerivationOverride(path string) *Builder {
	b.override = path
	return b
}

// Build validates the collected parts. Checksum failures wrap
// mnemonic.ErrInvalidChecksum.
func (b *Builder) Build() (*Seed, error) {
	if b.wl == nil {
		return nil, fmt.Errorf("seed builder: no wordlist")
	}
	if b.override != "" {
		if _, err := ParsePath(b.override); err != nil {
			return nil, err
		}
	}

	words := make([]string, len(b.words))
	for i, w := range b.words {
		c, ok := b.wl.Canonical(w)
		if !ok {
			return nil, fmt.Errorf("%w: word %d %q", mnemonic.ErrUnknownWord, i+1, w)
		}
		words[i] = c
	}

	s := &Seed{
		lang:       b.wl.Language(),
		sep:        b.wl.Separator(),
		words:      words,
		passphrase: b.passphrase,
		variant:    b.variant,
		override:   b.override,
	}

	switch b.variant {
	case Standard:
		if err := mnemonic.Validate(b.wl, words); err != nil {
			return nil, err
		}
	case Electrum:
		if b.wl.Language() != wordlist.English {
			return nil, fmt.Errorf("%w: electrum seeds are english only", ErrUnsupportedVariant)
		}
		if len(words) != mnemonic.Words12 && len(words) != mnemonic.Words24 {
			return nil, fmt.Errorf("%w: got %d", mnemonic.ErrInvalidWordCount, len(words))
		}
		s.electrum = ElectrumSeedKind(s.Phrase())
		if s.electrum == ElectrumNone {
			return nil, fmt.Errorf("%w: not an electrum seed", mnemonic.ErrInvalidChecksum)
		}
		if s.override == "" {
			s.override = electrumDefaultPath
			if s.electrum == ElectrumSegwit {
				s.override = electrumSegwitPath
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVariant, b.variant)
	}

	log.Seeds.Debug().
		Str("variant", s.variant.String()).
		Str("language", string(s.lang)).
		Int("words", len(words)).
		Msg("Seed built")
	return s, nil
}
