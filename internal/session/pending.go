package session

import (
	"fmt"
	"slices"

	"github.com/Klingon-tech/seedsmith/internal/seed"
	"github.com/Klingon-tech/seedsmith/internal/shares"
	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
)

// PendingMnemonic is a fixed-width row of word slots being filled in. An
// empty string marks an empty slot. The width never changes.
type PendingMnemonic struct {
	wl        *wordlist.WordList
	canonical func(string) (string, bool)
	slots     []string
	variant   seed.Variant
}

func newPendingMnemonic(wl *wordlist.WordList, width int, variant seed.Variant) *PendingMnemonic {
	return &PendingMnemonic{
		wl:        wl,
		canonical: wl.Canonical,
		slots:     make([]string, width),
		variant:   variant,
	}
}

// newPendingShare is a pending mnemonic whose slots take words from the
// share wordlist.
func newPendingShare(wl *wordlist.WordList, width int) *PendingMnemonic {
	p := newPendingMnemonic(wl, width, seed.Standard)
	p.canonical = shares.Canonical
	return p
}

// Len returns the number of slots.
func (p *PendingMnemonic) Len() int {
	return len(p.slots)
}

// Variant returns the variant the words are meant for.
func (p *PendingMnemonic) Variant() seed.Variant {
	return p.variant
}

// Word returns the word in a slot ("" when empty).
func (p *PendingMnemonic) Word(ref SlotRef) (string, error) {
	i, err := ref.Resolve(len(p.slots))
	if err != nil {
		return "", err
	}
	return p.slots[i], nil
}

// Set writes word into a slot. The empty string clears the slot.
func (p *PendingMnemonic) Set(ref SlotRef, word string) error {
	i, err := ref.Resolve(len(p.slots))
	if err != nil {
		return err
	}
	if word == "" {
		p.slots[i] = ""
		return nil
	}
	canonical, ok := p.canonical(word)
	if !ok {
		return fmt.Errorf("%w: %q", mnemonic.ErrUnknownWord, word)
	}
	p.slots[i] = canonical
	return nil
}

// Words returns a copy of the slots.
func (p *PendingMnemonic) Words() []string {
	return slices.Clone(p.slots)
}

// Complete reports whether every slot holds a word.
func (p *PendingMnemonic) Complete() bool {
	return !slices.Contains(p.slots, "")
}

// Filled returns the number of non-empty slots.
func (p *PendingMnemonic) Filled() int {
	n := 0
	for _, w := range p.slots {
		if w != "" {
			n++
		}
	}
	return n
}

// build constructs a Seed from the slots.
func (p *PendingMnemonic) build() (*seed.Seed, error) {
	if !p.Complete() {
		return nil, fmt.Errorf("%w: %d of %d filled", ErrIncompleteMnemonic, p.Filled(), len(p.slots))
	}
	return seed.NewBuilder(p.wl).Words(p.slots).Variant(p.variant).Build()
}

func (p *PendingMnemonic) wipe() {
	for i := range p.slots {
		p.slots[i] = ""
	}
}
