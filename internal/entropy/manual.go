package entropy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
)

// Dice roll counts per mnemonic length. 50 rolls of a d6 carry just over
// 128 bits, 99 rolls just over 256.
const (
	DiceRolls12 = 50
	DiceRolls24 = 99
)

var (
	ErrInvalidRolls = errors.New("invalid dice rolls")
	ErrInvalidFlips = errors.New("invalid coin flips")
)

// DiceRolls returns the number of rolls needed for a wordCount-word mnemonic.
func DiceRolls(wordCount int) (int, error) {
	switch wordCount {
	case mnemonic.Words12:
		return DiceRolls12, nil
	case mnemonic.Words24:
		return DiceRolls24, nil
	}
	return 0, fmt.Errorf("%w: %d words", ErrUnsupportedLength, wordCount)
}

// MinCoinFlips returns the minimum number of flips for a wordCount-word
// mnemonic: one per bit of entropy.
func MinCoinFlips(wordCount int) (int, error) {
	n, err := OutputLen(wordCount)
	if err != nil {
		return 0, err
	}
	return n * 8, nil
}

// FromDice mixes a string of d6 rolls ('1' to '6'). Exactly DiceRolls
// rolls are required.
func FromDice(rolls string, wordCount int) ([]byte, error) {
	want, err := DiceRolls(wordCount)
	if err != nil {
		return nil, err
	}
	if len(rolls) != want {
		return nil, fmt.Errorf("%w: got %d rolls, want %d", ErrInvalidRolls, len(rolls), want)
	}
	for i := 0; i < len(rolls); i++ {
		if rolls[i] < '1' || rolls[i] > '6' {
			return nil, fmt.Errorf("%w: roll %d is %q", ErrInvalidRolls, i+1, rolls[i])
		}
	}
	return Mix(wordCount, []byte(rolls))
}

// CanonicalFlips maps a flip string to '0'/'1'. 'H'/'h' count as 1,
// 'T'/'t' as 0. Whitespace is ignored.
func CanonicalFlips(flips string) (string, error) {
	var b strings.Builder
	b.Grow(len(flips))
	for i, r := range flips {
		switch r {
		case '0', 'T', 't':
			b.WriteByte('0')
		case '1', 'H', 'h':
			b.WriteByte('1')
		case ' ', '\t', '\n', '\r':
		default:
			return "", fmt.Errorf("%w: %q at offset %d", ErrInvalidFlips, r, i)
		}
	}
	return b.String(), nil
}

// FromCoinFlips mixes a string of coin flips. At least MinCoinFlips flips
// are required.
func FromCoinFlips(flips string, wordCount int) ([]byte, error) {
	need, err := MinCoinFlips(wordCount)
	if err != nil {
		return nil, err
	}
	canon, err := CanonicalFlips(flips)
	if err != nil {
		return nil, err
	}
	if len(canon) < need {
		return nil, fmt.Errorf("%w: got %d flips, need at least %d", ErrInvalidFlips, len(canon), need)
	}
	return Mix(wordCount, []byte(canon))
}
