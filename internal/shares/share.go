// Package shares splits a mnemonic's entropy into SLIP-39 threshold shares
// and recombines them.
//
// A share is a phrase over the 1024-word share list. Its 10-bit words carry
//
//	id(15) | extendable(1) | iteration exponent(4) |
//	group index(4) | group threshold-1(4) | group count-1(4) |
//	member index(4) | member threshold-1(4) | value | checksum(30)
//
// A 16-byte secret yields 20-word shares, a 32-byte secret 33-word shares.
package shares

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
)

// Share layout constants.
const (
	headerWords = 4
	digestLen   = 4
	idBits      = 15

	Words16 = 20 // words per share of a 16-byte secret
	Words32 = 33 // words per share of a 32-byte secret
)

var (
	ErrIncompleteShareSet = errors.New("not enough shares to recover the secret")
	ErrShareSetMismatch   = errors.New("shares do not belong to the same set")
	ErrInvalidShareWidth  = errors.New("share must be 20 or 33 words")
	ErrInvalidSecret      = errors.New("secret must be 16 or 32 bytes")
	ErrInvalidParameters  = errors.New("invalid share parameters")
	ErrInvalidPadding     = errors.New("share value has non-zero padding")
)

// params are the fields every share of a set agrees on.
type params struct {
	id         uint16
	extendable bool
	exponent   byte
}

// Share is one decoded share.
type Share struct {
	ID                uint16
	Extendable        bool
	IterationExponent byte
	GroupIndex        int
	GroupThreshold    int
	GroupCount        int
	MemberIndex       int
	MemberThreshold   int
	Value             []byte
}

func (s Share) params() params {
	return params{id: s.ID, extendable: s.Extendable, exponent: s.IterationExponent}
}

// WordCount returns the share width for a secret of secretLen bytes.
func WordCount(secretLen int) (int, error) {
	switch secretLen {
	case 16:
		return Words16, nil
	case 32:
		return Words32, nil
	}
	return 0, fmt.Errorf("%w: got %d", ErrInvalidSecret, secretLen)
}

// SecretLen returns the secret length carried by shares of wordCount words.
func SecretLen(wordCount int) (int, error) {
	switch wordCount {
	case Words16:
		return 16, nil
	case Words32:
		return 32, nil
	}
	return 0, fmt.Errorf("%w: got %d", ErrInvalidShareWidth, wordCount)
}

// ValidWordCount reports whether n is a supported share width.
func ValidWordCount(n int) bool {
	_, err := SecretLen(n)
	return err == nil
}

// Encode renders the share as words.
func (s Share) Encode() ([]string, error) {
	if _, err := WordCount(len(s.Value)); err != nil {
		return nil, err
	}
	if err := s.checkHeader(); err != nil {
		return nil, err
	}
	ext := 0
	if s.Extendable {
		ext = 1
	}
	gc := s.GroupCount - 1
	data := []int{
		int(s.ID) >> 5,
		int(s.ID)&0x1F<<5 | ext<<4 | int(s.IterationExponent),
		s.GroupIndex<<6 | (s.GroupThreshold-1)<<2 | gc>>2,
		gc&3<<8 | s.MemberIndex<<4 | (s.MemberThreshold - 1),
	}
	data = append(data, bytesToWords(s.Value)...)
	data = append(data, rs1024Checksum(s.Extendable, data)...)

	out := make([]string, len(data))
	for i, v := range data {
		out[i] = words[v]
	}
	return out, nil
}

func (s Share) checkHeader() error {
	switch {
	case s.ID >= 1<<idBits:
		return fmt.Errorf("%w: id %d", ErrInvalidParameters, s.ID)
	case s.IterationExponent > 15:
		return fmt.Errorf("%w: iteration exponent %d", ErrInvalidParameters, s.IterationExponent)
	case s.GroupCount < 1 || s.GroupCount > MaxShares,
		s.GroupThreshold < 1 || s.GroupThreshold > s.GroupCount,
		s.GroupIndex < 0 || s.GroupIndex >= s.GroupCount:
		return fmt.Errorf("%w: group %d, threshold %d of %d",
			ErrInvalidParameters, s.GroupIndex, s.GroupThreshold, s.GroupCount)
	case s.MemberThreshold < 1 || s.MemberThreshold > MaxShares,
		s.MemberIndex < 0 || s.MemberIndex >= MaxShares:
		return fmt.Errorf("%w: member %d, threshold %d",
			ErrInvalidParameters, s.MemberIndex, s.MemberThreshold)
	}
	return nil
}

// Decode parses a share, verifying its word list membership and checksum.
func Decode(shareWords []string) (Share, error) {
	secretLen, err := SecretLen(len(shareWords))
	if err != nil {
		return Share{}, err
	}
	data := make([]int, len(shareWords))
	for i, w := range shareWords {
		idx, ok := WordIndex(w)
		if !ok {
			return Share{}, fmt.Errorf("%w: %q", mnemonic.ErrUnknownWord, w)
		}
		data[i] = idx
	}

	extendable := data[1]>>4&1 == 1
	if !rs1024Verify(extendable, data) {
		return Share{}, mnemonic.ErrInvalidChecksum
	}

	value, err := wordsToBytes(data[headerWords : len(data)-checksumWords])
	if err != nil {
		return Share{}, err
	}
	if len(value) != secretLen {
		return Share{}, fmt.Errorf("%w: got %d", ErrInvalidSecret, len(value))
	}

	s := Share{
		ID:                uint16(data[0]<<5 | data[1]>>5),
		Extendable:        extendable,
		IterationExponent: byte(data[1] & 0xF),
		GroupIndex:        data[2] >> 6,
		GroupThreshold:    data[2]>>2&0xF + 1,
		GroupCount:        (data[2]&3<<2 | data[3]>>8) + 1,
		MemberIndex:       data[3] >> 4 & 0xF,
		MemberThreshold:   data[3]&0xF + 1,
		Value:             value,
	}
	if s.GroupThreshold > s.GroupCount {
		return Share{}, fmt.Errorf("%w: group threshold %d exceeds group count %d",
			ErrInvalidParameters, s.GroupThreshold, s.GroupCount)
	}
	return s, nil
}

// DecodePhrase splits phrase on whitespace and decodes it.
func DecodePhrase(phrase string) (Share, error) {
	return Decode(mnemonic.Split(phrase))
}

// Validate checks that words form a well-formed share.
func Validate(shareWords []string) error {
	_, err := Decode(shareWords)
	return err
}

// Phrase joins share words with single spaces.
func Phrase(shareWords []string) string {
	return strings.Join(shareWords, " ")
}

// bytesToWords packs b into 10-bit values, left-padding with zero bits.
func bytesToWords(b []byte) []int {
	n := (len(b)*8 + 9) / 10
	out := make([]int, 0, n)
	var acc uint32
	bits := uint(n*10 - len(b)*8)
	for _, v := range b {
		acc = acc<<8 | uint32(v)
		bits += 8
		for bits >= 10 {
			bits -= 10
			out = append(out, int(acc>>bits)&0x3FF)
			acc &= 1<<bits - 1
		}
	}
	return out
}

// wordsToBytes is the inverse of bytesToWords. The padding bits must be zero.
func wordsToBytes(values []int) ([]byte, error) {
	total := len(values) * 10
	pad := uint(total % 16)
	out := make([]byte, 0, (total-int(pad))/8)
	var acc uint32
	var bits uint
	for i, v := range values {
		acc = acc<<10 | uint32(v)
		bits += 10
		if i == 0 && pad > 0 {
			if acc>>(bits-pad) != 0 {
				return nil, ErrInvalidPadding
			}
			bits -= pad
			acc &= 1<<bits - 1
		}
		for bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
			acc &= 1<<bits - 1
		}
	}
	return out, nil
}
