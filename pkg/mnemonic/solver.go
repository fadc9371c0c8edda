package mnemonic

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/Klingon-tech/seedsmith/pkg/crypto"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
)

var (
	ErrIncompletePrefix = errors.New("mnemonic prefix has empty slots")
	ErrInvalidBits      = errors.New("invalid free bits")
)

// FinalWord is the result of solving the last word of a mnemonic.
type FinalWord struct {
	Word         string
	Index        int
	FreeBits     string // caller-chosen high bits of the final word
	ChecksumBits string // derived low bits of the final word
}

// FreeBits returns how many bits of the final word the caller chooses:
// 7 for 12 words, 3 for 24 words.
func FreeBits(wordCount int) (int, error) {
	cs, err := ChecksumBits(wordCount)
	if err != nil {
		return 0, err
	}
	return BitsPerWord - cs, nil
}

// ChecksumBits returns the number of checksum bits in the final word.
func ChecksumBits(wordCount int) (int, error) {
	n, err := EntropyLen(wordCount)
	if err != nil {
		return 0, err
	}
	return n * 8 / 32, nil
}

// SolveFinalWord computes the final word that makes prefix+word a valid
// mnemonic. prefix holds the first N-1 words (an empty string marks an unfilled
// slot). freeBits holds the final word's free bits as '0'/'1' characters; an
// empty string means all zeros. prefix is never modified.
func SolveFinalWord(wl *wordlist.WordList, prefix []string, freeBits string) (FinalWord, error) {
	wordCount := len(prefix) + 1
	entLen, err := EntropyLen(wordCount)
	if err != nil {
		return FinalWord{}, err
	}
	nFree, _ := FreeBits(wordCount)
	nCS, _ := ChecksumBits(wordCount)

	for i, w := range prefix {
		if w == "" {
			return FinalWord{}, fmt.Errorf("%w: slot %d", ErrIncompletePrefix, i+1)
		}
	}
	bits, err := indexBits(wl, prefix)
	if err != nil {
		return FinalWord{}, err
	}

	free := zeroBits(nFree)
	if freeBits != "" {
		parsed, ok := parseBits(freeBits)
		if !ok || len(parsed) != nFree {
			return FinalWord{}, fmt.Errorf("%w: want %d bits of 0/1, got %q", ErrInvalidBits, nFree, freeBits)
		}
		free = parsed
	}
	bits = append(bits, free...)

	entropy := bits.bytes()
	if len(entropy) != entLen {
		return FinalWord{}, fmt.Errorf("%w: %d entropy bytes", ErrInvalidEntropyLength, len(entropy))
	}
	sum := sha256.Sum256(entropy)
	crypto.Zero(entropy)
	cs := bitsOf(sum[:])[:nCS]

	last := append(append(bitString{}, free...), cs...)
	idx := int(last.uint(0, BitsPerWord))
	word, _ := wl.Word(idx)

	return FinalWord{
		Word:         word,
		Index:        idx,
		FreeBits:     free.String(),
		ChecksumBits: cs.String(),
	}, nil
}

// FreeBitsFromWord returns the high free bits of a word chosen for the final
// slot of a wordCount-word mnemonic.
func FreeBitsFromWord(wl *wordlist.WordList, word string, wordCount int) (string, error) {
	nFree, err := FreeBits(wordCount)
	if err != nil {
		return "", err
	}
	idx, ok := wl.Index(word)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownWord, word)
	}
	bits := bitString{}.appendUint(uint(idx), BitsPerWord)
	return bits[:nFree].String(), nil
}
