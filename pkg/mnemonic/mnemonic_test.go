package mnemonic

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
	"github.com/tyler-smith/go-bip39"
)

var english = wordlist.MustLoad(wordlist.English)

func TestFromEntropy_ZeroEntropy(t *testing.T) {
	tests := []struct {
		name    string
		entropy []byte
		want    string
	}{
		{
			name:    "16 zero bytes",
			entropy: make([]byte, 16),
			want:    "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
		},
		{
			name:    "32 zero bytes",
			entropy: make([]byte, 32),
			want:    "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, err := FromEntropy(english, tt.entropy)
			if err != nil {
				t.Fatalf("FromEntropy() error: %v", err)
			}
			if got := Phrase(english, words); got != tt.want {
				t.Errorf("FromEntropy() = %q, want %q", got, tt.want)
			}
			if words[0] != "abandon" {
				t.Errorf("first word = %q, want index-0 word", words[0])
			}
		})
	}
}

func TestFromEntropy_MatchesBIP39(t *testing.T) {
	for _, size := range []int{128, 256} {
		for i := 0; i < 20; i++ {
			entropy, err := bip39.NewEntropy(size)
			if err != nil {
				t.Fatalf("NewEntropy() error: %v", err)
			}
			want, err := bip39.NewMnemonic(entropy)
			if err != nil {
				t.Fatalf("NewMnemonic() error: %v", err)
			}
			words, err := FromEntropy(english, entropy)
			if err != nil {
				t.Fatalf("FromEntropy() error: %v", err)
			}
			if got := Phrase(english, words); got != want {
				t.Fatalf("FromEntropy() = %q, want %q", got, want)
			}

			back, err := ToEntropy(english, words)
			if err != nil {
				t.Fatalf("ToEntropy() error: %v", err)
			}
			if !bytes.Equal(back, entropy) {
				t.Fatal("ToEntropy() did not round-trip")
			}
		}
	}
}

// Zero entropy encodes as word 0 repeated, then the checksum word: index 3
// for 12 words and 102 for 24.
func TestFromEntropy_OtherLanguages(t *testing.T) {
	for _, lang := range []wordlist.Language{wordlist.Spanish, wordlist.Japanese, wordlist.ChineseTraditional} {
		t.Run(string(lang), func(t *testing.T) {
			wl := wordlist.MustLoad(lang)
			first, _ := wl.Word(0)
			for _, tt := range []struct{ size, last int }{{16, 3}, {32, 102}} {
				words, err := FromEntropy(wl, make([]byte, tt.size))
				if err != nil {
					t.Fatalf("FromEntropy() error: %v", err)
				}
				lastWord, _ := wl.Word(tt.last)
				if words[0] != first || words[len(words)-1] != lastWord {
					t.Fatalf("FromEntropy(%d zero bytes) = %q", tt.size, words)
				}
				back, err := ToEntropy(wl, words)
				if err != nil {
					t.Fatalf("ToEntropy() error: %v", err)
				}
				if !bytes.Equal(back, make([]byte, tt.size)) {
					t.Fatal("ToEntropy() did not round-trip")
				}
				if !IsValid(wl, words) {
					t.Error("IsValid() = false")
				}
			}
		})
	}

	// The shared go-bip39 list is English again afterwards.
	if got := bip39.GetWordList()[0]; got != "abandon" {
		t.Errorf("go-bip39 word 0 = %q, want abandon", got)
	}
}

func TestFromEntropy_Concurrent(t *testing.T) {
	spanish := wordlist.MustLoad(wordlist.Spanish)
	entropy := make([]byte, 16)
	wantEn, _ := english.Word(3)
	wantEs, _ := spanish.Word(3)

	var wg sync.WaitGroup
	errs := make(chan string, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if w, err := FromEntropy(english, entropy); err != nil || w[11] != wantEn {
				errs <- fmt.Sprintf("english: %q %v", w, err)
			}
		}()
		go func() {
			defer wg.Done()
			if w, err := FromEntropy(spanish, entropy); err != nil || w[11] != wantEs {
				errs <- fmt.Sprintf("spanish: %q %v", w, err)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		phrase string
		want   bool
	}{
		{"tone flat shed cool census soul paddle boy flight fantasy stem social", true},
		{"TONE flat shed cool census soul paddle boy flight fantasy stem social", false},
		{"blush twice taste dawn feed second opinion lazy thumb play neglect zoo", false},
		// Valid for go-bip39 but not a supported length.
		{"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon address", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValid(english, Split(tt.phrase)); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.phrase, got, tt.want)
		}
	}
}

func TestFromEntropy_BadLength(t *testing.T) {
	for _, n := range []int{0, 15, 20, 24, 33} {
		if _, err := FromEntropy(english, make([]byte, n)); !errors.Is(err, ErrInvalidEntropyLength) {
			t.Errorf("FromEntropy(%d bytes) error = %v, want ErrInvalidEntropyLength", n, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		phrase  string
		wantErr error
	}{
		{
			name:   "valid 12 words",
			phrase: "tone flat shed cool census soul paddle boy flight fantasy stem social",
		},
		{
			name:   "valid 24 words",
			phrase: "cotton artefact spy mind wing there echo steak child oak awful host despair online bicycle divorce middle firm diamond rare execute chimney almost hollow",
		},
		{
			name:    "wrong checksum word",
			phrase:  "blush twice taste dawn feed second opinion lazy thumb play neglect zoo",
			wantErr: ErrInvalidChecksum,
		},
		{
			name:    "unknown word",
			phrase:  "blush twice taste dawn feed second opinion lazy thumb play neglect klingon",
			wantErr: ErrUnknownWord,
		},
		{
			name:    "wrong length",
			phrase:  "abandon abandon abandon",
			wantErr: ErrInvalidWordCount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(english, Split(tt.phrase))
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	for _, n := range []int{Words12, Words24} {
		words, err := Generate(english, n)
		if err != nil {
			t.Fatalf("Generate(%d) error: %v", n, err)
		}
		if len(words) != n {
			t.Errorf("Generate(%d) = %d words", n, len(words))
		}
		if err := Validate(english, words); err != nil {
			t.Errorf("generated mnemonic invalid: %v", err)
		}
		if !bip39.IsMnemonicValid(strings.Join(words, " ")) {
			t.Error("generated mnemonic rejected by go-bip39")
		}
	}
	if _, err := Generate(english, 13); !errors.Is(err, ErrInvalidWordCount) {
		t.Errorf("Generate(13) error = %v, want ErrInvalidWordCount", err)
	}
}
