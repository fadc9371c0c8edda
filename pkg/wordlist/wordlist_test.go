package wordlist

import (
	"errors"
	"testing"

	"github.com/tyler-smith/go-bip39"
)

func TestLoad_AllLanguages(t *testing.T) {
	for _, lang := range Languages() {
		wl, err := Load(lang)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", lang, err)
		}
		if got := len(wl.Words()); got != Size {
			t.Errorf("Load(%q) has %d words, want %d", lang, got, Size)
		}
		if wl.Language() != lang {
			t.Errorf("Language() = %q, want %q", wl.Language(), lang)
		}
	}
}

func TestLoad_Cached(t *testing.T) {
	a := MustLoad(English)
	b := MustLoad(English)
	if a != b {
		t.Error("Load should return the same instance for a language")
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("xx")
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("Load(xx) error = %v, want ErrUnknownLanguage", err)
	}
}

func TestEnglishLookups(t *testing.T) {
	wl := MustLoad(English)

	tests := []struct {
		word  string
		index int
	}{
		{"abandon", 0},
		{"ability", 1},
		{"about", 3},
		{"art", 102},
		{"zoo", 2047},
	}
	for _, tt := range tests {
		i, ok := wl.Index(tt.word)
		if !ok || i != tt.index {
			t.Errorf("Index(%q) = %d, %v; want %d", tt.word, i, ok, tt.index)
		}
		w, ok := wl.Word(tt.index)
		if !ok || w != tt.word {
			t.Errorf("Word(%d) = %q, %v; want %q", tt.index, w, ok, tt.word)
		}
	}

	if _, ok := wl.Word(Size); ok {
		t.Error("Word(Size) should be out of range")
	}
	if _, ok := wl.Word(-1); ok {
		t.Error("Word(-1) should be out of range")
	}
	if wl.Contains("notaword") {
		t.Error("Contains(notaword) = true")
	}
}

func TestWordsIsCopy(t *testing.T) {
	wl := MustLoad(English)
	words := wl.Words()
	words[0] = "mutated"
	if w, _ := wl.Word(0); w != "abandon" {
		t.Errorf("Word(0) = %q after mutating copy", w)
	}
}

func TestSeparator(t *testing.T) {
	if MustLoad(English).Separator() != " " {
		t.Error("English separator should be a space")
	}
	if MustLoad(Japanese).Separator() != "　" {
		t.Error("Japanese separator should be an ideographic space")
	}
}

func TestUseBIP39(t *testing.T) {
	es := MustLoad(Spanish)
	sentinel := errors.New("stop")

	err := es.UseBIP39(func() error {
		if w := bip39.GetWordList()[0]; w != es.words[0] {
			t.Errorf("go-bip39 word 0 = %q, want %q", w, es.words[0])
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("UseBIP39() error = %v, want the callback error", err)
	}
	if w := bip39.GetWordList()[0]; w != "abandon" {
		t.Errorf("go-bip39 word 0 after UseBIP39 = %q, want abandon", w)
	}
}
