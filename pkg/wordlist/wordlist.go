// Package wordlist provides the 2048-word mnemonic wordlists and O(1)
// lookups between words and their 11-bit indices.
package wordlist

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/text/unicode/norm"
)

// Size is the number of words in every supported list.
const Size = 2048

// Language identifies a wordlist.
type Language string

// Supported languages.
const (
	English            Language = "en"
	Spanish            Language = "es"
	French             Language = "fr"
	Italian            Language = "it"
	Japanese           Language = "ja"
	Korean             Language = "ko"
	ChineseSimplified  Language = "zh_Hans"
	ChineseTraditional Language = "zh_Hant"
)

// ErrUnknownLanguage is returned for a language code with no wordlist.
var ErrUnknownLanguage = errors.New("unknown wordlist language")

var sources = map[Language][]string{
	English:            wordlists.English,
	Spanish:            wordlists.Spanish,
	French:             wordlists.French,
	Italian:            wordlists.Italian,
	Japanese:           wordlists.Japanese,
	Korean:             wordlists.Korean,
	ChineseSimplified:  wordlists.ChineseSimplified,
	ChineseTraditional: wordlists.ChineseTraditional,
}

var (
	cacheMu sync.Mutex
	cache   = make(map[Language]*WordList)

	// bip39Mu guards go-bip39's package-level wordlist.
	bip39Mu sync.Mutex
)

// WordList is an immutable, ordered list of Size words.
type WordList struct {
	lang  Language
	words []string
	index map[string]int
}

// Load returns the wordlist for lang. Lists are built once and shared.
func Load(lang Language) (*WordList, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if wl, ok := cache[lang]; ok {
		return wl, nil
	}
	src, ok := sources[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	wl, err := build(lang, src)
	if err != nil {
		return nil, err
	}
	cache[lang] = wl
	return wl, nil
}

// MustLoad is like Load but panics on error. Intended for package-level
// variables and tests.
func MustLoad(lang Language) *WordList {
	wl, err := Load(lang)
	if err != nil {
		panic(err)
	}
	return wl
}

func build(lang Language, src []string) (*WordList, error) {
	if len(src) != Size {
		return nil, fmt.Errorf("wordlist %q has %d words, want %d", lang, len(src), Size)
	}
	wl := &WordList{
		lang:  lang,
		words: make([]string, Size),
		index: make(map[string]int, Size),
	}
	for i, w := range src {
		key := norm.NFKD.String(w)
		if _, dup := wl.index[key]; dup {
			return nil, fmt.Errorf("wordlist %q: duplicate word %q", lang, w)
		}
		wl.words[i] = w
		wl.index[key] = i
	}
	return wl, nil
}

// Languages returns every supported language code.
func Languages() []Language {
	return []Language{
		English, Spanish, French, Italian, Japanese, Korean,
		ChineseSimplified, ChineseTraditional,
	}
}

// Language returns the list's language code.
func (w *WordList) Language() Language {
	return w.lang
}

// Word returns the word at index i.
func (w *WordList) Word(i int) (string, bool) {
	if i < 0 || i >= len(w.words) {
		return "", false
	}
	return w.words[i], true
}

// Index returns the index of word. The lookup is NFKD-normalized.
func (w *WordList) Index(word string) (int, bool) {
	i, ok := w.index[norm.NFKD.String(word)]
	return i, ok
}

// Contains reports whether word is in the list.
func (w *WordList) Contains(word string) bool {
	_, ok := w.Index(word)
	return ok
}

// Canonical returns the list's own spelling of word.
func (w *WordList) Canonical(word string) (string, bool) {
	i, ok := w.Index(word)
	if !ok {
		return "", false
	}
	return w.words[i], true
}

// Words returns a copy of the list.
func (w *WordList) Words() []string {
	out := make([]string, len(w.words))
	copy(out, w.words)
	return out
}

// Separator returns the string used between words of a phrase.
func (w *WordList) Separator() string {
	if w.lang == Japanese {
		return "　"
	}
	return " "
}

// UseBIP39 runs fn with this list installed as go-bip39's wordlist and
// restores the English default afterwards. Calls are serialized.
func (w *WordList) UseBIP39(fn func() error) error {
	bip39Mu.Lock()
	defer bip39Mu.Unlock()

	if w.lang != English {
		bip39.SetWordList(w.words)
		defer bip39.SetWordList(wordlists.English)
	}
	return fn()
}
