package session

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Klingon-tech/seedsmith/internal/seed"
	"github.com/Klingon-tech/seedsmith/internal/shares"
	"github.com/Klingon-tech/seedsmith/internal/storage"
	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
)

const (
	abandonAbout = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	toneFlat     = "tone flat shed cool census soul paddle boy flight fantasy stem social"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewMemory(wordlist.MustLoad(wordlist.English))
	if err != nil {
		t.Fatalf("NewMemory() error: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func buildSeed(t *testing.T, phrase, passphrase string) *seed.Seed {
	t.Helper()
	s, err := seed.NewBuilder(wordlist.MustLoad(wordlist.English)).
		Phrase(phrase).
		Passphrase(passphrase).
		Build()
	if err != nil {
		t.Fatalf("Build(%q) error: %v", phrase, err)
	}
	return s
}

func fillSlots(t *testing.T, r *Registry, words []string) {
	t.Helper()
	for i, w := range words {
		if err := r.UpdateSlot(w, At(i)); err != nil {
			t.Fatalf("UpdateSlot(%q, %d) error: %v", w, i, err)
		}
	}
}

func TestRegistry_PendingMnemonicSlots(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.UpdateSlot("abandon", First()); !errors.Is(err, ErrNoPendingMnemonic) {
		t.Fatalf("UpdateSlot() before init error = %v, want ErrNoPendingMnemonic", err)
	}
	if err := r.InitPendingMnemonic(15, seed.Standard); err == nil {
		t.Fatal("InitPendingMnemonic(15) should fail")
	}
	if err := r.InitPendingMnemonic(12, seed.Standard); err != nil {
		t.Fatalf("InitPendingMnemonic() error: %v", err)
	}
	if r.PendingLength() != 12 {
		t.Fatalf("PendingLength() = %d, want 12", r.PendingLength())
	}

	if err := r.UpdateSlot("zoo", At(12)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("UpdateSlot(At(12)) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := r.UpdateSlot("zoo", SlotIndex(-1)); err != nil {
		t.Fatalf("UpdateSlot(-1) error: %v", err)
	}
	words := r.PendingMnemonic()
	if words[11] != "zoo" {
		t.Fatalf("last slot = %q, want zoo", words[11])
	}
	for i, w := range words[:11] {
		if w != "" {
			t.Errorf("slot %d = %q, want empty", i, w)
		}
	}

	if err := r.UpdateSlot("notaword", First()); !errors.Is(err, mnemonic.ErrUnknownWord) {
		t.Fatalf("UpdateSlot(notaword) error = %v, want ErrUnknownWord", err)
	}
	if err := r.UpdateSlot("", Last()); err != nil {
		t.Fatalf("UpdateSlot(\"\") error: %v", err)
	}
	if w, _ := r.PendingWord(Last()); w != "" {
		t.Errorf("cleared slot = %q", w)
	}

	// Returned slots are copies.
	words = r.PendingMnemonic()
	words[0] = "zoo"
	if w, _ := r.PendingWord(First()); w != "" {
		t.Errorf("PendingMnemonic() exposed internal slots")
	}
}

func TestRegistry_FingerprintPreview(t *testing.T) {
	r := newTestRegistry(t)
	if _, ok := r.FingerprintPreview(seed.Mainnet); ok {
		t.Fatal("FingerprintPreview() without mnemonic should be unavailable")
	}
	if err := r.InitPendingMnemonic(12, seed.Standard); err != nil {
		t.Fatalf("InitPendingMnemonic() error: %v", err)
	}

	words := strings.Fields(abandonAbout)
	fillSlots(t, r, words[:11])
	if _, ok := r.FingerprintPreview(seed.Mainnet); ok {
		t.Fatal("FingerprintPreview() of incomplete mnemonic should be unavailable")
	}

	fillSlots(t, r, append(words[:11:11], "abandon"))
	if _, ok := r.FingerprintPreview(seed.Mainnet); ok {
		t.Fatal("FingerprintPreview() with bad checksum should be unavailable")
	}

	if err := r.UpdateSlot("about", Last()); err != nil {
		t.Fatalf("UpdateSlot() error: %v", err)
	}
	fp, ok := r.FingerprintPreview(seed.Mainnet)
	if !ok {
		t.Fatal("FingerprintPreview() unavailable for valid mnemonic")
	}
	if fp != "73c5da0a" {
		t.Errorf("FingerprintPreview() = %s, want 73c5da0a", fp)
	}
}

func TestRegistry_CalcFinalWord(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.CalcFinalWord(""); !errors.Is(err, ErrNoPendingMnemonic) {
		t.Fatalf("CalcFinalWord() error = %v, want ErrNoPendingMnemonic", err)
	}
	if err := r.InitPendingMnemonic(12, seed.Standard); err != nil {
		t.Fatalf("InitPendingMnemonic() error: %v", err)
	}
	words := strings.Fields(abandonAbout)

	fillSlots(t, r, words[:10])
	if _, err := r.CalcFinalWord(""); !errors.Is(err, mnemonic.ErrIncompletePrefix) {
		t.Fatalf("CalcFinalWord() with gap error = %v, want ErrIncompletePrefix", err)
	}

	fillSlots(t, r, words[:11])
	fw, err := r.CalcFinalWord("")
	if err != nil {
		t.Fatalf("CalcFinalWord() error: %v", err)
	}
	if fw.Word != "about" {
		t.Errorf("CalcFinalWord() = %q, want about", fw.Word)
	}
	if w, _ := r.PendingWord(Last()); w != "about" {
		t.Errorf("last slot = %q, want about", w)
	}

	if _, err := r.CalcFinalWord("101"); !errors.Is(err, mnemonic.ErrInvalidBits) {
		t.Errorf("CalcFinalWord(101) error = %v, want ErrInvalidBits", err)
	}

	if err := r.UpdateSlot("zoo", Last()); err != nil {
		t.Fatalf("UpdateSlot() error: %v", err)
	}
	fw, err = r.CalcFinalWordFromSelection()
	if err != nil {
		t.Fatalf("CalcFinalWordFromSelection() error: %v", err)
	}
	if fw.Word != "wrap" || fw.FreeBits != "1111111" {
		t.Errorf("CalcFinalWordFromSelection() = %+v, want wrap/1111111", fw)
	}
	if !r.Validate(r.PendingMnemonic()) {
		t.Error("solved mnemonic does not validate")
	}
}

func TestRegistry_CalcFinalWordElectrum(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.InitPendingMnemonic(12, seed.Electrum); err != nil {
		t.Fatalf("InitPendingMnemonic() error: %v", err)
	}
	fillSlots(t, r, strings.Fields(abandonAbout)[:11])
	if _, err := r.CalcFinalWord(""); !errors.Is(err, seed.ErrUnsupportedVariant) {
		t.Fatalf("CalcFinalWord() error = %v, want ErrUnsupportedVariant", err)
	}
}

func TestRegistry_ConvertAndFinalize(t *testing.T) {
	r := newTestRegistry(t)

	if _, err := r.Finalize(); !errors.Is(err, ErrNoPendingSeed) {
		t.Fatalf("Finalize() error = %v, want ErrNoPendingSeed", err)
	}
	if _, err := r.ConvertToPendingSeed(); !errors.Is(err, ErrNoPendingMnemonic) {
		t.Fatalf("ConvertToPendingSeed() error = %v, want ErrNoPendingMnemonic", err)
	}

	if err := r.InitPendingMnemonic(12, seed.Standard); err != nil {
		t.Fatalf("InitPendingMnemonic() error: %v", err)
	}
	fillSlots(t, r, strings.Fields(abandonAbout)[:11])
	if _, err := r.ConvertToPendingSeed(); !errors.Is(err, ErrIncompleteMnemonic) {
		t.Fatalf("ConvertToPendingSeed() error = %v, want ErrIncompleteMnemonic", err)
	}
	if r.PendingLength() != 12 {
		t.Fatal("failed conversion dropped the pending mnemonic")
	}

	if err := r.UpdateSlot("about", Last()); err != nil {
		t.Fatalf("UpdateSlot() error: %v", err)
	}
	s, err := r.ConvertToPendingSeed()
	if err != nil {
		t.Fatalf("ConvertToPendingSeed() error: %v", err)
	}
	if r.PendingLength() != 0 {
		t.Error("pending mnemonic kept after conversion")
	}
	if got, ok := r.PendingSeed(); !ok || !got.Equal(s) {
		t.Fatal("PendingSeed() does not hold the converted seed")
	}

	if err := r.ApplyPassphrase("TREZOR"); err != nil {
		t.Fatalf("ApplyPassphrase() error: %v", err)
	}
	pos, err := r.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if pos != 0 || r.NumSeeds() != 1 {
		t.Fatalf("Finalize() = %d with %d seeds, want 0 with 1", pos, r.NumSeeds())
	}
	if _, ok := r.PendingSeed(); ok {
		t.Error("pending seed kept after Finalize()")
	}

	stored, err := r.Seed(0)
	if err != nil {
		t.Fatalf("Seed(0) error: %v", err)
	}
	fp, err := stored.Fingerprint(seed.Mainnet)
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	if fp != "b4e3f5ed" {
		t.Errorf("stored fingerprint = %s, want b4e3f5ed", fp)
	}
	if _, err := r.Seed(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Seed(1) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestRegistry_FinalizeDeduplicates(t *testing.T) {
	r := newTestRegistry(t)

	add := func(s *seed.Seed) int {
		t.Helper()
		r.SetPendingSeed(s)
		pos, err := r.Finalize()
		if err != nil {
			t.Fatalf("Finalize() error: %v", err)
		}
		return pos
	}

	a := buildSeed(t, abandonAbout, "")
	b := buildSeed(t, toneFlat, "")
	aPass := buildSeed(t, abandonAbout, "TREZOR")

	if got := add(a); got != 0 {
		t.Fatalf("first Finalize() = %d, want 0", got)
	}
	if got := add(b); got != 1 {
		t.Fatalf("second Finalize() = %d, want 1", got)
	}
	if got := add(buildSeed(t, abandonAbout, "")); got != 0 {
		t.Fatalf("duplicate Finalize() = %d, want 0", got)
	}
	if r.NumSeeds() != 2 {
		t.Fatalf("NumSeeds() = %d after duplicate, want 2", r.NumSeeds())
	}
	if _, ok := r.PendingSeed(); ok {
		t.Error("duplicate Finalize() kept the pending seed")
	}

	// A passphrase makes a distinct seed.
	if got := add(aPass); got != 2 {
		t.Fatalf("passphrase Finalize() = %d, want 2", got)
	}

	all, err := r.Seeds()
	if err != nil {
		t.Fatalf("Seeds() error: %v", err)
	}
	want := []*seed.Seed{a, b, aPass}
	if len(all) != len(want) {
		t.Fatalf("Seeds() returned %d seeds, want %d", len(all), len(want))
	}
	for i := range want {
		if !all[i].Equal(want[i]) {
			t.Errorf("Seeds()[%d] = %s, want %s", i, all[i], want[i])
		}
	}
}

func TestRegistry_FinalizeNormalizesPassphrase(t *testing.T) {
	r := newTestRegistry(t)

	r.SetPendingSeed(buildSeed(t, toneFlat, ""))
	if err := r.ApplyPassphrase("caf\u00e9"); err != nil {
		t.Fatalf("ApplyPassphrase() error: %v", err)
	}
	first, err := r.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	r.SetPendingSeed(buildSeed(t, toneFlat, "cafe\u0301"))
	second, err := r.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if first != second || r.NumSeeds() != 1 {
		t.Fatalf("Finalize() positions %d, %d with %d seeds, want one seed", first, second, r.NumSeeds())
	}
}

func TestRegistry_FinalizeElectrumOverride(t *testing.T) {
	r := newTestRegistry(t)
	s, err := seed.NewBuilder(r.WordList()).
		Phrase("save slogan submit tomorrow utility wise ancient believe camp coconut decorate early").
		Variant(seed.Electrum).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	r.SetPendingSeed(s)
	if _, err := r.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	got, err := r.Seed(0)
	if err != nil {
		t.Fatalf("Seed(0) error: %v", err)
	}
	if got.Variant() != seed.Electrum || got.DerivationOverride() != "m/0h" {
		t.Errorf("Seed(0) = %s override %q, want electrum m/0h", got.Variant(), got.DerivationOverride())
	}
}

func TestRegistry_Validate(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.InitPendingMnemonic(12, seed.Standard); err != nil {
		t.Fatalf("InitPendingMnemonic() error: %v", err)
	}
	if err := r.UpdateSlot("zoo", First()); err != nil {
		t.Fatalf("UpdateSlot() error: %v", err)
	}

	tests := []struct {
		phrase string
		want   bool
	}{
		{toneFlat, true},
		{abandonAbout, true},
		{"tone flat shed cool census soul paddle boy flight fantasy stem stem", false},
		{"blush twice taste dawn feed second opinion lazy thumb play neglect zoo", false},
		{"tone flat shed cool census soul paddle boy flight fantasy stem", false},
		{"tone flat shed cool census soul paddle boy flight fantasy stem notaword", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := r.Validate(strings.Fields(tt.phrase)); got != tt.want {
			t.Errorf("Validate(%q) = %v, want %v", tt.phrase, got, tt.want)
		}
	}

	if r.NumSeeds() != 0 {
		t.Error("Validate() stored a seed")
	}
	if _, ok := r.PendingSeed(); ok {
		t.Error("Validate() staged a seed")
	}
	if w, _ := r.PendingWord(First()); w != "zoo" {
		t.Error("Validate() touched the pending mnemonic")
	}
}

func TestRegistry_ShareRecovery(t *testing.T) {
	r := newTestRegistry(t)

	phrases, err := r.SplitSeed(buildSeed(t, abandonAbout, ""), 2, 3, "")
	if err != nil {
		t.Fatalf("SplitSeed() error: %v", err)
	}
	if len(phrases) != 3 {
		t.Fatalf("SplitSeed() returned %d shares, want 3", len(phrases))
	}

	if err := r.InitShareSet(12, 2, seed.Standard); !errors.Is(err, shares.ErrInvalidShareWidth) {
		t.Fatalf("InitShareSet(12) error = %v, want ErrInvalidShareWidth", err)
	}
	for _, n := range []int{0, shares.MaxShares + 1} {
		if err := r.InitShareSet(shares.Words16, n, seed.Standard); !errors.Is(err, ErrInvalidShareCount) {
			t.Fatalf("InitShareSet(count %d) error = %v, want ErrInvalidShareCount", n, err)
		}
	}
	if err := r.InitShareSet(shares.Words16, 2, seed.Electrum); !errors.Is(err, seed.ErrUnsupportedVariant) {
		t.Fatalf("InitShareSet(electrum) error = %v, want ErrUnsupportedVariant", err)
	}
	if err := r.InitShareSet(shares.Words16, 2, seed.Standard); err != nil {
		t.Fatalf("InitShareSet() error: %v", err)
	}
	if r.ShareCount() != 2 || r.PendingLength() != shares.Words16 {
		t.Fatalf("share set %d x %d, want 2 x %d", r.ShareCount(), r.PendingLength(), shares.Words16)
	}

	if err := r.CommitCurrentShare(First()); !errors.Is(err, ErrIncompleteMnemonic) {
		t.Fatalf("CommitCurrentShare() empty error = %v, want ErrIncompleteMnemonic", err)
	}
	if err := r.UpdateSlot("abandon", First()); !errors.Is(err, mnemonic.ErrUnknownWord) {
		t.Fatalf("UpdateSlot(abandon) in a share set error = %v, want ErrUnknownWord", err)
	}

	// A mistyped share is rejected and stays editable.
	bad := mnemonic.Split(phrases[0])
	bad[5], bad[6] = bad[6], bad[5]
	if bad[5] != bad[6] {
		fillSlots(t, r, bad)
		if err := r.CommitCurrentShare(First()); !errors.Is(err, mnemonic.ErrInvalidChecksum) {
			t.Fatalf("CommitCurrentShare() swapped words error = %v, want ErrInvalidChecksum", err)
		}
	}

	fillSlots(t, r, mnemonic.Split(phrases[0]))
	if err := r.CommitCurrentShare(First()); err != nil {
		t.Fatalf("CommitCurrentShare(0) error: %v", err)
	}
	if r.PendingLength() != shares.Words16 || r.PendingMnemonic()[0] != "" {
		t.Fatal("commit did not start a fresh pending mnemonic")
	}
	got, err := r.Share(First())
	if err != nil {
		t.Fatalf("Share(0) error: %v", err)
	}
	if shares.Phrase(got) != phrases[0] {
		t.Errorf("Share(0) = %q, want %q", shares.Phrase(got), phrases[0])
	}

	if _, err := r.RecoverShares(""); !errors.Is(err, shares.ErrIncompleteShareSet) {
		t.Fatalf("RecoverShares() with one share error = %v, want ErrIncompleteShareSet", err)
	}

	fillSlots(t, r, mnemonic.Split(phrases[2]))
	if err := r.CommitCurrentShare(Last()); err != nil {
		t.Fatalf("CommitCurrentShare(last) error: %v", err)
	}

	s, err := r.RecoverShares("")
	if err != nil {
		t.Fatalf("RecoverShares() error: %v", err)
	}
	if s.Phrase() != abandonAbout {
		t.Errorf("RecoverShares() = %q, want %q", s.Phrase(), abandonAbout)
	}
	if pending, ok := r.PendingSeed(); !ok || !pending.Equal(s) {
		t.Error("recovered seed not staged")
	}
	if r.ShareCount() != 0 || r.PendingLength() != 0 {
		t.Error("share set kept after recovery")
	}
}

func TestRegistry_ShareVector(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.InitShareSet(shares.Words16, 1, seed.Standard); err != nil {
		t.Fatalf("InitShareSet() error: %v", err)
	}
	fillSlots(t, r, strings.Fields("duckling enlarge academic academic agency result length solution fridge kidney coal piece deal husband erode duke ajar critical decision keyboard"))
	if err := r.CommitCurrentShare(First()); err != nil {
		t.Fatalf("CommitCurrentShare() error: %v", err)
	}
	s, err := r.RecoverShares("TREZOR")
	if err != nil {
		t.Fatalf("RecoverShares() error: %v", err)
	}
	// Entropy bb54aac4b89dc868ba37d9cc21b2cece.
	want := "robust pipe raise illness symptom crowd trip will slow assault recipe oven"
	if s.Phrase() != want {
		t.Errorf("RecoverShares() = %q, want %q", s.Phrase(), want)
	}
}

func TestRegistry_ShareSetMismatch(t *testing.T) {
	r := newTestRegistry(t)

	first, err := r.SplitSeed(buildSeed(t, abandonAbout, ""), 2, 2, "")
	if err != nil {
		t.Fatalf("SplitSeed() error: %v", err)
	}
	second, err := r.SplitSeed(buildSeed(t, toneFlat, ""), 2, 2, "")
	if err != nil {
		t.Fatalf("SplitSeed() error: %v", err)
	}

	if err := r.InitShareSet(shares.Words16, 2, seed.Standard); err != nil {
		t.Fatalf("InitShareSet() error: %v", err)
	}
	fillSlots(t, r, mnemonic.Split(first[0]))
	if err := r.CommitCurrentShare(At(0)); err != nil {
		t.Fatalf("CommitCurrentShare() error: %v", err)
	}
	fillSlots(t, r, mnemonic.Split(second[1]))
	if err := r.CommitCurrentShare(At(1)); err != nil {
		t.Fatalf("CommitCurrentShare() error: %v", err)
	}

	if _, err := r.RecoverShares(""); !errors.Is(err, shares.ErrShareSetMismatch) {
		t.Fatalf("RecoverShares() error = %v, want ErrShareSetMismatch", err)
	}
	if r.ShareCount() != 2 {
		t.Error("failed recovery dropped the share set")
	}
	if _, ok := r.PendingSeed(); ok {
		t.Error("failed recovery staged a seed")
	}
}

func TestRegistry_InitDiscardsShareSet(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.InitShareSet(shares.Words32, 3, seed.Standard); err != nil {
		t.Fatalf("InitShareSet() error: %v", err)
	}
	if err := r.InitPendingMnemonic(24, seed.Standard); err != nil {
		t.Fatalf("InitPendingMnemonic() error: %v", err)
	}
	if r.ShareCount() != 0 {
		t.Error("InitPendingMnemonic() kept the share set")
	}
	if _, err := r.Share(First()); !errors.Is(err, ErrNoShareSet) {
		t.Errorf("Share() error = %v, want ErrNoShareSet", err)
	}
}

func TestRegistry_Discard(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.InitShareSet(shares.Words16, 2, seed.Standard); err != nil {
		t.Fatalf("InitShareSet() error: %v", err)
	}
	r.SetPendingSeed(buildSeed(t, toneFlat, ""))
	r.Discard()

	if r.PendingLength() != 0 || r.ShareCount() != 0 {
		t.Error("Discard() kept work in progress")
	}
	if _, ok := r.PendingSeed(); ok {
		t.Error("Discard() kept the pending seed")
	}
}

func TestRegistry_Close(t *testing.T) {
	r, err := NewMemory(wordlist.MustLoad(wordlist.English))
	if err != nil {
		t.Fatalf("NewMemory() error: %v", err)
	}
	r.SetPendingSeed(buildSeed(t, toneFlat, ""))
	if _, err := r.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if r.NumSeeds() != 0 {
		t.Error("Close() kept seeds")
	}
	if _, err := r.Seeds(); !errors.Is(err, ErrClosed) {
		t.Errorf("Seeds() after Close() error = %v, want ErrClosed", err)
	}
	r.SetPendingSeed(buildSeed(t, toneFlat, ""))
	if _, err := r.Finalize(); !errors.Is(err, ErrClosed) {
		t.Errorf("Finalize() after Close() error = %v, want ErrClosed", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}

func TestRegistry_StoredValuesAreSealed(t *testing.T) {
	db := storage.NewMemory()
	r, err := New(wordlist.MustLoad(wordlist.English), db)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer r.Close()

	r.SetPendingSeed(buildSeed(t, toneFlat, "hunter2"))
	if _, err := r.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	n := 0
	err = db.ForEach(nil, func(key, value []byte) error {
		n++
		if strings.Contains(string(value), "tone") || strings.Contains(string(value), "hunter2") {
			t.Errorf("value under %q is stored in the clear", key)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() error: %v", err)
	}
	if n != 2 {
		t.Errorf("store holds %d entries, want 2", n)
	}
}

func TestRegistry_Badger(t *testing.T) {
	db, err := storage.NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	r, err := New(wordlist.MustLoad(wordlist.English), db)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer r.Close()

	for _, phrase := range []string{abandonAbout, toneFlat, abandonAbout} {
		r.SetPendingSeed(buildSeed(t, phrase, ""))
		if _, err := r.Finalize(); err != nil {
			t.Fatalf("Finalize() error: %v", err)
		}
	}
	all, err := r.Seeds()
	if err != nil {
		t.Fatalf("Seeds() error: %v", err)
	}
	if len(all) != 2 || all[0].Phrase() != abandonAbout || all[1].Phrase() != toneFlat {
		t.Fatalf("Seeds() = %v", all)
	}
}

func TestRegistry_IndependentSessions(t *testing.T) {
	phrases := []string{abandonAbout, toneFlat}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := NewMemory(wordlist.MustLoad(wordlist.English))
			if err != nil {
				errs <- err
				return
			}
			defer r.Close()

			s, err := seed.NewBuilder(r.WordList()).Phrase(phrases[i%2]).Build()
			if err != nil {
				errs <- err
				return
			}
			r.SetPendingSeed(s)
			if _, err := r.Finalize(); err != nil {
				errs <- err
				return
			}
			if r.NumSeeds() != 1 {
				errs <- errors.New("registry saw seeds from another session")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
