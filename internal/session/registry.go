// Package session holds the seed registry: the finalized seeds of a session,
// the single seed awaiting confirmation, and the mnemonic or share set being
// entered.
//
// A Registry models one device driven by one user. Construction operations
// run one at a time and a Registry is not safe for concurrent use;
// independent Registries share nothing.
package session

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Klingon-tech/seedsmith/internal/log"
	"github.com/Klingon-tech/seedsmith/internal/seed"
	"github.com/Klingon-tech/seedsmith/internal/shares"
	"github.com/Klingon-tech/seedsmith/internal/storage"
	"github.com/Klingon-tech/seedsmith/pkg/crypto"
	"github.com/Klingon-tech/seedsmith/pkg/mnemonic"
	"github.com/Klingon-tech/seedsmith/pkg/wordlist"
)

// Key namespaces inside the registry store.
var (
	recordPrefix = []byte("seed/")
	indexPrefix  = []byte("idx/")
)

const indexKeyContext = "seedsmith registry dedup index v1"

// seedRecord is the stored form of a finalized seed.
type seedRecord struct {
	Language   wordlist.Language `json:"language"`
	Words      []string          `json:"words"`
	Passphrase string            `json:"passphrase,omitempty"`
	Variant    seed.Variant      `json:"variant"`
	Override   string            `json:"override,omitempty"`
}

// Registry is the ordered, duplicate-free list of finalized seeds plus the
// construction in progress.
type Registry struct {
	wl       *wordlist.WordList
	db       *storage.SealedDB
	records  *storage.PrefixDB
	index    *storage.PrefixDB
	indexKey []byte
	count    int
	closed   bool

	pending  *seed.Seed
	mnemonic *PendingMnemonic
	shareSet *ShareWorkbench
}

// New creates an empty registry over db. Every value written to db is
// sealed with a key that exists only inside the registry.
func New(wl *wordlist.WordList, db storage.DB) (*Registry, error) {
	if wl == nil {
		return nil, errors.New("registry needs a wordlist")
	}
	sealed, err := storage.NewSealedRandom(db)
	if err != nil {
		return nil, fmt.Errorf("seal registry store: %w", err)
	}
	keyMaterial := make([]byte, storage.SealKeySize)
	if _, err := rand.Read(keyMaterial); err != nil {
		return nil, fmt.Errorf("generate index key: %w", err)
	}
	indexKey := crypto.DeriveKey(indexKeyContext, keyMaterial)
	crypto.Zero(keyMaterial)

	return &Registry{
		wl:       wl,
		db:       sealed,
		records:  storage.NewPrefixDB(sealed, recordPrefix),
		index:    storage.NewPrefixDB(sealed, indexPrefix),
		indexKey: indexKey,
	}, nil
}

// NewMemory creates an empty registry backed by a MemoryDB.
func NewMemory(wl *wordlist.WordList) (*Registry, error) {
	return New(wl, storage.NewMemory())
}

// WordList returns the list used for word entry.
func (r *Registry) WordList() *wordlist.WordList {
	return r.wl
}

// Close discards all state, wipes the store and closes it.
func (r *Registry) Close() error {
	if r.closed {
		return nil
	}
	r.Discard()
	err := errors.Join(r.records.DeleteAll(), r.index.DeleteAll())
	crypto.Zero(r.indexKey)
	r.count = 0
	r.closed = true
	return errors.Join(err, r.db.Close())
}

// ---------------------------------------------------------------------------
// Pending mnemonic

// InitPendingMnemonic starts a new empty mnemonic of wordCount words,
// discarding any mnemonic or share set in progress.
func (r *Registry) InitPendingMnemonic(wordCount int, variant seed.Variant) error {
	if _, err := mnemonic.EntropyLen(wordCount); err != nil {
		return err
	}
	r.DiscardPendingMnemonic()
	r.discardShareSet()
	r.mnemonic = newPendingMnemonic(r.wl, wordCount, variant)
	log.Session.Debug().Int("words", wordCount).Str("variant", variant.String()).Msg("Pending mnemonic started")
	return nil
}

// UpdateSlot writes word into the referenced slot; "" clears it.
func (r *Registry) UpdateSlot(word string, ref SlotRef) error {
	if r.mnemonic == nil {
		return ErrNoPendingMnemonic
	}
	return r.mnemonic.Set(ref, word)
}

// PendingWord returns the word in the referenced slot.
func (r *Registry) PendingWord(ref SlotRef) (string, error) {
	if r.mnemonic == nil {
		return "", ErrNoPendingMnemonic
	}
	return r.mnemonic.Word(ref)
}

// PendingMnemonic returns a copy of the slots, or nil when no mnemonic is in
// progress.
func (r *Registry) PendingMnemonic() []string {
	if r.mnemonic == nil {
		return nil
	}
	return r.mnemonic.Words()
}

// PendingLength returns the width of the mnemonic in progress, or 0.
func (r *Registry) PendingLength() int {
	if r.mnemonic == nil {
		return 0
	}
	return r.mnemonic.Len()
}

// FingerprintPreview returns the fingerprint the pending mnemonic would have
// as a seed. It reports false while the slots are not a valid sequence.
func (r *Registry) FingerprintPreview(net seed.Network) (string, bool) {
	if r.mnemonic == nil {
		return "", false
	}
	s, err := r.mnemonic.build()
	if err != nil {
		return "", false
	}
	fp, err := s.Fingerprint(net)
	if err != nil {
		return "", false
	}
	return fp, true
}

// CalcFinalWord solves the last slot from the other slots and freeBits, a
// string of '0'/'1' ("" means all zeros), and writes the result into it.
func (r *Registry) CalcFinalWord(freeBits string) (mnemonic.FinalWord, error) {
	if r.mnemonic == nil {
		return mnemonic.FinalWord{}, ErrNoPendingMnemonic
	}
	if r.mnemonic.Variant() != seed.Standard {
		return mnemonic.FinalWord{}, fmt.Errorf("%w: final word of %s mnemonic", seed.ErrUnsupportedVariant, r.mnemonic.Variant())
	}
	words := r.mnemonic.Words()
	fw, err := mnemonic.SolveFinalWord(r.wl, words[:len(words)-1], freeBits)
	if err != nil {
		return mnemonic.FinalWord{}, err
	}
	if err := r.mnemonic.Set(Last(), fw.Word); err != nil {
		return mnemonic.FinalWord{}, err
	}
	return fw, nil
}

// CalcFinalWordFromSelection takes the free bits from the word currently in
// the last slot and replaces it with the word that completes the checksum.
func (r *Registry) CalcFinalWordFromSelection() (mnemonic.FinalWord, error) {
	if r.mnemonic == nil {
		return mnemonic.FinalWord{}, ErrNoPendingMnemonic
	}
	selected, err := r.mnemonic.Word(Last())
	if err != nil {
		return mnemonic.FinalWord{}, err
	}
	if selected == "" {
		return mnemonic.FinalWord{}, fmt.Errorf("%w: no word selected for the last slot", ErrIncompleteMnemonic)
	}
	bits, err := mnemonic.FreeBitsFromWord(r.wl, selected, r.mnemonic.Len())
	if err != nil {
		return mnemonic.FinalWord{}, err
	}
	return r.CalcFinalWord(bits)
}

// ConvertToPendingSeed builds a seed from the filled slots, stages it as the
// pending seed and discards the mnemonic. On failure nothing changes.
func (r *Registry) ConvertToPendingSeed() (*seed.Seed, error) {
	if r.mnemonic == nil {
		return nil, ErrNoPendingMnemonic
	}
	s, err := r.mnemonic.build()
	if err != nil {
		return nil, err
	}
	r.pending = s
	r.DiscardPendingMnemonic()
	log.Session.Debug().Msg("Pending mnemonic converted to pending seed")
	return s, nil
}

// DiscardPendingMnemonic drops the mnemonic in progress.
func (r *Registry) DiscardPendingMnemonic() {
	if r.mnemonic != nil {
		r.mnemonic.wipe()
		r.mnemonic = nil
	}
}

// Validate reports whether words form a valid standard mnemonic. It never
// touches registry state.
func (r *Registry) Validate(words []string) bool {
	return mnemonic.IsValid(r.wl, words)
}

// ---------------------------------------------------------------------------
// Pending seed

// SetPendingSeed stages s, replacing any pending seed.
func (r *Registry) SetPendingSeed(s *seed.Seed) {
	r.pending = s
}

// PendingSeed returns the staged seed.
func (r *Registry) PendingSeed() (*seed.Seed, bool) {
	return r.pending, r.pending != nil
}

// ApplyPassphrase replaces the pending seed with a copy carrying passphrase.
func (r *Registry) ApplyPassphrase(passphrase string) error {
	if r.pending == nil {
		return ErrNoPendingSeed
	}
	r.pending = r.pending.WithPassphrase(passphrase)
	return nil
}

// ClearPendingSeed drops the staged seed.
func (r *Registry) ClearPendingSeed() {
	r.pending = nil
}

// Finalize stores the pending seed and returns its position. A seed equal
// to one already stored is not added again; its existing position is
// returned. The pending seed is cleared in either case.
func (r *Registry) Finalize() (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	if r.pending == nil {
		return 0, ErrNoPendingSeed
	}
	s := r.pending
	r.pending = nil

	digest, err := r.indexDigest(s)
	if err != nil {
		return 0, err
	}
	if raw, err := r.index.Get(digest[:]); err == nil {
		pos := int(binary.BigEndian.Uint32(raw))
		log.Session.Debug().Int("position", pos).Msg("Seed already stored")
		return pos, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return 0, fmt.Errorf("look up seed: %w", err)
	}

	rec, err := json.Marshal(seedRecord{
		Language:   s.Language(),
		Words:      s.Words(),
		Passphrase: s.Passphrase(),
		Variant:    s.Variant(),
		Override:   s.DerivationOverride(),
	})
	if err != nil {
		return 0, fmt.Errorf("encode seed: %w", err)
	}
	defer crypto.Zero(rec)

	pos := r.count
	batch := r.db.NewBatch()
	if err := batch.Put(recordKey(pos), rec); err != nil {
		return 0, err
	}
	if err := batch.Put(indexStoreKey(digest), positionBytes(pos)); err != nil {
		return 0, err
	}
	if err := batch.Commit(); err != nil {
		log.Storage.Error().Err(err).Int("position", pos).Msg("Seed batch commit failed")
		return 0, fmt.Errorf("store seed: %w", err)
	}
	r.count++

	log.Session.Info().Int("position", pos).Int("seeds", r.count).Msg("Seed finalized")
	return pos, nil
}

// Discard drops the mnemonic, share set and pending seed in progress.
func (r *Registry) Discard() {
	r.DiscardPendingMnemonic()
	r.discardShareSet()
	r.pending = nil
}

// ---------------------------------------------------------------------------
// Finalized seeds

// NumSeeds returns the number of finalized seeds.
func (r *Registry) NumSeeds() int {
	return r.count
}

// Seed returns the finalized seed at position i.
func (r *Registry) Seed(i int) (*seed.Seed, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if i < 0 || i >= r.count {
		return nil, fmt.Errorf("%w: seed %d of %d", ErrIndexOutOfRange, i, r.count)
	}
	raw, err := r.records.Get(positionBytes(i))
	if err != nil {
		return nil, fmt.Errorf("load seed %d: %w", i, err)
	}
	defer crypto.Zero(raw)
	return decodeRecord(raw)
}

// Seeds returns all finalized seeds in insertion order.
func (r *Registry) Seeds() ([]*seed.Seed, error) {
	if r.closed {
		return nil, ErrClosed
	}
	out := make([]*seed.Seed, 0, r.count)
	err := r.records.ForEach(nil, func(_, value []byte) error {
		s, err := decodeRecord(value)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Share sets

// InitShareSet starts collecting shareCount shares of wordCount words each,
// with a fresh pending mnemonic for the first share. Share slots accept
// words from the share wordlist only.
func (r *Registry) InitShareSet(wordCount, shareCount int, variant seed.Variant) error {
	if variant != seed.Standard {
		return fmt.Errorf("%w: share sets recover standard seeds only", seed.ErrUnsupportedVariant)
	}
	if !shares.ValidWordCount(wordCount) {
		return fmt.Errorf("%w: got %d", shares.ErrInvalidShareWidth, wordCount)
	}
	if shareCount < 1 || shareCount > shares.MaxShares {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidShareCount, shareCount, shares.MaxShares)
	}
	r.DiscardPendingMnemonic()
	r.discardShareSet()
	r.mnemonic = newPendingShare(r.wl, wordCount)
	r.shareSet = newShareWorkbench(wordCount, shareCount)
	log.Session.Debug().Int("words", wordCount).Int("shares", shareCount).Msg("Share set started")
	return nil
}

// CommitCurrentShare copies the pending mnemonic into a share slot after
// checking its checksum. Unless the slot is the last one, a fresh mnemonic
// of the same width is started for the next share.
func (r *Registry) CommitCurrentShare(ref SlotRef) error {
	if r.shareSet == nil {
		return ErrNoShareSet
	}
	i, err := ref.Resolve(r.shareSet.Len())
	if err != nil {
		return err
	}
	if r.mnemonic == nil {
		return ErrNoPendingMnemonic
	}
	if !r.mnemonic.Complete() {
		return fmt.Errorf("%w: %d of %d filled", ErrIncompleteMnemonic, r.mnemonic.Filled(), r.mnemonic.Len())
	}
	words := r.mnemonic.Words()
	if err := shares.Validate(words); err != nil {
		return fmt.Errorf("share %d: %w", i+1, err)
	}
	r.shareSet.slots[i] = words

	if i < r.shareSet.Len()-1 {
		width := r.mnemonic.Len()
		r.DiscardPendingMnemonic()
		r.mnemonic = newPendingShare(r.wl, width)
	}
	log.Session.Debug().Int("share", i+1).Int("of", r.shareSet.Len()).Msg("Share committed")
	return nil
}

// Share returns a copy of a committed share (nil when the slot is empty).
func (r *Registry) Share(ref SlotRef) ([]string, error) {
	if r.shareSet == nil {
		return nil, ErrNoShareSet
	}
	return r.shareSet.Share(ref)
}

// ShareCount returns the number of share slots, or 0 without a share set.
func (r *Registry) ShareCount() int {
	if r.shareSet == nil {
		return 0
	}
	return r.shareSet.Len()
}

// RecoverShares combines the committed shares into a seed and stages it as
// the pending seed. On success the share set and pending mnemonic are
// discarded; on failure they are kept so entry can be corrected.
func (r *Registry) RecoverShares(passphrase string) (*seed.Seed, error) {
	if r.shareSet == nil {
		return nil, ErrNoShareSet
	}
	phrases := r.shareSet.phrases()
	secret, err := shares.Combine(phrases, passphrase)
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(secret)

	words, err := mnemonic.FromEntropy(r.wl, secret)
	if err != nil {
		return nil, err
	}
	s, err := seed.NewBuilder(r.wl).Words(words).Build()
	if err != nil {
		return nil, err
	}

	r.pending = s
	r.DiscardPendingMnemonic()
	r.discardShareSet()
	log.Session.Debug().Int("shares", len(phrases)).Msg("Seed recovered from shares")
	return s, nil
}

// SplitSeed splits a standard seed's entropy into share phrases.
func (r *Registry) SplitSeed(s *seed.Seed, threshold, count int, passphrase string) ([]string, error) {
	ent, err := s.Entropy()
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(ent)
	return shares.Split(ent, threshold, count, passphrase)
}

func (r *Registry) discardShareSet() {
	if r.shareSet != nil {
		r.shareSet.wipe()
		r.shareSet = nil
	}
}

// ---------------------------------------------------------------------------
// Storage helpers

// indexDigest is the keyed dedup digest over the fields that define seed
// equality.
func (r *Registry) indexDigest(s *seed.Seed) (crypto.Digest, error) {
	var variant [1]byte
	variant[0] = byte(s.Variant())
	return crypto.KeyedHash(r.indexKey,
		[]byte(s.Language()),
		[]byte(strings.Join(s.Words(), " ")),
		[]byte(s.Passphrase()),
		variant[:],
	)
}

func recordKey(pos int) []byte {
	return append(append([]byte(nil), recordPrefix...), positionBytes(pos)...)
}

func indexStoreKey(d crypto.Digest) []byte {
	return append(append([]byte(nil), indexPrefix...), d[:]...)
}

func positionBytes(pos int) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(pos))
	return b[:]
}

func decodeRecord(raw []byte) (*seed.Seed, error) {
	var rec seedRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode seed record: %w", err)
	}
	wl, err := wordlist.Load(rec.Language)
	if err != nil {
		return nil, err
	}
	return seed.NewBuilder(wl).
		Words(rec.Words).
		Passphrase(rec.Passphrase).
		Variant(rec.Variant).
		DerivationOverride(rec.Override).
		Build()
}
