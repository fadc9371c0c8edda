package storage

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// SealKeySize is the length of a SealedDB key.
const SealKeySize = chacha20poly1305.KeySize

// ErrSealBroken is returned when a stored value fails authentication.
var ErrSealBroken = errors.New("sealed value failed authentication")

// SealedDB wraps a DB and encrypts every value with XChaCha20-Poly1305.
// The storage key is bound as associated data so values cannot be swapped
// between keys. Keys themselves are stored in the clear.
//
// Stored format: nonce(24) | ciphertext
type SealedDB struct {
	inner DB
	key   []byte
}

// NewSealed wraps inner with the given 32-byte key.
func NewSealed(inner DB, key []byte) (*SealedDB, error) {
	if len(key) != SealKeySize {
		return nil, fmt.Errorf("seal key must be %d bytes, got %d", SealKeySize, len(key))
	}
	return &SealedDB{inner: inner, key: clone(key)}, nil
}

// NewSealedRandom wraps inner with a fresh random key that is never
// written anywhere. Data becomes unreadable once the SealedDB is closed.
func NewSealedRandom(inner DB) (*SealedDB, error) {
	key := make([]byte, SealKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate seal key: %w", err)
	}
	s, err := NewSealed(inner, key)
	zero(key)
	return s, err
}

func (s *SealedDB) seal(key, value []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(value)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, value, key), nil
}

func (s *SealedDB) open(key, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%w: value too short (%d bytes)", ErrSealBroken, len(sealed))
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSealBroken, err)
	}
	return plain, nil
}

// Get retrieves and decrypts a value.
func (s *SealedDB) Get(key []byte) ([]byte, error) {
	sealed, err := s.inner.Get(key)
	if err != nil {
		return nil, err
	}
	return s.open(key, sealed)
}

// Put encrypts and stores a value.
func (s *SealedDB) Put(key, value []byte) error {
	sealed, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.inner.Put(key, sealed)
}

// Delete removes a key.
func (s *SealedDB) Delete(key []byte) error {
	return s.inner.Delete(key)
}

// Has checks if a key exists.
func (s *SealedDB) Has(key []byte) (bool, error) {
	return s.inner.Has(key)
}

// ForEach iterates over decrypted values under prefix.
func (s *SealedDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return s.inner.ForEach(prefix, func(key, sealed []byte) error {
		plain, err := s.open(key, sealed)
		if err != nil {
			return err
		}
		return fn(key, plain)
	})
}

// NewBatch returns a batch that seals values before handing them to the
// inner store's batch.
func (s *SealedDB) NewBatch() Batch {
	if batcher, ok := s.inner.(Batcher); ok {
		return &sealedBatch{db: s, inner: batcher.NewBatch()}
	}
	return &fallbackBatch{db: s}
}

// Close forgets the key and closes the inner DB.
func (s *SealedDB) Close() error {
	zero(s.key)
	return s.inner.Close()
}

type sealedBatch struct {
	db    *SealedDB
	inner Batch
}

func (sb *sealedBatch) Put(key, value []byte) error {
	sealed, err := sb.db.seal(key, value)
	if err != nil {
		return err
	}
	return sb.inner.Put(key, sealed)
}

func (sb *sealedBatch) Delete(key []byte) error {
	return sb.inner.Delete(key)
}

func (sb *sealedBatch) Commit() error {
	return sb.inner.Commit()
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
