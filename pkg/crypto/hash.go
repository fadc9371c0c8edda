// Package crypto provides hashing helpers shared by seedsmith packages.
package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/zeebo/blake3"
)

// DigestSize is the length of a BLAKE3-256 digest.
const DigestSize = 32

// Digest is a 32-byte BLAKE3 digest.
type Digest [DigestSize]byte

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) Digest {
	return blake3.Sum256(data)
}

// KeyedHash computes a keyed BLAKE3-256 MAC over the given parts.
// Each part is length-prefixed so ("ab","c") and ("a","bc") differ.
func KeyedHash(key []byte, parts ...[]byte) (Digest, error) {
	h, err := blake3.NewKeyed(key)
	if err != nil {
		return Digest{}, fmt.Errorf("keyed hash: %w", err)
	}
	var lenBuf [4]byte
	for _, p := range parts {
		n := len(p)
		lenBuf[0] = byte(n >> 24)
		lenBuf[1] = byte(n >> 16)
		lenBuf[2] = byte(n >> 8)
		lenBuf[3] = byte(n)
		h.Write(lenBuf[:])
		h.Write(p)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

// DeriveKey derives a 32-byte subkey from material for the given context.
func DeriveKey(context string, material []byte) []byte {
	out := make([]byte, DigestSize)
	blake3.DeriveKey(context, material, out)
	return out
}

// Hash160 computes RIPEMD160(SHA256(data)), the Bitcoin key identifier hash.
func Hash160(data []byte) []byte {
	return btcutil.Hash160(data)
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
