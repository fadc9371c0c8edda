package shares

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/Klingon-tech/seedsmith/pkg/crypto"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	feistelRounds = 4
	// baseIterations is the total PBKDF2 cost at iteration exponent 0.
	baseIterations = 10000
	saltPrefix     = "shamir"
)

// DefaultIterationExponent scales the Feistel cost of new share sets.
const DefaultIterationExponent = 1

func feistelSalt(id uint16, extendable bool) []byte {
	if extendable {
		return nil
	}
	salt := append([]byte(nil), saltPrefix...)
	return binary.BigEndian.AppendUint16(salt, id)
}

// roundKey derives the round function output for round i over the right half.
func roundKey(i byte, passphrase []byte, exponent byte, salt, r []byte) []byte {
	password := append([]byte{i}, passphrase...)
	full := append(append([]byte(nil), salt...), r...)
	iterations := (baseIterations << exponent) / feistelRounds
	out := pbkdf2.Key(password, full, iterations, len(r), sha256.New)
	crypto.Zero(password)
	return out
}

// feistel runs the network in the given round order and returns R || L.
func feistel(secret []byte, passphrase string, p params, order []byte) []byte {
	pass := []byte(norm.NFKD.String(passphrase))
	defer crypto.Zero(pass)
	salt := feistelSalt(p.id, p.extendable)

	half := len(secret) / 2
	l := append([]byte(nil), secret[:half]...)
	r := append([]byte(nil), secret[half:]...)
	for _, i := range order {
		f := roundKey(i, pass, p.exponent, salt, r)
		for j := range l {
			l[j] ^= f[j]
		}
		crypto.Zero(f)
		l, r = r, l
	}
	out := append(r, l...)
	crypto.Zero(l)
	return out
}

func encrypt(secret []byte, passphrase string, p params) []byte {
	return feistel(secret, passphrase, p, []byte{0, 1, 2, 3})
}

func decrypt(secret []byte, passphrase string, p params) []byte {
	return feistel(secret, passphrase, p, []byte{3, 2, 1, 0})
}
