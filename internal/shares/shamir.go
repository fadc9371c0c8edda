package shares

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/Klingon-tech/seedsmith/pkg/crypto"
	"github.com/hashicorp/vault/shamir"
)

// Reserved x coordinates of the sharing polynomial.
const (
	digestIndex = 254
	secretIndex = 255
)

// point is one evaluation of the sharing polynomial.
type point struct {
	x byte
	y []byte
}

// interpolate evaluates at x the polynomial through points. Addition in
// GF(256) is XOR, so evaluating at x is evaluating at zero after shifting
// every coordinate by x.
func interpolate(points []point, x byte) ([]byte, error) {
	for _, p := range points {
		if p.x == x {
			return append([]byte(nil), p.y...), nil
		}
	}
	parts := make([][]byte, len(points))
	for i, p := range points {
		parts[i] = append(append([]byte(nil), p.y...), p.x^x)
	}
	out, err := shamir.Combine(parts)
	for _, part := range parts {
		crypto.Zero(part)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShareSetMismatch, err)
	}
	return out, nil
}

func secretDigest(random, secret []byte) []byte {
	mac := hmac.New(sha256.New, random)
	mac.Write(secret)
	return mac.Sum(nil)[:digestLen]
}

// splitSecret shares secret among count members, any threshold of which
// recover it. Member i receives the evaluation at x=i.
func splitSecret(threshold, count int, secret []byte) ([][]byte, error) {
	out := make([][]byte, count)
	if threshold == 1 {
		for i := range out {
			out[i] = append([]byte(nil), secret...)
		}
		return out, nil
	}

	random := make([]byte, len(secret)-digestLen)
	if _, err := rand.Read(random); err != nil {
		return nil, fmt.Errorf("generate digest key: %w", err)
	}
	defer crypto.Zero(random)
	digest := append(secretDigest(random, secret), random...)
	defer crypto.Zero(digest)

	base := make([]point, 0, threshold)
	for i := 0; i < threshold-2; i++ {
		y := make([]byte, len(secret))
		if _, err := rand.Read(y); err != nil {
			return nil, fmt.Errorf("generate share: %w", err)
		}
		out[i] = y
		base = append(base, point{x: byte(i), y: y})
	}
	base = append(base,
		point{x: digestIndex, y: digest},
		point{x: secretIndex, y: secret},
	)
	for i := threshold - 2; i < count; i++ {
		y, err := interpolate(base, byte(i))
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}

// recoverSecret interpolates the secret from threshold points and checks
// the embedded digest.
func recoverSecret(threshold int, points []point) ([]byte, error) {
	if threshold == 1 {
		return append([]byte(nil), points[0].y...), nil
	}
	secret, err := interpolate(points, secretIndex)
	if err != nil {
		return nil, err
	}
	digest, err := interpolate(points, digestIndex)
	if err != nil {
		crypto.Zero(secret)
		return nil, err
	}
	defer crypto.Zero(digest)
	if !hmac.Equal(digest[:digestLen], secretDigest(digest[digestLen:], secret)) {
		crypto.Zero(secret)
		return nil, fmt.Errorf("%w: digest check failed", ErrShareSetMismatch)
	}
	return secret, nil
}
