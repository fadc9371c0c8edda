package shares

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/Klingon-tech/seedsmith/internal/log"
	"github.com/Klingon-tech/seedsmith/pkg/crypto"
)

// Share set limits.
const (
	MinThreshold = 2
	MaxShares    = 16
)

// CheckParameters validates a threshold/count pair.
func CheckParameters(threshold, count int) error {
	if threshold < MinThreshold || count > MaxShares || threshold > count {
		return fmt.Errorf("%w: need %d <= threshold (%d) <= count (%d) <= %d",
			ErrInvalidParameters, MinThreshold, threshold, count, MaxShares)
	}
	return nil
}

// Split encrypts secret with passphrase and splits it into count share
// phrases of a single group, any threshold of which recover it.
func Split(secret []byte, threshold, count int, passphrase string) ([]string, error) {
	var idBuf [2]byte
	if _, err := rand.Read(idBuf[:]); err != nil {
		return nil, fmt.Errorf("generate share set id: %w", err)
	}
	p := params{
		id:         binary.BigEndian.Uint16(idBuf[:]) & (1<<idBits - 1),
		extendable: true,
		exponent:   DefaultIterationExponent,
	}
	return split(secret, threshold, count, passphrase, p)
}

func split(secret []byte, threshold, count int, passphrase string, p params) ([]string, error) {
	if _, err := WordCount(len(secret)); err != nil {
		return nil, err
	}
	if err := CheckParameters(threshold, count); err != nil {
		return nil, err
	}

	enc := encrypt(secret, passphrase, p)
	defer crypto.Zero(enc)

	values, err := splitSecret(threshold, count, enc)
	if err != nil {
		return nil, fmt.Errorf("split secret: %w", err)
	}

	phrases := make([]string, len(values))
	for i, v := range values {
		s := Share{
			ID:                p.id,
			Extendable:        p.extendable,
			IterationExponent: p.exponent,
			GroupThreshold:    1,
			GroupCount:        1,
			MemberIndex:       i,
			MemberThreshold:   threshold,
			Value:             v,
		}
		words, err := s.Encode()
		crypto.Zero(v)
		if err != nil {
			return nil, fmt.Errorf("encode share %d: %w", i+1, err)
		}
		phrases[i] = Phrase(words)
	}

	log.Shares.Debug().
		Int("threshold", threshold).
		Int("count", count).
		Msg("Secret split")
	return phrases, nil
}

// group collects the distinct members of one group.
type group struct {
	threshold int
	members   []Share
}

// add records s, ignoring an exact repeat of a member already seen.
func (g *group) add(s Share) error {
	if g.members != nil && s.MemberThreshold != g.threshold {
		return fmt.Errorf("%w: member thresholds differ in group %d", ErrShareSetMismatch, s.GroupIndex)
	}
	g.threshold = s.MemberThreshold
	for _, m := range g.members {
		if m.MemberIndex != s.MemberIndex {
			continue
		}
		if !bytes.Equal(m.Value, s.Value) {
			return fmt.Errorf("%w: conflicting shares for member %d", ErrShareSetMismatch, s.MemberIndex)
		}
		return nil
	}
	g.members = append(g.members, s)
	return nil
}

// Combine decodes share phrases and recovers the secret. Repeated copies of
// a share count once. Shares from different sets, or combinations whose
// digest does not check out, fail with ErrShareSetMismatch; fewer distinct
// shares than the thresholds fail with ErrIncompleteShareSet.
//
// A wrong passphrase is not detected: it yields a different, valid secret.
func Combine(phrases []string, passphrase string) ([]byte, error) {
	if len(phrases) == 0 {
		return nil, fmt.Errorf("%w: no shares", ErrIncompleteShareSet)
	}

	var first Share
	groups := make(map[int]*group)
	for i, phrase := range phrases {
		s, err := DecodePhrase(phrase)
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i+1, err)
		}
		if i == 0 {
			first = s
		} else if s.params() != first.params() ||
			s.GroupThreshold != first.GroupThreshold ||
			s.GroupCount != first.GroupCount ||
			len(s.Value) != len(first.Value) {
			return nil, fmt.Errorf("%w: share %d has a different header or width", ErrShareSetMismatch, i+1)
		}
		g, ok := groups[s.GroupIndex]
		if !ok {
			g = &group{}
			groups[s.GroupIndex] = g
		}
		if err := g.add(s); err != nil {
			return nil, err
		}
	}

	var groupPoints []point
	for gi, g := range groups {
		if len(g.members) < g.threshold {
			continue
		}
		points := make([]point, g.threshold)
		for j, m := range g.members[:g.threshold] {
			points[j] = point{x: byte(m.MemberIndex), y: m.Value}
		}
		secret, err := recoverSecret(g.threshold, points)
		if err != nil {
			return nil, err
		}
		groupPoints = append(groupPoints, point{x: byte(gi), y: secret})
		if len(groupPoints) == first.GroupThreshold {
			break
		}
	}
	defer func() {
		for _, p := range groupPoints {
			crypto.Zero(p.y)
		}
	}()
	if len(groupPoints) < first.GroupThreshold {
		if first.GroupCount == 1 {
			g := groups[first.GroupIndex]
			return nil, fmt.Errorf("%w: have %d of %d", ErrIncompleteShareSet, len(g.members), g.threshold)
		}
		return nil, fmt.Errorf("%w: have %d of %d groups", ErrIncompleteShareSet, len(groupPoints), first.GroupThreshold)
	}

	enc, err := recoverSecret(first.GroupThreshold, groupPoints)
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(enc)

	log.Shares.Debug().
		Int("shares", len(phrases)).
		Int("groups", len(groupPoints)).
		Msg("Secret recovered")
	return decrypt(enc, passphrase, first.params()), nil
}
