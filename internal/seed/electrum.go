package seed

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

// ElectrumKind is the seed type encoded in an Electrum seed's version hash.
type ElectrumKind int

const (
	ElectrumNone ElectrumKind = iota
	ElectrumStandard
	ElectrumSegwit
)

// Version hash prefixes of supported Electrum seed types. Two-factor
// seeds ("101", "102") are not supported.
const (
	electrumPrefixStandard = "01"
	electrumPrefixSegwit   = "100"
)

const (
	electrumVersionKey  = "Seed version"
	electrumSaltPrefix  = "electrum"
	electrumIterations  = 2048
	electrumSegwitPath  = "m/0h"
	electrumDefaultPath = "m"
)

func (k ElectrumKind) String() string {
	switch k {
	case ElectrumStandard:
		return "standard"
	case ElectrumSegwit:
		return "segwit"
	}
	return "none"
}

// electrumNormalize lowercases s, strips combining marks after NFKD
// decomposition, and collapses runs of whitespace.
func electrumNormalize(s string) string {
	s = strings.ToLower(norm.NFKD.String(s))
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// ElectrumSeedKind classifies a phrase by its Electrum version hash.
func ElectrumSeedKind(phrase string) ElectrumKind {
	mac := hmac.New(sha512.New, []byte(electrumVersionKey))
	mac.Write([]byte(electrumNormalize(phrase)))
	h := hex.EncodeToString(mac.Sum(nil))
	switch {
	case strings.HasPrefix(h, electrumPrefixSegwit):
		return ElectrumSegwit
	case strings.HasPrefix(h, electrumPrefixStandard):
		return ElectrumStandard
	}
	return ElectrumNone
}

// electrumMasterSeed stretches the phrase the way Electrum does.
func electrumMasterSeed(phrase, passphrase string) []byte {
	return pbkdf2.Key(
		[]byte(electrumNormalize(phrase)),
		[]byte(electrumSaltPrefix+electrumNormalize(passphrase)),
		electrumIterations,
		MasterSeedSize,
		sha512.New,
	)
}
