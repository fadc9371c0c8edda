package seed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

// Well-known purpose fields (BIP-44/49/84/86), unhardened.
const (
	PurposeLegacy       = 44
	PurposeNestedSegwit = 49
	PurposeNativeSegwit = 84
	PurposeTaproot      = 86
)

// ParsePath parses a derivation path such as "m/84'/0'/0'". Hardened
// components are marked with ' or h. "m" alone is the master key.
func ParsePath(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	parts := strings.Split(path, "/")
	if parts[0] != "m" && parts[0] != "M" {
		return nil, fmt.Errorf("%w: %q must start with m", ErrInvalidPath, path)
	}

	indices := make([]uint32, 0, len(parts)-1)
	for _, p := range parts[1:] {
		hardened := false
		if strings.HasSuffix(p, "'") || strings.HasSuffix(p, "h") || strings.HasSuffix(p, "H") {
			hardened = true
			p = p[:len(p)-1]
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil || n >= uint64(bip32.FirstHardenedChild) {
			return nil, fmt.Errorf("%w: bad component %q in %q", ErrInvalidPath, p, path)
		}
		idx := uint32(n)
		if hardened {
			idx += bip32.FirstHardenedChild
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// FormatPath renders indices as a path using h for hardened components.
func FormatPath(indices []uint32) string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range indices {
		b.WriteByte('/')
		if idx >= bip32.FirstHardenedChild {
			b.WriteString(strconv.FormatUint(uint64(idx-bip32.FirstHardenedChild), 10))
			b.WriteByte('h')
		} else {
			b.WriteString(strconv.FormatUint(uint64(idx), 10))
		}
	}
	return b.String()
}

// AccountPath returns m/purpose'/coin'/account' for the network.
func AccountPath(purpose uint32, net Network, account uint32) (string, error) {
	coin, err := net.CoinType()
	if err != nil {
		return "", err
	}
	return FormatPath([]uint32{
		bip32.FirstHardenedChild + purpose,
		bip32.FirstHardenedChild + coin,
		bip32.FirstHardenedChild + account,
	}), nil
}
