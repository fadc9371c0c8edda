package mnemonic

import (
	"strings"
)

// bitString holds one bit per element, most significant bit first.
type bitString []byte

func bitsOf(data []byte) bitString {
	out := make(bitString, 0, len(data)*8)
	for _, b := range data {
		out = out.appendUint(uint(b), 8)
	}
	return out
}

func zeroBits(n int) bitString {
	return make(bitString, n)
}

// parseBits parses a string of '0' and '1' characters.
func parseBits(s string) (bitString, bool) {
	out := make(bitString, 0, len(s))
	for _, c := range s {
		switch c {
		case '0':
			out = append(out, 0)
		case '1':
			out = append(out, 1)
		default:
			return nil, false
		}
	}
	return out, true
}

func (b bitString) appendUint(v uint, n int) bitString {
	for i := n - 1; i >= 0; i-- {
		b = append(b, byte(v>>uint(i))&1)
	}
	return b
}

// uint reads n bits starting at from.
func (b bitString) uint(from, n int) uint {
	var v uint
	for _, bit := range b[from : from+n] {
		v = v<<1 | uint(bit)
	}
	return v
}

// bytes packs the bits into bytes. len(b) must be a multiple of 8.
func (b bitString) bytes() []byte {
	out := make([]byte, len(b)/8)
	for i := range out {
		out[i] = byte(b.uint(i*8, 8))
	}
	return out
}

func (b bitString) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, bit := range b {
		sb.WriteByte('0' + bit)
	}
	return sb.String()
}
