package session

import (
	"fmt"
)

// SlotRef names a slot of a fixed-width sequence, either from the front or
// from the back. It is resolved against the width once, with bounds checks,
// so a reference can never wrap around.
type SlotRef struct {
	fromEnd bool
	n       int
}

// First refers to the first slot.
func First() SlotRef { return SlotRef{n: 0} }

// Last refers to the last slot.
func Last() SlotRef { return SlotRef{fromEnd: true, n: 1} }

// At refers to the zero-based slot n.
func At(n int) SlotRef { return SlotRef{n: n} }

// FromEnd refers to the n-th slot counted from the end; FromEnd(1) is Last.
func FromEnd(n int) SlotRef { return SlotRef{fromEnd: true, n: n} }

// SlotIndex converts a signed index where -1 is the last slot.
func SlotIndex(i int) SlotRef {
	if i < 0 {
		return FromEnd(-i)
	}
	return At(i)
}

// Resolve returns the zero-based offset of the slot in a sequence of the
// given width. Valid signed indices are -width through width-1.
func (r SlotRef) Resolve(width int) (int, error) {
	if r.fromEnd {
		if r.n < 1 || r.n > width {
			return 0, fmt.Errorf("%w: %s of %d slots", ErrIndexOutOfRange, r, width)
		}
		return width - r.n, nil
	}
	if r.n < 0 || r.n >= width {
		return 0, fmt.Errorf("%w: %s of %d slots", ErrIndexOutOfRange, r, width)
	}
	return r.n, nil
}

func (r SlotRef) String() string {
	if r.fromEnd {
		return fmt.Sprintf("slot %d", -r.n)
	}
	return fmt.Sprintf("slot %d", r.n)
}
