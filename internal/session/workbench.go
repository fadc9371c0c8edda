package session

import (
	"slices"
	"strings"
)

// ShareWorkbench collects share phrases until recovery. Every committed
// share has the same width.
type ShareWorkbench struct {
	width int
	slots [][]string
}

func newShareWorkbench(width, count int) *ShareWorkbench {
	return &ShareWorkbench{width: width, slots: make([][]string, count)}
}

// Len returns the number of share slots.
func (w *ShareWorkbench) Len() int {
	return len(w.slots)
}

// Width returns the number of words per share.
func (w *ShareWorkbench) Width() int {
	return w.width
}

// Share returns a copy of the share in a slot, or nil when empty.
func (w *ShareWorkbench) Share(ref SlotRef) ([]string, error) {
	i, err := ref.Resolve(len(w.slots))
	if err != nil {
		return nil, err
	}
	return slices.Clone(w.slots[i]), nil
}

// Committed returns the number of filled slots.
func (w *ShareWorkbench) Committed() int {
	n := 0
	for _, s := range w.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// phrases joins every committed share into a single-space phrase.
func (w *ShareWorkbench) phrases() []string {
	out := make([]string, 0, len(w.slots))
	for _, s := range w.slots {
		if s != nil {
			out = append(out, strings.Join(s, " "))
		}
	}
	return out
}

func (w *ShareWorkbench) wipe() {
	for i, s := range w.slots {
		for j := range s {
			s[j] = ""
		}
		w.slots[i] = nil
	}
}
