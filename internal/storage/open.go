package storage

import (
	"fmt"

	"github.com/Klingon-tech/seedsmith/internal/log"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Open creates an in-memory store of the named backend. Neither backend
// writes to disk.
func Open(backend string) (DB, error) {
	log.Storage.Debug().Str("backend", backend).Msg("Opening store")
	switch backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendBadger:
		return NewBadgerInMemory()
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
