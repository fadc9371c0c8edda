package session

import "errors"

var (
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrNoPendingSeed      = errors.New("no pending seed")
	ErrNoPendingMnemonic  = errors.New("no pending mnemonic")
	ErrIncompleteMnemonic = errors.New("pending mnemonic has empty slots")
	ErrNoShareSet         = errors.New("no share set in progress")
	ErrInvalidShareCount  = errors.New("invalid share count")
	ErrClosed             = errors.New("registry is closed")
)
