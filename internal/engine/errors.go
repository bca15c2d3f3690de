package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBackend is recorded when a storage backend name is not registered.
	ErrUnknownBackend = errors.New("engine: unknown storage backend")
	// ErrBadOptions is recorded when a storage option string cannot be parsed.
	ErrBadOptions = errors.New("engine: malformed storage options")
	// ErrNoContexts is recorded when a context operation targets a storage without context support.
	ErrNoContexts = errors.New("engine: storage does not support contexts")
	// ErrInvalidStatement is recorded when a statement cannot be stored.
	ErrInvalidStatement = errors.New("engine: invalid statement")
	// ErrNotFound is recorded when removing a statement that is not stored.
	ErrNotFound = errors.New("engine: statement not found")
)

func errInvalidLanguage(tag string) error {
	return fmt.Errorf("engine: invalid language tag %q", tag)
}
