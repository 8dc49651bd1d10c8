package dashboard

import "errors"

var (
	// ErrNotConfigured indicates an engine used without a record store.
	ErrNotConfigured = errors.New("dashboard engine not configured")
	// ErrUnknownCommand indicates a command type Dispatch cannot handle.
	ErrUnknownCommand = errors.New("unknown dashboard command")
)
