package csvfile

import "errors"

var (
	// ErrClosed indicates the source was used after Close.
	ErrClosed = errors.New("csvfile: source closed")

	// ErrNoPath indicates no CSV path was configured.
	ErrNoPath = errors.New("csvfile: no path configured")
)
