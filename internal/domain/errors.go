package domain

import "errors"

// Sentinel error kinds from §7. IndexMissing is deliberately absent: it is
// a logged degradation, never an error value.
var (
	ErrInputInvalid       = errors.New("input invalid")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrCancelled          = errors.New("query cancelled")
	ErrOversizedChunk     = errors.New("chunk exceeds super chunk size limit")
)
