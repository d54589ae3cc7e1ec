package queue

import "errors"

// Semua kegagalan domain dikembalikan ke caller sebagai sentinel error,
// tidak pernah ditelan. Hanya ErrConcurrentModification yang aman di-retry
// oleh caller dengan mengulang seluruh operasi.
var (
	ErrDuplicateContact       = errors.New("contact number already on the waiting list")
	ErrInvalidTransition      = errors.New("illegal status transition")
	ErrNoSuitableTable        = errors.New("no suitable table for this party")
	ErrNotFound               = errors.New("record not found")
	ErrConcurrentModification = errors.New("waiting list changed concurrently, retry the operation")
)
