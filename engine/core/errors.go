package core

import (
	"errors"
)

var (
	// ErrBatchInvalid is returned when a batch operation is attempted before
	// Init or after Free released the staging arena.
	ErrBatchInvalid = errors.New("invalid batch: no staging memory")
	// ErrBatchInitialized is returned when Init is called on a batch that
	// already owns a staging arena.
	ErrBatchInitialized = errors.New("batch already initialized")
	// ErrBatchFull is returned when an append would exceed the batch capacity.
	ErrBatchFull = errors.New("batch ran out of room")
	// ErrBatchCount is returned when the vertex counter is found corrupted.
	ErrBatchCount = errors.New("invalid vertex count")
	ErrUnknown    = errors.New("unknown")
)
