package core

import "errors"

var (
	// ErrInternal raised on any unexpected error due to internal failures.
	ErrInternal = errors.New("internal")
	// ErrMalformed is returned if transaction or arguments can't be decoded.
	ErrMalformed = errors.New("malformed tx")
	// ErrNotSpawned is returned if account that is targeted by the transaction wasn't spawned.
	ErrNotSpawned = errors.New("account is not spawned")
	// ErrSpawned is returned if account already exists.
	ErrSpawned = errors.New("account already spawned")
	// ErrUnknownTemplate is returned if template is not registered.
	ErrUnknownTemplate = errors.New("unknown template")
)
