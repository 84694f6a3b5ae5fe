package common

import "github.com/pkg/errors"

// error kinds
// every error returned from storage and execution packages wraps exactly one of these,
// so the caller can classify it with errors.Is.
var (
	// ErrProtocol is calling iterator methods out of order, or reading past exhaustion
	ErrProtocol = errors.New("protocol violation")
	// ErrStorage is truncated file, out-of-range page, or cache failures
	ErrStorage = errors.New("storage error")
	// ErrConfiguration is invalid operator configuration detected at the point of use
	ErrConfiguration = errors.New("configuration error")
)

// protocol violations shared by every iterator
var (
	ErrNotOpen        = errors.WithMessage(ErrProtocol, "iterator is not open")
	ErrAlreadyOpen    = errors.WithMessage(ErrProtocol, "iterator is already open")
	ErrNoMoreElements = errors.WithMessage(ErrProtocol, "no more elements")
)
