package cache

import (
	"errors"
	"strconv"
)

var (
	// ErrNotFound is returned by Get when the key has never been stored
	// or has since been removed.
	ErrNotFound = errors.New("cache: key not found")

	// ErrExpired is returned by Get when the key is present but its TTL
	// has lapsed. Observing it also triggers the global reap: callers
	// must not assume any other expired key still exists afterwards.
	ErrExpired = errors.New("cache: entry expired")
)

// SerializationError reports a failed encode in SetJSON or a failed
// decode in GetJSON. It never corresponds to a store mutation: a value
// that fails to encode is not stored, and a value that fails to decode
// stays in the store untouched.
type SerializationError struct {
	Op  string // "marshal" or "unmarshal"
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return "cache: " + e.Op + " " + strconv.Quote(e.Key) + ": " + e.Err.Error()
}

func (e *SerializationError) Unwrap() error { return e.Err }
