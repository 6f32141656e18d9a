package cache

import (
	"encoding/json"
	"time"
)

// SetJSON marshals value and stores the raw encoding under key with the
// given TTL. On a marshal failure nothing is stored and the returned
// error is a *SerializationError wrapping the encoder's error.
func SetJSON[T any](c Cache[[]byte], key string, value T, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return &SerializationError{Op: "marshal", Key: key, Err: err}
	}
	c.Set(key, b, ttl)
	return nil
}

// GetJSON fetches the encoding stored under key and unmarshals it into
// out. Lookup errors (ErrNotFound, ErrExpired) pass through untouched;
// a decode failure is reported as a *SerializationError and leaves the
// stored entry in place.
func GetJSON[T any](c Cache[[]byte], key string, out *T) error {
	b, err := c.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &SerializationError{Op: "unmarshal", Key: key, Err: err}
	}
	return nil
}
