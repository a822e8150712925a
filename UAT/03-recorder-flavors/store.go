// Package store is a small key-value contract used to exercise every recorder flavor.
package store

import (
	"errors"
	"time"
)

// Store keeps byte values under string keys.
type Store interface {
	Put(key string, val []byte) error
	Get(key string) ([]byte, bool)
	Expire(key string, ttl time.Duration) error
	Log(format string, args ...any)
	Reset()
	Close() error
}

// ErrMissing is returned by Touch when the key is absent.
var ErrMissing = errors.New("missing key")

// Touch rewrites the value under key with a fresh expiry.
func Touch(s Store, key string, ttl time.Duration) error {
	val, ok := s.Get(key)
	if !ok {
		s.Log("touch %s: missing", key)

		return ErrMissing
	}

	err := s.Put(key, val)
	if err != nil {
		return err
	}

	s.Log("touch %s: %d bytes, %s", key, len(val), ttl)

	return s.Expire(key, ttl)
}
