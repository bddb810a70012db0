// Package kv defines the key-value storage abstraction behind conversation
// persistence.
//
// Business logic never touches the backing medium directly: it goes through
// Store so that tests can inject an in-memory fake and production can choose
// between the file-backed store and nothing at all.
package kv

import "errors"

var (
	// ErrUnavailable is returned when the backing medium cannot be used at all
	// (missing directory, permission failure, ...).
	ErrUnavailable = errors.New("kv: storage unavailable")

	// ErrInvalidKey is returned for keys the store refuses to persist.
	ErrInvalidKey = errors.New("kv: invalid key")
)

// Store is a synchronous string key-value store.
//
// Contract:
//   - Get returns (value, true, nil) on a hit and ("", false, nil) on a miss.
//   - Set overwrites unconditionally.
//   - Remove of a missing key is not an error.
//   - Keys returns all present keys in unspecified order.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
}
