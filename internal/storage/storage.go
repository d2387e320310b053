// Package storage provides the local key-value stores TaskFlow persists to.
//
// A Store behaves like a browser's local storage: string keys mapping to
// opaque values. Writes that must land together go through SetMany, which
// every backend applies atomically.
package storage

import (
	"fmt"
)

// Well-known keys.
const (
	KeyTasks          = "tasks"
	KeyTimeLogs       = "timeLogs"
	KeySelectedTaskID = "currentSelectedTaskId"
	KeyNote           = "blockquote"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is a local key-value store with a single writer.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) ([]byte, bool, error)
	// SetMany writes all entries as one unit.
	SetMany(entries map[string][]byte) error
	// Delete removes the keys. Missing keys are ignored.
	Delete(keys ...string) error
	Close() error
}

// Set writes a single key.
func Set(s Store, key string, value []byte) error {
	return s.SetMany(map[string][]byte{key: value})
}

// Open opens the store for the named backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
