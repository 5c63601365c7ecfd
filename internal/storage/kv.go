package storage

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotFound is returned by KV.Get when a key has never been set.
var ErrNotFound = errors.New("storage: not found")

// KV is the opaque key-value service the chat state is persisted to.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
	BackendMemory = "memory"
)

// Open returns the KV backend named by backend, rooted in dataDir.
func Open(backend, dataDir string) (KV, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(filepath.Join(dataDir, "duet.db"))
	case BackendPebble:
		return OpenPebble(filepath.Join(dataDir, "pebble"))
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
