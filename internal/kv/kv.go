// Package kv provides the single-key string storage trips are persisted to.
//
// Three backends exist: FileStore (one JSON object file), SQLStore (SQLite
// through modernc.org/sqlite) and MemoryStore (tests and dry runs).
package kv

import (
	"context"
	"fmt"
)

// Store is a flat key-value store. Get reports ok=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Open builds the backend selected by name. filePath is used by the file
// backend and sqlitePath by the sqlite backend.
func Open(backend Backend, filePath, sqlitePath string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(filePath)
	case BackendSQLite:
		return OpenSQLite(sqlitePath)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown kv backend: %s", backend)
	}
}
