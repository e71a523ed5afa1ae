// Package sqlite provides the public API for the SQLite diagram store.
// This package exposes the factory function for opening a store while
// keeping implementation details internal.
package sqlite

import (
	"io"

	"github.com/mesh-intelligence/mermaid-ui/internal/sqlite"
	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

// Store is a types.Store that holds an open database file.
type Store interface {
	types.Store
	io.Closer
	// Path returns the database file path.
	Path() string
}

// Open opens (creating if needed) the store in cfg.DataDir.
//
// Example:
//
//	store, err := sqlite.Open(types.Config{DataDir: dir})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(cfg types.Config) (Store, error) {
	s, err := sqlite.Open(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
