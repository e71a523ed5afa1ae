package types

import "errors"

// Store defines the persistence operations exposed to the host application.
// Every method is a self-contained unit of work; implementations serialize
// calls so that a write and its read-back are never interleaved with another
// caller.
type Store interface {
	// ListCollections returns every collection, newest first.
	ListCollections() ([]Collection, error)

	// GetCollection returns the collection with the given ID, or nil if no
	// such collection exists. Absence is not an error.
	GetCollection(id int64) (*Collection, error)

	// CreateCollection inserts a collection and returns it as persisted.
	// A blank name returns ErrInvalidName.
	CreateCollection(name string, description *string) (*Collection, error)

	// UpdateCollection replaces name and description of an existing
	// collection. Returns an error wrapping ErrNotFound if id does not exist,
	// or ErrInvalidName for a blank name.
	UpdateCollection(id int64, name string, description *string) (*Collection, error)

	// DeleteCollection removes the collection and all of its diagrams.
	// Reports whether a row was deleted.
	DeleteCollection(id int64) (bool, error)

	// ListDiagramsByCollection returns the diagrams of a collection, newest
	// first. An unknown collection yields an empty slice.
	ListDiagramsByCollection(collectionID int64) ([]Diagram, error)

	// GetDiagram returns the diagram with the given ID, or nil if absent.
	GetDiagram(id int64) (*Diagram, error)

	// CreateDiagram inserts a diagram under collectionID and returns it as
	// persisted. Returns an error wrapping ErrConstraint if the collection
	// does not exist, or ErrInvalidName for a blank name. Empty content is
	// allowed.
	CreateDiagram(collectionID int64, name, content string) (*Diagram, error)

	// UpdateDiagram replaces name and content of an existing diagram. The
	// owning collection cannot be changed. Returns an error wrapping
	// ErrNotFound if id does not exist, or ErrInvalidName for a blank name.
	UpdateDiagram(id int64, name, content string) (*Diagram, error)

	// DeleteDiagram removes the diagram. Reports whether a row was deleted.
	DeleteDiagram(id int64) (bool, error)
}

// Store operation errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrInvalidName = errors.New("name must not be empty")
	ErrConstraint  = errors.New("constraint violation")
	ErrStoreClosed = errors.New("store is closed")
)
