// Package sqlite implements the SQLite storage backend for the diagram store.
// This file holds the schema DDL.
package sqlite

// Schema DDL. Every statement is create-if-absent so Open can run it against
// an existing database file.
const (
	createCollections = `CREATE TABLE IF NOT EXISTS collections (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createDiagrams = `CREATE TABLE IF NOT EXISTS diagrams (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    collection_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (collection_id) REFERENCES collections(id) ON DELETE CASCADE
);`
)

// Index DDL for per-collection listing.
const (
	idxDiagramsCollection = `CREATE INDEX IF NOT EXISTS idx_diagrams_collection ON diagrams(collection_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createCollections,
	createDiagrams,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxDiagramsCollection,
}
