// Package types defines the Store interface, the Collection and Diagram
// entity types, and the standard errors for the mermaid-ui diagram store.
//
// Collections are the top-level grouping; every Diagram belongs to exactly
// one Collection and is removed with it.
package types
