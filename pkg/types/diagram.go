package types

import (
	"strings"
	"time"
)

// Diagram is a named Mermaid source document belonging to one collection.
type Diagram struct {
	ID           int64     `json:"id"`
	CollectionID int64     `json:"collection_id"` // Immutable after creation.
	Name         string    `json:"name"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Kind returns the Mermaid diagram type declared on the first non-blank,
// non-comment line of the content (for example "graph" or "sequenceDiagram").
// Returns "" when the content declares nothing.
func (d *Diagram) Kind() string {
	for line := range strings.Lines(d.Content) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ';'
		})
		if len(fields) == 0 {
			continue
		}
		return fields[0]
	}
	return ""
}
