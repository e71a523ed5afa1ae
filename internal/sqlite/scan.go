// This file holds row mapping and error translation shared by the
// collection and diagram operations.

package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

// timeLayout is fixed width so that lexical order of stored timestamps
// matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Column lists. Order must match the Scan calls below.
const (
	collectionColumns = "id, name, description, created_at, updated_at"
	diagramColumns    = "id, collection_id, name, content, created_at, updated_at"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// fallbackLayouts cover databases created with DATETIME columns filled by
// CURRENT_TIMESTAMP, which the driver may hand back as RFC 3339.
var fallbackLayouts = []string{time.RFC3339Nano, time.DateTime}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if t, err2 := time.Parse(layout, s); err2 == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

func scanCollection(row rowScanner) (*types.Collection, error) {
	var c types.Collection
	var description sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.Name, &description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		c.Description = &description.String
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing collection created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing collection updated_at: %w", err)
	}
	return &c, nil
}

func scanDiagram(row rowScanner) (*types.Diagram, error) {
	var d types.Diagram
	var createdAt, updatedAt string
	if err := row.Scan(&d.ID, &d.CollectionID, &d.Name, &d.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing diagram created_at: %w", err)
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing diagram updated_at: %w", err)
	}
	return &d, nil
}

// nullString maps an optional description to a nullable column value.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// validateName rejects blank names.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return types.ErrInvalidName
	}
	return nil
}

// translateError marks SQLite constraint failures with types.ErrConstraint,
// keeping the engine message.
func translateError(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %s", types.ErrConstraint, se.Error())
	}
	return err
}
