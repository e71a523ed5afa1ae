// This file implements default collection seeding on Open.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

// seedDefaultCollection inserts the default collection when the collections
// table is empty. It runs on every Open, so a database emptied between runs
// is seeded again. Reports whether a row was inserted.
func seedDefaultCollection(db *sql.DB, now string) (bool, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM collections").Scan(&count); err != nil {
		return false, fmt.Errorf("counting collections: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	_, err := db.Exec(
		"INSERT INTO collections (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)",
		types.DefaultCollectionName, types.DefaultCollectionDescription, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("inserting default collection: %w", err)
	}
	return true, nil
}
