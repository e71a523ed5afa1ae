package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

// ListCollections returns all collections, newest first. Ties on created_at
// are ordered by descending id.
func (s *Store) ListCollections() ([]types.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, types.ErrStoreClosed
	}

	rows, err := s.db.Query(
		"SELECT " + collectionColumns + " FROM collections ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	collections := []types.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}
		collections = append(collections, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return collections, nil
}

// GetCollection returns the collection with the given id, or nil if there is
// none.
func (s *Store) GetCollection(id int64) (*types.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, types.ErrStoreClosed
	}

	c, err := s.getCollection(id)
	if err != nil {
		return nil, fmt.Errorf("get collection %d: %w", id, err)
	}
	return c, nil
}

// CreateCollection inserts a collection and returns the row read back from
// storage.
func (s *Store) CreateCollection(name string, description *string) (*types.Collection, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, types.ErrStoreClosed
	}

	now := s.timestamp()
	res, err := s.db.Exec(
		"INSERT INTO collections (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)",
		name, nullString(description), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	c, err := s.mustGetCollection(id)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	s.logger.Debug("collection created", "id", c.ID, "name", c.Name)
	return c, nil
}

// UpdateCollection replaces the name and description of collection id.
// Returns an error wrapping types.ErrNotFound if id does not exist.
func (s *Store) UpdateCollection(id int64, name string, description *string) (*types.Collection, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("update collection %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, types.ErrStoreClosed
	}

	res, err := s.db.Exec(
		"UPDATE collections SET name = ?, description = ?, updated_at = ? WHERE id = ?",
		name, nullString(description), s.timestamp(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update collection %d: %w", id, translateError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update collection %d: %w", id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("update collection %d: %w", id, types.ErrNotFound)
	}

	c, err := s.mustGetCollection(id)
	if err != nil {
		return nil, fmt.Errorf("update collection %d: %w", id, err)
	}
	s.logger.Debug("collection updated", "id", id)
	return c, nil
}

// DeleteCollection removes collection id; the engine cascades the delete to
// its diagrams. Reports whether a row was deleted.
func (s *Store) DeleteCollection(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return false, types.ErrStoreClosed
	}

	res, err := s.db.Exec("DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete collection %d: %w", id, translateError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete collection %d: %w", id, err)
	}
	if n > 0 {
		s.logger.Debug("collection deleted", "id", id)
	}
	return n > 0, nil
}

// getCollection loads one collection. The caller must hold s.mu.
func (s *Store) getCollection(id int64) (*types.Collection, error) {
	row := s.db.QueryRow("SELECT "+collectionColumns+" FROM collections WHERE id = ?", id)
	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// mustGetCollection is getCollection for rows that were just written.
// The caller must hold s.mu.
func (s *Store) mustGetCollection(id int64) (*types.Collection, error) {
	c, err := s.getCollection(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, types.ErrNotFound
	}
	return c, nil
}
