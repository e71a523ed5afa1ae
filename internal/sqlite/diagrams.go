package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

// ListDiagramsByCollection returns the diagrams of collectionID, newest
// first. The collection is not checked for existence; an unknown id yields
// an empty slice.
func (s *Store) ListDiagramsByCollection(collectionID int64) ([]types.Diagram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, types.ErrStoreClosed
	}

	rows, err := s.db.Query(
		"SELECT "+diagramColumns+" FROM diagrams WHERE collection_id = ? ORDER BY created_at DESC, id DESC",
		collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list diagrams of collection %d: %w", collectionID, err)
	}
	defer rows.Close()

	diagrams := []types.Diagram{}
	for rows.Next() {
		d, err := scanDiagram(rows)
		if err != nil {
			return nil, fmt.Errorf("list diagrams of collection %d: %w", collectionID, err)
		}
		diagrams = append(diagrams, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list diagrams of collection %d: %w", collectionID, err)
	}
	return diagrams, nil
}

// GetDiagram returns the diagram with the given id, or nil if there is none.
func (s *Store) GetDiagram(id int64) (*types.Diagram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, types.ErrStoreClosed
	}

	d, err := s.getDiagram(id)
	if err != nil {
		return nil, fmt.Errorf("get diagram %d: %w", id, err)
	}
	return d, nil
}

// CreateDiagram inserts a diagram under collectionID and returns the row
// read back from storage. A missing collection is rejected by the foreign
// key and reported as types.ErrConstraint.
func (s *Store) CreateDiagram(collectionID int64, name, content string) (*types.Diagram, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("create diagram: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, types.ErrStoreClosed
	}

	now := s.timestamp()
	res, err := s.db.Exec(
		"INSERT INTO diagrams (collection_id, name, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		collectionID, name, content, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create diagram in collection %d: %w", collectionID, translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create diagram: %w", err)
	}

	d, err := s.mustGetDiagram(id)
	if err != nil {
		return nil, fmt.Errorf("create diagram: %w", err)
	}
	s.logger.Debug("diagram created", "id", d.ID, "collection_id", collectionID, "bytes", len(content))
	return d, nil
}

// UpdateDiagram replaces the name and content of diagram id. The owning
// collection is left unchanged. Returns an error wrapping types.ErrNotFound
// if id does not exist.
func (s *Store) UpdateDiagram(id int64, name, content string) (*types.Diagram, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("update diagram %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, types.ErrStoreClosed
	}

	res, err := s.db.Exec(
		"UPDATE diagrams SET name = ?, content = ?, updated_at = ? WHERE id = ?",
		name, content, s.timestamp(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update diagram %d: %w", id, translateError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update diagram %d: %w", id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("update diagram %d: %w", id, types.ErrNotFound)
	}

	d, err := s.mustGetDiagram(id)
	if err != nil {
		return nil, fmt.Errorf("update diagram %d: %w", id, err)
	}
	s.logger.Debug("diagram updated", "id", id, "bytes", len(content))
	return d, nil
}

// DeleteDiagram removes diagram id. Reports whether a row was deleted.
func (s *Store) DeleteDiagram(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return false, types.ErrStoreClosed
	}

	res, err := s.db.Exec("DELETE FROM diagrams WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete diagram %d: %w", id, translateError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete diagram %d: %w", id, err)
	}
	if n > 0 {
		s.logger.Debug("diagram deleted", "id", id)
	}
	return n > 0, nil
}

// getDiagram loads one diagram. The caller must hold s.mu.
func (s *Store) getDiagram(id int64) (*types.Diagram, error) {
	row := s.db.QueryRow("SELECT "+diagramColumns+" FROM diagrams WHERE id = ?", id)
	d, err := scanDiagram(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// mustGetDiagram is getDiagram for rows that were just written.
// The caller must hold s.mu.
func (s *Store) mustGetDiagram(id int64) (*types.Diagram, error) {
	d, err := s.getDiagram(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, types.ErrNotFound
	}
	return d, nil
}
