// Tests for collection operations.
package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestCreateCollection_ReadBack(t *testing.T) {
	tests := []struct {
		name        string
		colName     string
		description *string
	}{
		{"with description", "Work", strPtr("team diagrams")},
		{"without description", "Scratch", nil},
		{"empty description", "Blank desc", strPtr("")},
		{"unicode name", "Diagrammes élégants ✓", strPtr("ünïcödé")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := openTestStore(t)

			created, err := s.CreateCollection(tt.colName, tt.description)
			require.NoError(t, err)
			assert.NotZero(t, created.ID)
			assert.Equal(t, tt.colName, created.Name)
			assert.Equal(t, tt.description, created.Description)
			assert.True(t, created.CreatedAt.Equal(created.UpdatedAt), "created_at != updated_at")

			got, err := s.GetCollection(created.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, created, got)
		})
	}
}

func TestCreateCollection_InvalidName(t *testing.T) {
	s, _ := openTestStore(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := s.CreateCollection(name, nil)
		assert.ErrorIs(t, err, types.ErrInvalidName, "name %q", name)
	}
	assert.Equal(t, 1, rawCount(t, s.db, "collections"))
}

func TestGetCollection_Absent(t *testing.T) {
	s, _ := openTestStore(t)

	got, err := s.GetCollection(9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateCollection(t *testing.T) {
	clock := newFakeClock()
	s, _ := openTestStore(t, WithClock(clock.Now))

	created, err := s.CreateCollection("Draft", strPtr("first"))
	require.NoError(t, err)

	updated, err := s.UpdateCollection(created.ID, "Final", strPtr("second"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Final", updated.Name)
	assert.Equal(t, strPtr("second"), updated.Description)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "created_at changed")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updated_at not advanced")

	got, err := s.GetCollection(created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdateCollection_ClearsDescription(t *testing.T) {
	s, _ := openTestStore(t)

	created, err := s.CreateCollection("Work", strPtr("to be removed"))
	require.NoError(t, err)

	updated, err := s.UpdateCollection(created.ID, "Work", nil)
	require.NoError(t, err)
	assert.Nil(t, updated.Description, "update is a full replace, not a patch")
}

func TestUpdateCollection_RealClockNeverGoesBack(t *testing.T) {
	s, _ := openTestStore(t)

	created, err := s.CreateCollection("Work", nil)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	updated, err := s.UpdateCollection(created.ID, "Work 2", nil)
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateCollection_Errors(t *testing.T) {
	s, _ := openTestStore(t)

	t.Run("nonexistent id", func(t *testing.T) {
		got, err := s.UpdateCollection(424242, "Ghost", nil)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Nil(t, got)
	})

	t.Run("blank name", func(t *testing.T) {
		created, err := s.CreateCollection("Named", nil)
		require.NoError(t, err)

		_, err = s.UpdateCollection(created.ID, " ", nil)
		assert.ErrorIs(t, err, types.ErrInvalidName)

		got, err := s.GetCollection(created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Named", got.Name)
	})
}

func TestDeleteCollection(t *testing.T) {
	s, _ := openTestStore(t)

	created, err := s.CreateCollection("Doomed", nil)
	require.NoError(t, err)

	deleted, err := s.DeleteCollection(created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := s.GetCollection(created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err = s.DeleteCollection(created.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete should report nothing deleted")
}

func TestDeleteCollection_Nonexistent(t *testing.T) {
	s, _ := openTestStore(t)

	deleted, err := s.DeleteCollection(31337)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteCollection_CascadesToDiagrams(t *testing.T) {
	s, _ := openTestStore(t)

	col, err := s.CreateCollection("Parent", nil)
	require.NoError(t, err)
	other, err := s.CreateCollection("Sibling", nil)
	require.NoError(t, err)

	const n = 5
	for range n {
		_, err := s.CreateDiagram(col.ID, "child", "graph TD; A-->B")
		require.NoError(t, err)
	}
	kept, err := s.CreateDiagram(other.ID, "kept", "graph LR; X-->Y")
	require.NoError(t, err)

	deleted, err := s.DeleteCollection(col.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	diagrams, err := s.ListDiagramsByCollection(col.ID)
	require.NoError(t, err)
	assert.Empty(t, diagrams)
	assert.Equal(t, 1, rawCount(t, s.db, "diagrams"))

	got, err := s.GetDiagram(kept.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "diagram of another collection was removed")
}

func TestListCollections_NewestFirst(t *testing.T) {
	clock := newFakeClock()
	s, _ := openTestStore(t, WithClock(clock.Now))

	var names []string
	for _, name := range []string{"first", "second", "third"} {
		_, err := s.CreateCollection(name, nil)
		require.NoError(t, err)
		names = append([]string{name}, names...)
	}
	names = append(names, types.DefaultCollectionName)

	collections, err := s.ListCollections()
	require.NoError(t, err)

	var got []string
	for _, c := range collections {
		got = append(got, c.Name)
	}
	assert.Equal(t, names, got)

	for i := 1; i < len(collections); i++ {
		assert.False(t, collections[i].CreatedAt.After(collections[i-1].CreatedAt))
	}
}

func TestListCollections_TiesBreakByID(t *testing.T) {
	frozen := time.Date(2026, 5, 5, 5, 5, 5, 0, time.UTC)
	s, _ := openTestStore(t, WithClock(func() time.Time { return frozen }))

	a, err := s.CreateCollection("a", nil)
	require.NoError(t, err)
	b, err := s.CreateCollection("b", nil)
	require.NoError(t, err)

	collections, err := s.ListCollections()
	require.NoError(t, err)
	require.Len(t, collections, 3)
	assert.Equal(t, b.ID, collections[0].ID)
	assert.Equal(t, a.ID, collections[1].ID)
}

func TestListCollections_Empty(t *testing.T) {
	s, _ := openTestStore(t)
	_, err := s.db.Exec("DELETE FROM collections")
	require.NoError(t, err)

	collections, err := s.ListCollections()
	require.NoError(t, err)
	assert.NotNil(t, collections)
	assert.Empty(t, collections)
}
