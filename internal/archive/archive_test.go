package archive

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mermaid-ui/internal/sqlite"
	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(types.Config{DataDir: t.TempDir()},
		sqlite.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// snapshot flattens a store into comparable name/content pairs, newest
// first, ignoring ids and timestamps.
type snapCollection struct {
	Name        string
	Description string
	Diagrams    []snapDiagram
}

type snapDiagram struct {
	Name    string
	Content string
}

func snapshot(t *testing.T, store types.Store) []snapCollection {
	t.Helper()
	collections, err := store.ListCollections()
	require.NoError(t, err)

	var out []snapCollection
	for _, c := range collections {
		sc := snapCollection{Name: c.Name, Description: c.DescriptionOrEmpty()}
		diagrams, err := store.ListDiagramsByCollection(c.ID)
		require.NoError(t, err)
		for _, d := range diagrams {
			sc.Diagrams = append(sc.Diagrams, snapDiagram{Name: d.Name, Content: d.Content})
		}
		out = append(out, sc)
	}
	return out
}

func seed(t *testing.T, store types.Store) {
	t.Helper()
	desc := "team diagrams"
	work, err := store.CreateCollection("Work", &desc)
	require.NoError(t, err)
	_, err = store.CreateDiagram(work.ID, "flow1", "graph TD; A-->B")
	require.NoError(t, err)
	_, err = store.CreateDiagram(work.ID, "seq", "sequenceDiagram\n  Alice->>Bob: <hello> & bye")
	require.NoError(t, err)

	home, err := store.CreateCollection("Home", nil)
	require.NoError(t, err)
	_, err = store.CreateDiagram(home.ID, "garden", "graph LR; Seeds-->Plants")
	require.NoError(t, err)
}

func TestExport_Format(t *testing.T) {
	store := openStore(t)
	seed(t, store)

	fixed := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	sum, err := Export(store, &buf, Options{Now: func() time.Time { return fixed }})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Collections, "default + Work + Home")
	assert.Equal(t, 3, sum.Diagrams)

	raw := buf.String()
	var kinds []string
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		var probe map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &probe))
		kinds = append(kinds, probe["kind"].(string))
	}
	require.NoError(t, scanner.Err())

	want := []string{
		KindHeader,
		KindCollection, // Default Collection (oldest)
		KindCollection, KindDiagram, KindDiagram, // Work
		KindCollection, KindDiagram, // Home
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("record kinds mismatch (-want +got):\n%s", diff)
	}

	var header Header
	first, _, _ := strings.Cut(raw, "\n")
	require.NoError(t, json.Unmarshal([]byte(first), &header))
	assert.Equal(t, FormatVersion, header.Format)
	assert.True(t, fixed.Equal(header.ExportedAt))
	parsedID, err := uuid.Parse(header.ExportID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsedID.Version())
	assert.Equal(t, sum.ExportID, header.ExportID)
}

func TestExport_DoesNotEscapeHTML(t *testing.T) {
	store := openStore(t)
	seed(t, store)

	var buf bytes.Buffer
	_, err := Export(store, &buf, Options{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<hello> & bye")
}

func TestExport_SingleCollection(t *testing.T) {
	store := openStore(t)
	seed(t, store)

	collections, err := store.ListCollections()
	require.NoError(t, err)
	home := collections[0]
	require.Equal(t, "Home", home.Name)

	var buf bytes.Buffer
	sum, err := Export(store, &buf, Options{CollectionID: home.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Collections)
	assert.Equal(t, 1, sum.Diagrams)

	_, err = Export(store, &buf, Options{CollectionID: 9999})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRoundTrip(t *testing.T) {
	src := openStore(t)
	seed(t, src)

	path := filepath.Join(t.TempDir(), "backup.jsonl")
	exported, err := ExportFile(src, path, Options{})
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dst := openStore(t)
	// Drop the destination default so both stores hold the same set.
	dstCollections, err := dst.ListCollections()
	require.NoError(t, err)
	for _, c := range dstCollections {
		_, err := dst.DeleteCollection(c.ID)
		require.NoError(t, err)
	}

	imported, err := Import(dst, f)
	require.NoError(t, err)
	assert.Equal(t, exported, imported)

	if diff := cmp.Diff(snapshot(t, src), snapshot(t, dst)); diff != "" {
		t.Errorf("store contents differ after round trip (-src +dst):\n%s", diff)
	}
}

func TestImport_Invalid(t *testing.T) {
	header := `{"kind":"header","export_id":"x","exported_at":"2026-10-16T12:00:00Z","format":1}`

	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty", "", "missing header"},
		{"no header", `{"kind":"collection","id":1,"name":"A"}`, "expected header"},
		{"malformed json", header + "\n{not json", "line 2"},
		{"unknown kind", header + "\n" + `{"kind":"widget"}`, `unknown kind "widget"`},
		{"future format", strings.Replace(header, `"format":1`, `"format":2`, 1), "unsupported format 2"},
		{"duplicate header", header + "\n" + header, "duplicate header"},
		{
			"diagram before its collection",
			header + "\n" + `{"kind":"diagram","id":1,"collection_id":5,"name":"d","content":""}`,
			"collection 5 not in archive",
		},
		{
			"blank collection name",
			header + "\n" + `{"kind":"collection","id":1,"name":"  "}`,
			"has no name",
		},
		{
			"duplicate collection id",
			header + "\n" + `{"kind":"collection","id":1,"name":"A"}` + "\n" + `{"kind":"collection","id":1,"name":"B"}`,
			"duplicate collection id 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openStore(t)
			before := snapshot(t, store)

			_, err := Import(store, strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrInvalidArchive)
			assert.Contains(t, err.Error(), tt.wantMsg)

			if diff := cmp.Diff(before, snapshot(t, store)); diff != "" {
				t.Errorf("invalid archive modified the store:\n%s", diff)
			}
		})
	}
}

func TestImport_ToleratesBlankLinesAndMissingTrailingNewline(t *testing.T) {
	input := "\n" +
		`{"kind":"header","export_id":"x","exported_at":"2026-10-16T12:00:00Z","format":1}` + "\n\n" +
		`{"kind":"collection","id":10,"name":"Imported","description":"from elsewhere"}` + "\n" +
		`{"kind":"diagram","id":20,"collection_id":10,"name":"d","content":"graph TD; A-->B"}`

	store := openStore(t)
	sum, err := Import(store, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Summary{ExportID: "x", Collections: 1, Diagrams: 1}, sum)

	collections, err := store.ListCollections()
	require.NoError(t, err)
	require.Equal(t, "Imported", collections[0].Name)

	diagrams, err := store.ListDiagramsByCollection(collections[0].ID)
	require.NoError(t, err)
	require.Len(t, diagrams, 1)
	assert.Equal(t, "graph TD; A-->B", diagrams[0].Content)
}
