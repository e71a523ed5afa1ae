// Package archive exports collections and their diagrams to a JSONL file and
// imports them back into a store.
//
// An archive starts with a header line followed by one line per collection
// and one line per diagram:
//
//	{"kind":"header","export_id":"0190...","exported_at":"...","format":1}
//	{"kind":"collection","id":1,"name":"Work","description":null,...}
//	{"kind":"diagram","id":4,"collection_id":1,"name":"flow1","content":"graph TD; A-->B",...}
//
// Records are written oldest first so that importing in file order keeps the
// relative newest-first order of listings.
package archive

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

// FormatVersion is the archive format written by Export.
const FormatVersion = 1

// Record kinds.
const (
	KindHeader     = "header"
	KindCollection = "collection"
	KindDiagram    = "diagram"
)

// ErrInvalidArchive is returned when an archive cannot be parsed or refers to
// collections it does not contain.
var ErrInvalidArchive = errors.New("invalid archive")

// Header is the first line of every archive.
type Header struct {
	Kind       string    `json:"kind"`
	ExportID   string    `json:"export_id"`
	ExportedAt time.Time `json:"exported_at"`
	Format     int       `json:"format"`
}

type collectionLine struct {
	Kind string `json:"kind"`
	types.Collection
}

type diagramLine struct {
	Kind string `json:"kind"`
	types.Diagram
}

// Summary reports what an export or import covered.
type Summary struct {
	ExportID    string `json:"export_id"`
	Collections int    `json:"collections"`
	Diagrams    int    `json:"diagrams"`
}

// Options selects what Export writes.
type Options struct {
	// CollectionID limits the export to one collection. Zero exports all.
	CollectionID int64
	// Now overrides the header timestamp.
	Now func() time.Time
}

// Export writes an archive of store to w.
func Export(store types.Store, w io.Writer, opts Options) (Summary, error) {
	collections, err := selectCollections(store, opts.CollectionID)
	if err != nil {
		return Summary{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Summary{}, fmt.Errorf("generating export id: %w", err)
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	sum := Summary{ExportID: id.String()}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	header := Header{Kind: KindHeader, ExportID: sum.ExportID, ExportedAt: now().UTC(), Format: FormatVersion}
	if err := enc.Encode(header); err != nil {
		return Summary{}, fmt.Errorf("writing header: %w", err)
	}

	// Listings are newest first; archives are oldest first.
	slices.Reverse(collections)
	for _, c := range collections {
		if err := enc.Encode(collectionLine{Kind: KindCollection, Collection: c}); err != nil {
			return Summary{}, fmt.Errorf("writing collection %d: %w", c.ID, err)
		}
		sum.Collections++

		diagrams, err := store.ListDiagramsByCollection(c.ID)
		if err != nil {
			return Summary{}, err
		}
		slices.Reverse(diagrams)
		for _, d := range diagrams {
			if err := enc.Encode(diagramLine{Kind: KindDiagram, Diagram: d}); err != nil {
				return Summary{}, fmt.Errorf("writing diagram %d: %w", d.ID, err)
			}
			sum.Diagrams++
		}
	}
	return sum, nil
}

// ExportFile writes an archive to path. The file is replaced atomically, so
// a failed export never leaves a truncated archive behind.
func ExportFile(store types.Store, path string, opts Options) (Summary, error) {
	var buf bytes.Buffer
	sum, err := Export(store, &buf, opts)
	if err != nil {
		return Summary{}, err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return Summary{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return sum, nil
}

func selectCollections(store types.Store, id int64) ([]types.Collection, error) {
	if id == 0 {
		return store.ListCollections()
	}
	c, err := store.GetCollection(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("export collection %d: %w", id, types.ErrNotFound)
	}
	return []types.Collection{*c}, nil
}

// parsed holds a validated archive ready to apply.
type parsed struct {
	header      Header
	collections []types.Collection
	diagrams    []types.Diagram
}

// Import reads an archive from r and recreates its collections and diagrams
// in store. Imported rows get new ids and timestamps; diagrams are attached
// to the new id of their collection. The whole archive is validated before
// anything is written.
func Import(store types.Store, r io.Reader) (Summary, error) {
	p, err := parse(r)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{ExportID: p.header.ExportID}
	ids := make(map[int64]int64, len(p.collections))
	for _, c := range p.collections {
		created, err := store.CreateCollection(c.Name, c.Description)
		if err != nil {
			return sum, fmt.Errorf("import collection %q: %w", c.Name, err)
		}
		ids[c.ID] = created.ID
		sum.Collections++
	}
	for _, d := range p.diagrams {
		if _, err := store.CreateDiagram(ids[d.CollectionID], d.Name, d.Content); err != nil {
			return sum, fmt.Errorf("import diagram %q: %w", d.Name, err)
		}
		sum.Diagrams++
	}
	return sum, nil
}

func parse(r io.Reader) (*parsed, error) {
	p := &parsed{}
	known := map[int64]bool{}
	sawHeader := false

	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("reading line %d: %w", lineNo, readErr)
		}

		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			if err := p.parseLine(line, lineNo, &sawHeader, known); err != nil {
				return nil, err
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	if !sawHeader {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidArchive)
	}
	return p, nil
}

func (p *parsed) parseLine(line []byte, lineNo int, sawHeader *bool, known map[int64]bool) error {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrInvalidArchive, lineNo, err)
	}

	if !*sawHeader && probe.Kind != KindHeader {
		return fmt.Errorf("%w: line %d: expected header, got %q", ErrInvalidArchive, lineNo, probe.Kind)
	}

	switch probe.Kind {
	case KindHeader:
		if *sawHeader {
			return fmt.Errorf("%w: line %d: duplicate header", ErrInvalidArchive, lineNo)
		}
		if err := json.Unmarshal(line, &p.header); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidArchive, lineNo, err)
		}
		if p.header.Format != FormatVersion {
			return fmt.Errorf("%w: line %d: unsupported format %d", ErrInvalidArchive, lineNo, p.header.Format)
		}
		*sawHeader = true
	case KindCollection:
		var cl collectionLine
		if err := json.Unmarshal(line, &cl); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidArchive, lineNo, err)
		}
		if strings.TrimSpace(cl.Name) == "" {
			return fmt.Errorf("%w: line %d: collection %d has no name", ErrInvalidArchive, lineNo, cl.ID)
		}
		if known[cl.ID] {
			return fmt.Errorf("%w: line %d: duplicate collection id %d", ErrInvalidArchive, lineNo, cl.ID)
		}
		known[cl.ID] = true
		p.collections = append(p.collections, cl.Collection)
	case KindDiagram:
		var dl diagramLine
		if err := json.Unmarshal(line, &dl); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidArchive, lineNo, err)
		}
		if strings.TrimSpace(dl.Name) == "" {
			return fmt.Errorf("%w: line %d: diagram %d has no name", ErrInvalidArchive, lineNo, dl.ID)
		}
		if !known[dl.CollectionID] {
			return fmt.Errorf("%w: line %d: diagram %q refers to collection %d not in archive",
				ErrInvalidArchive, lineNo, dl.Name, dl.CollectionID)
		}
		p.diagrams = append(p.diagrams, dl.Diagram)
	default:
		return fmt.Errorf("%w: line %d: unknown kind %q", ErrInvalidArchive, lineNo, probe.Kind)
	}
	return nil
}
