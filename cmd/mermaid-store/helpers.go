// Shared helpers for mermaid-store commands.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	headerColor = color.New(color.Bold)
	nameColor   = color.New(color.FgCyan)
	dimColor    = color.New(color.Faint)
)

// parseID parses a positive integer id argument.
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, userError{fmt.Errorf("invalid %s id %q", kind, arg)}
	}
	return id, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// column is one table column. A nil color prints cells plain.
type column struct {
	title string
	color *color.Color
}

// table aligns rows on plain-text widths and colors each cell on its own,
// so escape sequences never count toward column widths.
type table struct {
	w    io.Writer
	cols []column
	rows [][]string
}

func newTable(w io.Writer, cols ...column) *table {
	return &table{w: w, cols: cols}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) flush() error {
	widths := make([]int, len(t.cols))
	for i, c := range t.cols {
		widths[i] = utf8.RuneCountInString(c.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	header := make([]string, len(t.cols))
	for i, c := range t.cols {
		header[i] = c.title
	}
	if err := t.writeRow(header, widths, func(int) *color.Color { return headerColor }); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := t.writeRow(row, widths, func(i int) *color.Color { return t.cols[i].color }); err != nil {
			return err
		}
	}
	return nil
}

func (t *table) writeRow(cells []string, widths []int, colorOf func(int) *color.Color) error {
	var b strings.Builder
	for i, cell := range cells {
		if c := colorOf(i); c != nil {
			b.WriteString(c.Sprint(cell))
		} else {
			b.WriteString(cell)
		}
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)+2))
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(t.w, b.String())
	return err
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format(time.DateTime)
}

// readContent returns diagram source from --content or --file. A file
// named "-" reads the command's stdin. Cobra guarantees exactly one of the
// two flags is set.
func readContent(cmd *cobra.Command, content, file string) (string, error) {
	if cmd.Flags().Changed("content") {
		return content, nil
	}
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", userError{fmt.Errorf("read diagram source: %w", err)}
	}
	return string(data), nil
}
