// Package table holds small delimited-text tables fully in memory.
//
// Tables are read once, never mutated after Load, and addressed by header
// name. They are sized for reference spreadsheets (tens of thousands of
// rows), not for streaming.
package table

import (
	"strconv"
	"strings"
)

// Table is an ordered collection of rows sharing one header.
type Table struct {
	// Name identifies the table in error messages (usually the file name).
	Name    string
	Columns []string
	Rows    [][]string

	colIdx map[string]int
}

// New builds a Table from a header and rows. Rows shorter than the header
// are padded with empty cells.
func New(name string, columns []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Columns: mangleHeader(columns),
		Rows:    rows,
	}
	t.buildIndex()
	for i, row := range t.Rows {
		t.Rows[i] = pad(row, len(t.Columns))
	}
	return t
}

func (t *Table) buildIndex() {
	t.colIdx = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.colIdx[c] = i
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Has reports whether the header contains col.
func (t *Table) Has(col string) bool {
	_, ok := t.colIdx[col]
	return ok
}

// Index returns the position of col in the header, or -1.
func (t *Table) Index(col string) int {
	if i, ok := t.colIdx[col]; ok {
		return i
	}
	return -1
}

// Missing returns the subset of cols absent from the header, in the order
// they were asked for.
func (t *Table) Missing(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Value returns the cell of row under col, or "" if col is unknown.
func (t *Table) Value(row []string, col string) string {
	if i, ok := t.colIdx[col]; ok && i < len(row) {
		return row[i]
	}
	return ""
}

// Column returns every value of col in row order.
func (t *Table) Column(col string) []string {
	i := t.Index(col)
	if i < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// HeaderCopy returns a copy of the column names, safe to retain after the
// table is discarded.
func (t *Table) HeaderCopy() []string {
	return append([]string(nil), t.Columns...)
}

// mangleHeader trims header cells and renames repeated names to
// "name.1", "name.2", ... so every column stays addressable.
func mangleHeader(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[strings.TrimSpace(h)] = true
	}
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if !used[h] {
			used[h] = true
			out[i] = h
			continue
		}
		for {
			suffix[h]++
			name := h + "." + strconv.Itoa(suffix[h])
			if !used[name] && !taken[name] {
				used[name] = true
				out[i] = name
				break
			}
		}
	}
	return out
}

func pad(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	padded := make([]string, n)
	copy(padded, row)
	return padded
}
