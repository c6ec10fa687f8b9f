package reconcile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MissingFileError reports an input location that is not a readable file.
type MissingFileError struct {
	Table TableID
	Path  string
	// Dir is the data directory the inputs were expected in.
	Dir string
	Err error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("file not found: %s (%s): %v\nplease check that the file is in: %s",
		e.Path, e.Table, e.Err, e.Dir)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// SchemaError reports required columns absent from an input table.
type SchemaError struct {
	Table   TableID
	Path    string
	Missing []Column
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("column error: %s (%s) is missing columns: %s",
		e.Table, filepath.Base(e.Path), joinColumns(e.Missing))
}

// ProcessingError wraps any other failure during load, join or write.
// Columns holds the header of every input table that loaded before the
// failure, keyed by table.
type ProcessingError struct {
	Err     error
	Columns map[TableID][]string
	Paths   map[TableID]string
}

func (e *ProcessingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "processing error: %v", e.Err)
	if len(e.Columns) == 0 {
		return b.String()
	}
	b.WriteString("\ncolumns of loaded files:")
	for _, id := range tableOrder {
		cols, ok := e.Columns[id]
		if !ok {
			continue
		}
		name := string(id)
		if p := e.Paths[id]; p != "" {
			name = filepath.Base(p)
		}
		fmt.Fprintf(&b, "\n  %s columns: [%s]", name, strings.Join(cols, ", "))
	}
	return b.String()
}

func (e *ProcessingError) Unwrap() error { return e.Err }
