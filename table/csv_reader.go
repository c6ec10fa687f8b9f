package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// ErrNoColumns is returned when a file has no header row.
var ErrNoColumns = errors.New("no columns to parse from file")

// Load reads the delimited file at path into memory.
//
// The first non-blank line is the header. Short rows are padded with empty
// cells; rows with more fields than the header are rejected. When the file
// does not exist the returned error satisfies errors.Is(err, fs.ErrNotExist).
func Load(path, name string, opts Options) (*Table, error) {
	c, err := resolveCodec(opts.Encoding)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var src io.Reader = file
	if !c.isUTF8() {
		src = transform.NewReader(file, c.enc.NewDecoder())
	}
	bufReader := bufio.NewReaderSize(src, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.Comma = opts.comma()
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read header of %s: %w", path, ErrNoColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	if c.isUTF8() {
		if err := checkUTF8(header); err != nil {
			return nil, fmt.Errorf("read header of %s: %w", path, err)
		}
	}

	t := &Table{Name: name, Columns: mangleHeader(header)}
	t.buildIndex()

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line, _ := reader.FieldPos(0)

		if len(row) > len(t.Columns) {
			return nil, fmt.Errorf("read %s: malformed row at line %d: expected %d fields, saw %d",
				path, line, len(t.Columns), len(row))
		}
		if c.isUTF8() {
			if err := checkUTF8(row); err != nil {
				return nil, fmt.Errorf("read %s: line %d: %w", path, line, err)
			}
		}
		t.Rows = append(t.Rows, pad(row, len(t.Columns)))
	}

	return t, nil
}

func checkUTF8(fields []string) error {
	for i, f := range fields {
		if !utf8.ValidString(f) {
			return fmt.Errorf("invalid utf-8 in field %d (wrong encoding?)", i+1)
		}
	}
	return nil
}
