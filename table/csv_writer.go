package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/transform"
)

// WriteFile writes header and rows to path as a delimited file with no
// row-index column. The file appears at path only once fully written.
func WriteFile(path string, header []string, rows [][]string, opts Options) error {
	c, err := resolveCodec(opts.Encoding)
	if err != nil {
		return err
	}

	out, err := CreateAtomic(path)
	if err != nil {
		return err
	}
	defer out.Abort()

	var w io.Writer = out
	var encoder io.WriteCloser
	if !c.isUTF8() {
		encoder = transform.NewWriter(out, c.enc.NewEncoder())
		w = encoder
	}
	bw := bufio.NewWriterSize(w, 64*1024)

	cw := csv.NewWriter(bw)
	cw.Comma = opts.comma()
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header to %s: %w", path, err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d to %s: %w", i+1, path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if encoder != nil {
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encode %s as %s: %w", path, c.name, err)
		}
	}

	return out.Commit()
}
