package ledger

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"pricehistory/table"
)

// ParquetWriter writes Records to a Parquet file for ad-hoc querying
// (DuckDB, pandas, Spark).
//
// The ledger is small and written once, so everything goes into a single
// row group. Zstd keeps the repeated category and applicant names compact.
// Nothing appears at the destination path until Close succeeds.
type ParquetWriter struct {
	file   *table.AtomicFile
	writer *parquet.GenericWriter[Record]
	count  int
}

// NewParquetWriter creates a Parquet writer for path.
func NewParquetWriter(path string) (*ParquetWriter, error) {
	file, err := table.CreateAtomic(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[Record](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("pricehistory", "1.0", ""),
	)

	return &ParquetWriter{
		file:   file,
		writer: writer,
	}, nil
}

// Write appends a batch of records.
func (w *ParquetWriter) Write(records []Record) (int, error) {
	n, err := w.writer.Write(records)
	w.count += n
	if err != nil {
		return n, fmt.Errorf("write parquet rows: %w", err)
	}
	return n, nil
}

// Close flushes the footer and publishes the file.
func (w *ParquetWriter) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Abort()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Commit()
}

// Abort discards everything written so far.
func (w *ParquetWriter) Abort() {
	w.file.Abort()
}

// Count returns the total number of rows written.
func (w *ParquetWriter) Count() int {
	return w.count
}

// WriteParquet exports a whole ledger to path.
func WriteParquet(path string, l *Ledger) error {
	w, err := NewParquetWriter(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(l.Records); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}
