package ledger

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func testRecords() []Record {
	return []Record{
		{
			Year:                "108",
			ItemCode:            "FBV0112345A1",
			ItemCodePrefix5:     "FBV01",
			PricingCategoryName: "人工血管",
			BilingualName:       "人工血管 VASCULAR GRAFT",
			ModelSpec:           "VG-10",
			Unit:                "EA",
			PaymentPoints:       "12000",
			Applicant:           "台灣醫材",
			LicenseNumber:       "衛部醫器輸字第000001號",
			ChineseName:         "人工血管",
			EnglishName:         "VASCULAR GRAFT",
			ChangeFlag:          1,
		},
		{
			Year:                "109",
			ItemCode:            "FBS0298765B2",
			ItemCodePrefix5:     "FBS02",
			PricingCategoryName: "支架",
			PaymentPoints:       "34500",
			ChangeFlag:          0,
		},
	}
}

// readParquet reads all Records from a parquet file.
func readParquet(t *testing.T, path string) []Record {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[Record](f)
	defer reader.Close()

	rows := make([]Record, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		t.Fatalf("read parquet: %v", err)
	}
	return rows[:n]
}

func TestParquetWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.parquet")
	records := testRecords()

	w, err := NewParquetWriter(path)
	if err != nil {
		t.Fatalf("NewParquetWriter: %v", err)
	}

	// Not visible until Close.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("destination exists before Close: %v", err)
	}

	if _, err := w.Write(records); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if w.Count() != 2 {
		t.Errorf("Count() = %d, want 2", w.Count())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := readParquet(t, path)
	if len(got) != len(records) {
		t.Fatalf("parquet has %d rows, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("row[%d] = %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestWriteParquetEmptyLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")

	if err := WriteParquet(path, &Ledger{}); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}
	if got := readParquet(t, path); len(got) != 0 {
		t.Errorf("expected 0 rows, got %d", len(got))
	}
}

func TestParquetWriterAbort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aborted.parquet")

	w, err := NewParquetWriter(path)
	if err != nil {
		t.Fatalf("NewParquetWriter: %v", err)
	}
	if _, err := w.Write(testRecords()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Abort()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir after Abort, found %d entries", len(entries))
	}
}
