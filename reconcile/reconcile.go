// Package reconcile builds the special-material point value change history.
//
// A run loads three tables: the pricing format sheet (format_clean.csv), the
// device index (IndexSQL_find.csv) and the price/volume survey
// (價量調查品項108-112.csv). Survey rows whose item code prefix matches an
// index function category are kept, and each kept row is flagged when its
// pricing category also names an index entry that appears in the format
// sheet. The result is written as HistoryData.csv.
package reconcile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"pricehistory/ledger"
	"pricehistory/table"
)

// Run executes one reconciliation and returns the ledger, a status message
// and, on failure, a *MissingFileError, *SchemaError or *ProcessingError.
func Run(opts Options) (*ledger.Ledger, string, error) {
	loc := opts.Resolve()
	log := opts.logger()
	topts := table.Options{Encoding: opts.Encoding}

	// Headers are captured as each table loads so a later failure can
	// still report them.
	tables := make(map[TableID]*table.Table, len(tableOrder))
	loaded := make(map[TableID][]string, len(tableOrder))
	paths := make(map[TableID]string, len(tableOrder))
	fail := func(err error) error {
		return &ProcessingError{Err: err, Columns: loaded, Paths: paths}
	}

	for _, id := range tableOrder {
		path := loc.Path(id)
		paths[id] = path
		if err := checkReadable(path); err != nil {
			return nil, "", &MissingFileError{Table: id, Path: path, Dir: loc.DataDir, Err: err}
		}
		t, err := table.Load(path, string(id), topts)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				return nil, "", &MissingFileError{Table: id, Path: path, Dir: loc.DataDir, Err: err}
			}
			return nil, "", fail(fmt.Errorf("load %s: %w", id, err))
		}
		tables[id] = t
		loaded[id] = t.HeaderCopy()
		log.Debug().
			Str("table", string(id)).
			Str("path", path).
			Int("rows", t.Len()).
			Int("columns", len(t.Columns)).
			Msg("loaded table")
	}

	for _, id := range tableOrder {
		if missing := missingColumns(tables[id], requiredColumns[id]); len(missing) > 0 {
			return nil, "", &SchemaError{Table: id, Path: paths[id], Missing: missing}
		}
	}

	format, index, price := tables[FormatTable], tables[IndexTable], tables[PriceSurveyTable]

	matched := MatchedCategories(format, index)
	joined := JoinOnPrefix(price, index)
	log.Debug().
		Int("matched_categories", len(matched)).
		Int("joined_rows", len(joined)).
		Msg("joined survey to index")

	flags := make([]string, len(joined))
	for i := range flags {
		flags[i] = "0"
	}
	catIdx := price.Index(colPricingCategoryName.Header)
	for i, row := range joined {
		if _, ok := matched[normalizeKey(row[catIdx])]; ok {
			flags[i] = "1"
		}
	}

	srcIdx := make([]int, len(ledger.SourceColumns))
	var absent []string
	for i, col := range ledger.SourceColumns {
		srcIdx[i] = price.Index(col)
		if srcIdx[i] < 0 {
			absent = append(absent, col)
		}
	}
	if len(absent) > 0 {
		return nil, "", fail(fmt.Errorf("output columns not found in %s: [%s]",
			PriceSurveyTable, strings.Join(absent, ", ")))
	}

	records := make([]ledger.Record, len(joined))
	unset := 0
	for i, row := range joined {
		values := make([]string, len(srcIdx))
		for j, idx := range srcIdx {
			values[j] = row[idx]
		}
		flag, ok := parseFlag(flags[i])
		if !ok {
			unset++
		}
		records[i] = ledger.RecordFromValues(values, flag)
	}
	l := &ledger.Ledger{Records: records}

	var msg strings.Builder
	if unset > 0 {
		log.Warn().
			Int("rows", unset).
			Str("column", ledger.ColChangeFlag).
			Msg("change flag had empty values, filled with 0")
		fmt.Fprintf(&msg, "warning: %s had %d empty values, filled with 0\n", ledger.ColChangeFlag, unset)
	}

	if err := table.WriteFile(loc.OutputFile, l.Header(), l.Rows(), topts); err != nil {
		return nil, "", fail(fmt.Errorf("write output: %w", err))
	}

	log.Info().
		Int("records", l.Len()).
		Int("flagged", l.Flagged()).
		Str("output", loc.OutputFile).
		Msg("history data written")

	fmt.Fprintf(&msg, "processing complete: %d records\n", l.Len())
	fmt.Fprintf(&msg, "records with %s = 1: %d\n", ledger.ColChangeFlag, l.Flagged())
	fmt.Fprintf(&msg, "saved to: %s", loc.OutputFile)
	return l, msg.String(), nil
}

// Search is Run behind a failure boundary: every error, and any panic, is
// turned into a self-contained message with a nil ledger.
func Search(opts Options) (result *ledger.Ledger, msg string) {
	defer func() {
		if r := recover(); r != nil {
			opts.logger().Error().Interface("panic", r).Msg("history data search panicked")
			result, msg = nil, fmt.Sprintf("processing error: unexpected failure: %v", r)
		}
	}()

	l, msg, err := Run(opts)
	if err != nil {
		opts.logger().Error().Err(err).Msg("history data search failed")
		return nil, err.Error()
	}
	return l, msg
}

// MatchedCategories returns the distinct format-sheet pricing categories that
// also appear as an index name.
func MatchedCategories(format, index *table.Table) map[string]struct{} {
	names := make(map[string]struct{}, index.Len())
	for _, v := range index.Column(colName.Header) {
		if k := normalizeKey(v); k != "" {
			names[k] = struct{}{}
		}
	}

	matched := make(map[string]struct{})
	for _, v := range format.Column(colPricingCategory.Header) {
		k := normalizeKey(v)
		if _, ok := names[k]; ok && k != "" {
			matched[k] = struct{}{}
		}
	}
	return matched
}

// JoinOnPrefix inner-joins survey rows to index rows on
// ItemCodePrefix5 == FunctionCategoryPrefix5. A survey row is repeated once
// per matching index row, and survey order is kept. The returned rows share
// storage with price and must not be modified.
func JoinOnPrefix(price, index *table.Table) [][]string {
	matches := make(map[string]int, index.Len())
	for _, v := range index.Column(colFunctionCategoryPrefix5.Header) {
		if k := normalizeKey(v); k != "" {
			matches[k]++
		}
	}

	keyIdx := price.Index(colItemCodePrefix5.Header)
	if keyIdx < 0 {
		return nil
	}
	var joined [][]string
	for _, row := range price.Rows {
		n := matches[normalizeKey(row[keyIdx])]
		for i := 0; i < n; i++ {
			joined = append(joined, row)
		}
	}
	return joined
}

func missingColumns(t *table.Table, cols []Column) []Column {
	var missing []Column
	for _, c := range cols {
		if !t.Has(c.Header) {
			missing = append(missing, c)
		}
	}
	return missing
}

func normalizeKey(s string) string {
	return strings.TrimSpace(s)
}

// parseFlag reads a change flag cell. Anything other than 0 or 1 counts as
// unset and reads as 0.
func parseFlag(s string) (int32, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || (n != 0 && n != 1) {
		return 0, false
	}
	return int32(n), true
}

func checkReadable(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
