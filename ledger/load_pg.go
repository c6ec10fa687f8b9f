package ledger

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sql/schema.sql
var schema string

// Source names the input files a ledger was built from. It is stored with
// every run so loaded rows can be traced back.
type Source struct {
	FormatFile string
	IndexFile  string
	PriceFile  string
}

// LoadStats describes one completed load.
type LoadStats struct {
	RunID   uuid.UUID
	Records int64
	Flagged int
}

var recordCopyCols = []string{
	"run_id", "seq", "year", "item_code", "item_code_prefix5",
	"pricing_category_name", "bilingual_name", "model_spec", "unit",
	"payment_points", "applicant", "license_number", "chinese_name",
	"english_name", "change_flag",
}

// LoadPostgres connects to connStr, ensures the schema exists and loads the
// ledger as a new run. The run and its records are committed together.
func LoadPostgres(ctx context.Context, connStr string, l *Ledger, src Source) (LoadStats, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return LoadStats{}, fmt.Errorf("parse connection: %w", err)
	}
	poolConfig.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return LoadStats{}, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return LoadStats{}, fmt.Errorf("ping: %w", err)
	}

	if err := InitSchema(ctx, pool); err != nil {
		return LoadStats{}, err
	}
	return LoadRun(ctx, pool, l, src)
}

// InitSchema creates the ledger tables if they do not exist.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// LoadRun inserts one ledger_runs row and bulk-copies the records under it.
func LoadRun(ctx context.Context, pool *pgxpool.Pool, l *Ledger, src Source) (LoadStats, error) {
	stats := LoadStats{RunID: uuid.New(), Flagged: l.Flagged()}
	runID := pgtype.UUID{Bytes: stats.RunID, Valid: true}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return LoadStats{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	_, err = tx.Exec(ctx,
		`INSERT INTO ledger_runs (run_id, format_file, index_file, price_file, record_count, flagged_count)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, src.FormatFile, src.IndexFile, src.PriceFile, int32(l.Len()), int32(stats.Flagged),
	)
	if err != nil {
		return LoadStats{}, fmt.Errorf("insert run: %w", err)
	}

	rows := make([][]interface{}, 0, l.Len())
	for i, r := range l.Records {
		rows = append(rows, []interface{}{
			runID, int32(i + 1), r.Year, r.ItemCode, r.ItemCodePrefix5,
			r.PricingCategoryName, r.BilingualName, r.ModelSpec, r.Unit,
			r.PaymentPoints, r.Applicant, r.LicenseNumber, r.ChineseName,
			r.EnglishName, int16(r.ChangeFlag),
		})
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"history_records"},
		recordCopyCols,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return LoadStats{}, fmt.Errorf("copy history_records: %w", err)
	}
	stats.Records = copied

	if err := tx.Commit(ctx); err != nil {
		return LoadStats{}, fmt.Errorf("commit: %w", err)
	}
	return stats, nil
}
