// Package sqlite records finished runs in a local database. This is
// best-effort bookkeeping for the history listing, not crash-recovery
// state: nothing is read back during a run.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"

	"github.com/bnema/recode/internal/domain"
	"github.com/bnema/recode/internal/port"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA foreign_keys = ON",
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

func NewStore(dbPath string) (*Store, error) {
	registerHook()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite (WAL allows concurrent reads but only one writer)
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun writes the run row and its per-item results in one
// transaction.
func (s *Store) RecordRun(ctx context.Context, sum domain.RunSummary, results []domain.JobResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, target, started_at, finished_at, total, converted, failed, bytes_in, bytes_out)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.Root, string(sum.Target), sum.StartedAt, sum.FinishedAt,
		sum.Total, sum.Converted, sum.Failed, sum.BytesIn, sum.BytesOut,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, r := range results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_results (run_id, source_path, dest_path, success, error_message, elapsed_ms, original_bytes, new_bytes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sum.ID, r.SourcePath, r.DestPath, boolToInt(r.Success), r.ErrorMessage,
			r.Elapsed.Milliseconds(), r.OriginalBytes, r.NewBytes,
		)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, target, started_at, finished_at, total, converted, failed, bytes_in, bytes_out
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var sums []domain.RunSummary
	for rows.Next() {
		var sum domain.RunSummary
		var target string
		if err := rows.Scan(&sum.ID, &sum.Root, &target, &sum.StartedAt, &sum.FinishedAt,
			&sum.Total, &sum.Converted, &sum.Failed, &sum.BytesIn, &sum.BytesOut); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.Target = domain.Target(target)
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ port.HistoryStore = (*Store)(nil)
