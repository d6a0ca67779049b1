package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/phuslu/log"
	_ "modernc.org/sqlite"

	"NewsSentinel/internal/model"
)

// SQLiteRecorder writes run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	logger *log.Logger
	mu     sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *log.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if logger != nil {
		logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id      TEXT PRIMARY KEY,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			policy      TEXT,
			status      TEXT,
			tickers     TEXT,
			row_count   INTEGER,
			records     INTEGER,
			malformed   INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS daily_sentiment (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			ticker    TEXT NOT NULL,
			date      TEXT NOT NULL,
			mean      REAL NOT NULL,
			headlines INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_ticker_date ON daily_sentiment(ticker, date)`,

		`CREATE TABLE IF NOT EXISTS ticker_failures (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			ticker TEXT NOT NULL,
			stage  TEXT,
			error  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_run ON ticker_failures(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run, its table cells and its ticker failures in one transaction.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var rows, records, malformed int
	var errText string
	if snap.Err != nil {
		errText = snap.Err.Error()
	}
	if res := snap.Result; res != nil {
		rows, records, malformed = res.RowCount, len(res.Records), len(res.Malformed)
	}

	_, err = tx.Exec(`INSERT INTO runs
		(run_id, started_at, finished_at, policy, status, tickers, row_count, records, malformed, error)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, snap.StartedAt.Unix(), snap.FinishedAt.Unix(), snap.Policy, snap.Status,
		joinTickers(snap.Tickers), rows, records, malformed, errText,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if res := snap.Result; res != nil {
		for _, e := range res.Table.Entries() {
			if _, err := tx.Exec(`INSERT INTO daily_sentiment
				(run_id, ticker, date, mean, headlines) VALUES (?,?,?,?,?)`,
				snap.RunID, string(e.Ticker), e.Date.String(), e.Mean, e.Count,
			); err != nil {
				return fmt.Errorf("insert daily sentiment: %w", err)
			}
		}
	}

	for _, f := range snap.failures() {
		if _, err := tx.Exec(`INSERT INTO ticker_failures
			(run_id, ticker, stage, error) VALUES (?,?,?,?)`,
			snap.RunID, string(f.Ticker), string(f.Stage), f.Err.Error(),
		); err != nil {
			return fmt.Errorf("insert ticker failure: %w", err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	if r.logger != nil {
		r.logger.Info().Msg("closing sqlite recorder")
	}
	return r.db.Close()
}

func joinTickers(tickers []model.Ticker) string {
	parts := make([]string, len(tickers))
	for i, t := range tickers {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
