package trace

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/funnyzak/rinktap/internal/config"
	"github.com/funnyzak/rinktap/internal/dispatch"
	"github.com/funnyzak/rinktap/internal/logger"
)

const sqliteDriverName = "sqlite"

type sqliteStore struct {
	db  *sql.DB
	cfg *config.TraceConfig
	log logger.Logger
}

func newSQLiteStore(cfg *config.TraceConfig, log logger.Logger) (Store, error) {
	path := cfg.Path
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("prepare sqlite directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.ToSlash(absPath))
	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %s: %w", stmt, err)
		}
	}

	store := &sqliteStore{db: db, cfg: cfg, log: log}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *sqliteStore) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS attempts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp_ns INTEGER NOT NULL,
    target TEXT NOT NULL,
    path TEXT,
    family TEXT,
    relay_index INTEGER NOT NULL,
    relay_base TEXT,
    kind TEXT NOT NULL,
    status_code INTEGER,
    error TEXT,
    duration_ms INTEGER
);
CREATE INDEX IF NOT EXISTS idx_attempts_ts ON attempts(timestamp_ns DESC);
CREATE INDEX IF NOT EXISTS idx_attempts_kind_ts ON attempts(kind, timestamp_ns DESC);
`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one attempt and prunes old rows in the same
// transaction.
func (s *sqliteStore) Record(a dispatch.Attempt) error {
	ctx := context.Background()
	ts := a.Timestamp.UTC()
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	insertSQL := `INSERT INTO attempts (
        timestamp_ns, target, path, family, relay_index, relay_base,
        kind, status_code, error, duration_ms
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, insertSQL,
		ts.UnixNano(),
		a.Target,
		a.Path,
		a.Family,
		a.RelayIndex,
		a.RelayBase,
		a.Kind,
		a.StatusCode,
		a.Error,
		a.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	if err = s.prune(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *sqliteStore) prune(ctx context.Context, tx *sql.Tx) error {
	if s.cfg.Retention > 0 {
		cutoff := time.Now().Add(-s.cfg.Retention).UTC().UnixNano()
		if _, err := tx.ExecContext(ctx, "DELETE FROM attempts WHERE timestamp_ns < ?", cutoff); err != nil {
			return fmt.Errorf("prune by retention: %w", err)
		}
	}
	if s.cfg.MaxRecords > 0 {
		deleteSQL := `DELETE FROM attempts WHERE id NOT IN (
            SELECT id FROM attempts ORDER BY timestamp_ns DESC, id DESC LIMIT ?
        )`
		if _, err := tx.ExecContext(ctx, deleteSQL, s.cfg.MaxRecords); err != nil {
			return fmt.Errorf("prune by count: %w", err)
		}
	}
	return nil
}

// List returns attempts newest first, plus the total matching count.
func (s *sqliteStore) List(opts ListOptions) ([]*StoredAttempt, int, error) {
	ctx := context.Background()

	var conds []string
	var args []interface{}
	if opts.Target != "" {
		conds = append(conds, "target LIKE ?")
		args = append(args, "%"+opts.Target+"%")
	}
	if opts.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, opts.Kind)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attempts"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count attempts: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	querySQL := `SELECT id, timestamp_ns, target, path, family, relay_index,
        relay_base, kind, status_code, error, duration_ms
        FROM attempts` + where + ` ORDER BY timestamp_ns DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var result []*StoredAttempt
	for rows.Next() {
		var (
			stored     StoredAttempt
			tsNano     int64
			durationMs int64
		)
		if err := rows.Scan(
			&stored.ID,
			&tsNano,
			&stored.Target,
			&stored.Path,
			&stored.Family,
			&stored.RelayIndex,
			&stored.RelayBase,
			&stored.Kind,
			&stored.StatusCode,
			&stored.Error,
			&durationMs,
		); err != nil {
			return nil, 0, fmt.Errorf("scan attempt: %w", err)
		}
		stored.Timestamp = time.Unix(0, tsNano).UTC()
		stored.Duration = time.Duration(durationMs) * time.Millisecond
		result = append(result, &stored)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
