package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite archive backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the connection pool size.
	// Default: 10
	MaxOpenConns int

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage is the durable archive backend.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStorage opens the database, enables WAL mode, and creates the
// schema if needed.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL",
		config.Path, config.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "open", Cause: err}
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStorage{
		db:     db,
		logger: slog.Default().With("component", "audit.sqlite"),
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StorageError{Backend: "sqlite", Operation: "init schema", Cause: err}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		db.Close()
		return nil, &StorageError{Backend: "sqlite", Operation: "set schema version", Cause: err}
	}

	s.logger.Info("audit archive opened", "path", config.Path)
	return s, nil
}

// Store persists one record.
func (s *SQLiteStorage) Store(ctx context.Context, record *Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO traces (
			id, status, input_prompt, input_draft, final_output,
			rounds_used, blocked_by, best_effort, law_version,
			critiques_json, delta, started_at, completed_at, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Status, record.InputPrompt, record.InputDraft, record.FinalOutput,
		record.RoundsUsed, record.BlockedBy, record.BestEffort, record.LawVersion,
		record.CritiquesJSON, record.Delta,
		record.StartedAt.UTC(), record.CompletedAt.UTC(), record.RecordedAt.UTC(),
	)
	if err != nil {
		return &StorageError{Backend: "sqlite", Operation: "store", Cause: err}
	}
	return nil
}

// Query returns matching records, newest CompletedAt first.
func (s *SQLiteStorage) Query(ctx context.Context, query *Query) ([]*Record, error) {
	var (
		clauses []string
		args    []any
	)
	if query == nil {
		query = &Query{}
	}
	if query.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, query.Status)
	}
	if !query.From.IsZero() {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, query.From.UTC())
	}
	if !query.To.IsZero() {
		clauses = append(clauses, "completed_at <= ?")
		args = append(args, query.To.UTC())
	}

	q := `SELECT id, status, input_prompt, input_draft, final_output,
		rounds_used, blocked_by, best_effort, law_version,
		critiques_json, delta, started_at, completed_at, recorded_at
		FROM traces`
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY completed_at DESC"
	if query.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, query.Limit)
		if query.Offset > 0 {
			q += " OFFSET ?"
			args = append(args, query.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "query", Cause: err}
	}
	defer rows.Close()

	var results []*Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.ID, &r.Status, &r.InputPrompt, &r.InputDraft, &r.FinalOutput,
			&r.RoundsUsed, &r.BlockedBy, &r.BestEffort, &r.LawVersion,
			&r.CritiquesJSON, &r.Delta, &r.StartedAt, &r.CompletedAt, &r.RecordedAt,
		); err != nil {
			return nil, &StorageError{Backend: "sqlite", Operation: "scan", Cause: err}
		}
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "query", Cause: err}
	}
	return results, nil
}

// Prune deletes records completed before the cutoff.
func (s *SQLiteStorage) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM traces WHERE completed_at < ?", cutoff.UTC())
	if err != nil {
		return 0, &StorageError{Backend: "sqlite", Operation: "prune", Cause: err}
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, &StorageError{Backend: "sqlite", Operation: "prune", Cause: err}
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
