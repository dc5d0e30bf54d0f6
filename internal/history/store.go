// Package history records jsveil runs and their per-file outcomes in a
// SQLite database so past runs can be listed and reported on.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/jsveil/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrRunNotFound is returned when no recorded run matches an ID.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun is returned when an ID prefix matches more than one run.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

// Store manages the SQLite database of recorded runs
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath and applies
// pending migrations. ":memory:" gives a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// busy_timeout must come first so the rest wait on locks
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores a run and all of its file results in one transaction.
func (s *Store) RecordRun(ctx context.Context, run *models.RunResult) error {
	if run == nil || run.ID == "" {
		return errors.New("record run: missing run id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, root, preset, status, discovered, excluded, processed, bytes_saved, started_at, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Root,
		run.Preset,
		run.Status,
		run.Discovered,
		run.Excluded,
		run.Processed,
		run.BytesSaved(),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Duration.Milliseconds(),
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_files
		(run_id, position, path, rel_path, original_size, transformed_size, delta, original_hash, transformed_hash, duration_ms, written, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range run.Files {
		errMsg := ""
		if f.Error != nil {
			errMsg = f.Error.Error()
		}
		_, err := stmt.ExecContext(ctx,
			run.ID, i, f.Path, f.RelPath, f.OriginalSize, f.TransformedSize, f.Delta,
			f.OriginalHash, f.TransformedHash, f.Duration.Milliseconds(), f.Written, errMsg,
		)
		if err != nil {
			return fmt.Errorf("insert file %s: %w", f.RelPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, root, preset, status, discovered, excluded, processed, started_at, duration_ms, error`

// ListRuns returns recorded runs newest first, without file results.
// A limit of 0 or less returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*models.RunResult, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RunResult
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run with its file results in selection order. id may
// be a unique prefix of the full run ID.
func (s *Store) GetRun(ctx context.Context, id string) (*models.RunResult, error) {
	if id == "" {
		return nil, ErrRunNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id = ? DESC LIMIT 2`,
		id, escapeLike(id)+"%", id)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	var matches []*models.RunResult
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run: %w", err)
	}

	var run *models.RunResult
	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case len(matches) == 1:
		run = matches[0]
	default:
		for _, m := range matches {
			if m.ID == id {
				run = m
			}
		}
		if run == nil {
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, id)
		}
	}

	files, err := s.getFiles(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Files = files
	return run, nil
}

func (s *Store) getFiles(ctx context.Context, runID string) ([]models.FileResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, rel_path, original_size, transformed_size, delta,
		original_hash, transformed_hash, duration_ms, written, error
		FROM run_files WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var files []models.FileResult
	for rows.Next() {
		var (
			f          models.FileResult
			durationMs int64
			errMsg     sql.NullString
		)
		if err := rows.Scan(&f.Path, &f.RelPath, &f.OriginalSize, &f.TransformedSize, &f.Delta,
			&f.OriginalHash, &f.TransformedHash, &durationMs, &f.Written, &errMsg); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		f.Duration = time.Duration(durationMs) * time.Millisecond
		if errMsg.Valid && errMsg.String != "" {
			f.Error = errors.New(errMsg.String)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.RunResult, error) {
	var (
		run        models.RunResult
		startedAt  string
		durationMs int64
		preset     sql.NullString
		errMsg     sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Root, &preset, &run.Status, &run.Discovered, &run.Excluded,
		&run.Processed, &startedAt, &durationMs, &errMsg); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at for run %s: %w", run.ID, err)
	}
	run.StartedAt = ts
	run.Duration = time.Duration(durationMs) * time.Millisecond
	run.Preset = preset.String
	run.Error = errMsg.String
	return &run, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
