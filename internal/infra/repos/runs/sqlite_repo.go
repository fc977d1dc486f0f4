package runs

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/mrdatagen/internal/domain"
)

var ErrNotFound = errors.New("run not found")

type SQLiteRepository struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath}
}

func (r *SQLiteRepository) DB() *sql.DB { return r.db }

func (r *SQLiteRepository) Init() error {
	if dir := filepath.Dir(r.dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create runs db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return err
	}
	r.db = db

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		schema_path TEXT NOT NULL,
		schema_name TEXT NOT NULL,
		target_kind TEXT NOT NULL,
		output TEXT,
		seed INTEGER NOT NULL,
		config_hash TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		stats TEXT,
		error TEXT
	)`

	_, err = r.db.Exec(createTableSQL)
	return err
}

func (r *SQLiteRepository) Create(run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.UTC().Format(time.RFC3339Nano)
	}

	query := `
		INSERT INTO runs (
			id, schema_path, schema_name, target_kind, output,
			seed, config_hash, status, started_at, completed_at, stats, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		run.ID, run.SchemaPath, run.SchemaName, run.TargetKind, run.Output,
		run.Seed, run.ConfigHash, run.Status,
		run.StartedAt.UTC().Format(time.RFC3339Nano), completedAt,
		nullableStats(run), run.Error,
	)
	return err
}

func (r *SQLiteRepository) Update(run *domain.Run) error {
	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.UTC().Format(time.RFC3339Nano)
	}

	query := `
		UPDATE runs SET
			status = ?, completed_at = ?, stats = ?, error = ?
		WHERE id = ?
	`

	res, err := r.db.Exec(query, run.Status, completedAt, nullableStats(run), run.Error, run.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, run.ID)
	}
	return nil
}

const selectRun = `
	SELECT id, schema_path, schema_name, target_kind, output,
	       seed, config_hash, status, started_at, completed_at, stats, error
	FROM runs
`

func (r *SQLiteRepository) Get(id string) (*domain.Run, error) {
	run, err := scanRun(r.db.QueryRow(selectRun+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

func (r *SQLiteRepository) List(limit int, status string) ([]*domain.Run, error) {
	query := selectRun
	args := make([]interface{}, 0)
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}

	query += " ORDER BY started_at DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.Run, error) {
	var run domain.Run
	var startedAtStr string
	var output, completedAtStr, statsStr, errorStr sql.NullString

	err := s.Scan(
		&run.ID, &run.SchemaPath, &run.SchemaName, &run.TargetKind, &output,
		&run.Seed, &run.ConfigHash, &run.Status,
		&startedAtStr, &completedAtStr, &statsStr, &errorStr,
	)
	if err != nil {
		return nil, err
	}

	run.Output = output.String
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAtStr)
	if completedAtStr.Valid {
		t, _ := time.Parse(time.RFC3339Nano, completedAtStr.String)
		run.CompletedAt = &t
	}
	if statsStr.Valid && statsStr.String != "" {
		run.Stats = []byte(statsStr.String)
	}
	run.Error = errorStr.String

	return &run, nil
}

func nullableStats(run *domain.Run) interface{} {
	if len(run.Stats) == 0 {
		return nil
	}
	return string(run.Stats)
}
