package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/mrdatagen/internal/domain"
)

// SQLiteTarget loads rows into one table. The table is created when missing
// and cleared before the first batch, so a run replaces earlier output.
type SQLiteTarget struct {
	path    string
	table   string
	db      *sql.DB
	columns []string
}

func NewSQLiteTarget(path, table string) *SQLiteTarget {
	return &SQLiteTarget{path: path, table: table}
}

func (t *SQLiteTarget) Connect() error {
	db, err := sql.Open("sqlite3", t.path)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}
	t.db = db
	return nil
}

func (t *SQLiteTarget) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

func (t *SQLiteTarget) WriteHeader(columns []domain.Column) error {
	t.columns = make([]string, len(columns))
	for i, col := range columns {
		t.columns[i] = col.Name
	}
	if err := t.createTableIfNotExists(columns); err != nil {
		return fmt.Errorf("create table %s: %w", t.table, err)
	}
	if _, err := t.db.Exec(fmt.Sprintf("DELETE FROM %s", t.table)); err != nil {
		return fmt.Errorf("clear table %s: %w", t.table, err)
	}
	return nil
}

func (t *SQLiteTarget) createTableIfNotExists(columns []domain.Column) error {
	query := `SELECT name FROM sqlite_master WHERE type='table' AND name=?`
	var name string
	err := t.db.QueryRow(query, t.table).Scan(&name)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	columnDefs := make([]string, len(columns))
	for i, col := range columns {
		columnDefs[i] = fmt.Sprintf("%s %s", col.Name, mapColumnType(col.ColumnType()))
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", t.table, strings.Join(columnDefs, ", "))
	_, err = t.db.Exec(createSQL)
	return err
}

func mapColumnType(colType domain.ColumnType) string {
	switch colType {
	case domain.ColumnTypeInteger:
		return "INTEGER"
	case domain.ColumnTypeDecimal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func (t *SQLiteTarget) InsertBatch(rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := t.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = "?"
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.table, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "))

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]interface{}, len(t.columns))
	for _, row := range rows {
		if len(row) != len(t.columns) {
			return fmt.Errorf("row has %d fields, table %s has %d columns", len(row), t.table, len(t.columns))
		}
		for i, val := range row {
			args[i] = val
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
