package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/mmrzaf/mrdatagen/internal/domain"
)

// maxParams is the bind parameter limit of the postgres wire protocol.
const maxParams = 65535

type PostgresTarget struct {
	dsn     string
	schema  string
	table   string
	db      *sql.DB
	columns []string
}

func NewPostgresTarget(dsn, schema, table string) *PostgresTarget {
	if schema == "" {
		schema = "public"
	}
	return &PostgresTarget{
		dsn:    dsn,
		schema: schema,
		table:  table,
	}
}

func (t *PostgresTarget) Connect() error {
	db, err := sql.Open("postgres", t.dsn)
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

func (t *PostgresTarget) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

func (t *PostgresTarget) WriteHeader(columns []domain.Column) error {
	t.columns = make([]string, len(columns))
	for i, col := range columns {
		t.columns[i] = col.Name
	}
	if err := t.createTableIfNotExists(columns); err != nil {
		return fmt.Errorf("create table %s.%s: %w", t.schema, t.table, err)
	}
	if _, err := t.db.Exec(fmt.Sprintf("TRUNCATE TABLE %s.%s", t.schema, t.table)); err != nil {
		return fmt.Errorf("truncate %s.%s: %w", t.schema, t.table, err)
	}
	return nil
}

func (t *PostgresTarget) createTableIfNotExists(columns []domain.Column) error {
	var exists bool
	query := `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = $1 AND table_name = $2
	)`
	if err := t.db.QueryRow(query, t.schema, t.table).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s.%s (%s)", t.schema, t.table, columnDefs(columns))
	_, err := t.db.Exec(createSQL)
	return err
}

func columnDefs(columns []domain.Column) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s %s", col.Name, mapColumnType(col.ColumnType()))
	}
	return strings.Join(defs, ", ")
}

func mapColumnType(colType domain.ColumnType) string {
	switch colType {
	case domain.ColumnTypeInteger:
		return "BIGINT"
	case domain.ColumnTypeDecimal:
		return "NUMERIC"
	case domain.ColumnTypeUUID:
		return "UUID"
	default:
		return "TEXT"
	}
}

// InsertBatch writes rows with multi-row INSERT statements, splitting the
// batch when it would exceed the bind parameter limit.
func (t *PostgresTarget) InsertBatch(rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}
	for _, chunk := range chunkRows(rows, len(t.columns)) {
		query, args, err := t.insertStatement(chunk)
		if err != nil {
			return err
		}
		if _, err := t.db.Exec(query, args...); err != nil {
			return err
		}
	}
	return nil
}

func (t *PostgresTarget) insertStatement(rows []domain.Row) (string, []interface{}, error) {
	placeholders := make([]string, len(rows))
	args := make([]interface{}, 0, len(rows)*len(t.columns))

	for i, row := range rows {
		if len(row) != len(t.columns) {
			return "", nil, fmt.Errorf("row has %d fields, table %s has %d columns", len(row), t.table, len(t.columns))
		}
		rowPlaceholders := make([]string, len(t.columns))
		for j, val := range row {
			rowPlaceholders[j] = fmt.Sprintf("$%d", i*len(t.columns)+j+1)
			args = append(args, val)
		}
		placeholders[i] = "(" + strings.Join(rowPlaceholders, ", ") + ")"
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES %s",
		t.schema, t.table, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "))
	return insertSQL, args, nil
}

func chunkRows(rows []domain.Row, width int) [][]domain.Row {
	per := len(rows)
	if width > 0 && per*width > maxParams {
		per = maxParams / width
	}
	if per < 1 {
		per = 1
	}
	chunks := make([][]domain.Row, 0, (len(rows)+per-1)/per)
	for start := 0; start < len(rows); start += per {
		end := min(start+per, len(rows))
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}
