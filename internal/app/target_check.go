package app

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/mmrzaf/mrdatagen/internal/exec"
	esTarget "github.com/mmrzaf/mrdatagen/internal/infra/targets/elasticsearch"
	fileTarget "github.com/mmrzaf/mrdatagen/internal/infra/targets/file"
	pgTarget "github.com/mmrzaf/mrdatagen/internal/infra/targets/postgres"
	sqliteTarget "github.com/mmrzaf/mrdatagen/internal/infra/targets/sqlite"
	"github.com/mmrzaf/mrdatagen/internal/validation"
)

type TargetCheck struct {
	Kind          string    `json:"kind"`
	Output        string    `json:"output"`
	OK            bool      `json:"ok"`
	LatencyMS     int64     `json:"latency_ms"`
	ServerVersion string    `json:"server_version,omitempty"`
	Error         string    `json:"error,omitempty"`
	CheckedAt     time.Time `json:"checked_at"`
}

// CheckTarget connects to the schema's target without writing any rows.
func CheckTarget(schema *domain.Schema) (*TargetCheck, error) {
	effective := resolveTargetForRun(schema.Target)
	check := &TargetCheck{
		Kind:      effective.Kind,
		Output:    describeOutput(schema, effective),
		CheckedAt: time.Now().UTC(),
	}

	// table and column identifiers validated here too
	val := validation.NewValidator(nil)
	if err := val.ValidateTarget(schema); err != nil {
		check.Error = err.Error()
		return check, err
	}

	start := time.Now()
	tgt, err := buildTarget(schema, effective)
	if err != nil {
		check.Error = err.Error()
		return check, err
	}
	if err := tgt.Connect(); err != nil {
		check.Error = err.Error()
		check.LatencyMS = time.Since(start).Milliseconds()
		return check, fmt.Errorf("%w: connect to %s target: %w", domain.ErrRuntime, effective.Kind, err)
	}
	defer tgt.Close()

	check.OK = true
	check.LatencyMS = time.Since(start).Milliseconds()
	if ver, verErr := serverVersion(effective, tgt); verErr == nil {
		check.ServerVersion = ver
	}
	return check, nil
}

func buildTarget(schema *domain.Schema, t *domain.TargetConfig) (exec.Target, error) {
	switch t.Kind {
	case domain.TargetKindFile:
		return fileTarget.NewFileTarget(schema.FilePathName, schema.ColumnDelimiter), nil
	case domain.TargetKindPostgres:
		return pgTarget.NewPostgresTarget(t.DSN, t.Schema, t.Table), nil
	case domain.TargetKindSQLite:
		return sqliteTarget.NewSQLiteTarget(t.DSN, t.Table), nil
	case domain.TargetKindElasticsearch:
		return esTarget.NewElasticsearchTarget(t.DSN, t.Table), nil
	default:
		return nil, fmt.Errorf("%w: unsupported target kind: %s", domain.ErrConfiguration, t.Kind)
	}
}

func serverVersion(t *domain.TargetConfig, tgt exec.Target) (string, error) {
	switch t.Kind {
	case domain.TargetKindPostgres:
		return queryServerVersion("postgres", t.DSN, "SHOW server_version")
	case domain.TargetKindSQLite:
		return queryServerVersion("sqlite3", t.DSN, "SELECT sqlite_version()")
	case domain.TargetKindElasticsearch:
		if es, ok := tgt.(*esTarget.ElasticsearchTarget); ok {
			return es.ServerVersion(), nil
		}
	}
	return "", nil
}

func queryServerVersion(driver, dsn, query string) (string, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return "", err
	}
	defer db.Close()
	var version string
	if err := db.QueryRow(query).Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}
