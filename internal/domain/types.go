package domain

import (
	"encoding/json"
	"strings"
	"time"
)

type Schema struct {
	Name              string        `json:"name,omitempty" yaml:"name,omitempty"`
	Columns           []Column      `json:"columns" yaml:"columns"`
	ColumnDelimiter   string        `json:"columnDelimiter,omitempty" yaml:"columnDelimiter,omitempty"`
	FilePathName      string        `json:"filePathName,omitempty" yaml:"filePathName,omitempty"`
	MaxRowCount       *int64        `json:"maxRowCount,omitempty" yaml:"maxRowCount,omitempty"`
	TentativeFileSize *float64      `json:"tentativeFileSize,omitempty" yaml:"tentativeFileSize,omitempty"`
	Seed              *int64        `json:"seed,omitempty" yaml:"seed,omitempty"`
	Target            *TargetConfig `json:"target,omitempty" yaml:"target,omitempty"`
}

type Column struct {
	Name            string        `json:"name" yaml:"name"`
	Type            string        `json:"type" yaml:"type"`
	IDColumn        Flag          `json:"idColumn,omitempty" yaml:"idColumn,omitempty"`
	ForEach         Flag          `json:"forEach,omitempty" yaml:"forEach,omitempty"`
	MinValue        *float64      `json:"minValue,omitempty" yaml:"minValue,omitempty"`
	MaxValue        *float64      `json:"maxValue,omitempty" yaml:"maxValue,omitempty"`
	Length          *int          `json:"length,omitempty" yaml:"length,omitempty"`
	Choices         []interface{} `json:"choices,omitempty" yaml:"choices,omitempty"`
	LookupFile      string        `json:"lookupFile,omitempty" yaml:"lookupFile,omitempty"`
	LookupCol       string        `json:"lookupCol,omitempty" yaml:"lookupCol,omitempty"`
	LookupDelimiter string        `json:"lookupDelimiter,omitempty" yaml:"lookupDelimiter,omitempty"`
	FakerKind       string        `json:"fakerKind,omitempty" yaml:"fakerKind,omitempty"`
}

// Flag is a Y/N switch as written in schema files.
type Flag string

const (
	FlagYes Flag = "Y"
	FlagNo  Flag = "N"
)

func (f Flag) Enabled() bool {
	return strings.EqualFold(strings.TrimSpace(string(f)), string(FlagYes))
}

func (c Column) IsIdentity() bool { return c.IDColumn.Enabled() }

func (c Column) IsForEach() bool { return c.ForEach.Enabled() }

func (c Column) ColumnType() ColumnType { return ParseColumnType(c.Type) }

type ColumnType string

const (
	ColumnTypeInteger ColumnType = "integer"
	ColumnTypeDecimal ColumnType = "decimal"
	ColumnTypeString  ColumnType = "string"
	ColumnTypeChoice  ColumnType = "choice"
	ColumnTypeLookup  ColumnType = "lookup"
	ColumnTypeFaker   ColumnType = "faker"
	ColumnTypeUUID    ColumnType = "uuid"
)

// ParseColumnType normalizes a schema type tag. Unknown tags are returned
// as-is (lower-cased) and rejected by the registry.
func ParseColumnType(s string) ColumnType {
	return ColumnType(strings.ToLower(strings.TrimSpace(s)))
}

// SupportsDimension reports whether a column of this type can be marked for-each.
func (t ColumnType) SupportsDimension() bool {
	return t == ColumnTypeChoice || t == ColumnTypeLookup
}

const (
	DefaultColumnDelimiter   = ","
	DefaultLookupDelimiter   = "|"
	DefaultMaxRowCount       = int64(100)
	DefaultTentativeFileSize = 1.0
	DefaultStringLength      = 10
)

// ApplyDefaults fills the optional top-level and column fields. An explicit
// zero maxRowCount or tentativeFileSize is kept and yields a header-only
// output.
func (s *Schema) ApplyDefaults() {
	if s.ColumnDelimiter == "" {
		s.ColumnDelimiter = DefaultColumnDelimiter
	}
	if s.MaxRowCount == nil {
		n := DefaultMaxRowCount
		s.MaxRowCount = &n
	}
	if s.TentativeFileSize == nil {
		v := DefaultTentativeFileSize
		s.TentativeFileSize = &v
	}
	if s.Target == nil {
		s.Target = &TargetConfig{}
	}
	if s.Target.Kind == "" {
		s.Target.Kind = TargetKindFile
	}
	for i := range s.Columns {
		if s.Columns[i].ColumnType() == ColumnTypeLookup && s.Columns[i].LookupDelimiter == "" {
			s.Columns[i].LookupDelimiter = DefaultLookupDelimiter
		}
	}
}

// RowCap is the configured maxRowCount, or its default when unset.
func (s *Schema) RowCap() int64 {
	if s.MaxRowCount == nil {
		return DefaultMaxRowCount
	}
	return *s.MaxRowCount
}

// TargetSize is the configured tentativeFileSize, or its default when unset.
func (s *Schema) TargetSize() float64 {
	if s.TentativeFileSize == nil {
		return DefaultTentativeFileSize
	}
	return *s.TentativeFileSize
}

const (
	TargetKindFile          = "file"
	TargetKindSQLite        = "sqlite"
	TargetKindPostgres      = "postgres"
	TargetKindElasticsearch = "elasticsearch"
)

type TargetConfig struct {
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty"`
	DSN      string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Table    string `json:"table,omitempty" yaml:"table,omitempty"`
	Schema   string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
}

// Row is one output record, fields in header order.
type Row []string

// Line renders the row the way the file writer does: fields joined by the
// delimiter and terminated by a newline.
func (r Row) Line(delimiter string) string {
	return strings.Join(r, delimiter) + "\n"
}

type Run struct {
	ID          string          `json:"id"`
	SchemaPath  string          `json:"schema_path"`
	SchemaName  string          `json:"schema_name"`
	TargetKind  string          `json:"target_kind"`
	Output      string          `json:"output"`
	Seed        int64           `json:"seed"`
	ConfigHash  string          `json:"config_hash"`
	Status      RunStatus       `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Stats       json.RawMessage `json:"stats,omitempty"`
	Error       string          `json:"error,omitempty"`
}

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

type RunStats struct {
	RowsPlanned     int64   `json:"rows_planned"`
	RowsWritten     int64   `json:"rows_written"`
	Combinations    int     `json:"combinations,omitempty"`
	RowsPerCombo    int64   `json:"rows_per_combination,omitempty"`
	SampleBytes     int64   `json:"sample_bytes"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type GenerateRequest struct {
	SchemaPath  string
	Schema      *Schema
	Seed        *int64
	OutputPath  string
	MaxRowCount *int64
}
