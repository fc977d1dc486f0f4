package validation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/mmrzaf/mrdatagen/internal/registry"
)

type Validator struct {
	genRegistry *registry.GeneratorRegistry
}

func NewValidator(genRegistry *registry.GeneratorRegistry) *Validator {
	return &Validator{genRegistry: genRegistry}
}

// identifier validation: allow simple SQL identifiers only (prevents injection via table/column names).
var (
	identRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reservedWords = map[string]struct{}{
		"add": {}, "all": {}, "alter": {}, "and": {}, "any": {}, "as": {},
		"asc": {}, "between": {}, "by": {}, "case": {}, "check": {},
		"column": {}, "constraint": {}, "create": {}, "cross": {}, "current_date": {},
		"current_time": {}, "current_timestamp": {}, "database": {}, "default": {}, "delete": {},
		"desc": {}, "distinct": {}, "do": {}, "drop": {}, "else": {},
		"end": {}, "except": {}, "exists": {}, "false": {}, "for": {},
		"foreign": {}, "from": {}, "full": {}, "grant": {}, "group": {},
		"having": {}, "in": {}, "index": {}, "inner": {}, "insert": {},
		"intersect": {}, "into": {}, "is": {}, "join": {}, "key": {},
		"left": {}, "like": {}, "limit": {}, "natural": {}, "not": {},
		"null": {}, "offset": {}, "on": {}, "or": {}, "order": {},
		"outer": {}, "primary": {}, "references": {}, "returning": {}, "revoke": {},
		"right": {}, "schema": {}, "select": {}, "set": {}, "table": {},
		"then": {}, "to": {}, "true": {}, "truncate": {}, "union": {},
		"unique": {}, "update": {}, "user": {}, "using": {}, "values": {},
		"view": {}, "when": {}, "where": {}, "with": {},
	}
)

func IsValidIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !identRe.MatchString(s) {
		return false
	}
	if _, ok := reservedWords[strings.ToLower(s)]; ok {
		return false
	}
	return true
}

// ValidateSchema runs the required-field checks on a schema whose defaults
// have already been applied. It stops at the first problem.
func (v *Validator) ValidateSchema(schema *domain.Schema) error {
	if len(schema.Columns) == 0 {
		return fmt.Errorf("%w: schema must have at least one column", domain.ErrConfiguration)
	}
	if schema.ColumnDelimiter == "" {
		return fmt.Errorf("%w: columnDelimiter cannot be empty", domain.ErrConfiguration)
	}
	if schema.RowCap() < 0 {
		return fmt.Errorf("%w: maxRowCount must be >= 0, got %d", domain.ErrConfiguration, schema.RowCap())
	}
	if size := schema.TargetSize(); size < 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return fmt.Errorf("%w: tentativeFileSize must be a finite number >= 0, got %v", domain.ErrConfiguration, size)
	}

	columnNames := make(map[string]bool)
	for _, col := range schema.Columns {
		if err := v.validateColumn(&col, columnNames); err != nil {
			return err
		}
	}

	if err := v.ValidateTarget(schema); err != nil {
		return fmt.Errorf("target validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateColumn(col *domain.Column, columnNames map[string]bool) error {
	if strings.TrimSpace(col.Name) == "" {
		return fmt.Errorf("%w: column name is required", domain.ErrConfiguration)
	}
	if columnNames[col.Name] {
		return fmt.Errorf("%w: duplicate column name: %s", domain.ErrConfiguration, col.Name)
	}
	columnNames[col.Name] = true

	if col.Type == "" {
		return fmt.Errorf("%w: column '%s': type is required", domain.ErrConfiguration, col.Name)
	}
	colType := col.ColumnType()
	if v.genRegistry != nil && !v.genRegistry.Has(colType) {
		return fmt.Errorf("%w: selected column type (%s) for column '%s' is not supported", domain.ErrConfiguration, col.Type, col.Name)
	}

	if col.IsIdentity() && col.IsForEach() {
		return fmt.Errorf("%w: column '%s' cannot be both idColumn and forEach", domain.ErrConfiguration, col.Name)
	}
	if col.IsForEach() && !colType.SupportsDimension() {
		return fmt.Errorf("%w: column '%s': forEach is only supported for choice and lookup columns, got %s", domain.ErrConfiguration, col.Name, col.Type)
	}

	switch colType {
	case domain.ColumnTypeInteger, domain.ColumnTypeDecimal:
		if col.MinValue != nil && col.MaxValue != nil && *col.MaxValue < *col.MinValue {
			return fmt.Errorf("%w: column '%s': maxValue (%v) is lower than minValue (%v)", domain.ErrConfiguration, col.Name, *col.MaxValue, *col.MinValue)
		}
	case domain.ColumnTypeString:
		if col.Length != nil && *col.Length < 0 {
			return fmt.Errorf("%w: column '%s': length must be >= 0, got %d", domain.ErrConfiguration, col.Name, *col.Length)
		}
	case domain.ColumnTypeChoice:
		if len(col.Choices) == 0 {
			return fmt.Errorf("%w: column '%s': choice requires a non-empty 'choices' list", domain.ErrConfiguration, col.Name)
		}
	case domain.ColumnTypeLookup:
		return validateLookup(col)
	}
	return nil
}

func validateLookup(col *domain.Column) error {
	if col.LookupFile == "" || col.LookupCol == "" {
		return fmt.Errorf("%w: column '%s': it is mandatory to provide 'lookupFile' and 'lookupCol' for lookup columns", domain.ErrConfiguration, col.Name)
	}
	if col.LookupDelimiter != "" && utf8.RuneCountInString(col.LookupDelimiter) != 1 {
		return fmt.Errorf("%w: column '%s': lookupDelimiter must be a single character, got %q", domain.ErrConfiguration, col.Name, col.LookupDelimiter)
	}
	info, err := os.Stat(col.LookupFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: column '%s': lookup file %s is not available", domain.ErrResource, col.Name, col.LookupFile)
		}
		return fmt.Errorf("%w: column '%s': lookup file %s: %w", domain.ErrResource, col.Name, col.LookupFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: column '%s': lookup file %s is a directory", domain.ErrResource, col.Name, col.LookupFile)
	}
	return nil
}

func (v *Validator) ValidateTarget(schema *domain.Schema) error {
	t := schema.Target
	if t == nil || t.Kind == "" || t.Kind == domain.TargetKindFile {
		if strings.TrimSpace(schema.FilePathName) == "" {
			return fmt.Errorf("%w: filePathName is required", domain.ErrConfiguration)
		}
		return nil
	}

	switch t.Kind {
	case domain.TargetKindSQLite, domain.TargetKindPostgres:
		if t.DSN == "" {
			return fmt.Errorf("%w: %s target requires dsn", domain.ErrConfiguration, t.Kind)
		}
		if !IsValidIdentifier(t.Table) {
			return fmt.Errorf("%w: invalid target table identifier: %q", domain.ErrConfiguration, t.Table)
		}
		if t.Kind == domain.TargetKindPostgres {
			if t.Schema != "" && !IsValidIdentifier(t.Schema) {
				return fmt.Errorf("%w: invalid target schema identifier: %s", domain.ErrConfiguration, t.Schema)
			}
			if t.Database != "" && !IsValidIdentifier(t.Database) {
				return fmt.Errorf("%w: invalid target database identifier: %s", domain.ErrConfiguration, t.Database)
			}
		} else if t.Schema != "" || t.Database != "" {
			return fmt.Errorf("%w: sqlite targets must not set schema or database", domain.ErrConfiguration)
		}
		for _, col := range schema.Columns {
			if !IsValidIdentifier(col.Name) {
				return fmt.Errorf("%w: invalid column identifier for %s target: %s", domain.ErrConfiguration, t.Kind, col.Name)
			}
		}
	case domain.TargetKindElasticsearch:
		if strings.TrimSpace(t.Table) == "" {
			return fmt.Errorf("%w: elasticsearch target requires table (index name)", domain.ErrConfiguration)
		}
		if t.Schema != "" || t.Database != "" {
			return fmt.Errorf("%w: elasticsearch targets must not set schema or database", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unsupported target kind: %s", domain.ErrConfiguration, t.Kind)
	}
	return nil
}
