package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

type runConfigHashPayload struct {
	SchemaHash     string `json:"schema_hash"`
	TargetKind     string `json:"target_kind"`
	TargetTable    string `json:"target_table,omitempty"`
	TargetSchema   string `json:"target_schema,omitempty"`
	TargetDatabase string `json:"target_database,omitempty"`
	TargetDSN      string `json:"target_dsn,omitempty"`
	Output         string `json:"output,omitempty"`
	Seed           int64  `json:"seed"`
}

// HashRunConfig identifies a run: two runs with equal hashes produce the same
// rows in the same place.
func HashRunConfig(schema *domain.Schema, target *domain.TargetConfig, output string, seed int64) (string, error) {
	sh, err := HashSchema(schema)
	if err != nil {
		return "", err
	}

	p := runConfigHashPayload{
		SchemaHash: sh,
		Output:     output,
		Seed:       seed,
	}
	if target != nil {
		p.TargetKind = target.Kind
		p.TargetTable = target.Table
		p.TargetSchema = target.Schema
		p.TargetDatabase = target.Database
		p.TargetDSN = target.DSN
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
