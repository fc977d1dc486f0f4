package exec

import (
	"io"
	"math/rand"
	"testing"

	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/mmrzaf/mrdatagen/internal/logging"
	"github.com/mmrzaf/mrdatagen/internal/registry"
)

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func compile(t *testing.T, schema *domain.Schema) *Plan {
	t.Helper()
	schema.ApplyDefaults()
	plan, err := NewCompiler(registry.DefaultGeneratorRegistry(), nil).Compile(schema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return plan
}

func testRNG() *rand.Rand { return rand.New(rand.NewSource(7)) }

func quietLogger() *logging.Logger { return logging.NewLoggerWithWriter("error", io.Discard) }

type memTarget struct {
	connected bool
	closed    bool
	header    []string
	rows      []domain.Row
	batches   int
}

func (m *memTarget) Connect() error { m.connected = true; return nil }
func (m *memTarget) Close() error   { m.closed = true; return nil }

func (m *memTarget) WriteHeader(columns []domain.Column) error {
	for _, c := range columns {
		m.header = append(m.header, c.Name)
	}
	return nil
}

func (m *memTarget) InsertBatch(rows []domain.Row) error {
	m.rows = append(m.rows, rows...)
	m.batches++
	return nil
}
