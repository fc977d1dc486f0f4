package exec

import (
	"errors"
	"slices"
	"testing"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

func TestExecuteWithoutDimensions(t *testing.T) {
	schema := &domain.Schema{
		MaxRowCount: i64(4),
		Columns: []domain.Column{
			{Name: "id", Type: "Integer", IDColumn: "Y", MinValue: f64(0)},
			{Name: "grade", Type: "Choice", Choices: []interface{}{"A", "B"}},
		},
	}
	plan := compile(t, schema)
	target := &memTarget{}

	stats, err := NewExecutor(Estimator{TempDir: t.TempDir()}, quietLogger()).Execute(plan, schema, target, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !target.connected || !target.closed {
		t.Fatal("expected target to be connected and closed")
	}
	if !slices.Equal(target.header, []string{"id", "grade"}) {
		t.Fatalf("unexpected header: %v", target.header)
	}
	if len(target.rows) != 4 || stats.RowsWritten != 4 || stats.RowsPlanned != 4 {
		t.Fatalf("expected 4 rows, got %d (stats %+v)", len(target.rows), stats)
	}
	for i, row := range target.rows {
		if row[0] != []string{"0", "1", "2", "3"}[i] {
			t.Fatalf("row %d: unexpected identity %q", i, row[0])
		}
		if row[1] != "A" && row[1] != "B" {
			t.Fatalf("row %d: unexpected grade %q", i, row[1])
		}
	}
}

func TestExecuteWithDimension(t *testing.T) {
	schema := &domain.Schema{
		MaxRowCount: i64(4),
		Columns: []domain.Column{
			{Name: "grade", Type: "Choice", ForEach: "Y", Choices: []interface{}{"A", "B"}},
			{Name: "id", Type: "Integer", IDColumn: "Y", MinValue: f64(0)},
		},
	}
	plan := compile(t, schema)
	target := &memTarget{}

	stats, err := NewExecutor(Estimator{TempDir: t.TempDir()}, quietLogger()).Execute(plan, schema, target, 99)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Combinations != 2 || stats.RowsPerCombo != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !slices.Equal(target.header, []string{"grade", "id"}) {
		t.Fatalf("unexpected header: %v", target.header)
	}
	want := []domain.Row{{"A", "0"}, {"A", "1"}, {"B", "2"}, {"B", "3"}}
	if len(target.rows) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), target.rows)
	}
	for i := range want {
		if !slices.Equal(target.rows[i], want[i]) {
			t.Fatalf("row %d: expected %v, got %v", i, want[i], target.rows[i])
		}
	}
}

func TestExecuteBatchesLargeRuns(t *testing.T) {
	schema := &domain.Schema{
		MaxRowCount: i64(2500),
		Columns:     []domain.Column{{Name: "id", Type: "Integer", IDColumn: "Y"}},
	}
	plan := compile(t, schema)
	target := &memTarget{}
	if _, err := NewExecutor(Estimator{TempDir: t.TempDir()}, quietLogger()).Execute(plan, schema, target, 1); err != nil {
		t.Fatal(err)
	}
	if target.batches != 3 || len(target.rows) != 2500 {
		t.Fatalf("expected 2500 rows in 3 batches, got %d in %d", len(target.rows), target.batches)
	}
	if target.rows[2499][0] != "2499" {
		t.Fatalf("unexpected last identity: %v", target.rows[2499])
	}
}

func TestExecuteIsReproducibleForSeed(t *testing.T) {
	schema := &domain.Schema{
		MaxRowCount: i64(20),
		Columns: []domain.Column{
			{Name: "n", Type: "Integer"},
			{Name: "s", Type: "String"},
			{Name: "d", Type: "Decimal"},
		},
	}
	run := func() []domain.Row {
		target := &memTarget{}
		if _, err := NewExecutor(Estimator{TempDir: t.TempDir()}, quietLogger()).Execute(compile(t, schema), schema, target, 1234); err != nil {
			t.Fatal(err)
		}
		return target.rows
	}
	a, b := run(), run()
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			t.Fatalf("row %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

type failingTarget struct{ memTarget }

func (f *failingTarget) InsertBatch([]domain.Row) error { return errors.New("disk full") }

func TestExecuteWrapsTargetErrors(t *testing.T) {
	schema := &domain.Schema{MaxRowCount: i64(3), Columns: []domain.Column{{Name: "id", Type: "Integer", IDColumn: "Y"}}}
	target := &failingTarget{}
	_, err := NewExecutor(Estimator{TempDir: t.TempDir()}, quietLogger()).Execute(compile(t, schema), schema, target, 1)
	if !errors.Is(err, domain.ErrRuntime) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if !target.closed {
		t.Fatal("expected target to be closed on failure")
	}
}

func TestExecuteExplicitZeroWritesHeaderOnly(t *testing.T) {
	for name, schema := range map[string]*domain.Schema{
		"max rows": {MaxRowCount: i64(0), Columns: []domain.Column{{Name: "id", Type: "Integer", IDColumn: "Y"}}},
		"file size": {TentativeFileSize: f64(0), Columns: []domain.Column{
			{Name: "id", Type: "Integer", IDColumn: "Y"},
			{Name: "grade", Type: "Choice", ForEach: "Y", Choices: []interface{}{"A", "B"}},
		}},
	} {
		target := &memTarget{}
		stats, err := NewExecutor(Estimator{TempDir: t.TempDir()}, quietLogger()).Execute(compile(t, schema), schema, target, 1)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(target.header) == 0 || len(target.rows) != 0 || stats.RowsWritten != 0 {
			t.Fatalf("%s: expected header only, got header=%v rows=%d", name, target.header, len(target.rows))
		}
	}
}
