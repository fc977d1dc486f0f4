package postgres

import (
	"strings"
	"testing"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

func TestInsertStatementNumbersPlaceholders(t *testing.T) {
	tgt := NewPostgresTarget("postgres://localhost/db", "", "people")
	tgt.columns = []string{"id", "name"}

	query, args, err := tgt.insertStatement([]domain.Row{{"0", "a"}, {"1", "b"}})
	if err != nil {
		t.Fatal(err)
	}
	want := "INSERT INTO public.people (id, name) VALUES ($1, $2), ($3, $4)"
	if query != want {
		t.Fatalf("expected %q, got %q", want, query)
	}
	if len(args) != 4 || args[3] != "b" {
		t.Fatalf("unexpected args: %v", args)
	}

	if _, _, err := tgt.insertStatement([]domain.Row{{"only"}}); err == nil {
		t.Fatal("expected field count mismatch error")
	}
}

func TestChunkRowsRespectsParamLimit(t *testing.T) {
	rows := make([]domain.Row, 1000)
	for i := range rows {
		rows[i] = make(domain.Row, 100)
	}
	chunks := chunkRows(rows, 100)
	total := 0
	for _, c := range chunks {
		if len(c)*100 > maxParams {
			t.Fatalf("chunk of %d rows exceeds parameter limit", len(c))
		}
		total += len(c)
	}
	if total != 1000 {
		t.Fatalf("expected all rows kept, got %d", total)
	}
	if got := chunkRows(rows[:10], 3); len(got) != 1 {
		t.Fatalf("expected a single chunk for a small batch, got %d", len(got))
	}
}

func TestColumnDefsMapsTypes(t *testing.T) {
	defs := columnDefs([]domain.Column{
		{Name: "id", Type: "Integer"},
		{Name: "price", Type: "decimal"},
		{Name: "ref", Type: "Uuid"},
		{Name: "city", Type: "Lookup"},
	})
	for _, want := range []string{"id BIGINT", "price NUMERIC", "ref UUID", "city TEXT"} {
		if !strings.Contains(defs, want) {
			t.Fatalf("expected %q in %q", want, defs)
		}
	}
}
