package runs

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo := NewSQLiteRepository(filepath.Join(t.TempDir(), "runs.db"))
	if err := repo.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestInitCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "runs.db")
	repo := NewSQLiteRepository(dbPath)

	if err := repo.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if repo.DB() == nil {
		t.Fatal("expected db handle to be initialized")
	}
	t.Cleanup(func() {
		_ = repo.DB().Close()
	})
}

func TestCreateUpdateGet(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	run := &domain.Run{
		SchemaPath: "schemas/people.yaml",
		SchemaName: "people",
		TargetKind: domain.TargetKindFile,
		Output:     "people.csv",
		Seed:       42,
		ConfigHash: "abc",
		Status:     domain.RunStatusRunning,
		StartedAt:  time.Now(),
	}
	if err := repo.Create(run); err != nil {
		t.Fatal(err)
	}
	if run.ID == "" {
		t.Fatal("expected generated run id")
	}

	stats, _ := json.Marshal(domain.RunStats{RowsPlanned: 4, RowsWritten: 4})
	done := time.Now()
	run.Status = domain.RunStatusSuccess
	run.CompletedAt = &done
	run.Stats = stats
	if err := repo.Update(run); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Get(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.RunStatusSuccess || got.Seed != 42 || got.Output != "people.csv" {
		t.Fatalf("unexpected run: %+v", got)
	}
	if got.CompletedAt == nil {
		t.Fatal("expected completed_at")
	}
	var decoded domain.RunStats
	if err := json.Unmarshal(got.Stats, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.RowsWritten != 4 {
		t.Fatalf("expected 4 rows written, got %d", decoded.RowsWritten)
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, st := range []domain.RunStatus{domain.RunStatusSuccess, domain.RunStatusFailed, domain.RunStatusSuccess} {
		run := &domain.Run{
			SchemaPath: "s.json", SchemaName: "s", TargetKind: "file",
			ConfigHash: "h", Status: st, StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(run); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.List(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || !all[0].StartedAt.After(all[2].StartedAt) {
		t.Fatalf("expected 3 runs newest first, got %+v", all)
	}

	ok, err := repo.List(1, string(domain.RunStatusSuccess))
	if err != nil {
		t.Fatal(err)
	}
	if len(ok) != 1 || ok[0].Status != domain.RunStatusSuccess {
		t.Fatalf("expected one success run, got %+v", ok)
	}
}

func TestGetMissingRun(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	if _, err := repo.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
