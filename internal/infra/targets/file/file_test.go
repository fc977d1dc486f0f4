package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

func TestFileTargetWritesHeaderThenRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "people.psv")
	tgt := NewFileTarget(path, "|")
	if err := tgt.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := tgt.WriteHeader([]domain.Column{{Name: "id"}, {Name: "name"}}); err != nil {
		t.Fatal(err)
	}
	if err := tgt.InsertBatch([]domain.Row{{"0", "AB CDEFGHI"}, {"1", "XYZ QWERTY"}}); err != nil {
		t.Fatal(err)
	}
	if err := tgt.InsertBatch([]domain.Row{{"2", "QQ WWWWWWW"}}); err != nil {
		t.Fatal(err)
	}
	if err := tgt.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "id|name\n0|AB CDEFGHI\n1|XYZ QWERTY\n2|QQ WWWWWWW\n"
	if string(data) != want {
		t.Fatalf("expected %q, got %q", want, string(data))
	}
}

func TestFileTargetTruncatesExistingOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(path, []byte("stale,data\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tgt := NewFileTarget(path, "")
	if err := tgt.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := tgt.WriteHeader([]domain.Column{{Name: "a"}, {Name: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := tgt.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a,b\n" {
		t.Fatalf("expected header only, got %q", string(data))
	}
}
