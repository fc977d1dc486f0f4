package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

const jsonSchema = `{
  "columns": [
    {"name": "id", "type": "Integer", "idColumn": "Y", "minValue": 0},
    {"name": "grade", "type": "Choice", "forEach": "Y", "choices": ["A", "B", 3]}
  ],
  "columnDelimiter": "|",
  "filePathName": "out.psv",
  "maxRowCount": 4,
  "tentativeFileSize": 0.5
}`

const yamlSchema = `name: people
columns:
  - name: name
    type: String
    length: 10
  - name: city
    type: Lookup
    forEach: Y
    lookupFile: cities.csv
    lookupCol: city
filePathName: people.csv
`

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadJSON(t *testing.T) {
	p := write(t, t.TempDir(), "grades.json", jsonSchema)
	s, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "grades" {
		t.Fatalf("expected name from file, got %q", s.Name)
	}
	if len(s.Columns) != 2 || !s.Columns[0].IsIdentity() || !s.Columns[1].IsForEach() {
		t.Fatalf("unexpected columns: %+v", s.Columns)
	}
	if *s.Columns[0].MinValue != 0 {
		t.Fatalf("expected minValue 0, got %v", *s.Columns[0].MinValue)
	}
	if s.ColumnDelimiter != "|" || s.RowCap() != 4 || s.TargetSize() != 0.5 {
		t.Fatalf("unexpected top-level fields: %+v", s)
	}
	if len(s.Columns[1].Choices) != 3 {
		t.Fatalf("expected 3 choices, got %v", s.Columns[1].Choices)
	}
}

func TestLoadYAML(t *testing.T) {
	p := write(t, t.TempDir(), "people.yaml", yamlSchema)
	s, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "people" {
		t.Fatalf("expected name people, got %q", s.Name)
	}
	if s.Columns[0].Length == nil || *s.Columns[0].Length != 10 {
		t.Fatalf("expected length 10, got %v", s.Columns[0].Length)
	}
	if s.Columns[1].LookupFile != "cities.csv" || s.Columns[1].LookupCol != "city" {
		t.Fatalf("unexpected lookup column: %+v", s.Columns[1])
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	d := t.TempDir()
	cases := map[string]string{
		"missing":   filepath.Join(d, "nope.json"),
		"extension": write(t, d, "schema.txt", jsonSchema),
		"syntax":    write(t, d, "broken.json", `{"columns": [`),
		"unknown":   write(t, d, "typo.yaml", "colums: []\n"),
	}
	for name, p := range cases {
		if _, err := Load(p); !errors.Is(err, domain.ErrConfiguration) {
			t.Fatalf("%s: expected configuration error, got %v", name, err)
		}
	}
}

func TestFileRepositoryListAndResolve(t *testing.T) {
	d := t.TempDir()
	write(t, d, "b.yaml", yamlSchema)
	write(t, d, "a.json", jsonSchema)
	write(t, d, "notes.md", "ignored")

	repo := NewFileRepository(d)
	paths, err := repo.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "a.json" || filepath.Base(paths[1]) != "b.yaml" {
		t.Fatalf("unexpected listing: %v", paths)
	}
	if _, err := repo.GetByPath("a.json"); err != nil {
		t.Fatalf("expected relative path to resolve under base dir, got %v", err)
	}

	empty, err := NewFileRepository(filepath.Join(d, "missing")).List()
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty listing for missing dir, got %v %v", empty, err)
	}
}
