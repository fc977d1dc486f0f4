package file

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

// FileTarget writes delimited text. The header is written to a freshly
// created file; data rows are then appended through a second handle.
type FileTarget struct {
	path      string
	delimiter string
	f         *os.File
	w         *bufio.Writer
}

func NewFileTarget(path, delimiter string) *FileTarget {
	if delimiter == "" {
		delimiter = domain.DefaultColumnDelimiter
	}
	return &FileTarget{path: path, delimiter: delimiter}
}

func (t *FileTarget) Path() string { return t.path }

func (t *FileTarget) Connect() error {
	if dir := filepath.Dir(t.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return nil
}

func (t *FileTarget) WriteHeader(columns []domain.Column) error {
	header := make(domain.Row, len(columns))
	for i, c := range columns {
		header[i] = c.Name
	}
	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", t.path, err)
	}
	if _, err := f.WriteString(header.Line(t.delimiter)); err != nil {
		f.Close()
		return fmt.Errorf("write header to %s: %w", t.path, err)
	}
	return f.Close()
}

func (t *FileTarget) InsertBatch(rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}
	if t.f == nil {
		f, err := os.OpenFile(t.path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open %s for append: %w", t.path, err)
		}
		t.f = f
		t.w = bufio.NewWriterSize(f, 64*1024)
	}
	for _, row := range rows {
		if _, err := t.w.WriteString(row.Line(t.delimiter)); err != nil {
			return fmt.Errorf("write %s: %w", t.path, err)
		}
	}
	return nil
}

func (t *FileTarget) Close() error {
	if t.f == nil {
		return nil
	}
	flushErr := t.w.Flush()
	closeErr := t.f.Close()
	t.f, t.w = nil, nil
	if flushErr != nil {
		return fmt.Errorf("flush %s: %w", t.path, flushErr)
	}
	return closeErr
}
