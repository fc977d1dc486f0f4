package lookup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/mmrzaf/mrdatagen/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type cacheKey struct {
	path      string
	column    string
	delimiter string
}

// Cache reads lookup sources on first use and keeps their distinct values
// for the lifetime of one generation run.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey][]string
}

func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey][]string)}
}

func (c *Cache) Distinct(path, column, delimiter string) ([]string, error) {
	key := cacheKey{path: path, column: column, delimiter: delimiter}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		return v, nil
	}

	v, err := ReadFile(path, column, delimiter)
	if err != nil {
		return nil, err
	}
	c.entries[key] = v
	return v, nil
}

func ReadFile(path, column, delimiter string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: lookup file %s is not available", domain.ErrResource, path)
		}
		return nil, fmt.Errorf("%w: open lookup file %s: %w", domain.ErrResource, path, err)
	}
	defer f.Close()

	values, err := ReadDistinct(f, column, delimiter)
	if err != nil {
		return nil, fmt.Errorf("lookup file %s: %w", path, err)
	}
	return values, nil
}

// ReadDistinct returns the distinct non-empty values of the named column,
// in order of first appearance. The first record is the header. A leading
// byte order mark is dropped.
func ReadDistinct(r io.Reader, column, delimiter string) ([]string, error) {
	comma, size := utf8.DecodeRuneInString(delimiter)
	if size == 0 || size != len(delimiter) {
		return nil, fmt.Errorf("%w: lookup delimiter must be a single character, got %q", domain.ErrConfiguration, delimiter)
	}

	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: lookup source is empty", domain.ErrResource)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read lookup header: %w", domain.ErrResource, err)
	}

	idx := -1
	for i, h := range header {
		if h == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: lookup column '%s' not found", domain.ErrResource, column)
	}

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read lookup record: %w", domain.ErrResource, err)
		}
		if idx >= len(rec) || rec[idx] == "" {
			continue
		}
		v := rec[idx]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values, nil
}
