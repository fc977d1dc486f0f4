package schemas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmrzaf/mrdatagen/internal/domain"
	"gopkg.in/yaml.v3"
)

type Repository interface {
	List() ([]string, error)
	GetByPath(path string) (*domain.Schema, error)
}

// FileRepository loads schema files. Relative paths are resolved against
// baseDir when it is set.
type FileRepository struct {
	baseDir string
}

func NewFileRepository(baseDir string) *FileRepository {
	return &FileRepository{baseDir: baseDir}
}

// List returns the schema files directly under baseDir, sorted by name.
func (r *FileRepository) List() ([]string, error) {
	dir := r.baseDir
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() || !isSchemaFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func (r *FileRepository) GetByPath(path string) (*domain.Schema, error) {
	if r.baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return Load(path)
}

// Load reads a JSON or YAML schema file. Unknown keys are rejected so that a
// misspelled option does not silently fall back to its default.
func Load(path string) (*domain.Schema, error) {
	if !isSchemaFile(path) {
		return nil, fmt.Errorf("%w: schema file %s must be .json, .yaml or .yml", domain.ErrConfiguration, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read schema %s: %w", domain.ErrConfiguration, path, err)
	}

	var schema domain.Schema
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&schema)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&schema)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse schema %s: %w", domain.ErrConfiguration, path, err)
	}

	if schema.Name == "" {
		schema.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &schema, nil
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
