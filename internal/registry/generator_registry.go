package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/mmrzaf/mrdatagen/internal/generators"
)

// Constructor builds the generator for one column. Lookup-backed types read
// their candidates from src.
type Constructor func(col domain.Column, src generators.LookupSource) (generators.Generator, error)

type GeneratorRegistry struct {
	mu           sync.RWMutex
	constructors map[domain.ColumnType]Constructor
}

func NewGeneratorRegistry() *GeneratorRegistry {
	return &GeneratorRegistry{
		constructors: make(map[domain.ColumnType]Constructor),
	}
}

func (r *GeneratorRegistry) Register(t domain.ColumnType, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[t] = c
}

func (r *GeneratorRegistry) Has(t domain.ColumnType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[t]
	return ok
}

// Build dispatches on the column's type tag.
func (r *GeneratorRegistry) Build(col domain.Column, src generators.LookupSource) (generators.Generator, error) {
	r.mu.RLock()
	c, ok := r.constructors[col.ColumnType()]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: selected column type (%s) for column '%s' is not supported", domain.ErrConfiguration, col.Type, col.Name)
	}
	return c(col, src)
}

func (r *GeneratorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

func DefaultGeneratorRegistry() *GeneratorRegistry {
	r := NewGeneratorRegistry()
	r.Register(domain.ColumnTypeInteger, func(col domain.Column, _ generators.LookupSource) (generators.Generator, error) {
		return generators.NewIntegerGenerator(col)
	})
	r.Register(domain.ColumnTypeDecimal, func(col domain.Column, _ generators.LookupSource) (generators.Generator, error) {
		return generators.NewDecimalGenerator(col)
	})
	r.Register(domain.ColumnTypeString, func(col domain.Column, _ generators.LookupSource) (generators.Generator, error) {
		return generators.NewStringGenerator(col)
	})
	r.Register(domain.ColumnTypeChoice, func(col domain.Column, _ generators.LookupSource) (generators.Generator, error) {
		return generators.NewChoiceGenerator(col)
	})
	r.Register(domain.ColumnTypeLookup, func(col domain.Column, src generators.LookupSource) (generators.Generator, error) {
		return generators.NewLookupGenerator(col, src)
	})
	r.Register(domain.ColumnTypeFaker, func(col domain.Column, _ generators.LookupSource) (generators.Generator, error) {
		return generators.NewFakerGenerator(col)
	})
	r.Register(domain.ColumnTypeUUID, func(domain.Column, generators.LookupSource) (generators.Generator, error) {
		return &generators.UUID4Generator{}, nil
	})
	return r
}
