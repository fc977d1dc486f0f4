package exec

import (
	"fmt"

	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/mmrzaf/mrdatagen/internal/generators"
	"github.com/mmrzaf/mrdatagen/internal/registry"
)

type CompiledColumn struct {
	Column    domain.Column
	Generator generators.Generator
}

// Plan is a compiled schema. The three role groups are disjoint and keep
// declaration order; Columns holds every column in declaration order.
type Plan struct {
	Delimiter string
	Columns   []CompiledColumn
	Identity  []CompiledColumn
	ForEach   []CompiledColumn
	Ordinary  []CompiledColumn
}

func (p *Plan) HasDimensions() bool {
	return len(p.ForEach) > 0
}

// OutputColumns returns the columns in output order: ordinary, for-each,
// identity when dimensions exist, declaration order otherwise.
func (p *Plan) OutputColumns() []domain.Column {
	var src []CompiledColumn
	if p.HasDimensions() {
		src = make([]CompiledColumn, 0, len(p.Columns))
		src = append(src, p.Ordinary...)
		src = append(src, p.ForEach...)
		src = append(src, p.Identity...)
	} else {
		src = p.Columns
	}
	cols := make([]domain.Column, len(src))
	for i, c := range src {
		cols[i] = c.Column
	}
	return cols
}

func (p *Plan) Header() domain.Row {
	cols := p.OutputColumns()
	header := make(domain.Row, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	return header
}

type Compiler struct {
	genRegistry *registry.GeneratorRegistry
	lookups     generators.LookupSource
}

func NewCompiler(genRegistry *registry.GeneratorRegistry, lookups generators.LookupSource) *Compiler {
	return &Compiler{genRegistry: genRegistry, lookups: lookups}
}

// Compile builds every column generator up front; any failure aborts before
// a single row is produced.
func (c *Compiler) Compile(schema *domain.Schema) (*Plan, error) {
	delimiter := schema.ColumnDelimiter
	if delimiter == "" {
		delimiter = domain.DefaultColumnDelimiter
	}
	plan := &Plan{Delimiter: delimiter}

	for _, col := range schema.Columns {
		if col.IsIdentity() && col.IsForEach() {
			return nil, fmt.Errorf("%w: column '%s' cannot be both idColumn and forEach", domain.ErrConfiguration, col.Name)
		}
		gen, err := c.genRegistry.Build(col, c.lookups)
		if err != nil {
			return nil, err
		}
		cc := CompiledColumn{Column: col, Generator: gen}
		plan.Columns = append(plan.Columns, cc)

		switch {
		case col.IsIdentity():
			plan.Identity = append(plan.Identity, cc)
		case col.IsForEach():
			if _, ok := gen.(generators.Dimension); !ok {
				return nil, fmt.Errorf("%w: column '%s': forEach is only supported for choice and lookup columns", domain.ErrConfiguration, col.Name)
			}
			plan.ForEach = append(plan.ForEach, cc)
		default:
			plan.Ordinary = append(plan.Ordinary, cc)
		}
	}
	return plan, nil
}
