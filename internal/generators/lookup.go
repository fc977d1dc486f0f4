package generators

import (
	"fmt"
	"iter"
	"math/rand"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

// LookupGenerator picks from the distinct values of a column in an external
// delimited file. The values are read once, when the generator is built.
type LookupGenerator struct {
	source string
	values []string
}

func NewLookupGenerator(col domain.Column, src LookupSource) (*LookupGenerator, error) {
	if col.LookupFile == "" || col.LookupCol == "" {
		return nil, fmt.Errorf("%w: column '%s': lookup requires 'lookupFile' and 'lookupCol'", domain.ErrConfiguration, col.Name)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: column '%s': no lookup source configured", domain.ErrConfiguration, col.Name)
	}
	delimiter := col.LookupDelimiter
	if delimiter == "" {
		delimiter = domain.DefaultLookupDelimiter
	}
	values, err := src.Distinct(col.LookupFile, col.LookupCol, delimiter)
	if err != nil {
		return nil, fmt.Errorf("column '%s': %w", col.Name, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: column '%s': lookup column '%s' in %s has no values", domain.ErrResource, col.Name, col.LookupCol, col.LookupFile)
	}
	return &LookupGenerator{source: col.LookupFile, values: values}, nil
}

func (g *LookupGenerator) Generate(rng *rand.Rand, n int) iter.Seq[string] {
	return pick(rng, n, g.values)
}

func (g *LookupGenerator) Values() []string {
	return append([]string(nil), g.values...)
}
