package exec

import (
	"fmt"
	"iter"
	"math/rand"
	"slices"
	"strings"

	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/mmrzaf/mrdatagen/internal/generators"
)

// DimensionKey is one cell of the cartesian product of the for-each
// columns, one value per column in declaration order.
type DimensionKey []string

func (k DimensionKey) Join(delimiter string) string {
	return strings.Join(k, delimiter)
}

// CartesianKeys crosses the value sets; the first set varies slowest.
func CartesianKeys(sets [][]string) []DimensionKey {
	if len(sets) == 0 {
		return nil
	}
	keys := make([]DimensionKey, 0, len(sets[0]))
	for _, v := range sets[0] {
		keys = append(keys, DimensionKey{v})
	}
	for _, set := range sets[1:] {
		next := make([]DimensionKey, 0, len(keys)*len(set))
		for _, k := range keys {
			for _, v := range set {
				key := make(DimensionKey, len(k), len(k)+1)
				copy(key, k)
				next = append(next, append(key, v))
			}
		}
		keys = next
	}
	return keys
}

func dimensionSets(cols []CompiledColumn) ([][]string, error) {
	sets := make([][]string, 0, len(cols))
	for _, c := range cols {
		dim, ok := c.Generator.(generators.Dimension)
		if !ok {
			return nil, fmt.Errorf("%w: column '%s' cannot be expanded as a dimension", domain.ErrConfiguration, c.Column.Name)
		}
		values := dim.Values()
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: dimension column '%s' has no values", domain.ErrResource, c.Column.Name)
		}
		sets = append(sets, values)
	}
	return sets, nil
}

type Expansion struct {
	Keys         []DimensionKey
	RowsPerCombo int64
	// Limit is the number of identity slots; output never exceeds it.
	Limit int64
	Rows  iter.Seq[domain.Row]
}

// Expand crosses every for-each column and assigns each combination an even
// share of totalRows. Identity values are generated once for the whole
// budget and handed out in order, so they stay contiguous across
// combinations. Once they run out the remaining rows are dropped, which
// can leave the last combinations short.
func Expand(rng *rand.Rand, plan *Plan, totalRows int64) (*Expansion, error) {
	sets, err := dimensionSets(plan.ForEach)
	if err != nil {
		return nil, err
	}
	keys := CartesianKeys(sets)
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no for-each columns to expand", domain.ErrConfiguration)
	}
	combos := int64(len(keys))
	perCombo := (totalRows + combos - 1) / combos

	identity := slices.Collect(generateRows(rng, plan.Identity, int(totalRows)))
	limit := int64(len(identity))

	rows := func(yield func(domain.Row) bool) {
		next := int64(0)
		for _, key := range keys {
			if next >= limit {
				return
			}
			for ordinary := range generateRows(rng, plan.Ordinary, int(perCombo)) {
				if next >= limit {
					break
				}
				row := make(domain.Row, 0, len(ordinary)+len(key)+len(plan.Identity))
				row = append(row, ordinary...)
				row = append(row, key...)
				row = append(row, identity[next]...)
				next++
				if !yield(row) {
					return
				}
			}
		}
	}

	return &Expansion{Keys: keys, RowsPerCombo: perCombo, Limit: limit, Rows: rows}, nil
}
