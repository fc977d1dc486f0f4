package exec

import (
	"iter"
	"math/rand"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

// generateRows zips the per-column sequences into n rows. With no columns it
// yields n empty rows so callers can still pair them positionally.
func generateRows(rng *rand.Rand, cols []CompiledColumn, n int) iter.Seq[domain.Row] {
	return func(yield func(domain.Row) bool) {
		if n <= 0 {
			return
		}
		if len(cols) == 0 {
			for i := 0; i < n; i++ {
				if !yield(domain.Row{}) {
					return
				}
			}
			return
		}

		nexts := make([]func() (string, bool), len(cols))
		for i, c := range cols {
			next, stop := iter.Pull(c.Generator.Generate(rng, n))
			defer stop()
			nexts[i] = next
		}

		for {
			row := make(domain.Row, len(cols))
			for i, next := range nexts {
				v, ok := next()
				if !ok {
					return
				}
				row[i] = v
			}
			if !yield(row) {
				return
			}
		}
	}
}
