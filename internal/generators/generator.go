package generators

import (
	"iter"
	"math/rand"
)

// Generator produces n stringified values for one column. Every call
// returns a fresh sequence drawing from rng; nothing carries over between
// calls.
type Generator interface {
	Generate(rng *rand.Rand, n int) iter.Seq[string]
}

// Dimension is implemented by generators whose full candidate set can be
// enumerated, which is what a for-each column expands over.
type Dimension interface {
	Values() []string
}

// LookupSource returns the distinct values of one column of a delimited file.
type LookupSource interface {
	Distinct(path, column, delimiter string) ([]string, error)
}

func repeat(n int, next func() string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < n; i++ {
			if !yield(next()) {
				return
			}
		}
	}
}

func sequence(n int, at func(i int) string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < n; i++ {
			if !yield(at(i)) {
				return
			}
		}
	}
}
