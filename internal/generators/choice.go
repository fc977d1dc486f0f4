package generators

import (
	"fmt"
	"iter"
	"math/rand"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

type ChoiceGenerator struct {
	values []string
}

func NewChoiceGenerator(col domain.Column) (*ChoiceGenerator, error) {
	if len(col.Choices) == 0 {
		return nil, fmt.Errorf("%w: column '%s': choice requires a non-empty 'choices' list", domain.ErrConfiguration, col.Name)
	}
	values := make([]string, len(col.Choices))
	for i, c := range col.Choices {
		values[i] = formatChoice(c)
	}
	return &ChoiceGenerator{values: values}, nil
}

func (g *ChoiceGenerator) Generate(rng *rand.Rand, n int) iter.Seq[string] {
	return pick(rng, n, g.values)
}

func (g *ChoiceGenerator) Values() []string {
	return append([]string(nil), g.values...)
}

func pick(rng *rand.Rand, n int, values []string) iter.Seq[string] {
	return repeat(n, func() string {
		return values[rng.Intn(len(values))]
	})
}

func formatChoice(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
