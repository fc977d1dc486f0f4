package generators

import (
	"fmt"
	"iter"
	"math/rand"
	"strconv"
	"strings"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

const (
	tokenLength     = 10
	minPrefixLength = 2
	maxPrefixLength = 8
	uppercase       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// StringGenerator emits fixed-width tokens such as "QWER TYUIOP". Length
// only switches generation on or off; the token width is always 10.
type StringGenerator struct {
	Min      int64
	Length   int
	Identity bool
}

func NewStringGenerator(col domain.Column) (*StringGenerator, error) {
	length := domain.DefaultStringLength
	if col.Length != nil {
		length = *col.Length
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: column '%s': length must be >= 0, got %d", domain.ErrConfiguration, col.Name, length)
	}
	start := int64(0)
	if col.MinValue != nil {
		v, err := toInt64(col.Name, "minValue", *col.MinValue)
		if err != nil {
			return nil, err
		}
		start = v
	}
	return &StringGenerator{Min: start, Length: length, Identity: col.IsIdentity()}, nil
}

func (g *StringGenerator) Generate(rng *rand.Rand, n int) iter.Seq[string] {
	if g.Identity {
		return sequence(n, func(i int) string {
			return strconv.FormatInt(g.Min+int64(i), 10)
		})
	}
	if g.Length == 0 {
		// empty values, not zero values, so the row count is unchanged
		return repeat(n, func() string { return "" })
	}
	return repeat(n, func() string { return randomToken(rng) })
}

func randomToken(rng *rand.Rand) string {
	prefix := minPrefixLength + rng.Intn(maxPrefixLength-minPrefixLength+1)
	var b strings.Builder
	b.Grow(tokenLength)
	for i := 0; i < prefix; i++ {
		b.WriteByte(uppercase[rng.Intn(len(uppercase))])
	}
	b.WriteByte(' ')
	for i := prefix + 1; i < tokenLength; i++ {
		b.WriteByte(uppercase[rng.Intn(len(uppercase))])
	}
	return b.String()
}
