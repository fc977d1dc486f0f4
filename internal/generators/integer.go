package generators

import (
	"fmt"
	"iter"
	"math"
	"math/rand"
	"strconv"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

const defaultSpan = 1000

type IntegerGenerator struct {
	Min      int64
	Max      int64
	Identity bool
}

func NewIntegerGenerator(col domain.Column) (*IntegerGenerator, error) {
	lo := int64(0)
	if col.MinValue != nil {
		v, err := toInt64(col.Name, "minValue", *col.MinValue)
		if err != nil {
			return nil, err
		}
		lo = v
	}
	hi := lo + defaultSpan
	if lo > math.MaxInt64-defaultSpan {
		hi = math.MaxInt64
	}
	if col.MaxValue != nil {
		v, err := toInt64(col.Name, "maxValue", *col.MaxValue)
		if err != nil {
			return nil, err
		}
		hi = v
	}
	if hi < lo {
		return nil, fmt.Errorf("%w: column '%s': maxValue (%d) is lower than minValue (%d)", domain.ErrConfiguration, col.Name, hi, lo)
	}
	if !spanFits(lo, hi) {
		return nil, fmt.Errorf("%w: column '%s': range [%d, %d] is too wide", domain.ErrConfiguration, col.Name, lo, hi)
	}
	return &IntegerGenerator{Min: lo, Max: hi, Identity: col.IsIdentity()}, nil
}

func (g *IntegerGenerator) Generate(rng *rand.Rand, n int) iter.Seq[string] {
	if g.Identity {
		return sequence(n, func(i int) string {
			return strconv.FormatInt(g.Min+int64(i), 10)
		})
	}
	return repeat(n, func() string {
		return strconv.FormatInt(g.Min+rng.Int63n(g.Max-g.Min+1), 10)
	})
}

// spanFits reports whether hi-lo+1 is representable, which Int63n needs.
func spanFits(lo, hi int64) bool {
	return uint64(hi)-uint64(lo) < math.MaxInt64
}

// toInt64 rejects bounds outside the int64 range, where the float to int
// conversion is undefined.
func toInt64(column, field string, v float64) (int64, error) {
	if math.IsNaN(v) || v < -0x1p63 || v >= 0x1p63 {
		return 0, fmt.Errorf("%w: column '%s': %s (%v) is out of range", domain.ErrConfiguration, column, field, v)
	}
	return int64(v), nil
}
