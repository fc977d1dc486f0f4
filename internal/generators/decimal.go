package generators

import (
	"fmt"
	"iter"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

const decimalPrecision = 2

type DecimalGenerator struct {
	Min      float64
	Max      float64
	Identity bool

	// bounds in hundredths
	lo, hi int64
}

func NewDecimalGenerator(col domain.Column) (*DecimalGenerator, error) {
	minV := 0.0
	if col.MinValue != nil {
		minV = *col.MinValue
	}
	maxV := minV + defaultSpan
	if col.MaxValue != nil {
		maxV = *col.MaxValue
	}
	if maxV < minV {
		return nil, fmt.Errorf("%w: column '%s': maxValue (%v) is lower than minValue (%v)", domain.ErrConfiguration, col.Name, maxV, minV)
	}

	scale := math.Pow10(decimalPrecision)
	lo, err := toInt64(col.Name, "minValue", math.Ceil(minV*scale))
	if err != nil {
		return nil, err
	}
	hi, err := toInt64(col.Name, "maxValue", math.Floor(maxV*scale))
	if err != nil {
		return nil, err
	}
	if hi >= lo && !spanFits(lo, hi) {
		return nil, fmt.Errorf("%w: column '%s': range [%v, %v] is too wide", domain.ErrConfiguration, col.Name, minV, maxV)
	}
	return &DecimalGenerator{Min: minV, Max: maxV, Identity: col.IsIdentity(), lo: lo, hi: hi}, nil
}

func (g *DecimalGenerator) Generate(rng *rand.Rand, n int) iter.Seq[string] {
	if g.Identity {
		return sequence(n, func(i int) string {
			return formatDecimal(g.Min + float64(i))
		})
	}

	// Draw whole hundredths inside the bounds so rounding can never step
	// outside [Min, Max]. A range narrower than one hundredth has none.
	scale := math.Pow10(decimalPrecision)
	if g.hi < g.lo {
		v := strconv.FormatFloat(g.Min, 'f', decimalPrecision, 64)
		return repeat(n, func() string { return v })
	}
	return repeat(n, func() string {
		cents := g.lo + rng.Int63n(g.hi-g.lo+1)
		return strconv.FormatFloat(float64(cents)/scale, 'f', decimalPrecision, 64)
	})
}

func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
