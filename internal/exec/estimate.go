package exec

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/mmrzaf/mrdatagen/internal/domain"
)

const (
	DefaultSampleRows    = 5
	DefaultSizeUnitBytes = int64(1024 * 1024)
)

// Estimator converts a target output size into a row count by writing a
// small sample batch and extrapolating its size.
type Estimator struct {
	SampleRows    int
	SizeUnitBytes int64
	TempDir       string
}

type Estimate struct {
	SampleRows  int
	SampleBytes int64
	// UnitsPerRow is the average row size expressed in size units.
	UnitsPerRow float64
	Estimated   int64
	Rows        int64
}

func (e Estimator) withDefaults() Estimator {
	if e.SampleRows <= 0 {
		e.SampleRows = DefaultSampleRows
	}
	if e.SizeUnitBytes <= 0 {
		e.SizeUnitBytes = DefaultSizeUnitBytes
	}
	return e
}

// Estimate samples the plan's columns and returns the row count needed to
// reach targetSize size units, capped at maxRows. A sample that serializes
// to zero bytes yields maxRows.
func (e Estimator) Estimate(rng *rand.Rand, plan *Plan, targetSize float64, maxRows int64) (*Estimate, error) {
	e = e.withDefaults()

	size, err := e.sampleSize(rng, plan)
	if err != nil {
		return nil, err
	}
	est := &Estimate{SampleRows: e.SampleRows, SampleBytes: size}
	est.Estimated, est.UnitsPerRow = rowsForSize(size, e.SampleRows, e.SizeUnitBytes, targetSize, maxRows)
	est.Rows = min(maxRows, est.Estimated)
	return est, nil
}

func rowsForSize(sampleBytes int64, sampleRows int, unitBytes int64, targetSize float64, maxRows int64) (int64, float64) {
	if sampleBytes <= 0 {
		return maxRows, 0
	}
	unitsPerRow := float64(sampleBytes) / (float64(unitBytes) * float64(sampleRows))
	// Tolerate float noise so an exact multiple does not round up a row.
	rows := math.Ceil(targetSize/unitsPerRow - 1e-9)
	if rows <= 0 {
		return 0, unitsPerRow
	}
	if rows >= math.MaxInt64 {
		return maxRows, unitsPerRow
	}
	return int64(rows), unitsPerRow
}

func (e Estimator) sampleSize(rng *rand.Rand, plan *Plan) (size int64, err error) {
	f, err := os.CreateTemp(e.TempDir, "mrdatagen-sample-*.txt")
	if err != nil {
		return 0, fmt.Errorf("%w: create sample file: %w", domain.ErrRuntime, err)
	}
	defer os.Remove(f.Name())
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close sample file: %w", domain.ErrRuntime, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for row := range generateRows(rng, plan.Columns, e.SampleRows) {
		if _, err := w.WriteString(row.Line(plan.Delimiter)); err != nil {
			return 0, fmt.Errorf("%w: write sample file: %w", domain.ErrRuntime, err)
		}
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("%w: write sample file: %w", domain.ErrRuntime, err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat sample file: %w", domain.ErrRuntime, err)
	}
	return info.Size(), nil
}
