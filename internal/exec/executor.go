package exec

import (
	"fmt"
	"iter"
	"math/rand"
	"time"

	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/mmrzaf/mrdatagen/internal/logging"
)

// Target receives the header once and then the data rows in batches.
type Target interface {
	Connect() error
	Close() error
	WriteHeader(columns []domain.Column) error
	InsertBatch(rows []domain.Row) error
}

const batchSize = 1000

type Executor struct {
	estimator Estimator
	logger    *logging.Logger
}

func NewExecutor(estimator Estimator, logger *logging.Logger) *Executor {
	return &Executor{estimator: estimator, logger: logger}
}

// Execute samples the plan to size the run, then writes the header and every
// row to target. Rows are drawn from a single source seeded with seed.
func (e *Executor) Execute(plan *Plan, schema *domain.Schema, target Target, seed int64) (stats *domain.RunStats, err error) {
	startTime := time.Now()
	rng := rand.New(rand.NewSource(seed))

	est, err := e.estimator.Estimate(rng, plan, schema.TargetSize(), schema.RowCap())
	if err != nil {
		return nil, fmt.Errorf("failed to estimate row count: %w", err)
	}
	e.logger.Debugw("sample.measured", map[string]any{
		"sample_rows":   est.SampleRows,
		"sample_bytes":  est.SampleBytes,
		"units_per_row": est.UnitsPerRow,
		"estimated":     est.Estimated,
		"max_row_count": schema.RowCap(),
	})

	stats = &domain.RunStats{
		RowsPlanned: est.Rows,
		SampleBytes: est.SampleBytes,
	}

	var rows iter.Seq[domain.Row]
	if plan.HasDimensions() {
		expansion, err := Expand(rng, plan, est.Rows)
		if err != nil {
			return nil, err
		}
		stats.Combinations = len(expansion.Keys)
		stats.RowsPerCombo = expansion.RowsPerCombo
		e.logger.Info("Writing around %d lines across %d combinations", est.Rows, len(expansion.Keys))
		rows = expansion.Rows
	} else {
		e.logger.Info("Writing %d lines", est.Rows)
		rows = generateRows(rng, plan.Columns, int(est.Rows))
	}

	if err := target.Connect(); err != nil {
		return nil, fmt.Errorf("%w: failed to connect to target: %w", domain.ErrRuntime, err)
	}
	defer func() {
		if cerr := target.Close(); cerr != nil && err == nil {
			stats = nil
			err = fmt.Errorf("%w: failed to close target: %w", domain.ErrRuntime, cerr)
		}
	}()

	if err := target.WriteHeader(plan.OutputColumns()); err != nil {
		return nil, fmt.Errorf("%w: failed to write header: %w", domain.ErrRuntime, err)
	}

	batch := make([]domain.Row, 0, batchSize)
	for row := range rows {
		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := target.InsertBatch(batch); err != nil {
				return nil, fmt.Errorf("%w: failed to insert batch at row %d: %w", domain.ErrRuntime, stats.RowsWritten, err)
			}
			stats.RowsWritten += int64(len(batch))
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := target.InsertBatch(batch); err != nil {
			return nil, fmt.Errorf("%w: failed to insert final batch: %w", domain.ErrRuntime, err)
		}
		stats.RowsWritten += int64(len(batch))
	}

	stats.DurationSeconds = time.Since(startTime).Seconds()
	return stats, nil
}
