package app

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmrzaf/mrdatagen/internal/domain"
	"github.com/mmrzaf/mrdatagen/internal/exec"
	"github.com/mmrzaf/mrdatagen/internal/hashing"
	"github.com/mmrzaf/mrdatagen/internal/infra/repos/runs"
	"github.com/mmrzaf/mrdatagen/internal/infra/repos/schemas"
	"github.com/mmrzaf/mrdatagen/internal/logging"
	"github.com/mmrzaf/mrdatagen/internal/lookup"
	"github.com/mmrzaf/mrdatagen/internal/registry"
	"github.com/mmrzaf/mrdatagen/internal/validation"
)

type RunService struct {
	runRepo     runs.Repository
	genRegistry *registry.GeneratorRegistry
	validator   *validation.Validator
	executor    *exec.Executor
	logger      *logging.Logger
}

// NewRunService wires the generation pipeline. runRepo may be nil, in which
// case runs are not recorded.
func NewRunService(
	runRepo runs.Repository,
	genRegistry *registry.GeneratorRegistry,
	estimator exec.Estimator,
	logger *logging.Logger,
) *RunService {
	return &RunService{
		runRepo:     runRepo,
		genRegistry: genRegistry,
		validator:   validation.NewValidator(genRegistry),
		executor:    exec.NewExecutor(estimator, logger.WithComponent("exec")),
		logger:      logger,
	}
}

// Prepare loads the request's schema, applies CLI overrides and defaults,
// and validates the result.
func (s *RunService) Prepare(req *domain.GenerateRequest) (*domain.Schema, error) {
	schema := req.Schema
	if schema == nil {
		loaded, err := schemas.Load(req.SchemaPath)
		if err != nil {
			return nil, err
		}
		schema = loaded
	}

	if req.OutputPath != "" {
		schema.FilePathName = req.OutputPath
	}
	if req.MaxRowCount != nil {
		n := *req.MaxRowCount
		schema.MaxRowCount = &n
	}
	schema.ApplyDefaults()

	if err := s.validator.ValidateSchema(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

func (s *RunService) compile(schema *domain.Schema) (*exec.Plan, error) {
	return exec.NewCompiler(s.genRegistry, lookup.NewCache()).Compile(schema)
}

// Validate runs everything up to compilation, including reading lookup
// sources, and returns the plan that would be executed.
func (s *RunService) Validate(req *domain.GenerateRequest) (*exec.Plan, error) {
	schema, err := s.Prepare(req)
	if err != nil {
		return nil, err
	}
	return s.compile(schema)
}

func (s *RunService) Check(req *domain.GenerateRequest) (*TargetCheck, error) {
	schema, err := s.Prepare(req)
	if err != nil {
		return nil, err
	}
	return CheckTarget(schema)
}

// Generate performs one synchronous generation run. Once the schema is valid
// the run is recorded, and the returned run reflects the final status even
// when an error is returned.
func (s *RunService) Generate(req *domain.GenerateRequest) (*domain.Run, error) {
	schema, err := s.Prepare(req)
	if err != nil {
		s.logger.Errorw("schema.invalid", map[string]any{"schema": req.SchemaPath, "error": err})
		return nil, err
	}

	seed := resolveSeed(req.Seed, schema.Seed)
	targetCfg := resolveTargetForRun(schema.Target)
	output := describeOutput(schema, targetCfg)

	configHash, err := hashing.HashRunConfig(schema, targetCfg, schema.FilePathName, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to hash run config: %w", err)
	}

	run := &domain.Run{
		ID:         uuid.NewString(),
		SchemaPath: req.SchemaPath,
		SchemaName: schema.Name,
		TargetKind: targetCfg.Kind,
		Output:     output,
		Seed:       seed,
		ConfigHash: configHash,
		Status:     domain.RunStatusRunning,
		StartedAt:  time.Now(),
	}
	if s.runRepo != nil {
		if err := s.runRepo.Create(run); err != nil {
			return nil, fmt.Errorf("failed to create run: %w", err)
		}
	}

	s.logger.Infow("run.started", map[string]any{
		"run_id": run.ID,
		"schema": schema.Name,
		"target": targetCfg.Kind,
		"output": output,
		"seed":   seed,
	})

	plan, err := s.compile(schema)
	if err != nil {
		return run, s.fail(run, err)
	}
	target, err := buildTarget(schema, targetCfg)
	if err != nil {
		return run, s.fail(run, err)
	}
	stats, err := s.executor.Execute(plan, schema, target, seed)
	if err != nil {
		return run, s.fail(run, err)
	}

	now := time.Now()
	stats.DurationSeconds = now.Sub(run.StartedAt).Seconds()
	statsJSON, _ := json.Marshal(stats)
	run.Stats = statsJSON
	run.Status = domain.RunStatusSuccess
	run.CompletedAt = &now
	s.updateRun(run)

	s.logger.Infow("run.completed", map[string]any{
		"run_id":       run.ID,
		"rows_planned": stats.RowsPlanned,
		"rows_written": stats.RowsWritten,
		"combinations": stats.Combinations,
		"duration_s":   stats.DurationSeconds,
	})
	return run, nil
}

func (s *RunService) fail(run *domain.Run, cause error) error {
	now := time.Now()
	run.Status = domain.RunStatusFailed
	run.Error = cause.Error()
	run.CompletedAt = &now
	s.updateRun(run)
	s.logger.Errorw("run.failed", map[string]any{"run_id": run.ID, "error": cause})
	return cause
}

func (s *RunService) updateRun(run *domain.Run) {
	if s.runRepo == nil {
		return
	}
	if err := s.runRepo.Update(run); err != nil {
		s.logger.Error("Failed to update run %s: %v", run.ID, err)
	}
}

func (s *RunService) GetRun(id string) (*domain.Run, error) {
	if s.runRepo == nil {
		return nil, fmt.Errorf("%w: run ledger is disabled", domain.ErrConfiguration)
	}
	return s.runRepo.Get(id)
}

func (s *RunService) ListRuns(limit int, status string) ([]*domain.Run, error) {
	if s.runRepo == nil {
		return nil, fmt.Errorf("%w: run ledger is disabled", domain.ErrConfiguration)
	}
	return s.runRepo.List(limit, status)
}

// resolveSeed prefers the command-line seed, then the schema's, then a
// random one.
func resolveSeed(flagSeed, schemaSeed *int64) int64 {
	if flagSeed != nil {
		return *flagSeed
	}
	if schemaSeed != nil {
		return *schemaSeed
	}
	return generateSeed()
}

func generateSeed() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]))
}
