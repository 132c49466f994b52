package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"gouq/domain/core"
	"gouq/domain/study"
	"gouq/internal/aggregate"
	"gouq/internal/orchestrator"
	"gouq/internal/sampling"
	"gouq/ports"
)

// SamplingMethod selects the design driving the main propagation batch
type SamplingMethod string

const (
	MethodMonteCarlo     SamplingMethod = "monte_carlo"
	MethodLatinHypercube SamplingMethod = "latin_hypercube"
)

// StudyService runs a complete uncertainty study: design generation,
// evaluation, aggregation, and the optional Sobol/Morris screening batches.
type StudyService struct {
	evaluator ports.Evaluator
	baselines ports.BaselineLoader
	studies   ports.StudyRepository // nil disables persistence
	workers   int
}

// StudyRequest defines the inputs for one study run
type StudyRequest struct {
	Config  *study.StudyConfig
	Method  SamplingMethod // defaults to MethodMonteCarlo
	StudyID core.StudyID   // optional, generated if empty
}

// NewStudyService creates a study service
func NewStudyService(evaluator ports.Evaluator, baselines ports.BaselineLoader, studies ports.StudyRepository, workers int) *StudyService {
	return &StudyService{
		evaluator: evaluator,
		baselines: baselines,
		studies:   studies,
		workers:   workers,
	}
}

// RunStudy executes the full pipeline for one study. All sample matrices are
// drawn from a single generator seeded from the config, in a fixed order
// (propagation, then Sobol, then Morris), so one seed reproduces the whole
// study bit for bit.
//
// Per-sample evaluator failures never abort the run; only a propagation batch
// where every sample failed is fatal, and even then the returned summary
// carries the failure list.
func (s *StudyService) RunStudy(ctx context.Context, req StudyRequest) (*study.StudySummary, error) {
	startTime := time.Now()

	cfg := req.Config
	if cfg == nil {
		return nil, core.NewConfigError("config", "cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	studyID := req.StudyID
	if studyID == "" {
		studyID = core.StudyID(core.NewID())
	}

	baseline, err := s.loadBaseline(cfg.BaselinePath)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}

	gen := sampling.NewGenerator(cfg.Seed)
	agg := aggregate.New(cfg)

	mainDesign, err := s.mainDesign(gen, cfg, req.Method)
	if err != nil {
		return nil, err
	}
	log.Printf("[StudyService] %s: propagating %d samples across %d variables (seed %d)",
		studyID, mainDesign.Len(), len(cfg.Variables), cfg.Seed)

	orch := orchestrator.New(s.evaluator, cfg.OutputVars, s.batchDir(cfg, "propagation"), s.workers)
	results := orch.RunBatch(ctx, mainDesign.Samples(), baseline)

	summary, aggErr := agg.Summarize(results)
	summary.StudyID = studyID
	if aggErr != nil {
		summary.RuntimeMs = time.Since(startTime).Milliseconds()
		return summary, aggErr
	}

	if cfg.Sobol != nil {
		design := gen.Sobol(cfg.Sobol, cfg.NoSamples)
		log.Printf("[StudyService] %s: Sobol batch, %d evaluations", studyID, design.Len())
		sobolOrch := orchestrator.New(s.evaluator, cfg.OutputVars, s.batchDir(cfg, "sobol"), s.workers)
		summary.Sobol = agg.SobolIndices(design, sobolOrch.RunBatch(ctx, design.Samples(), baseline))
	}

	if cfg.Morris != nil {
		design := gen.Morris(cfg.Morris, cfg.NoSamples)
		log.Printf("[StudyService] %s: Morris batch, %d evaluations", studyID, design.Len())
		morrisOrch := orchestrator.New(s.evaluator, cfg.OutputVars, s.batchDir(cfg, "morris"), s.workers)
		summary.Morris = agg.MorrisEffects(design, morrisOrch.RunBatch(ctx, design.Samples(), baseline))
	}

	summary.RuntimeMs = time.Since(startTime).Milliseconds()

	if s.studies != nil {
		if err := s.studies.SaveSummary(ctx, summary); err != nil {
			return summary, fmt.Errorf("save summary: %w", err)
		}
	}
	return summary, nil
}

// mainDesign builds the propagation sample matrix per the requested method
func (s *StudyService) mainDesign(gen *sampling.Generator, cfg *study.StudyConfig, method SamplingMethod) (*sampling.Design, error) {
	switch method {
	case MethodMonteCarlo, "":
		return gen.Plain(cfg.Variables, cfg.NoSamples), nil
	case MethodLatinHypercube:
		return gen.LatinHypercube(cfg.Variables, cfg.NoSamples, cfg.LatinHypercubeLevel), nil
	default:
		return nil, core.NewConfigError("sampling method", fmt.Sprintf("unknown method %q", method))
	}
}

// loadBaseline resolves the nominal input set the samples overlay
func (s *StudyService) loadBaseline(path string) (map[string]float64, error) {
	if s.baselines == nil || path == "" {
		return nil, nil
	}
	return s.baselines.LoadBaseline(path)
}

// batchDir gives each batch its own directory so sample indices from
// different batches never collide on disk
func (s *StudyService) batchDir(cfg *study.StudyConfig, batch string) string {
	if cfg.WorkingDir == "" {
		return ""
	}
	return filepath.Join(cfg.WorkingDir, batch)
}
