package orchestrator

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gouq/domain/study"
	"gouq/ports"

	"golang.org/x/sync/errgroup"
)

// Orchestrator turns generated samples into evaluator invocations and
// collects their outputs. Evaluations are independent and run across a
// bounded worker pool; each one gets its own working directory because the
// evaluator is not safe for concurrent shared-state invocation.
type Orchestrator struct {
	evaluator  ports.Evaluator
	outputVars []string
	workDir    string
	workers    int
}

// New creates an orchestrator. workers <= 0 falls back to a single worker.
func New(evaluator ports.Evaluator, outputVars []string, workDir string, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		evaluator:  evaluator,
		outputVars: outputVars,
		workDir:    workDir,
		workers:    workers,
	}
}

// RunBatch evaluates every sample exactly once and returns results in sample
// order. Per-sample evaluator failures are recorded, never raised: the batch
// always completes with however many successes and failures occurred.
//
// Cancellation is cooperative between dispatches: once ctx is done no
// further samples are dispatched, in-flight evaluations finish, and the
// results collected so far are returned.
func (o *Orchestrator) RunBatch(ctx context.Context, samples []study.Sample, baseline map[string]float64) []study.EvaluationResult {
	if len(samples) == 0 {
		return nil
	}

	results := make([]study.EvaluationResult, len(samples))

	var g errgroup.Group
	g.SetLimit(o.workers)

	dispatched := 0
	for i, sample := range samples {
		if ctx.Err() != nil {
			log.Printf("[Orchestrator] cancelled after dispatching %d/%d samples", dispatched, len(samples))
			break
		}
		i, sample := i, sample
		g.Go(func() error {
			results[i] = o.evaluate(ctx, sample, baseline)
			return nil
		})
		dispatched++
	}
	// Workers only write their own index; no error path exists.
	_ = g.Wait()

	return results[:dispatched]
}

// evaluate runs one sample: overlay onto the baseline, isolate a working
// directory, invoke the evaluator, extract the configured outputs
func (o *Orchestrator) evaluate(ctx context.Context, sample study.Sample, baseline map[string]float64) study.EvaluationResult {
	merged := mergeInputs(baseline, sample)

	workDir, err := o.sampleWorkDir(sample.Index)
	if err != nil {
		return study.NewFailure(sample, fmt.Sprintf("working directory: %v", err))
	}

	outputs, err := o.evaluator.Evaluate(ctx, merged, workDir)
	if err != nil {
		return study.NewFailure(sample, err.Error())
	}

	extracted := make(map[string]float64, len(o.outputVars))
	for _, name := range o.outputVars {
		value, ok := outputs[name]
		if !ok {
			return study.NewFailure(sample, fmt.Sprintf("output %q missing from evaluator result", name))
		}
		extracted[name] = value
	}
	return study.NewSuccess(sample, extracted)
}

// sampleWorkDir creates the isolated per-sample directory
func (o *Orchestrator) sampleWorkDir(index int) (string, error) {
	if o.workDir == "" {
		return os.MkdirTemp("", "gouq-sample-")
	}
	dir := filepath.Join(o.workDir, fmt.Sprintf("sample_%05d", index))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// mergeInputs overlays the sample's perturbed values onto the read-only
// baseline; variables not in the sample keep their baseline value
func mergeInputs(baseline map[string]float64, sample study.Sample) map[string]float64 {
	merged := make(map[string]float64, len(baseline)+len(sample.Values))
	for k, v := range baseline {
		merged[k] = v
	}
	for k, v := range sample.Values {
		merged[k] = v
	}
	return merged
}
