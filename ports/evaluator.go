package ports

import "context"

// Evaluator invokes the external model once against a fully merged input set.
// The workDir is an isolated working copy owned by this invocation; the
// evaluator itself is not assumed safe for concurrent shared-state use.
//
// Implementations may run in-process, shell out to a subprocess, or call a
// remote service; the orchestrator does not care which.
type Evaluator interface {
	// Evaluate returns the evaluator's output variables by name, or an
	// error describing why this input set could not be evaluated.
	Evaluate(ctx context.Context, inputs map[string]float64, workDir string) (map[string]float64, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface
type EvaluatorFunc func(ctx context.Context, inputs map[string]float64, workDir string) (map[string]float64, error)

// Evaluate implements Evaluator
func (f EvaluatorFunc) Evaluate(ctx context.Context, inputs map[string]float64, workDir string) (map[string]float64, error) {
	return f(ctx, inputs, workDir)
}

// BaselineLoader reads the baseline input-variable set the samples are
// overlaid onto. The evaluator's native file format is an adapter concern.
type BaselineLoader interface {
	LoadBaseline(path string) (map[string]float64, error)
}
