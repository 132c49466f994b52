package subprocess

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"gouq/domain/core"
)

const (
	inputsFile  = "inputs.json"
	outputsFile = "outputs.json"
)

// Evaluator shells out to an external model executable. The contract is
// file-based: inputs are written to inputs.json in the sample's working
// directory, the command runs with that directory as cwd, and the outputs
// are read back from outputs.json. Both files are flat name -> value maps.
type Evaluator struct {
	command string
	args    []string
}

// NewEvaluator creates a subprocess evaluator for the given command
func NewEvaluator(command string, args ...string) *Evaluator {
	return &Evaluator{command: command, args: args}
}

// Evaluate runs the external model once in workDir
func (e *Evaluator) Evaluate(ctx context.Context, inputs map[string]float64, workDir string) (map[string]float64, error) {
	data, err := json.MarshalIndent(inputs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode inputs: %v", core.ErrEvaluation, err)
	}
	if err := os.WriteFile(filepath.Join(workDir, inputsFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write inputs: %v", core.ErrEvaluation, err)
	}

	cmd := exec.CommandContext(ctx, e.command, e.args...)
	cmd.Dir = workDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", core.ErrEvaluation, e.command, err, truncate(out))
	}

	raw, err := os.ReadFile(filepath.Join(workDir, outputsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: read outputs: %v", core.ErrEvaluation, err)
	}
	outputs := make(map[string]float64)
	if err := json.Unmarshal(raw, &outputs); err != nil {
		return nil, fmt.Errorf("%w: decode outputs: %v", core.ErrEvaluation, err)
	}
	return outputs, nil
}

// truncate keeps failure reasons readable when the subprocess is chatty
func truncate(out []byte) string {
	const limit = 512
	if len(out) > limit {
		out = out[:limit]
	}
	return string(out)
}
