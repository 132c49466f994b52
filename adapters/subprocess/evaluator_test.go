package subprocess

import (
	"context"
	"errors"
	"testing"

	"gouq/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateRoundTrip(t *testing.T) {
	// The "model" doubles x: reads inputs.json, writes outputs.json
	e := NewEvaluator("sh", "-c",
		`awk -F': ' '/"x"/{v=$2} END{printf "{\"y\": %g}", 2*v}' inputs.json > outputs.json`)

	outputs, err := e.Evaluate(context.Background(), map[string]float64{"x": 3.5}, t.TempDir())
	require.NoError(t, err)
	assert.InDelta(t, 7.0, outputs["y"], 1e-9)
}

func TestEvaluateCommandFailure(t *testing.T) {
	e := NewEvaluator("sh", "-c", "echo solver diverged >&2; exit 1")

	_, err := e.Evaluate(context.Background(), map[string]float64{"x": 1}, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEvaluation))
	assert.Contains(t, err.Error(), "solver diverged")
}

func TestEvaluateMissingOutputs(t *testing.T) {
	e := NewEvaluator("true")

	_, err := e.Evaluate(context.Background(), map[string]float64{"x": 1}, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEvaluation))
}
