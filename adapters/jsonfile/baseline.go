package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"

	"gouq/ports"
)

// BaselineLoader reads a baseline input-variable set from a flat JSON
// object of name -> numeric value. Translating the evaluator's native input
// format into this shape is the evaluator integration's concern.
type BaselineLoader struct{}

// NewBaselineLoader creates a JSON baseline loader
func NewBaselineLoader() *BaselineLoader {
	return &BaselineLoader{}
}

// LoadBaseline reads the input set; an empty path yields an empty baseline
// (every variable then comes from the sample overlay)
func (l *BaselineLoader) LoadBaseline(path string) (map[string]float64, error) {
	if path == "" {
		return map[string]float64{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline inputs: %w", err)
	}

	baseline := make(map[string]float64)
	if err := json.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("parse baseline inputs %s: %w", path, err)
	}
	return baseline, nil
}

// Ensure BaselineLoader implements the port
var _ ports.BaselineLoader = (*BaselineLoader)(nil)
