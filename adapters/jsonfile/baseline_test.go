package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IN.DAT.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fdene": 0.75, "kappa": 1.8}`), 0o644))

	baseline, err := NewBaselineLoader().LoadBaseline(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"fdene": 0.75, "kappa": 1.8}, baseline)
}

func TestLoadBaselineEmptyPath(t *testing.T) {
	baseline, err := NewBaselineLoader().LoadBaseline("")
	require.NoError(t, err)
	assert.Empty(t, baseline)
}

func TestLoadBaselineMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IN.DAT.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fdene": "not a number"}`), 0o644))

	_, err := NewBaselineLoader().LoadBaseline(path)
	assert.Error(t, err)
}
