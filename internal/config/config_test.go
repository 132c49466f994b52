package config

import (
	"testing"

	"gouq/domain/core"
	"gouq/domain/study"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDocument = `{
  "config": {
    "runtitle": "uncertainty demo",
    "IN.DAT_path": "/data/IN.DAT.json",
    "working_directory": "/tmp/uq",
    "pseudorandom_seed": 2
  },
  "uncertainties": [
    {"Varname": "fdene", "Errortype": "Uniform", "Lowerbound": 0.6, "Upperbound": 0.9},
    {"Varname": "boundu_2", "Errortype": "Gaussian", "Mean": 1.0, "Std": 0.1},
    {"Varname": "pheat", "Errortype": "Relative", "Mean": 100, "Percentage": 5},
    {"Varname": "coreradius", "Errortype": "LowerHalfGaussian", "Mean": 0.75, "std": 0.1},
    {"Varname": "kappa", "Errortype": "UpperHalfGaussian", "mean": 1.8, "Std": 0.05}
  ],
  "output_vars": ["rmajor", "pnetelmw"],
  "no_samples": 5,
  "output_mean": 8.0,
  "figure_of_merit": "rmajor",
  "latin_hypercube_level": 4,
  "sobol_uncertainties": {
    "bounds": [[0.1, 0.5], [2, 10]],
    "names": ["alpha", "beta"],
    "num_vars": 2
  }
}`

func TestParseStudyFullDocument(t *testing.T) {
	cfg, err := ParseStudy([]byte(fullDocument))
	require.NoError(t, err)

	assert.Equal(t, "uncertainty demo", cfg.RunTitle)
	assert.Equal(t, "/data/IN.DAT.json", cfg.BaselinePath)
	assert.Equal(t, "/tmp/uq", cfg.WorkingDir)
	assert.Equal(t, int64(2), cfg.Seed)
	assert.Equal(t, 5, cfg.NoSamples)
	assert.Equal(t, 8.0, cfg.OutputMeanRef)
	assert.Equal(t, "rmajor", cfg.FigureOfMerit)
	assert.Equal(t, 4, cfg.LatinHypercubeLevel)

	require.Len(t, cfg.Variables, 5)
	assert.Equal(t, study.KindUniform, cfg.Variables[0].Model.Kind())
	assert.Equal(t, study.KindGaussian, cfg.Variables[1].Model.Kind())
	assert.Equal(t, study.KindRelative, cfg.Variables[2].Model.Kind())
	assert.Equal(t, study.KindLowerHalfGaussian, cfg.Variables[3].Model.Kind())
	assert.Equal(t, study.KindUpperHalfGaussian, cfg.Variables[4].Model.Kind())

	require.NotNil(t, cfg.Sobol)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Sobol.Names)
	assert.Equal(t, [2]float64{0.1, 0.5}, cfg.Sobol.Bounds[0])
	assert.Nil(t, cfg.Morris)
}

func TestParseStudyNormalizesParameterCasing(t *testing.T) {
	// "Std" vs "std" is a data-quality artifact in upstream configs, not
	// two different fields
	cfg, err := ParseStudy([]byte(fullDocument))
	require.NoError(t, err)

	lower := cfg.Variables[3].Model.(study.LowerHalfGaussian)
	assert.Equal(t, 0.1, lower.Std)
	upper := cfg.Variables[4].Model.(study.UpperHalfGaussian)
	assert.Equal(t, 1.8, upper.Mean)
}

func TestParseStudyRejectsUnknownErrortype(t *testing.T) {
	doc := `{
	  "config": {"runtitle": "t", "pseudorandom_seed": 1},
	  "uncertainties": [{"Varname": "x", "Errortype": "Lognormal", "Mean": 1, "Std": 1}],
	  "output_vars": ["y"],
	  "no_samples": 1
	}`
	_, err := ParseStudy([]byte(doc))
	assert.ErrorIs(t, err, core.ErrInvalidDistribution)
	assert.Contains(t, err.Error(), "Lognormal")
}

func TestParseStudyRejectsMissingDistributionParameters(t *testing.T) {
	doc := `{
	  "config": {"runtitle": "t", "pseudorandom_seed": 1},
	  "uncertainties": [{"Varname": "x", "Errortype": "Gaussian", "Mean": 1}],
	  "output_vars": ["y"],
	  "no_samples": 1
	}`
	_, err := ParseStudy([]byte(doc))
	assert.ErrorIs(t, err, core.ErrInvalidDistribution)
}

func TestParseStudyRejectsNumVarsMismatch(t *testing.T) {
	doc := `{
	  "config": {"runtitle": "t", "pseudorandom_seed": 1},
	  "output_vars": ["y"],
	  "no_samples": 1,
	  "morris_uncertainties": {"bounds": [[0, 1]], "names": ["a"], "num_vars": 3}
	}`
	_, err := ParseStudy([]byte(doc))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestParseStudyRejectsInvertedSensitivityBounds(t *testing.T) {
	doc := `{
	  "config": {"runtitle": "t", "pseudorandom_seed": 1},
	  "output_vars": ["y"],
	  "no_samples": 1,
	  "sobol_uncertainties": {"bounds": [[5, 1]], "names": ["a"], "num_vars": 1}
	}`
	_, err := ParseStudy([]byte(doc))
	assert.ErrorIs(t, err, core.ErrInvalidBounds)
}

func TestParseStudyFigureOfMeritMustBeOutput(t *testing.T) {
	doc := `{
	  "config": {"runtitle": "t", "pseudorandom_seed": 1},
	  "output_vars": ["y"],
	  "no_samples": 1,
	  "figure_of_merit": "z"
	}`
	_, err := ParseStudy([]byte(doc))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestParseStudyDefaultsHypercubeLevel(t *testing.T) {
	doc := `{
	  "config": {"runtitle": "t", "pseudorandom_seed": 1},
	  "output_vars": ["y"],
	  "no_samples": 0
	}`
	cfg, err := ParseStudy([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.LatinHypercubeLevel)
	assert.Equal(t, 0, cfg.NoSamples)
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("GOUQ_WORKERS", "6")

	env := LoadEnv()
	assert.Empty(t, env.DatabaseURL)
	assert.Equal(t, "8080", env.ServerPort)
	assert.Equal(t, 6, env.Workers)
}
