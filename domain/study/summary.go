package study

import (
	"gouq/domain/core"
)

// OutputStats holds descriptive statistics for one output variable,
// computed over successful evaluations only.
type OutputStats struct {
	Output string  `json:"output"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Count  int     `json:"count"`

	// InsufficientData is set when fewer than 2 successes exist for this
	// output; StdDev is then undefined and must not be read as zero.
	InsufficientData bool `json:"insufficient_data,omitempty"`
}

// FigureOfMeritDelta is the relative deviation of the observed mean of the
// figure-of-merit output from the configured reference mean.
type FigureOfMeritDelta struct {
	Output        string  `json:"output"`
	ObservedMean  float64 `json:"observed_mean"`
	ReferenceMean float64 `json:"reference_mean"`
	Delta         float64 `json:"delta"`
}

// SobolIndex is one row of the variance-decomposition table, keyed by
// (variable, output).
type SobolIndex struct {
	Variable         string  `json:"variable"`
	Output           string  `json:"output"`
	FirstOrder       float64 `json:"first_order"`
	TotalOrder       float64 `json:"total_order"`
	InsufficientData bool    `json:"insufficient_data,omitempty"`
}

// MorrisEffect is one row of the elementary-effects table, keyed by
// (variable, output). Mean far from zero indicates strong influence; a
// large StdDev indicates nonlinearity or interaction.
type MorrisEffect struct {
	Variable         string  `json:"variable"`
	Output           string  `json:"output"`
	Mean             float64 `json:"mean"`
	MeanAbs          float64 `json:"mean_abs"`
	StdDev           float64 `json:"std_dev"`
	InsufficientData bool    `json:"insufficient_data,omitempty"`
}

// SampleFailure records one failed evaluation for the study report
type SampleFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// StudySummary is the terminal artifact of a study: per-output statistics,
// the figure-of-merit comparison, and the sensitivity tables. Immutable
// once produced.
type StudySummary struct {
	StudyID  core.StudyID   `json:"study_id"`
	RunTitle string         `json:"run_title"`
	Seed     int64          `json:"seed"`
	NoData   bool           `json:"no_data,omitempty"`

	Successes int             `json:"successes"`
	Failures  int             `json:"failures"`
	Failed    []SampleFailure `json:"failed,omitempty"`

	Outputs       []OutputStats       `json:"outputs"`
	FigureOfMerit *FigureOfMeritDelta `json:"figure_of_merit,omitempty"`
	Sobol         []SobolIndex        `json:"sobol,omitempty"`
	Morris        []MorrisEffect      `json:"morris,omitempty"`

	RuntimeMs int64          `json:"runtime_ms"`
	CreatedAt core.Timestamp `json:"created_at"`
}
