package study

import (
	"fmt"

	"gouq/domain/core"
)

// ============================================================================
// ERROR MODELS (closed tagged variant, one type per distribution family)
// ============================================================================

// ErrorModelKind names a distribution family used to perturb a nominal input
type ErrorModelKind string

const (
	KindGaussian          ErrorModelKind = "Gaussian"
	KindUniform           ErrorModelKind = "Uniform"
	KindRelative          ErrorModelKind = "Relative"
	KindLowerHalfGaussian ErrorModelKind = "LowerHalfGaussian"
	KindUpperHalfGaussian ErrorModelKind = "UpperHalfGaussian"
)

// ErrorModel is the closed set of perturbation distributions. Each variant
// carries its own required parameters and validates them at construction;
// there is no catch-all variant.
type ErrorModel interface {
	Kind() ErrorModelKind
	validate(varName string) error
	sealed()
}

// Gaussian perturbs around Mean with standard deviation Std (unbounded)
type Gaussian struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Uniform draws uniformly from [Lower, Upper)
type Uniform struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Relative applies a symmetric multiplicative perturbation of up to
// Percentage percent around Mean
type Relative struct {
	Mean       float64 `json:"mean"`
	Percentage float64 `json:"percentage"`
}

// LowerHalfGaussian samples only the lower half of a Gaussian; every
// realization is <= Mean
type LowerHalfGaussian struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// UpperHalfGaussian samples only the upper half of a Gaussian; every
// realization is >= Mean
type UpperHalfGaussian struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

func (Gaussian) Kind() ErrorModelKind          { return KindGaussian }
func (Uniform) Kind() ErrorModelKind           { return KindUniform }
func (Relative) Kind() ErrorModelKind          { return KindRelative }
func (LowerHalfGaussian) Kind() ErrorModelKind { return KindLowerHalfGaussian }
func (UpperHalfGaussian) Kind() ErrorModelKind { return KindUpperHalfGaussian }

func (Gaussian) sealed()          {}
func (Uniform) sealed()           {}
func (Relative) sealed()          {}
func (LowerHalfGaussian) sealed() {}
func (UpperHalfGaussian) sealed() {}

func (m Gaussian) validate(varName string) error {
	if m.Std <= 0 {
		return core.NewDomainError(varName, fmt.Sprintf("std must be > 0, got %g", m.Std))
	}
	return nil
}

func (m Uniform) validate(varName string) error {
	if m.Lower >= m.Upper {
		return core.NewInvalidDistributionError(varName,
			fmt.Sprintf("lower %g must be < upper %g", m.Lower, m.Upper))
	}
	return nil
}

func (m Relative) validate(varName string) error {
	if m.Percentage < 0 {
		return core.NewInvalidDistributionError(varName,
			fmt.Sprintf("percentage must be >= 0, got %g", m.Percentage))
	}
	return nil
}

func (m LowerHalfGaussian) validate(varName string) error {
	if m.Std <= 0 {
		return core.NewDomainError(varName, fmt.Sprintf("std must be > 0, got %g", m.Std))
	}
	return nil
}

func (m UpperHalfGaussian) validate(varName string) error {
	if m.Std <= 0 {
		return core.NewDomainError(varName, fmt.Sprintf("std must be > 0, got %g", m.Std))
	}
	return nil
}

// ============================================================================
// STUDY CONFIGURATION
// ============================================================================

// UncertainVariable pairs an input variable name with its error model.
// Immutable once constructed.
type UncertainVariable struct {
	Name  string
	Model ErrorModel
}

// NewUncertainVariable validates the model parameters eagerly so a malformed
// study never reaches the evaluator
func NewUncertainVariable(name string, model ErrorModel) (UncertainVariable, error) {
	if name == "" {
		return UncertainVariable{}, core.NewConfigError("uncertainties", "variable name cannot be empty")
	}
	if model == nil {
		return UncertainVariable{}, core.NewInvalidDistributionError(name, "missing error model")
	}
	if err := model.validate(name); err != nil {
		return UncertainVariable{}, err
	}
	return UncertainVariable{Name: name, Model: model}, nil
}

// SensitivityDesign is a named screening design with its own variable list
// and per-variable bounds, independent of the distribution-based variables.
type SensitivityDesign struct {
	Names  []string     `json:"names"`
	Bounds [][2]float64 `json:"bounds"`
}

// NewSensitivityDesign checks the names/bounds pairing and bound ordering.
// Bound inversion fails here, at build time, not lazily.
func NewSensitivityDesign(names []string, bounds [][2]float64) (*SensitivityDesign, error) {
	if len(names) == 0 {
		return nil, core.NewConfigError("sensitivity design", "requires at least one variable")
	}
	if len(names) != len(bounds) {
		return nil, core.NewConfigError("sensitivity design",
			fmt.Sprintf("%d names but %d bounds", len(names), len(bounds)))
	}
	for i, b := range bounds {
		if b[0] >= b[1] {
			return nil, core.NewInvalidBoundsError(names[i], b[0], b[1])
		}
	}
	return &SensitivityDesign{Names: names, Bounds: bounds}, nil
}

// NumVars returns the design dimensionality
func (d *SensitivityDesign) NumVars() int {
	return len(d.Names)
}

// StudyConfig is the validated, immutable representation of an uncertainty
// study. Created once at study start, read-only thereafter.
type StudyConfig struct {
	RunTitle            string
	BaselinePath        string
	WorkingDir          string
	Seed                int64
	Variables           []UncertainVariable
	OutputVars          []string
	NoSamples           int
	OutputMeanRef       float64
	FigureOfMerit       string
	LatinHypercubeLevel int

	// Optional screening designs; nil when not requested
	Sobol  *SensitivityDesign
	Morris *SensitivityDesign
}

// Validate checks cross-field invariants. Variable models are validated at
// construction; this covers the study-level fields.
func (c *StudyConfig) Validate() error {
	if c.RunTitle == "" {
		return core.NewConfigError("runtitle", "cannot be empty")
	}
	if c.NoSamples < 0 {
		return core.NewConfigError("no_samples", fmt.Sprintf("must be >= 0, got %d", c.NoSamples))
	}
	if c.LatinHypercubeLevel < 1 {
		return core.NewConfigError("latin_hypercube_level",
			fmt.Sprintf("must be >= 1, got %d", c.LatinHypercubeLevel))
	}
	if len(c.OutputVars) == 0 {
		return core.NewConfigError("output_vars", "cannot be empty")
	}
	if c.FigureOfMerit != "" && !c.HasOutput(c.FigureOfMerit) {
		return core.NewConfigError("figure_of_merit",
			fmt.Sprintf("%q is not a member of output_vars", c.FigureOfMerit))
	}
	seen := make(map[string]bool, len(c.Variables))
	for _, v := range c.Variables {
		if seen[v.Name] {
			return core.NewConfigError("uncertainties", fmt.Sprintf("duplicate variable %q", v.Name))
		}
		seen[v.Name] = true
	}
	return nil
}

// HasOutput reports whether name is one of the configured output variables
func (c *StudyConfig) HasOutput(name string) bool {
	for _, o := range c.OutputVars {
		if o == name {
			return true
		}
	}
	return false
}

// VariableNames returns the ordered uncertain-variable names
func (c *StudyConfig) VariableNames() []string {
	names := make([]string, len(c.Variables))
	for i, v := range c.Variables {
		names[i] = v.Name
	}
	return names
}

// ============================================================================
// SAMPLES AND EVALUATION RESULTS
// ============================================================================

// Sample is one perturbed input set: an ordered mapping from variable name
// to value. Produced by the design generator, consumed exactly once by the
// orchestrator.
type Sample struct {
	Index  int                `json:"index"`
	Names  []string           `json:"names"`
	Values map[string]float64 `json:"values"`
}

// NewSample builds a sample from parallel name/value slices
func NewSample(index int, names []string, values []float64) Sample {
	m := make(map[string]float64, len(names))
	for i, n := range names {
		m[n] = values[i]
	}
	return Sample{Index: index, Names: names, Values: m}
}

// EvalStatus marks an evaluation as succeeded or failed
type EvalStatus string

const (
	StatusSuccess EvalStatus = "success"
	StatusFailure EvalStatus = "failure"
)

// EvaluationResult is the outcome of one evaluator invocation. A Failure
// carries no output values but is never dropped: it is counted and reported.
type EvaluationResult struct {
	Sample  Sample             `json:"sample"`
	Outputs map[string]float64 `json:"outputs,omitempty"`
	Status  EvalStatus         `json:"status"`
	Reason  string             `json:"reason,omitempty"`
}

// NewSuccess records a completed evaluation with its extracted outputs
func NewSuccess(sample Sample, outputs map[string]float64) EvaluationResult {
	return EvaluationResult{Sample: sample, Outputs: outputs, Status: StatusSuccess}
}

// NewFailure records a failed evaluation with the reason
func NewFailure(sample Sample, reason string) EvaluationResult {
	return EvaluationResult{Sample: sample, Status: StatusFailure, Reason: reason}
}

// Failed reports whether the evaluation failed
func (r EvaluationResult) Failed() bool {
	return r.Status == StatusFailure
}
