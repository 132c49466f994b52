package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gouq/domain/core"
	"gouq/domain/study"
)

// studyDocument mirrors the JSON study configuration consumed once at
// study start
type studyDocument struct {
	Config struct {
		RunTitle         string `json:"runtitle"`
		BaselinePath     string `json:"IN.DAT_path"`
		WorkingDirectory string `json:"working_directory"`
		PseudorandomSeed int64  `json:"pseudorandom_seed"`
	} `json:"config"`
	Uncertainties       []map[string]json.RawMessage `json:"uncertainties"`
	OutputVars          []string                     `json:"output_vars"`
	NoSamples           int                          `json:"no_samples"`
	OutputMean          float64                      `json:"output_mean"`
	FigureOfMerit       string                       `json:"figure_of_merit"`
	LatinHypercubeLevel int                          `json:"latin_hypercube_level"`
	Sobol               *sensitivityDocument         `json:"sobol_uncertainties"`
	Morris              *sensitivityDocument         `json:"morris_uncertainties"`
}

type sensitivityDocument struct {
	Bounds  [][2]float64 `json:"bounds"`
	Names   []string     `json:"names"`
	NumVars int          `json:"num_vars"`
}

// LoadStudy reads and validates a study configuration document
func LoadStudy(path string) (*study.StudyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read study config: %w", err)
	}
	return ParseStudy(data)
}

// ParseStudy parses a study configuration document and validates it eagerly,
// so a malformed study never reaches the evaluator.
func ParseStudy(data []byte) (*study.StudyConfig, error) {
	var doc studyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, core.NewConfigError("document", err.Error())
	}

	cfg := &study.StudyConfig{
		RunTitle:            doc.Config.RunTitle,
		BaselinePath:        doc.Config.BaselinePath,
		WorkingDir:          doc.Config.WorkingDirectory,
		Seed:                doc.Config.PseudorandomSeed,
		OutputVars:          doc.OutputVars,
		NoSamples:           doc.NoSamples,
		OutputMeanRef:       doc.OutputMean,
		FigureOfMerit:       doc.FigureOfMerit,
		LatinHypercubeLevel: doc.LatinHypercubeLevel,
	}
	if cfg.LatinHypercubeLevel == 0 {
		cfg.LatinHypercubeLevel = 1
	}

	for _, raw := range doc.Uncertainties {
		v, err := parseUncertainty(raw)
		if err != nil {
			return nil, err
		}
		cfg.Variables = append(cfg.Variables, v)
	}

	var err error
	if cfg.Sobol, err = parseSensitivity("sobol_uncertainties", doc.Sobol); err != nil {
		return nil, err
	}
	if cfg.Morris, err = parseSensitivity("morris_uncertainties", doc.Morris); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseUncertainty builds one UncertainVariable from a raw JSON object.
// Field names are matched case-insensitively: upstream configuration files
// mix "Std" and "std" for the same field.
func parseUncertainty(raw map[string]json.RawMessage) (study.UncertainVariable, error) {
	fields := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		fields[strings.ToLower(k)] = v
	}

	name := stringField(fields, "varname")
	errType := stringField(fields, "errortype")
	if name == "" {
		return study.UncertainVariable{}, core.NewConfigError("uncertainties", "missing Varname")
	}

	var model study.ErrorModel
	switch strings.ToLower(errType) {
	case "gaussian":
		mean, std, err := meanStd(fields, name)
		if err != nil {
			return study.UncertainVariable{}, err
		}
		model = study.Gaussian{Mean: mean, Std: std}
	case "uniform":
		lower, okL := numberField(fields, "lowerbound", "lower")
		upper, okU := numberField(fields, "upperbound", "upper")
		if !okL || !okU {
			return study.UncertainVariable{}, core.NewInvalidDistributionError(name, "Uniform requires Lowerbound and Upperbound")
		}
		model = study.Uniform{Lower: lower, Upper: upper}
	case "relative":
		mean, okM := numberField(fields, "mean")
		pct, okP := numberField(fields, "percentage")
		if !okM || !okP {
			return study.UncertainVariable{}, core.NewInvalidDistributionError(name, "Relative requires Mean and Percentage")
		}
		model = study.Relative{Mean: mean, Percentage: pct}
	case "lowerhalfgaussian":
		mean, std, err := meanStd(fields, name)
		if err != nil {
			return study.UncertainVariable{}, err
		}
		model = study.LowerHalfGaussian{Mean: mean, Std: std}
	case "upperhalfgaussian":
		mean, std, err := meanStd(fields, name)
		if err != nil {
			return study.UncertainVariable{}, err
		}
		model = study.UpperHalfGaussian{Mean: mean, Std: std}
	default:
		return study.UncertainVariable{}, core.NewInvalidDistributionError(name,
			fmt.Sprintf("unknown Errortype %q", errType))
	}

	return study.NewUncertainVariable(name, model)
}

func meanStd(fields map[string]json.RawMessage, name string) (float64, float64, error) {
	mean, okM := numberField(fields, "mean")
	std, okS := numberField(fields, "std")
	if !okM || !okS {
		return 0, 0, core.NewInvalidDistributionError(name, "Gaussian-family model requires Mean and Std")
	}
	return mean, std, nil
}

func parseSensitivity(field string, doc *sensitivityDocument) (*study.SensitivityDesign, error) {
	if doc == nil {
		return nil, nil
	}
	if doc.NumVars != len(doc.Names) {
		return nil, core.NewConfigError(field,
			fmt.Sprintf("num_vars %d does not match %d names", doc.NumVars, len(doc.Names)))
	}
	return study.NewSensitivityDesign(doc.Names, doc.Bounds)
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func numberField(fields map[string]json.RawMessage, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Env holds process-level settings read from the environment (after the
// optional godotenv overlay in cmd)
type Env struct {
	DatabaseURL  string
	ServerPort   string
	Workers      int
	ExcelPath    string
	EvaluatorCmd string
}

// LoadEnv reads environment settings with defaults. DatabaseURL empty means
// persistence is disabled; the engine still runs.
func LoadEnv() *Env {
	return &Env{
		DatabaseURL:  getEnvOrDefault("DATABASE_URL", ""),
		ServerPort:   getEnvOrDefault("PORT", "8080"),
		Workers:      getEnvIntOrDefault("GOUQ_WORKERS", runtime.NumCPU()),
		ExcelPath:    getEnvOrDefault("GOUQ_EXCEL_PATH", ""),
		EvaluatorCmd: getEnvOrDefault("GOUQ_EVALUATOR", ""),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
