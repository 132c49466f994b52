package aggregate

import (
	"fmt"
	"log"

	"gouq/domain/core"
	"gouq/domain/study"
	"gouq/internal/sampling"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Aggregator reduces collected evaluation results into a StudySummary
type Aggregator struct {
	cfg *study.StudyConfig
}

// New creates an aggregator for the given study configuration
func New(cfg *study.StudyConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Summarize computes per-output descriptive statistics and the
// figure-of-merit delta for the main propagation batch.
//
// An empty batch yields a "no data" summary, never an error. A batch where
// every sample failed is a terminal failure for the whole study: the error
// wraps core.ErrAllSamplesFailed and the summary still carries the failure
// list for diagnosis.
func (a *Aggregator) Summarize(results []study.EvaluationResult) (*study.StudySummary, error) {
	summary := &study.StudySummary{
		RunTitle:  a.cfg.RunTitle,
		Seed:      a.cfg.Seed,
		CreatedAt: core.Now(),
	}

	if len(results) == 0 {
		summary.NoData = true
		return summary, nil
	}

	successes := make([]study.EvaluationResult, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			summary.Failures++
			summary.Failed = append(summary.Failed, study.SampleFailure{
				Index:  r.Sample.Index,
				Reason: r.Reason,
			})
			continue
		}
		successes = append(successes, r)
	}
	summary.Successes = len(successes)

	if summary.Successes == 0 {
		return summary, fmt.Errorf("%w: %d of %d evaluations failed",
			core.ErrAllSamplesFailed, summary.Failures, len(results))
	}
	if summary.Failures > 0 {
		log.Printf("[Aggregator] %d/%d evaluations failed; statistics computed over %d successes",
			summary.Failures, len(results), summary.Successes)
	}

	for _, output := range a.cfg.OutputVars {
		summary.Outputs = append(summary.Outputs, describeOutput(output, successes))
	}

	if a.cfg.FigureOfMerit != "" && a.cfg.OutputMeanRef != 0 {
		observed := collectOutput(a.cfg.FigureOfMerit, successes)
		mean, _ := stats.Mean(observed)
		summary.FigureOfMerit = &study.FigureOfMeritDelta{
			Output:        a.cfg.FigureOfMerit,
			ObservedMean:  mean,
			ReferenceMean: a.cfg.OutputMeanRef,
			Delta:         (mean - a.cfg.OutputMeanRef) / a.cfg.OutputMeanRef,
		}
	}

	return summary, nil
}

// SobolIndices computes the variance-decomposition table from a completed
// Sobol batch. The Saltelli estimators need the matched A/B/A_i row blocks;
// if any evaluation in the batch failed, or fewer than 2 base points exist,
// the affected cells are reported as insufficient data, never as zero.
func (a *Aggregator) SobolIndices(design *sampling.SobolDesign, results []study.EvaluationResult) []study.SobolIndex {
	if design.Len() == 0 {
		return nil
	}

	complete := len(results) == design.Len() && design.N >= 2
	for _, r := range results {
		if r.Failed() {
			complete = false
			break
		}
	}

	var indices []study.SobolIndex
	for _, output := range a.cfg.OutputVars {
		if !complete {
			for _, variable := range design.Names {
				indices = append(indices, study.SobolIndex{
					Variable: variable, Output: output, InsufficientData: true,
				})
			}
			continue
		}

		yA := outputBlock(results, output, 0, design.N)
		yB := outputBlock(results, output, design.N, design.N)
		variance := stat.Variance(yA, nil)

		for i, variable := range design.Names {
			if variance == 0 {
				indices = append(indices, study.SobolIndex{
					Variable: variable, Output: output, InsufficientData: true,
				})
				continue
			}
			yABi := outputBlock(results, output, (2+i)*design.N, design.N)

			// First order: variance explained by variable i alone.
			// Cov(yB, yABi - yA) vanishes exactly when column i has no
			// influence, because then yABi == yA row for row.
			first := (stat.Covariance(yB, yABi, nil) - stat.Covariance(yB, yA, nil)) / variance

			// Total order: one minus the variance explained by
			// everything except variable i
			total := 1 - stat.Covariance(yA, yABi, nil)/variance

			indices = append(indices, study.SobolIndex{
				Variable:   variable,
				Output:     output,
				FirstOrder: first,
				TotalOrder: total,
			})
		}
	}
	return indices
}

// MorrisEffects computes the elementary-effects screening table from a
// completed Morris batch: per (variable, output), the mean, mean absolute
// value, and standard deviation of the per-trajectory elementary effects.
func (a *Aggregator) MorrisEffects(design *sampling.MorrisDesign, results []study.EvaluationResult) []study.MorrisEffect {
	if design.Len() == 0 {
		return nil
	}

	complete := len(results) == design.Len() && design.R >= 2
	for _, r := range results {
		if r.Failed() {
			complete = false
			break
		}
	}

	var effects []study.MorrisEffect
	for _, output := range a.cfg.OutputVars {
		if !complete {
			for _, variable := range design.Names {
				effects = append(effects, study.MorrisEffect{
					Variable: variable, Output: output, InsufficientData: true,
				})
			}
			continue
		}

		// effectsByVar[i] collects one elementary effect per trajectory
		effectsByVar := make([][]float64, design.K)
		for t := 0; t < design.R; t++ {
			base := t * (design.K + 1)
			for step, variable := range design.Moves[t] {
				before := results[base+step].Outputs[output]
				after := results[base+step+1].Outputs[output]
				ee := (after - before) / (design.Delta * design.Signs[t][step])
				effectsByVar[variable] = append(effectsByVar[variable], ee)
			}
		}

		for i, variable := range design.Names {
			mean, _ := stats.Mean(effectsByVar[i])
			stdDev, _ := stats.StandardDeviation(effectsByVar[i])
			absolutes := make([]float64, len(effectsByVar[i]))
			for j, e := range effectsByVar[i] {
				if e < 0 {
					e = -e
				}
				absolutes[j] = e
			}
			meanAbs, _ := stats.Mean(absolutes)

			effects = append(effects, study.MorrisEffect{
				Variable: variable,
				Output:   output,
				Mean:     mean,
				MeanAbs:  meanAbs,
				StdDev:   stdDev,
			})
		}
	}
	return effects
}

// describeOutput computes the descriptive statistics for one output over the
// successful evaluations
func describeOutput(output string, successes []study.EvaluationResult) study.OutputStats {
	values := collectOutput(output, successes)

	os := study.OutputStats{Output: output, Count: len(values)}
	os.Mean, _ = stats.Mean(values)
	os.Min, _ = stats.Min(values)
	os.Max, _ = stats.Max(values)
	os.Median, _ = stats.Median(values)

	if len(values) < 2 {
		// Standard deviation is undefined, not zero
		os.InsufficientData = true
		return os
	}
	os.StdDev, _ = stats.StandardDeviation(values)
	return os
}

func collectOutput(output string, successes []study.EvaluationResult) []float64 {
	values := make([]float64, len(successes))
	for i, r := range successes {
		values[i] = r.Outputs[output]
	}
	return values
}

func outputBlock(results []study.EvaluationResult, output string, start, n int) []float64 {
	block := make([]float64, n)
	for i := 0; i < n; i++ {
		block[i] = results[start+i].Outputs[output]
	}
	return block
}
