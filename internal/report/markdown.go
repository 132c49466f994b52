package report

import (
	"fmt"
	"strings"

	"gouq/domain/study"
)

// Markdown renders a StudySummary as a markdown report: study header,
// per-output statistics, figure-of-merit comparison, and the sensitivity
// tables that were produced.
func Markdown(summary *study.StudySummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Uncertainty Study: %s\n\n", summary.RunTitle)
	fmt.Fprintf(&b, "- Study ID: `%s`\n", summary.StudyID)
	fmt.Fprintf(&b, "- Seed: %d\n", summary.Seed)
	fmt.Fprintf(&b, "- Evaluations: %d succeeded, %d failed\n\n", summary.Successes, summary.Failures)

	if summary.NoData {
		b.WriteString("**No data**: the study produced zero evaluations.\n")
		return b.String()
	}

	b.WriteString("## Output statistics\n\n")
	b.WriteString("| Output | Mean | StdDev | Min | Max | Median | N |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, o := range summary.Outputs {
		std := "insufficient data"
		if !o.InsufficientData {
			std = formatFloat(o.StdDev)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %d |\n",
			o.Output, formatFloat(o.Mean), std, formatFloat(o.Min),
			formatFloat(o.Max), formatFloat(o.Median), o.Count)
	}
	b.WriteString("\n")

	if fom := summary.FigureOfMerit; fom != nil {
		b.WriteString("## Figure of merit\n\n")
		fmt.Fprintf(&b, "`%s`: observed mean %s vs reference %s, relative deviation **%s**\n\n",
			fom.Output, formatFloat(fom.ObservedMean), formatFloat(fom.ReferenceMean),
			formatFloat(fom.Delta))
	}

	if len(summary.Sobol) > 0 {
		b.WriteString("## Sobol indices\n\n")
		b.WriteString("| Variable | Output | First order | Total order |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, idx := range summary.Sobol {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", idx.Variable, idx.Output,
				indexValue(idx.FirstOrder, idx.InsufficientData),
				indexValue(idx.TotalOrder, idx.InsufficientData))
		}
		b.WriteString("\n")
	}

	if len(summary.Morris) > 0 {
		b.WriteString("## Morris elementary effects\n\n")
		b.WriteString("| Variable | Output | Mean | Mean abs | StdDev |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, e := range summary.Morris {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", e.Variable, e.Output,
				indexValue(e.Mean, e.InsufficientData),
				indexValue(e.MeanAbs, e.InsufficientData),
				indexValue(e.StdDev, e.InsufficientData))
		}
		b.WriteString("\n")
	}

	if len(summary.Failed) > 0 {
		b.WriteString("## Failed evaluations\n\n")
		for _, f := range summary.Failed {
			fmt.Fprintf(&b, "- sample %d: %s\n", f.Index, f.Reason)
		}
	}

	return b.String()
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func indexValue(v float64, insufficient bool) string {
	if insufficient {
		return "insufficient data"
	}
	return formatFloat(v)
}
