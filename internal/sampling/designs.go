package sampling

import (
	"math/rand"

	"gouq/domain/study"
)

// Morris screening grid: 4 levels, step 2/3 in unit space. Standard
// elementary-effects defaults.
const (
	morrisLevels = 4
	morrisDelta  = float64(morrisLevels) / float64(2*(morrisLevels-1))
)

// Design is a matrix of samples: one ordered row per evaluator invocation
type Design struct {
	Names  []string
	Points [][]float64
}

// Len returns the number of sample rows
func (d *Design) Len() int {
	return len(d.Points)
}

// Samples materializes the rows as study.Sample values, indexed in row order
func (d *Design) Samples() []study.Sample {
	samples := make([]study.Sample, len(d.Points))
	for i, row := range d.Points {
		samples[i] = study.NewSample(i, d.Names, row)
	}
	return samples
}

// SobolDesign lays the Saltelli matrices out as consecutive row blocks:
// rows [0,N) are A, rows [N,2N) are B, then k blocks of N rows where block i
// is A with column i replaced by column i of B. Total rows N*(k+2).
type SobolDesign struct {
	Design
	N int
	K int
}

// MorrisDesign holds r one-at-a-time trajectories of k+1 points each,
// flattened into consecutive rows. Moves[t][j] is the coordinate changed
// between points j and j+1 of trajectory t; Signs[t][j] is the step
// direction. Delta is the step size in unit space.
type MorrisDesign struct {
	Design
	R     int
	K     int
	Delta float64
	Moves [][]int
	Signs [][]float64
}

// Generator builds sample matrices from one explicitly seeded stream.
// Methods consume the stream in call order; build all designs for a study
// from a single generator in a fixed order to keep the study reproducible.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a design generator seeded from the study config
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: NewStream(seed)}
}

// Plain draws n independent uniform vectors and transforms each component
// through its variable's error model.
func (g *Generator) Plain(vars []study.UncertainVariable, n int) *Design {
	d := &Design{Names: variableNames(vars), Points: make([][]float64, 0, n)}
	for i := 0; i < n; i++ {
		row := make([]float64, len(vars))
		for j, v := range vars {
			row[j] = Transform(v.Model, g.rng.Float64())
		}
		d.Points = append(d.Points, row)
	}
	return d
}

// LatinHypercube stratifies each variable's [0,1) range into n equal bins,
// draws exactly one value per bin, and permutes each variable's bin order
// independently, so no two samples share a stratum in any one dimension.
// level subdivides each stratum for the in-stratum draw; level 1 is classic
// Latin Hypercube sampling.
func (g *Generator) LatinHypercube(vars []study.UncertainVariable, n, level int) *Design {
	d := &Design{Names: variableNames(vars), Points: make([][]float64, n)}
	for i := range d.Points {
		d.Points[i] = make([]float64, len(vars))
	}
	for j, v := range vars {
		perm := g.rng.Perm(n)
		for i := 0; i < n; i++ {
			sub := g.rng.Intn(level)
			jitter := (float64(sub) + g.rng.Float64()) / float64(level)
			u := (float64(perm[i]) + jitter) / float64(n)
			d.Points[i][j] = Transform(v.Model, u)
		}
	}
	return d
}

// Sobol builds the paired-matrix design for variance-based sensitivity
// analysis: base matrices A and B of n points each, plus one matrix per
// variable with that column swapped from A to B. Evaluating every row costs
// n*(k+2) evaluator invocations.
func (g *Generator) Sobol(sd *study.SensitivityDesign, n int) *SobolDesign {
	k := sd.NumVars()
	design := &SobolDesign{
		Design: Design{Names: sd.Names},
		N:      n,
		K:      k,
	}
	if n == 0 {
		return design
	}

	a := g.uniformMatrix(n, k, sd.Bounds)
	b := g.uniformMatrix(n, k, sd.Bounds)

	design.Points = make([][]float64, 0, n*(k+2))
	design.Points = append(design.Points, a...)
	design.Points = append(design.Points, b...)
	for i := 0; i < k; i++ {
		for row := 0; row < n; row++ {
			mixed := make([]float64, k)
			copy(mixed, a[row])
			mixed[i] = b[row][i]
			design.Points = append(design.Points, mixed)
		}
	}
	return design
}

// Morris builds r one-at-a-time trajectories. Each trajectory starts on a
// random grid point and perturbs every coordinate exactly once, in random
// order, by a fixed step, so consecutive points differ in exactly one
// not-yet-changed coordinate and each trajectory covers all k dimensions.
func (g *Generator) Morris(sd *study.SensitivityDesign, r int) *MorrisDesign {
	k := sd.NumVars()
	design := &MorrisDesign{
		Design: Design{Names: sd.Names},
		R:      r,
		K:      k,
		Delta:  morrisDelta,
	}
	if r == 0 {
		return design
	}

	design.Points = make([][]float64, 0, r*(k+1))
	design.Moves = make([][]int, r)
	design.Signs = make([][]float64, r)

	for t := 0; t < r; t++ {
		current := make([]float64, k)
		for i := range current {
			current[i] = float64(g.rng.Intn(morrisLevels)) / float64(morrisLevels-1)
		}
		design.Points = append(design.Points, scalePoint(current, sd.Bounds))

		order := g.rng.Perm(k)
		design.Moves[t] = order
		design.Signs[t] = make([]float64, k)
		for step, i := range order {
			sign := g.stepDirection(current[i])
			current[i] += sign * morrisDelta
			design.Signs[t][step] = sign
			design.Points = append(design.Points, scalePoint(current, sd.Bounds))
		}
	}
	return design
}

// stepDirection picks a random feasible direction keeping the coordinate in
// [0,1] after a morrisDelta step
func (g *Generator) stepDirection(x float64) float64 {
	up := x+morrisDelta <= 1
	down := x-morrisDelta >= 0
	switch {
	case up && down:
		if g.rng.Intn(2) == 0 {
			return -1
		}
		return 1
	case up:
		return 1
	default:
		return -1
	}
}

// uniformMatrix draws rows×cols uniforms scaled into each column's bounds
func (g *Generator) uniformMatrix(rows, cols int, bounds [][2]float64) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			m[i][j] = bounds[j][0] + g.rng.Float64()*(bounds[j][1]-bounds[j][0])
		}
	}
	return m
}

func scalePoint(unit []float64, bounds [][2]float64) []float64 {
	scaled := make([]float64, len(unit))
	for i, x := range unit {
		scaled[i] = bounds[i][0] + x*(bounds[i][1]-bounds[i][0])
	}
	return scaled
}

func variableNames(vars []study.UncertainVariable) []string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return names
}
