package sampling

import (
	"math"
	"testing"

	"gouq/domain/study"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVariables(t *testing.T) []study.UncertainVariable {
	t.Helper()
	specs := []struct {
		name  string
		model study.ErrorModel
	}{
		{"fdene", study.Uniform{Lower: 0.6, Upper: 0.9}},
		{"boundu_2", study.Gaussian{Mean: 1.0, Std: 0.1}},
		{"pheat", study.Relative{Mean: 100, Percentage: 5}},
	}
	vars := make([]study.UncertainVariable, len(specs))
	for i, s := range specs {
		v, err := study.NewUncertainVariable(s.name, s.model)
		require.NoError(t, err)
		vars[i] = v
	}
	return vars
}

func testSensitivityDesign(t *testing.T) *study.SensitivityDesign {
	t.Helper()
	sd, err := study.NewSensitivityDesign(
		[]string{"a", "b"},
		[][2]float64{{0, 1}, {10, 20}},
	)
	require.NoError(t, err)
	return sd
}

func TestDesignsAreDeterministicPerSeed(t *testing.T) {
	vars := testVariables(t)
	sd := testSensitivityDesign(t)

	for _, seed := range []int64{0, 2, 42, -17} {
		g1 := NewGenerator(seed)
		g2 := NewGenerator(seed)

		assert.Equal(t, g1.Plain(vars, 20).Points, g2.Plain(vars, 20).Points)
		assert.Equal(t, g1.LatinHypercube(vars, 16, 4).Points, g2.LatinHypercube(vars, 16, 4).Points)
		assert.Equal(t, g1.Sobol(sd, 8).Points, g2.Sobol(sd, 8).Points)
		assert.Equal(t, g1.Morris(sd, 5).Points, g2.Morris(sd, 5).Points)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	vars := testVariables(t)
	d1 := NewGenerator(1).Plain(vars, 10)
	d2 := NewGenerator(2).Plain(vars, 10)
	assert.NotEqual(t, d1.Points, d2.Points)
}

func TestPlainDesignShape(t *testing.T) {
	vars := testVariables(t)
	d := NewGenerator(3).Plain(vars, 25)

	assert.Equal(t, 25, d.Len())
	assert.Equal(t, []string{"fdene", "boundu_2", "pheat"}, d.Names)
	for _, row := range d.Points {
		require.Len(t, row, 3)
		assert.GreaterOrEqual(t, row[0], 0.6)
		assert.Less(t, row[0], 0.9)
	}
}

func TestPlainDesignEmpty(t *testing.T) {
	d := NewGenerator(3).Plain(testVariables(t), 0)
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Samples())
}

func TestLatinHypercubeStrataCoverage(t *testing.T) {
	// An identity-transform variable makes the strata directly observable
	v, err := study.NewUncertainVariable("unit", study.Uniform{Lower: 0, Upper: 1})
	require.NoError(t, err)
	w, err := study.NewUncertainVariable("wide", study.Uniform{Lower: -5, Upper: 5})
	require.NoError(t, err)
	vars := []study.UncertainVariable{v, w}

	const n = 32
	for _, level := range []int{1, 2, 4} {
		d := NewGenerator(9).LatinHypercube(vars, n, level)
		require.Equal(t, n, d.Len())

		for j, uv := range vars {
			m := uv.Model.(study.Uniform)
			used := make(map[int]bool, n)
			for i := 0; i < n; i++ {
				u := (d.Points[i][j] - m.Lower) / (m.Upper - m.Lower)
				stratum := int(math.Floor(u * n))
				assert.False(t, used[stratum],
					"level %d variable %d: stratum %d used twice", level, j, stratum)
				used[stratum] = true
			}
			assert.Len(t, used, n)
		}
	}
}

func TestSobolDesignLayout(t *testing.T) {
	sd := testSensitivityDesign(t)
	const n = 4
	d := NewGenerator(5).Sobol(sd, n)

	k := sd.NumVars()
	require.Equal(t, n*(k+2), d.Len())

	a := d.Points[:n]
	b := d.Points[n : 2*n]

	// Points respect the per-variable bounds
	for _, row := range d.Points {
		assert.GreaterOrEqual(t, row[0], 0.0)
		assert.Less(t, row[0], 1.0)
		assert.GreaterOrEqual(t, row[1], 10.0)
		assert.Less(t, row[1], 20.0)
	}

	// Block i is A with column i replaced from B
	for i := 0; i < k; i++ {
		block := d.Points[(2+i)*n : (3+i)*n]
		for row := 0; row < n; row++ {
			for col := 0; col < k; col++ {
				want := a[row][col]
				if col == i {
					want = b[row][col]
				}
				assert.Equal(t, want, block[row][col])
			}
		}
	}
}

func TestSobolDesignEmpty(t *testing.T) {
	d := NewGenerator(5).Sobol(testSensitivityDesign(t), 0)
	assert.Equal(t, 0, d.Len())
}

func TestMorrisTrajectories(t *testing.T) {
	sd := testSensitivityDesign(t)
	const r = 6
	d := NewGenerator(8).Morris(sd, r)

	k := sd.NumVars()
	require.Equal(t, r*(k+1), d.Len())
	require.Len(t, d.Moves, r)

	for t2 := 0; t2 < r; t2++ {
		traj := d.Points[t2*(k+1) : (t2+1)*(k+1)]

		// Every trajectory perturbs each coordinate exactly once
		seen := make(map[int]bool, k)
		for _, move := range d.Moves[t2] {
			assert.False(t, seen[move])
			seen[move] = true
		}
		assert.Len(t, seen, k)

		for step := 0; step < k; step++ {
			changed := 0
			for col := 0; col < k; col++ {
				diff := traj[step+1][col] - traj[step][col]
				if diff != 0 {
					changed++
					span := sd.Bounds[col][1] - sd.Bounds[col][0]
					assert.InDelta(t, d.Delta*span, math.Abs(diff), 1e-9)
					assert.Equal(t, d.Moves[t2][step], col)
					assert.Equal(t, d.Signs[t2][step], math.Copysign(1, diff))
				}
			}
			assert.Equal(t, 1, changed, "trajectory %d step %d", t2, step)
		}
	}
}

func TestMorrisEmpty(t *testing.T) {
	d := NewGenerator(8).Morris(testSensitivityDesign(t), 0)
	assert.Equal(t, 0, d.Len())
}
