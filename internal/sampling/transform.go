package sampling

import (
	"fmt"

	"gouq/domain/study"

	"gonum.org/v1/gonum/stat/distuv"
)

// Transform converts a canonical uniform draw u in [0,1) into a concrete
// variable value under the given error model. Pure and deterministic in
// (model, u), so identical seeds reproduce identical studies.
//
// Model parameters are validated at construction (study.NewUncertainVariable),
// so no parameter checking happens here.
func Transform(model study.ErrorModel, u float64) float64 {
	switch m := model.(type) {
	case study.Gaussian:
		return m.Mean + m.Std*distuv.UnitNormal.Quantile(u)
	case study.Uniform:
		return m.Lower + u*(m.Upper-m.Lower)
	case study.Relative:
		return m.Mean * (1 + (2*u-1)*m.Percentage/100)
	case study.LowerHalfGaussian:
		// Map u into the CDF range [0, 0.5) so every realization is <= mean
		return m.Mean + m.Std*distuv.UnitNormal.Quantile(u*0.5)
	case study.UpperHalfGaussian:
		// Mirror: CDF range [0.5, 1), every realization >= mean
		return m.Mean + m.Std*distuv.UnitNormal.Quantile(0.5+u*0.5)
	}
	// study.ErrorModel is sealed; a new variant without a transform is a
	// programming error, not a runtime condition.
	panic(fmt.Sprintf("sampling: unhandled error model %T", model))
}
