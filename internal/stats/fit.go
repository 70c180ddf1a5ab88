package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FitBinomialSamples fits a weighted least-squares line through the
// paired points (0, 1-p_i) and (1, p_i), one pair per sample, where p_i
// is the sample's binomial probability of the alternate allele and both
// points carry its binomial standard error as sigma. The slope of the
// fitted line is the pooled effect size and sqrt(Cov[0][0]) of the
// absolute-sigma covariance (X'WX)^-1 is its standard error. This
// generalizes inverse-variance pooling by allowing a linear trend
// across the 0/1 covariate instead of a pure weighted mean.
func FitBinomialSamples(refCounts, altCounts []int) (Estimate, error) {
	if len(refCounts) != len(altCounts) {
		return Estimate{}, fmt.Errorf("mismatched sample counts: %d ref vs %d alt", len(refCounts), len(altCounts))
	}

	xs := make([]float64, 0, 2*len(refCounts))
	ys := make([]float64, 0, 2*len(refCounts))
	sigmas := make([]float64, 0, 2*len(refCounts))

	for i := range refCounts {
		est, err := StrictBinomialProbability(altCounts[i], refCounts[i])
		if err != nil {
			return Estimate{}, err
		}
		xs = append(xs, 0, 1)
		ys = append(ys, 1-est.Value, est.Value)
		sigmas = append(sigmas, est.StdErr, est.StdErr)
	}

	slope, slopeVar, err := weightedLineFit(xs, ys, sigmas)
	if err != nil {
		return Estimate{}, err
	}

	return Estimate{Value: slope, StdErr: math.Sqrt(slopeVar)}, nil
}

// weightedLineFit solves the weighted normal equations for y = a*x + b
// with weights 1/sigma^2. It returns the slope a together with its
// variance, entry [0][0] of (X'WX)^-1. Because the weights are the
// literal supplied sigmas the covariance is absolute, matching a
// curve fit with absolute-sigma semantics.
func weightedLineFit(xs, ys, sigmas []float64) (slope, slopeVar float64, err error) {
	var sw, swx, swxx, swy, swxy float64
	for i := range xs {
		w := 1 / (sigmas[i] * sigmas[i])
		sw += w
		swx += w * xs[i]
		swxx += w * xs[i] * xs[i]
		swy += w * ys[i]
		swxy += w * xs[i] * ys[i]
	}

	xtwx := mat.NewDense(2, 2, []float64{
		swxx, swx,
		swx, sw,
	})

	var inv mat.Dense
	if err := inv.Inverse(xtwx); err != nil {
		return 0, 0, fmt.Errorf("singular design matrix: %w", err)
	}

	var params mat.VecDense
	params.MulVec(&inv, mat.NewVecDense(2, []float64{swxy, swy}))

	return params.AtVec(0), inv.At(0, 0), nil
}
