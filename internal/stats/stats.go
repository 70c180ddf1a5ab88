// Package stats estimates allelic effect sizes from read counts. Each
// heterozygous site is treated as a binomial experiment over its two
// alleles; repeated measurements of the same site are pooled by
// inverse-variance weighting or fit jointly by weighted least squares.
package stats

import (
	"errors"
	"math"
)

// ErrZeroReads is returned when a site has no supporting reads in a
// context that forbids count flooring. Callers are expected to filter
// such sites out upstream.
var ErrZeroReads = errors.New("encountered site with zero reads")

// Estimate pairs a point estimate with its standard error.
type Estimate struct {
	Value  float64
	StdErr float64
}

// BinomialProbability estimates the success probability of a binomial
// experiment with the given outcome counts. Both counts are floored at
// one before estimation, which avoids degenerate probabilities of
// exactly zero or one; it amounts to assuming one extra hypothetical
// trial of the opposite outcome.
func BinomialProbability(positives, negatives int) Estimate {
	if positives < 1 {
		positives = 1
	}
	if negatives < 1 {
		negatives = 1
	}

	// total is at least two after flooring, so this cannot fail
	est, _ := StrictBinomialProbability(positives, negatives)
	return est
}

// StrictBinomialProbability is BinomialProbability without the count
// flooring. It returns ErrZeroReads when both counts are zero.
func StrictBinomialProbability(positives, negatives int) (Estimate, error) {
	total := positives + negatives
	if total == 0 {
		return Estimate{}, ErrZeroReads
	}

	p := float64(positives) / float64(total)
	return Estimate{
		Value:  p,
		StdErr: math.Sqrt(p * (1 - p) / float64(total)),
	}, nil
}

// EffectSize remaps a probability estimate from [0, 1] to an effect
// size in [-1, 1] via es = 2*(p - 0.5), with the standard error scaled
// accordingly. With p = alt/total this is the alternate-minus-reference
// convention: +1 means all reads supported the alternate allele.
func (e Estimate) EffectSize() Estimate {
	return Estimate{
		Value:  2 * (e.Value - 0.5),
		StdErr: 2 * e.StdErr,
	}
}

// Pool combines independent estimates of the same quantity by
// inverse-variance weighting. A single estimate is returned unchanged.
// The pooled standard error is the absolute uncertainty of the fitted
// constant, sqrt(1/sum(1/se^2)), never rescaled by the residual
// scatter. The result does not depend on input order.
func Pool(estimates []Estimate) Estimate {
	if len(estimates) == 0 {
		return Estimate{Value: math.NaN(), StdErr: math.NaN()}
	}
	if len(estimates) == 1 {
		return estimates[0]
	}

	var sumW, sumWV float64
	for _, e := range estimates {
		w := 1 / (e.StdErr * e.StdErr)
		sumW += w
		sumWV += w * e.Value
	}

	return Estimate{
		Value:  sumWV / sumW,
		StdErr: math.Sqrt(1 / sumW),
	}
}

// ASBEffectSize estimates the allelic effect size at one site from one
// or more (ref, alt) read-count samples. A single sample is scored as a
// binomial effect size directly; several samples are fit jointly with
// FitBinomialSamples. Counts are not floored here, so a sample with no
// reads at all surfaces as ErrZeroReads.
func ASBEffectSize(refCounts, altCounts []int) (Estimate, error) {
	if len(refCounts) != len(altCounts) {
		return Estimate{}, errors.New("ref and alt count slices differ in length")
	}
	if len(refCounts) == 0 {
		return Estimate{}, ErrZeroReads
	}

	if len(refCounts) == 1 {
		est, err := StrictBinomialProbability(altCounts[0], refCounts[0])
		if err != nil {
			return Estimate{}, err
		}
		return est.EffectSize(), nil
	}

	return FitBinomialSamples(refCounts, altCounts)
}
