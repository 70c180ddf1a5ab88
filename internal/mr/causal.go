// Package mr implements a naive Mendelian-randomisation analysis: each
// SNP's allele-specific binding effect is used as an instrument for its
// effect on a phenotypic trait reported by GWAS summary statistics.
package mr

import (
	"errors"
	"math"
)

// ErrDivisionByZero is returned when the exposure effect is exactly
// zero, which makes the causal ratio undefined. Zero-effect exposures
// should be filtered out before scoring.
var ErrDivisionByZero = errors.New("exposure effect is zero")

// CausalEffect derives the causal effect of the exposure on the trait
// as the ratio gwasEffect/exposureEffect, with its standard error from
// first-order error propagation:
//
//	se^2 = gwasError^2/exposureEffect^2
//	     + gwasEffect^2 * exposureError^2 / exposureEffect^4
func CausalEffect(exposureEffect, exposureError, gwasEffect, gwasError float64) (float64, float64, error) {
	if exposureEffect == 0 {
		return 0, 0, ErrDivisionByZero
	}

	effect := gwasEffect / exposureEffect

	errSquared := gwasError * gwasError / (exposureEffect * exposureEffect)
	errSquared += gwasEffect * gwasEffect * exposureError * exposureError /
		(exposureEffect * exposureEffect * exposureEffect * exposureEffect)

	return effect, math.Sqrt(errSquared), nil
}
