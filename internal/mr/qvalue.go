package mr

import (
	"math"
	"sort"
)

// QValues applies the Benjamini-Hochberg false-discovery-rate
// correction to a batch of p-values and returns the q-values in the
// original order. NaN entries are excluded from the correction, not
// treated as zeros, and come back as NaN. The correction is a function
// of the whole batch, so it cannot be computed per row.
func QValues(pvalues []float64) []float64 {
	out := make([]float64, len(pvalues))

	type indexed struct {
		p   float64
		idx int
	}
	var finite []indexed
	for i, p := range pvalues {
		out[i] = math.NaN()
		if !math.IsNaN(p) {
			finite = append(finite, indexed{p: p, idx: i})
		}
	}
	if len(finite) == 0 {
		return out
	}

	sort.Slice(finite, func(i, j int) bool { return finite[i].p < finite[j].p })

	n := float64(len(finite))
	q := make([]float64, len(finite))
	for i, e := range finite {
		q[i] = e.p * n / float64(i+1)
	}

	// q-values are non-decreasing in p: sweep from the largest p down,
	// clamping each to the minimum seen so far
	for i := len(q) - 2; i >= 0; i-- {
		if q[i] > q[i+1] {
			q[i] = q[i+1]
		}
	}

	for i, e := range finite {
		out[e.idx] = math.Min(q[i], 1)
	}
	return out
}
