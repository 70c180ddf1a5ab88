package mr

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gota/gota/dataframe"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCausalEffect(t *testing.T) {
	tests := []struct {
		name           string
		exposureEffect float64
		exposureError  float64
		gwasEffect     float64
		gwasError      float64
		wantEffect     float64
		wantStdErr     float64
	}{
		// with gwasEffect zero the error reduces to gwasError/exposureEffect
		{"zero gwas effect", 1.0, 42.3, 0.0, 2.0, 0.0, 2.0},
		{"exposure error is irrelevant at zero", 1.0, 22.1, 0.0, 2.0, 0.0, 2.0},
		{"error inverse to exposure effect", 2.0, 22.1, 0.0, 2.0, 0.0, 1.0},
		{"error linear in gwas error", 1.0, 22.1, 0.0, 4.0, 0.0, 4.0},
		{"full propagation", 1.0, 1.0, 3.0, 4.0, 3.0, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effect, se, err := CausalEffect(tt.exposureEffect, tt.exposureError, tt.gwasEffect, tt.gwasError)
			if err != nil {
				t.Fatal(err)
			}
			if !almostEqual(effect, tt.wantEffect, 1e-9) {
				t.Errorf("effect = %v, want %v", effect, tt.wantEffect)
			}
			if !almostEqual(se, tt.wantStdErr, 1e-9) {
				t.Errorf("se = %v, want %v", se, tt.wantStdErr)
			}
		})
	}
}

func TestCausalEffect_zeroExposure(t *testing.T) {
	_, _, err := CausalEffect(0.0, 23.0, 3.12, 2.17)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("want ErrDivisionByZero, got %v", err)
	}
}

func TestQValues(t *testing.T) {
	pvalues := []float64{0.01, 0.04, 0.03, 0.005}
	qvalues := QValues(pvalues)

	// BH: sorted p [0.005 0.01 0.03 0.04] with n=4 gives raw q
	// [0.02 0.02 0.04 0.04] after the monotone sweep
	want := []float64{0.02, 0.04, 0.04, 0.02}
	for i := range want {
		if !almostEqual(qvalues[i], want[i], 1e-9) {
			t.Errorf("q[%d] = %v, want %v", i, qvalues[i], want[i])
		}
	}
}

func TestQValues_monotoneInP(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	pvalues := make([]float64, 200)
	for i := range pvalues {
		pvalues[i] = rng.Float64()
	}

	qvalues := QValues(pvalues)

	type pair struct{ p, q float64 }
	pairs := make([]pair, len(pvalues))
	for i := range pvalues {
		pairs[i] = pair{pvalues[i], qvalues[i]}
	}
	for i := range pairs {
		for j := range pairs {
			if pairs[i].p < pairs[j].p && pairs[i].q > pairs[j].q+1e-12 {
				t.Fatalf("q not monotone: p=%v q=%v vs p=%v q=%v",
					pairs[i].p, pairs[i].q, pairs[j].p, pairs[j].q)
			}
		}
	}
}

func TestQValues_missingEntries(t *testing.T) {
	pvalues := []float64{0.02, math.NaN(), 0.04, math.NaN()}
	qvalues := QValues(pvalues)

	if !math.IsNaN(qvalues[1]) || !math.IsNaN(qvalues[3]) {
		t.Errorf("missing p-values must yield missing q-values: %v", qvalues)
	}

	// the finite subset is corrected as if the NaNs were never there
	finiteOnly := QValues([]float64{0.02, 0.04})
	if !almostEqual(qvalues[0], finiteOnly[0], 1e-12) || !almostEqual(qvalues[2], finiteOnly[1], 1e-12) {
		t.Errorf("NaN entries perturbed the finite corrections: %v vs %v", qvalues, finiteOnly)
	}
}

func TestQValues_clampedAtOne(t *testing.T) {
	qvalues := QValues([]float64{0.9, 0.95, 0.99})
	for i, q := range qvalues {
		if q > 1 {
			t.Errorf("q[%d] = %v > 1", i, q)
		}
	}
}

func gwasFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"rsid", "allele", "beta", "NSE", "MAF", "HWE", "iscore", "trait"},
		{"rs1", "G", "3.0", "4.0", "0.25", "1.0", "0.99", "height"},
		{"rs1", "A", "3.0", "4.0", "0.25", "1.0", "0.99", "weight"},
		{"rs1", "T", "3.0", "4.0", "0.25", "1.0", "0.99", "bmi"},
		{"rs2", "C", "1.5", "0.5", "0.0001", "1.0", "0.99", "height"},
		{"rs4", "A", "2.0", "1.0", "0.25", "1.0", "0.5", "height"},
	})
}

func exposureFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"snp", "es", "es_sterr", "ref", "alt"},
		{"rs1", "1.0", "1.0", "A", "G"},
		{"rs3", "0.5", "0.2", "C", "T"},
	})
}

func TestFilterGWAS(t *testing.T) {
	filtered, err := FilterGWAS(gwasFrame(), Thresholds{
		MinMAF:    1e-3,
		MinHWE:    1e-50,
		MinIscore: 0.9,
	}, DefaultGWASColumns())
	if err != nil {
		t.Fatal(err)
	}

	// rs2 fails the MAF cut, rs4 fails the iscore cut
	if filtered.Nrow() != 3 {
		t.Fatalf("kept %d rows, want 3:\n%v", filtered.Nrow(), filtered)
	}
	for i := 0; i < filtered.Nrow(); i++ {
		if id := filtered.Col("rsid").Elem(i).String(); id != "rs1" {
			t.Errorf("row %d: unexpected rsid %s", i, id)
		}
	}
}

func TestFilterGWAS_traitList(t *testing.T) {
	filtered, err := FilterGWAS(gwasFrame(), Thresholds{
		MinMAF:    1e-3,
		MinHWE:    1e-50,
		MinIscore: 0.9,
		Traits:    []string{"height"},
	}, DefaultGWASColumns())
	if err != nil {
		t.Fatal(err)
	}
	if filtered.Nrow() != 1 {
		t.Fatalf("kept %d rows, want 1", filtered.Nrow())
	}
	if trait := filtered.Col("trait").Elem(0).String(); trait != "height" {
		t.Errorf("trait = %s, want height", trait)
	}
}

func TestFilterGWAS_missingColumns(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"rsid", "beta"},
		{"rs1", "3.0"},
	})

	_, err := FilterGWAS(df, Thresholds{}, DefaultGWASColumns())
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingColumnsError, got %v", err)
	}
	if len(missing.Missing) != 6 {
		t.Errorf("missing set = %v, want the 6 absent columns", missing.Missing)
	}
}

func TestFilterEffectSNPs_dropsZeroEffects(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"snp", "es", "es_sterr", "ref", "alt"},
		{"rs1", "1.0", "1.0", "A", "G"},
		{"rs2", "0.0", "0.3", "C", "T"},
	})

	filtered, err := FilterEffectSNPs(df, DefaultExposureColumns())
	if err != nil {
		t.Fatal(err)
	}
	if filtered.Nrow() != 1 {
		t.Fatalf("kept %d rows, want 1", filtered.Nrow())
	}
	if id := filtered.Col("snp").Elem(0).String(); id != "rs1" {
		t.Errorf("kept %s, want rs1", id)
	}
}

func TestEffectOnTrait(t *testing.T) {
	out, err := EffectOnTrait(exposureFrame(), gwasFrame(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	type want struct {
		trait        string
		causal       float64
		causalSE     float64
		effectAllele string
		missing      bool
	}
	wants := []want{
		// gwas allele G == alt: sign +1, causal = 3/1
		{trait: "height", causal: 3.0, causalSE: 5.0, effectAllele: "alt"},
		// gwas allele A == ref: sign -1, causal = 3/-1
		{trait: "weight", causal: -3.0, causalSE: 5.0, effectAllele: "ref"},
		// gwas allele T matches neither: all-missing row
		{trait: "bmi", missing: true},
		// rs3 has no surviving GWAS row: all-missing row
		{missing: true},
	}

	if out.Nrow() != len(wants) {
		t.Fatalf("got %d rows, want %d:\n%v", out.Nrow(), len(wants), out)
	}

	for i, w := range wants {
		causal := out.Col(ColCausalEffect).Elem(i).Float()
		se := out.Col(ColCausalSE).Elem(i).Float()
		z := out.Col(ColZScore).Elem(i).Float()
		p := out.Col(ColPValue).Elem(i).Float()
		q := out.Col(ColQValue).Elem(i).Float()

		if w.missing {
			for name, v := range map[string]float64{"causal": causal, "se": se, "z": z, "p": p, "q": q} {
				if !math.IsNaN(v) {
					t.Errorf("row %d: %s = %v, want NaN", i, name, v)
				}
			}
			continue
		}

		if !almostEqual(causal, w.causal, 1e-9) {
			t.Errorf("row %d (%s): causal = %v, want %v", i, w.trait, causal, w.causal)
		}
		if !almostEqual(se, w.causalSE, 1e-9) {
			t.Errorf("row %d (%s): se = %v, want %v", i, w.trait, se, w.causalSE)
		}
		if !almostEqual(z, causal/se, 1e-9) {
			t.Errorf("row %d: z = %v, want %v", i, z, causal/se)
		}
		if p < 0 || p > 1 {
			t.Errorf("row %d: p = %v out of range", i, p)
		}
		if math.IsNaN(q) {
			t.Errorf("row %d: q missing for finite p", i)
		}
		if allele := out.Col(ColEffectAllele).Elem(i).String(); allele != w.effectAllele {
			t.Errorf("row %d: effect allele = %q, want %q", i, allele, w.effectAllele)
		}
	}
}

func TestEffectOnTrait_permutationIsReproducible(t *testing.T) {
	run := func(seed int64) dataframe.DataFrame {
		opts := DefaultOptions()
		opts.Permute = true
		opts.Rng = rand.New(rand.NewSource(seed))
		out, err := EffectOnTrait(exposureFrame(), gwasFrame(), opts)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}

	first := run(42)
	second := run(42)

	if first.Nrow() != second.Nrow() {
		t.Fatalf("row counts differ: %d vs %d", first.Nrow(), second.Nrow())
	}
	for i := 0; i < first.Nrow(); i++ {
		a := first.Col(ColCausalEffect).Elem(i).Float()
		b := second.Col(ColCausalEffect).Elem(i).Float()
		if !(math.IsNaN(a) && math.IsNaN(b)) && !almostEqual(a, b, 1e-12) {
			t.Errorf("row %d: permuted runs differ: %v vs %v", i, a, b)
		}
	}
}
