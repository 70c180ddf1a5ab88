package mr

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat/distuv"
)

// Result column names attached by EffectOnTrait.
const (
	ColCausalEffect = "causal_effect"
	ColCausalSE     = "causal_se"
	ColZScore       = "z_score"
	ColPValue       = "p_value"
	ColQValue       = "q_value"
	ColEffectAllele = "effect_allele"
)

// Options configures an MR run over an exposure and a GWAS frame.
type Options struct {
	// Thresholds applied to the GWAS frame before joining
	Thresholds Thresholds

	// Exposure and GWAS map semantic fields to column names
	Exposure ExposureColumns
	GWAS     GWASColumns

	// Permute shuffles the GWAS SNP identifiers before joining, which
	// breaks the SNP-trait pairing for a permutation test. Requires Rng.
	Permute bool

	// Rng drives the permutation; owned by the caller for reproducibility
	Rng *rand.Rand
}

// DefaultOptions returns Options with the GeneAtlas quality thresholds
// and the default column layouts.
func DefaultOptions() Options {
	return Options{
		Thresholds: Thresholds{MinMAF: 1e-3, MinHWE: 1e-50, MinIscore: 0.9},
		Exposure:   DefaultExposureColumns(),
		GWAS:       DefaultGWASColumns(),
	}
}

// EffectOnTrait scores every exposure SNP against every matching
// GWAS trait row and returns the joined frame with causal effect,
// standard error, z-score, p-value, q-value and effect-allele columns
// appended.
//
// Per row: the GWAS effect allele is matched against the exposure's
// alleles to fix the sign of the exposure effect (+1 when it is the
// alternate allele, -1 when it is the reference); rows whose GWAS
// allele matches neither are kept with all-missing results so the
// batch keeps its shape for downstream joins. q-values are computed
// over the whole batch once every p-value is known.
func EffectOnTrait(exposure, effect dataframe.DataFrame, opts Options) (dataframe.DataFrame, error) {
	if err := RequireColumns(exposure, opts.Exposure.required()); err != nil {
		return dataframe.DataFrame{}, err
	}

	effect, err := FilterGWAS(effect, opts.Thresholds, opts.GWAS)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	if opts.Permute {
		if opts.Rng == nil {
			return dataframe.DataFrame{}, fmt.Errorf("permutation requested without a random source")
		}
		effect = permuteIDs(effect, opts.GWAS.RSID, opts.Rng)
	}

	// join on the exposure's SNP identifier; every matching trait row
	// expands the exposure row once
	if opts.GWAS.RSID != opts.Exposure.SNP {
		effect = effect.Rename(opts.Exposure.SNP, opts.GWAS.RSID)
	}
	joined := exposure.LeftJoin(effect, opts.Exposure.SNP)
	if joined.Err != nil {
		return dataframe.DataFrame{}, joined.Err
	}

	n := joined.Nrow()
	causalEffects := make([]float64, n)
	causalErrors := make([]float64, n)
	zScores := make([]float64, n)
	pValues := make([]float64, n)
	effectAlleles := make([]string, n)

	for i := 0; i < n; i++ {
		causalEffects[i] = math.NaN()
		causalErrors[i] = math.NaN()
		zScores[i] = math.NaN()
		pValues[i] = math.NaN()

		gwasAllele := joined.Col(opts.GWAS.Allele).Elem(i)
		if gwasAllele.IsNA() {
			// exposure SNP with no GWAS row at all
			continue
		}

		var sign float64
		switch gwasAllele.String() {
		case joined.Col(opts.Exposure.Alt).Elem(i).String():
			sign = 1
			effectAlleles[i] = "alt"
		case joined.Col(opts.Exposure.Ref).Elem(i).String():
			sign = -1
			effectAlleles[i] = "ref"
		default:
			// GWAS allele matches neither side of the het SNP; record a
			// non-result rather than aborting the batch
			continue
		}

		causal, se, err := CausalEffect(
			sign*joined.Col(opts.Exposure.EffectSize).Elem(i).Float(),
			joined.Col(opts.Exposure.StdErr).Elem(i).Float(),
			joined.Col(opts.GWAS.Beta).Elem(i).Float(),
			joined.Col(opts.GWAS.StdErr).Elem(i).Float(),
		)
		if err != nil {
			snp := joined.Col(opts.Exposure.SNP).Elem(i).String()
			return dataframe.DataFrame{}, fmt.Errorf("scoring %s: %w", snp, err)
		}

		z := causal / se
		causalEffects[i] = causal
		causalErrors[i] = se
		zScores[i] = z
		pValues[i] = 2 * distuv.UnitNormal.Survival(math.Abs(z))
	}

	out := joined.
		Mutate(series.New(causalEffects, series.Float, ColCausalEffect)).
		Mutate(series.New(causalErrors, series.Float, ColCausalSE)).
		Mutate(series.New(zScores, series.Float, ColZScore)).
		Mutate(series.New(pValues, series.Float, ColPValue)).
		Mutate(series.New(QValues(pValues), series.Float, ColQValue)).
		Mutate(series.New(effectAlleles, series.String, ColEffectAllele))
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}

// permuteIDs shuffles the values of one column in place of the
// original, leaving every other column untouched.
func permuteIDs(df dataframe.DataFrame, column string, rng *rand.Rand) dataframe.DataFrame {
	ids := df.Col(column).Records()
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return df.Mutate(series.New(ids, series.String, column))
}
