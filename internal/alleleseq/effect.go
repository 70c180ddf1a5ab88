package alleleseq

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/BAAL-NF/tfomics/internal/mr"
	"github.com/BAAL-NF/tfomics/internal/stats"
)

// effectColumns are the count-table columns the effect-size pipeline
// needs; SymPval and winning are only required for candidate selection.
var effectColumns = []string{
	ColChromosome, ColPosition, ColMaternal, ColPaternal,
	"cA", "cC", "cG", "cT",
	ColReference,
}

// site keys one heterozygous SNP.
type site struct {
	chromosome string
	position   int
}

// siteEstimates accumulates repeated measurements of one site.
type siteEstimates struct {
	ref, alt  string
	estimates []stats.Estimate
}

// EffectSizes estimates one pooled allelic effect size per SNP from an
// AlleleSeq count table. Each row is scored as a floored binomial
// experiment over its reference and alternate read counts, rescaled to
// an effect size in [-1, 1] (positive favors the alternate allele),
// and repeated measurements of the same chromosome+position are pooled
// by inverse-variance weighting. Results are ordered by chromosome and
// position.
func EffectSizes(counts dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := mr.RequireColumns(counts, effectColumns); err != nil {
		return dataframe.DataFrame{}, err
	}

	grouped := make(map[site]*siteEstimates)
	for i := 0; i < counts.Nrow(); i++ {
		chromosome := counts.Col(ColChromosome).Elem(i).String()
		position, err := counts.Col(ColPosition).Elem(i).Int()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("row %d: bad %s: %w", i, ColPosition, err)
		}

		ref := counts.Col(ColReference).Elem(i).String()
		alt := alternateAllele(
			ref,
			counts.Col(ColMaternal).Elem(i).String(),
			counts.Col(ColPaternal).Elem(i).String(),
		)

		refCount, err := alleleCount(counts, i, ref)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		altCount, err := alleleCount(counts, i, alt)
		if err != nil {
			return dataframe.DataFrame{}, err
		}

		estimate := stats.BinomialProbability(altCount, refCount).EffectSize()

		key := site{chromosome: chromosome, position: position}
		if grouped[key] == nil {
			grouped[key] = &siteEstimates{ref: ref, alt: alt}
		}
		grouped[key].estimates = append(grouped[key].estimates, estimate)
	}

	keys := make([]site, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].chromosome != keys[j].chromosome {
			return keys[i].chromosome < keys[j].chromosome
		}
		return keys[i].position < keys[j].position
	})

	chromosomes := make([]string, len(keys))
	positions := make([]int, len(keys))
	refs := make([]string, len(keys))
	alts := make([]string, len(keys))
	effects := make([]float64, len(keys))
	stderrs := make([]float64, len(keys))
	for i, key := range keys {
		pooled := stats.Pool(grouped[key].estimates)
		chromosomes[i] = key.chromosome
		positions[i] = key.position
		refs[i] = grouped[key].ref
		alts[i] = grouped[key].alt
		effects[i] = pooled.Value
		stderrs[i] = pooled.StdErr
	}

	out := dataframe.New(
		series.New(chromosomes, series.String, ColChromosome),
		series.New(positions, series.Int, ColPosition),
		series.New(refs, series.String, ColReference),
		series.New(alts, series.String, "alt"),
		series.New(effects, series.Float, "es"),
		series.New(stderrs, series.Float, "es_sterr"),
	)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}

// alternateAllele picks the heterozygous allele that is not the
// reference. When the maternal allele already differs from the
// reference it is the alternate; otherwise the paternal one is.
func alternateAllele(ref, maternal, paternal string) string {
	if maternal != ref {
		return maternal
	}
	return paternal
}

// alleleCount reads the per-nucleotide count column (cA, cC, cG or cT)
// for the given allele.
func alleleCount(counts dataframe.DataFrame, row int, allele string) (int, error) {
	column := "c" + allele
	if err := mr.RequireColumns(counts, []string{column}); err != nil {
		return 0, fmt.Errorf("row %d: no count column for allele %q", row, allele)
	}
	n, err := counts.Col(column).Elem(row).Int()
	if err != nil {
		return 0, fmt.Errorf("row %d: bad %s: %w", row, column, err)
	}
	return n, nil
}
