package alleleseq

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/BAAL-NF/tfomics/internal/genome"
	"github.com/BAAL-NF/tfomics/internal/mr"
)

// Sequences fetches the reference window around every candidate SNP,
// substitutes the preferentially bound allele at the center, and
// returns the candidates with a sequence column attached. Rows without
// a winning allele are dropped. The reference base at each position is
// validated against the count table's ref column, so a mismatch points
// at a reference-build mixup rather than silently producing wrong
// windows.
func Sequences(candidates dataframe.DataFrame, g *genome.Genome) (dataframe.DataFrame, error) {
	required := []string{ColChromosome, ColPosition, ColReference, ColWinning, ColMaternal, ColPaternal}
	if err := mr.RequireColumns(candidates, required); err != nil {
		return dataframe.DataFrame{}, err
	}

	keep := make([]int, 0, candidates.Nrow())
	sequences := make([]string, 0, candidates.Nrow())

	for i := 0; i < candidates.Nrow(); i++ {
		winning, ok := WinningAllele(
			candidates.Col(ColWinning).Elem(i).String(),
			candidates.Col(ColMaternal).Elem(i).String(),
			candidates.Col(ColPaternal).Elem(i).String(),
		)
		if !ok {
			continue
		}

		chromosome := candidates.Col(ColChromosome).Elem(i).String()
		position, err := candidates.Col(ColPosition).Elem(i).Int()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("row %d: bad %s: %w", i, ColPosition, err)
		}

		window, err := g.GetPeak(chromosome, position, candidates.Col(ColReference).Elem(i).String())
		if err != nil {
			return dataframe.DataFrame{}, err
		}

		// substitute the bound allele at the SNP itself
		center := genome.Offset
		if position-1 < center {
			center = position - 1
		}
		sequences = append(sequences, window[:center]+winning+window[center+1:])
		keep = append(keep, i)
	}

	out := candidates.Subset(keep).Mutate(series.New(sequences, series.String, "sequence"))
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}
