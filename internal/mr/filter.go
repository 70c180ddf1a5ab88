package mr

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Thresholds are the inclusive quality cut-offs applied to GWAS summary
// rows before they are considered as instruments.
type Thresholds struct {
	// MinMAF is the minimum minor allele frequency
	MinMAF float64

	// MinHWE is the minimum Hardy-Weinberg equilibrium statistic
	MinHWE float64

	// MinIscore is the minimum imputation quality score
	MinIscore float64

	// Traits restricts rows to these traits when non-empty
	Traits []string
}

// FilterGWAS keeps GWAS rows that are complete and pass every quality
// threshold. All comparisons are inclusive (>=). Rows with a missing
// value in any column are dropped.
func FilterGWAS(df dataframe.DataFrame, t Thresholds, cols GWASColumns) (dataframe.DataFrame, error) {
	if err := RequireColumns(df, cols.required()); err != nil {
		return dataframe.DataFrame{}, err
	}

	df = dropIncomplete(df, df.Names())

	// chained Filter calls AND the conditions; a single call would OR them
	df = df.
		Filter(dataframe.F{Colname: cols.MAF, Comparator: series.GreaterEq, Comparando: t.MinMAF}).
		Filter(dataframe.F{Colname: cols.HWE, Comparator: series.GreaterEq, Comparando: t.MinHWE}).
		Filter(dataframe.F{Colname: cols.Iscore, Comparator: series.GreaterEq, Comparando: t.MinIscore})

	if len(t.Traits) > 0 {
		df = df.Filter(dataframe.F{Colname: cols.Trait, Comparator: series.In, Comparando: t.Traits})
	}

	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// FilterEffectSNPs keeps exposure rows that are complete and have a
// non-zero effect size. Zero effects are removed here because the
// causal ratio divides by them.
func FilterEffectSNPs(df dataframe.DataFrame, cols ExposureColumns) (dataframe.DataFrame, error) {
	if err := RequireColumns(df, cols.required()); err != nil {
		return dataframe.DataFrame{}, err
	}

	df = dropIncomplete(df, df.Names())
	df = df.Filter(dataframe.F{Colname: cols.EffectSize, Comparator: series.Neq, Comparando: 0.0})

	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// dropIncomplete removes every row with a missing value in any of the
// named columns.
func dropIncomplete(df dataframe.DataFrame, columns []string) dataframe.DataFrame {
	keep := make([]int, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		complete := true
		for _, name := range columns {
			if df.Col(name).Elem(i).IsNA() {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	return df.Subset(keep)
}
