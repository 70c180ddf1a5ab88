// Package alleleseq adapts AlleleSeq count and FDR output files into
// the tabular form the effect-size and MR pipelines consume, and runs
// the per-site ASB effect-size estimation over them.
package alleleseq

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/BAAL-NF/tfomics/internal/fileio"
	"github.com/BAAL-NF/tfomics/internal/mr"
)

// Count-file columns the pipelines rely on.
const (
	ColChromosome = "chrm"
	ColPosition   = "snppos"
	ColMaternal   = "mat_all"
	ColPaternal   = "pat_all"
	ColReference  = "ref"
	ColWinning    = "winning"
	ColSymPval    = "SymPval"
)

// countColumns are required in every AlleleSeq count file.
var countColumns = []string{
	ColChromosome, ColPosition, ColMaternal, ColPaternal,
	"cA", "cC", "cG", "cT",
	ColReference, ColWinning, ColSymPval,
}

// fdrColumns are required in every AlleleSeq FDR file.
var fdrColumns = []string{"pval", "FDR"}

// Data holds the ChIP-seq counts for one cell line together with the
// FDR estimates AlleleSeq produced for it.
type Data struct {
	Name   string
	Counts dataframe.DataFrame
	FDR    dataframe.DataFrame

	// summary fields from the FDR file footer
	Target     string
	BeforeFDRs []string
	AfterFDRs  []string
}

// Load reads an AlleleSeq count file and its companion FDR file.
// Either file may be gzip or bzip2 compressed. Both files are checked
// for their required columns; absence is a hard format error.
func Load(name, countPath, fdrPath string) (*Data, error) {
	counts, err := readTable(countPath, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("reading counts for %s: %w", name, err)
	}
	if err := mr.RequireColumns(counts, countColumns); err != nil {
		return nil, fmt.Errorf("%s counts: %w", name, err)
	}

	data := &Data{Name: name, Counts: counts}
	if err := data.loadFDR(fdrPath); err != nil {
		return nil, fmt.Errorf("reading FDR data for %s: %w", name, err)
	}
	if err := mr.RequireColumns(data.FDR, fdrColumns); err != nil {
		return nil, fmt.Errorf("%s FDR data: %w", name, err)
	}

	return data, nil
}

// loadFDR parses the FDR file: one comment line, the FDR table, and a
// four-line footer carrying the simulation target and the FDR series
// before and after correction.
func (d *Data) loadFDR(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	if len(lines) < 6 {
		return fmt.Errorf("%s: too short to be an AlleleSeq FDR file", path)
	}

	table, footer := lines[1:len(lines)-4], lines[len(lines)-4:]
	d.FDR = tableFromLines(table)
	if d.FDR.Err != nil {
		return d.FDR.Err
	}

	for _, line := range footer {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "target":
			d.Target = fields[1]
		case "before":
			d.BeforeFDRs = fields[1:]
		case "after":
			d.AfterFDRs = fields[1:]
		}
	}

	return nil
}

// PValueAt returns the largest p-value whose estimated false discovery
// rate stays at or below fdr. The second return is false when no entry
// qualifies; selecting with a threshold of zero then keeps nothing.
func (d *Data) PValueAt(fdr float64) (float64, bool) {
	best, found := 0.0, false
	for i := 0; i < d.FDR.Nrow(); i++ {
		if d.FDR.Col("FDR").Elem(i).Float() > fdr {
			continue
		}
		if pval := d.FDR.Col("pval").Elem(i).Float(); !found || pval > best {
			best, found = pval, true
		}
	}
	return best, found
}

// Candidates selects the SNPs significant at the requested FDR.
// Rows whose winning allele is "?" are dropped: those have reads that
// match neither the paternal nor the maternal allele.
func (d *Data) Candidates(fdr float64) dataframe.DataFrame {
	pval, _ := d.PValueAt(fdr)
	return d.Counts.
		Filter(dataframe.F{Colname: ColSymPval, Comparator: series.LessEq, Comparando: pval}).
		Filter(dataframe.F{Colname: ColWinning, Comparator: series.Neq, Comparando: "?"})
}

// WinningAllele maps a row's winning-allele marker to the nucleotide
// the factor bound preferentially. The second return is false when
// neither parent won.
func WinningAllele(winning, maternal, paternal string) (string, bool) {
	switch winning {
	case "M":
		return maternal, true
	case "P":
		return paternal, true
	}
	return "", false
}

// readTable loads a whitespace-tolerant tab-separated table into a
// frame, skipping skipHeader lines at the top and skipFooter at the
// bottom.
func readTable(path string, skipHeader, skipFooter int) (dataframe.DataFrame, error) {
	lines, err := readLines(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(lines) < skipHeader+skipFooter {
		return dataframe.DataFrame{}, fmt.Errorf("%s: fewer lines than expected", path)
	}

	df := tableFromLines(lines[skipHeader : len(lines)-skipFooter])
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// tableFromLines splits tab-separated lines into a frame. Fields may
// carry stray spaces around the tabs; they are trimmed.
func tableFromLines(lines []string) dataframe.DataFrame {
	records := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		records = append(records, fields)
	}
	return dataframe.LoadRecords(records)
}

func readLines(path string) ([]string, error) {
	reader, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
