package genome

import (
	"fmt"
	"strings"

	"github.com/BAAL-NF/tfomics/internal/fileio"
)

// FileFetcher serves regions from a multi-FASTA file held in memory,
// keyed by record identifier. There is no on-disk index; whole
// chromosomes are loaded up front, which is enough for the window
// lookups the pipelines perform.
type FileFetcher struct {
	sequences map[string]string
}

// LoadFASTA reads a (possibly gzip or bzip2 compressed) FASTA file into
// a FileFetcher. Sequences are normalized to uppercase on load.
func LoadFASTA(path string) (*FileFetcher, error) {
	records, err := fileio.ReadFASTA(path)
	if err != nil {
		return nil, err
	}

	sequences := make(map[string]string, len(records))
	for _, record := range records {
		if _, dup := sequences[record.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate FASTA record %s", path, record.ID)
		}
		sequences[record.ID] = strings.ToUpper(record.Seq)
	}

	return &FileFetcher{sequences: sequences}, nil
}

// GetRegion returns the uppercase bases in [start, end) of the named
// chromosome, truncated at the chromosome end.
func (f *FileFetcher) GetRegion(chromosome string, start, end int) (string, error) {
	sequence, ok := f.sequences[chromosome]
	if !ok {
		return "", fmt.Errorf("chromosome %s not present in reference", chromosome)
	}

	if start < 0 || start > end {
		return "", fmt.Errorf("invalid region %s:%d-%d", chromosome, start, end)
	}
	if start > len(sequence) {
		start = len(sequence)
	}
	if end > len(sequence) {
		end = len(sequence)
	}

	return sequence[start:end], nil
}
