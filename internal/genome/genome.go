// Package genome provides reference-genome lookups for the ASB
// pipelines: given a chromosome and a 1-indexed SNP position, return
// the uppercase window of fixed half-width around it. Sequence access
// itself sits behind the Fetcher interface so the pipelines never
// depend on how the genome is stored.
package genome

import (
	"fmt"
)

// Offset is the half-width in base pairs of the window returned by
// GetPeak.
const Offset = 100

// Fetcher fetches an uppercase stretch of reference sequence.
// Coordinates are 0-indexed and half-open.
type Fetcher interface {
	GetRegion(chromosome string, start, end int) (string, error)
}

// Genome wraps a Fetcher with peak-window lookups. The fetcher is
// injected, never assigned globally, so tests can substitute a stub
// without setup ordering concerns.
type Genome struct {
	fetcher Fetcher
	offset  int
}

// New returns a Genome reading through fetcher with the default
// half-width.
func New(fetcher Fetcher) *Genome {
	return &Genome{fetcher: fetcher, offset: Offset}
}

// PeakCoords converts a 1-indexed peak position to the 0-indexed
// [start, end) coordinates of its window, clamped at the sequence
// start so windows near the beginning keep their full width.
func (g *Genome) PeakCoords(peakPosition int) (start, end int) {
	start = peakPosition - g.offset - 1
	if start < 0 {
		start = 0
	}
	end = peakPosition + g.offset
	if floor := 2*g.offset + 1; end < floor {
		end = floor
	}
	return start, end
}

// GetPeak fetches the window centered on the 1-indexed peakPosition.
// When expectedBase is non-empty the base at the window's center is
// checked against it; a mismatch means the counts were produced
// against a different reference build.
func (g *Genome) GetPeak(chromosome string, peakPosition int, expectedBase string) (string, error) {
	start, end := g.PeakCoords(peakPosition)
	sequence, err := g.fetcher.GetRegion(chromosome, start, end)
	if err != nil {
		return "", err
	}

	if expectedBase != "" {
		baseLocation := g.offset
		if peakPosition-1 < baseLocation {
			baseLocation = peakPosition - 1
		}
		if baseLocation >= len(sequence) {
			return "", fmt.Errorf("window at %s:%d is too short to validate its center", chromosome, peakPosition)
		}
		if found := string(sequence[baseLocation]); found != expectedBase {
			return "", fmt.Errorf("reference mismatch at %s:%d: expected %s, found %s",
				chromosome, peakPosition, expectedBase, found)
		}
	}

	return sequence, nil
}
