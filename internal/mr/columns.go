package mr

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// ExposureColumns names the semantic fields of an exposure frame: one
// row per SNP with its estimated binding effect size and the two
// alleles it was called against. Resolved once at the boundary so the
// engine itself works with fixed field names.
type ExposureColumns struct {
	SNP        string
	EffectSize string
	StdErr     string
	Ref        string
	Alt        string
}

// DefaultExposureColumns matches the column layout produced by the
// allele-seq effect-size pipeline.
func DefaultExposureColumns() ExposureColumns {
	return ExposureColumns{
		SNP:        "snp",
		EffectSize: "es",
		StdErr:     "es_sterr",
		Ref:        "ref",
		Alt:        "alt",
	}
}

func (c ExposureColumns) required() []string {
	return []string{c.SNP, c.EffectSize, c.StdErr, c.Ref, c.Alt}
}

// GWASColumns names the semantic fields of a GWAS summary-statistics
// frame: one row per SNP-trait pair.
type GWASColumns struct {
	RSID   string
	Allele string
	Beta   string
	StdErr string
	MAF    string
	HWE    string
	Iscore string
	Trait  string
}

// DefaultGWASColumns matches the GeneAtlas summary-statistics layout.
func DefaultGWASColumns() GWASColumns {
	return GWASColumns{
		RSID:   "rsid",
		Allele: "allele",
		Beta:   "beta",
		StdErr: "NSE",
		MAF:    "MAF",
		HWE:    "HWE",
		Iscore: "iscore",
		Trait:  "trait",
	}
}

func (c GWASColumns) required() []string {
	return []string{c.RSID, c.Allele, c.Beta, c.StdErr, c.MAF, c.HWE, c.Iscore, c.Trait}
}

// MissingColumnsError reports the required columns absent from an input
// frame, usually a sign that the wrong file format was loaded.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("input is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// RequireColumns returns a MissingColumnsError naming every column in
// required that df lacks.
func RequireColumns(df dataframe.DataFrame, required []string) error {
	have := make(map[string]bool, len(df.Names()))
	for _, name := range df.Names() {
		have[name] = true
	}

	var missing []string
	for _, name := range required {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Missing: missing}
	}
	return nil
}
