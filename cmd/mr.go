package cmd

import (
	"math/rand"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BAAL-NF/tfomics/config"
	"github.com/BAAL-NF/tfomics/internal/fileio"
	"github.com/BAAL-NF/tfomics/internal/mr"
)

// mrCmd represents the mr command
var mrCmd = &cobra.Command{
	Use:   "mr",
	Short: "Mendelian-randomisation analysis of binding effects against GWAS traits",
	Long: `Test whether allele-specific binding effects are causally associated
with phenotypic traits, using GWAS summary statistics.

The exposure CSV carries one row per SNP with its binding effect size
and standard error; the GWAS CSV carries one row per SNP-trait pair.
GWAS rows are filtered on minor allele frequency, Hardy-Weinberg
equilibrium and imputation score, joined against the exposure SNPs,
and each pair is scored with a causal effect, standard error, z-score
and p-value. Benjamini-Hochberg q-values are computed over the whole
batch.

With --permute the GWAS SNP identifiers are shuffled before joining,
which breaks the SNP-trait pairing for a permutation test.`,
	Run: runMR,
}

func init() {
	RootCmd.AddCommand(mrCmd)

	mrCmd.Flags().StringP("exposure", "e", "", "CSV of exposure SNPs with binding effects")
	mrCmd.Flags().StringP("gwas", "g", "", "CSV of GWAS summary statistics")
	mrCmd.Flags().StringP("out", "o", "", "output CSV (default stdout)")
	mrCmd.Flags().Float64("min-maf", 1e-3, "minimum minor allele frequency")
	mrCmd.Flags().Float64("min-hwe", 1e-50, "minimum Hardy-Weinberg equilibrium statistic")
	mrCmd.Flags().Float64("min-iscore", 0.9, "minimum imputation quality score")
	mrCmd.Flags().StringSliceP("traits", "t", nil, "restrict the analysis to these traits")
	mrCmd.Flags().Bool("permute", false, "shuffle GWAS SNP identifiers for a permutation test")
	mrCmd.Flags().Int64P("seed", "s", 1, "random seed for --permute")
	mrCmd.MarkFlagRequired("exposure")
	mrCmd.MarkFlagRequired("gwas")

	viper.BindPFlag("mr.min-maf", mrCmd.Flags().Lookup("min-maf"))
	viper.BindPFlag("mr.min-hwe", mrCmd.Flags().Lookup("min-hwe"))
	viper.BindPFlag("mr.min-iscore", mrCmd.Flags().Lookup("min-iscore"))
}

func runMR(cmd *cobra.Command, args []string) {
	exposurePath, _ := cmd.Flags().GetString("exposure")
	gwasPath, _ := cmd.Flags().GetString("gwas")
	out, _ := cmd.Flags().GetString("out")
	traits, _ := cmd.Flags().GetStringSlice("traits")
	permute, _ := cmd.Flags().GetBool("permute")
	seed, _ := cmd.Flags().GetInt64("seed")
	c := config.New()

	exposure := readCSV(exposurePath)
	gwas := readCSV(gwasPath)

	opts := mr.DefaultOptions()
	opts.Thresholds = mr.Thresholds{
		MinMAF:    c.MR.MinMAF,
		MinHWE:    c.MR.MinHWE,
		MinIscore: c.MR.MinIscore,
		Traits:    traits,
	}
	if permute {
		opts.Permute = true
		opts.Rng = rand.New(rand.NewSource(seed))
	}

	exposure, err := mr.FilterEffectSNPs(exposure, opts.Exposure)
	if err != nil {
		logrus.Fatal(err)
	}

	results, err := mr.EffectOnTrait(exposure, gwas, opts)
	if err != nil {
		logrus.Fatal(err)
	}
	logrus.Infof("scored %d SNP-trait pairs", results.Nrow())

	writer := os.Stdout
	if out != "" {
		file, err := os.Create(out)
		if err != nil {
			logrus.Fatalf("creating %s: %v", out, err)
		}
		defer file.Close()
		writer = file
	}
	if err := results.WriteCSV(writer); err != nil {
		logrus.Fatalf("writing results: %v", err)
	}
}

// readCSV loads a (possibly compressed) CSV into a frame.
func readCSV(path string) dataframe.DataFrame {
	reader, err := fileio.Open(path)
	if err != nil {
		logrus.Fatalf("opening %s: %v", path, err)
	}
	defer reader.Close()

	df := dataframe.ReadCSV(reader)
	if df.Err != nil {
		logrus.Fatalf("parsing %s: %v", path, df.Err)
	}
	return df
}
