package cmd

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BAAL-NF/tfomics/config"
	"github.com/BAAL-NF/tfomics/internal/alleleseq"
	"github.com/BAAL-NF/tfomics/internal/fileio"
	"github.com/BAAL-NF/tfomics/internal/genome"
)

// asbCmd represents the asb command
var asbCmd = &cobra.Command{
	Use:   "asb",
	Short: "Estimate allele-specific binding effect sizes from AlleleSeq output",
	Long: `Estimate per-SNP allelic effect sizes from an AlleleSeq count file and
its companion FDR file.

SNPs significant at the requested FDR are selected, each row is scored
as a binomial experiment over its reference and alternate read counts,
and repeated measurements of the same site are pooled by
inverse-variance weighting. The result is one effect size and standard
error per SNP, written as CSV.

With --genome, the reference windows around the candidate SNPs are
also extracted, the preferentially bound allele substituted at the
center, and the sequences written as FASTA for motif analysis.`,
	Run: runASB,
}

func init() {
	RootCmd.AddCommand(asbCmd)

	asbCmd.Flags().StringP("counts", "c", "", "AlleleSeq count file")
	asbCmd.Flags().StringP("fdr", "f", "", "AlleleSeq FDR file")
	asbCmd.Flags().StringP("name", "N", "sample", "sample name used in log messages")
	asbCmd.Flags().StringP("out", "o", "", "output CSV of effect sizes (default stdout)")
	asbCmd.Flags().Float64("max-fdr", 0.05, "false discovery rate candidates must achieve")
	asbCmd.Flags().StringP("genome", "g", "", "reference genome FASTA; also emit candidate windows")
	asbCmd.Flags().String("seq-out", "", "output FASTA for candidate windows (with --genome)")
	asbCmd.MarkFlagRequired("counts")
	asbCmd.MarkFlagRequired("fdr")

	viper.BindPFlag("asb.max-fdr", asbCmd.Flags().Lookup("max-fdr"))
}

func runASB(cmd *cobra.Command, args []string) {
	countPath, _ := cmd.Flags().GetString("counts")
	fdrPath, _ := cmd.Flags().GetString("fdr")
	name, _ := cmd.Flags().GetString("name")
	out, _ := cmd.Flags().GetString("out")
	genomePath, _ := cmd.Flags().GetString("genome")
	seqOut, _ := cmd.Flags().GetString("seq-out")
	c := config.New()

	data, err := alleleseq.Load(name, countPath, fdrPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if _, found := data.PValueAt(c.ASB.MaxFDR); !found {
		logrus.Warnf("sample %s has no data points with FDR <= %v", name, c.ASB.MaxFDR)
	}

	candidates := data.Candidates(c.ASB.MaxFDR)
	logrus.Infof("%s: %d candidate SNPs at FDR %v", name, candidates.Nrow(), c.ASB.MaxFDR)

	results, err := alleleseq.EffectSizes(candidates)
	if err != nil {
		logrus.Fatal(err)
	}

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
		logrus.Fatalf("writing effect sizes: %v", err)
	}

	if genomePath != "" {
		writeCandidateWindows(candidates, genomePath, seqOut)
	}
}

// writeCandidateWindows extracts the reference window around every
// candidate, substitutes the winning allele, and writes the sequences
// as FASTA.
func writeCandidateWindows(candidates dataframe.DataFrame, genomePath, seqOut string) {
	fetcher, err := genome.LoadFASTA(genomePath)
	if err != nil {
		logrus.Fatalf("loading reference genome: %v", err)
	}

	withSequences, err := alleleseq.Sequences(candidates, genome.New(fetcher))
	if err != nil {
		logrus.Fatalf("extracting candidate windows: %v", err)
	}

	records := make([]fileio.Record, 0, withSequences.Nrow())
	for i := 0; i < withSequences.Nrow(); i++ {
		position, _ := withSequences.Col(alleleseq.ColPosition).Elem(i).Int()
		records = append(records, fileio.Record{
			ID: fmt.Sprintf("%s:%d",
				withSequences.Col(alleleseq.ColChromosome).Elem(i).String(), position),
			Seq: withSequences.Col("sequence").Elem(i).String(),
		})
	}

	writer := os.Stdout
	if seqOut != "" {
		file, err := os.Create(seqOut)
		if err != nil {
			logrus.Fatalf("creating %s: %v", seqOut, err)
		}
		defer file.Close()
		writer = file
	}
	if err := fileio.WriteFASTA(writer, records); err != nil {
		logrus.Fatalf("writing candidate windows: %v", err)
	}
	logrus.Infof("wrote %d candidate windows", len(records))
}
