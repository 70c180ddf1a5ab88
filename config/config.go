// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// MRSettings are the quality thresholds for Mendelian-randomisation
// instruments.
type MRSettings struct {
	// the minimum minor allele frequency for a GWAS row
	MinMAF float64 `mapstructure:"min-maf"`

	// the minimum Hardy-Weinberg equilibrium statistic
	MinHWE float64 `mapstructure:"min-hwe"`

	// the minimum imputation quality score
	MinIscore float64 `mapstructure:"min-iscore"`
}

// ASBSettings control candidate selection from AlleleSeq output.
type ASBSettings struct {
	// the false discovery rate candidates must achieve
	MaxFDR float64 `mapstructure:"max-fdr"`
}

// ShuffleSettings control dinucleotide-shuffle runs.
type ShuffleSettings struct {
	// how many shuffled copies to emit per input sequence
	Samples int `mapstructure:"samples"`

	// the random seed; shuffles are reproducible for a fixed seed
	Seed int64 `mapstructure:"seed"`
}

// Config is the root-level settings struct, a mix of settings available
// in an optional config file and those set on the command line.
type Config struct {
	MR      MRSettings      `mapstructure:"mr"`
	ASB     ASBSettings     `mapstructure:"asb"`
	Shuffle ShuffleSettings `mapstructure:"shuffle"`
}

// SetDefaults registers the default value of every setting with viper.
// Called once from the root command before flags are bound.
func SetDefaults() {
	viper.SetDefault("mr.min-maf", 1e-3)
	viper.SetDefault("mr.min-hwe", 1e-50)
	viper.SetDefault("mr.min-iscore", 0.9)
	viper.SetDefault("asb.max-fdr", 0.05)
	viper.SetDefault("shuffle.samples", 1)
	viper.SetDefault("shuffle.seed", 1)
}

// New returns a Config populated from viper: defaults, then the config
// file if one was read, then any bound command-line flags.
func New() Config {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings, %v", err)
	}
	return c
}
