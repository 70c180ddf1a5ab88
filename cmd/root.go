// Package cmd is for command line interactions with the tfomics application
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BAAL-NF/tfomics/config"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "tfomics",
	Short: `Estimate allele-specific binding effect sizes from ChIP-seq read counts
and test them against GWAS traits with Mendelian randomisation`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		logrus.Fatalf("%v", err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults()

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to an optional settings file (YAML)")
}

// initConfig reads in the config file if one was passed.
func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Fatalf("reading settings file %s: %v", cfgFile, err)
	}
}
