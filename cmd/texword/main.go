// Package main is the entry point for the texword CLI, which converts
// LaTeX manuscripts into styled Word documents.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is shared by all subcommands; --verbose raises the level.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Level:           log.WarnLevel,
})

// rootCmd is the base command for the texword CLI.
var rootCmd = &cobra.Command{
	Use:   "texword",
	Short: "Convert LaTeX manuscripts to styled Word documents",
	Long: `texword converts a LaTeX manuscript into a Word document formatted for
review and submission. It flattens the source tree, repairs constructs the
converter mishandles, rasterizes vector figures, runs the conversion, and
restyles the result: double-spaced body text, three-line tables,
hanging-indent references, and a running header with page numbers.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./texword.yaml or ~/.config/texword/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable progress logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("texword")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "texword"))
		}
	}

	viper.SetEnvPrefix("TEXWORD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
