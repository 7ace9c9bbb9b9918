package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/boilerbrain-ai/boilerbrain/cmd/boilerbrain/ui"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "boilerbrain",
	Short: "BoilerBrain - boiler fault knowledge pipeline",
	Long: `BoilerBrain ingests boiler manuals, extracts fault codes and diagnostic
procedures, merges the legacy fault tables, and exports fine-tuning datasets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		ui.Init(noColor, verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
