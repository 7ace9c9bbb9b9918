package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boilerbrain-ai/boilerbrain/cmd/boilerbrain/ui"
	"github.com/boilerbrain-ai/boilerbrain/internal/cache"
	"github.com/boilerbrain-ai/boilerbrain/internal/retrieval"
	"github.com/boilerbrain-ai/boilerbrain/internal/storage"
)

var (
	lookupManufacturer string
	lookupModel        string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <fault-code>",
	Short: "Look up a fault code",
	Long:  "Look up a fault code in the merged fault records and print the structured answer.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupManufacturer, "manufacturer", "", "narrow by manufacturer")
	lookupCmd.Flags().StringVar(&lookupModel, "model", "", "narrow by model")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	lookups := retrieval.NewLookupService(
		logger,
		storage.NewSourceRepository(db),
		cache.NewMemoryClient(),
		retrieval.DefaultLookupConfig(),
	)

	result, err := lookups.Lookup(cmd.Context(), retrieval.LookupQuery{
		Manufacturer: lookupManufacturer,
		FaultCode:    args[0],
		Model:        lookupModel,
	})
	if errors.Is(err, retrieval.ErrFaultNotFound) {
		ui.Warning("No record found for fault code %q", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	printLookup(result)
	return nil
}

func printLookup(result *retrieval.LookupResult) {
	title := result.FaultCode
	if result.Manufacturer != "" {
		title = result.Manufacturer + " " + result.Model + " " + result.FaultCode
	}
	ui.Section(strings.TrimSpace(title))

	if len(result.Answer.Bullets) > 0 {
		ui.Info("Likely causes:")
		for _, b := range result.Answer.Bullets {
			ui.Info("  - %s", b)
		}
	}
	if len(result.Answer.Steps) > 0 {
		ui.Info("Diagnostic steps:")
		for i, s := range result.Answer.Steps {
			ui.Info("  %d. %s", i+1, s)
		}
	}
	if len(result.Answer.Cautions) > 0 {
		for _, c := range result.Answer.Cautions {
			ui.Warning("%s", c)
		}
	}
	if len(result.Answer.Parts) > 0 {
		ui.Info("Parts: %v", result.Answer.Parts)
	}
	if len(result.Answer.Measurements) > 0 {
		for _, m := range result.Answer.Measurements {
			ui.Info("%s", m)
		}
	}
}
