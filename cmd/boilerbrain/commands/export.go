package commands

import (
	"github.com/spf13/cobra"

	"github.com/boilerbrain-ai/boilerbrain/cmd/boilerbrain/ui"
	"github.com/boilerbrain-ai/boilerbrain/internal/dataset"
	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/merge"
	"github.com/boilerbrain-ai/boilerbrain/internal/storage"
)

var (
	exportTrainPath string
	exportEvalPath  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export fine-tuning datasets",
	Long: `Merge the three legacy fault tables into unified records and write
train and eval JSONL files for fine-tuning.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTrainPath, "train", "", "train output path (default from config)")
	exportCmd.Flags().StringVar(&exportEvalPath, "eval", "", "eval output path (default from config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ui.Section("Dataset Export")

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	trainPath := cfg.Dataset.TrainPath
	if exportTrainPath != "" {
		trainPath = exportTrainPath
	}
	evalPath := cfg.Dataset.EvalPath
	if exportEvalPath != "" {
		evalPath = exportEvalPath
	}

	spin := ui.NewSpinner("Merging fault tables")
	spin.Start()

	buckets, err := merge.MergeFromProvider(storage.NewSourceRepository(db))
	spin.Stop()
	if err != nil {
		ui.Error("Merge failed: %v", err)
		return err
	}

	records := make([]*domain.FaultRecord, 0, len(buckets))
	for _, key := range merge.Keys(buckets) {
		records = append(records, buckets[key])
	}
	ui.Info("Merged records: %d", len(records))

	trainCount, evalCount, err := dataset.Export(records, trainPath, evalPath)
	if err != nil {
		ui.Error("Export failed: %v", err)
		return err
	}

	ui.Success("Wrote %d train examples to %s", trainCount, trainPath)
	ui.Success("Wrote %d eval examples to %s", evalCount, evalPath)
	return nil
}
