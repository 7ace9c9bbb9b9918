package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boilerbrain-ai/boilerbrain/cmd/boilerbrain/ui"
	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/ingest"
	"github.com/boilerbrain-ai/boilerbrain/internal/storage"
)

var ingestDownloadDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the manual worklist",
	Long: `Walk the manual worklist: download each document, extract its text,
pull metadata and fault tables with the LLM, validate the GC number, and
persist the results. Manuals already in the ledger are skipped.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDownloadDir, "download-dir", "", "override the download directory")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ui.Section("Manual Ingestion")

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ledger, err := storage.OpenLedger(cfg.Ingestion.LedgerPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer ledger.Close()

	generator, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	downloadDir := cfg.Ingestion.DownloadDir
	if ingestDownloadDir != "" {
		downloadDir = ingestDownloadDir
	}

	manuals := storage.NewManualRepository(db)

	// Pre-count the worklist so the bar has a total before the run starts.
	worklist, err := manuals.Worklist(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch worklist: %w", err)
	}
	ui.Info("Worklist: %d manuals", len(worklist))

	orchestrator := ingest.NewOrchestrator(
		logger,
		ingest.Config{
			DownloadDir:      downloadDir,
			MinDocumentBytes: cfg.Ingestion.MinDocumentBytes,
			MaxDocumentBytes: cfg.Ingestion.MaxDocumentBytes,
			MinTextLength:    cfg.Ingestion.MinTextLength,
			BatchSize:        cfg.Ingestion.BatchSize,
			CallInterval:     cfg.Ingestion.CallInterval,
			BatchCooldown:    cfg.Ingestion.BatchCooldown,
		},
		ledger,
		ingest.NewHTTPDownloader(5*time.Minute),
		ingest.NewFitzExtractor(),
		generator,
		manuals,
	)

	bar := ui.NewProgressBar(int64(len(worklist)), "Ingesting manuals")
	orchestrator.OnItem = func(result ingest.ItemResult) {
		bar.Add(1)
		switch result.State {
		case domain.StateDone:
			ui.Verbose("%s: done (GC %s, %d faults)", result.Name, result.GCNumber, result.Faults)
		case domain.StateSkipped:
			ui.Verbose("%s: skipped", result.Name)
		default:
			ui.Verbose("%s: failed: %v", result.Name, result.Err)
		}
	}

	report, err := orchestrator.Run(cmd.Context())
	bar.Finish()
	if err != nil {
		ui.Error("Ingestion aborted: %v", err)
		return err
	}

	ui.Success("Ingestion complete in %s", report.Duration.Round(time.Second))
	ui.Info("Processed: %d done, %d skipped, %d failed (of %d)",
		report.Done, report.Skipped, report.Failed, report.Total)
	for _, msg := range report.Errors {
		ui.Warning("%s", msg)
	}
	return nil
}
