package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/normalize"
	"github.com/boilerbrain-ai/boilerbrain/internal/observability"
	"github.com/boilerbrain-ai/boilerbrain/internal/storage"
)

// Config holds orchestrator tuning.
type Config struct {
	DownloadDir      string
	MinDocumentBytes int64
	MaxDocumentBytes int64
	MinTextLength    int
	BatchSize        int
	CallInterval     time.Duration
	BatchCooldown    time.Duration
}

// ItemResult records how one work item ended up.
type ItemResult struct {
	Name     string
	State    domain.ItemState
	GCNumber string
	Faults   int
	Err      error
}

// RunReport summarizes a whole ingestion run.
type RunReport struct {
	Total     int
	Done      int
	Skipped   int
	Failed    int
	Items     []ItemResult
	Errors    []string
	StartedAt time.Time
	Duration  time.Duration
}

// Orchestrator walks the manual worklist one item at a time: download,
// extract text, pull metadata and fault tables with the LLM, validate the GC
// number, and persist. There is no parallel fan-out across items.
type Orchestrator struct {
	logger     *observability.Logger
	cfg        Config
	ledger     storage.Ledger
	downloader Downloader
	texts      TextExtractor
	generator  generator
	store      ManualStore
	limiter    *rate.Limiter

	pendingSeq int

	// OnItem, when set, is invoked after each item completes. The CLI uses
	// it to drive the progress bar.
	OnItem func(ItemResult)
}

type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewOrchestrator wires the ingestion pipeline.
func NewOrchestrator(
	logger *observability.Logger,
	cfg Config,
	ledger storage.Ledger,
	downloader Downloader,
	texts TextExtractor,
	gen generator,
	store ManualStore,
) *Orchestrator {
	limit := rate.Inf
	if cfg.CallInterval > 0 {
		limit = rate.Every(cfg.CallInterval)
	}

	return &Orchestrator{
		logger:     logger.WithComponent("ingest"),
		cfg:        cfg,
		ledger:     ledger,
		downloader: downloader,
		texts:      texts,
		generator:  gen,
		store:      store,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Run processes the full worklist. A worklist or ledger fetch failure is
// fatal; per-item failures are recorded and the run continues.
func (o *Orchestrator) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{StartedAt: time.Now()}

	worklist, err := o.store.Worklist(ctx)
	if err != nil {
		return nil, domain.SourceError("manual_worklist", err)
	}

	processed, err := o.ledger.Processed(ctx)
	if err != nil {
		return nil, fmt.Errorf("read processed ledger: %w", err)
	}

	report.Total = len(worklist)
	o.logger.Info().
		Int("worklist", len(worklist)).
		Int("already_processed", len(processed)).
		Msg("Starting ingestion run")

	inBatch := 0
	batchNum := 1
	for _, item := range worklist {
		if _, done := processed[item.Name]; done {
			o.logger.Debug().Str("manual", item.Name).Msg("Already in ledger, skipping")
			report.Skipped++
			continue
		}

		result := o.processItem(ctx, item)
		report.Items = append(report.Items, result)

		switch result.State {
		case domain.StateDone:
			report.Done++
			if err := o.ledger.MarkProcessed(ctx, item.Name); err != nil {
				o.logger.Error().Err(err).Str("manual", item.Name).Msg("Ledger append failed")
			}
		case domain.StateSkipped:
			report.Skipped++
		default:
			report.Failed++
			if result.Err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", item.Name, result.Err))
			}
		}

		if o.OnItem != nil {
			o.OnItem(result)
		}

		inBatch++
		if inBatch >= o.cfg.BatchSize {
			o.runQualityCheck(ctx, batchNum, report)
			batchNum++
			inBatch = 0

			if o.cfg.BatchCooldown > 0 {
				select {
				case <-ctx.Done():
					return report, ctx.Err()
				case <-time.After(o.cfg.BatchCooldown):
				}
			}
		}
	}

	if inBatch > 0 {
		o.runQualityCheck(ctx, batchNum, report)
	}

	report.Duration = time.Since(report.StartedAt)
	o.logger.Info().
		Int("done", report.Done).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("Ingestion run complete")

	return report, nil
}

// processItem drives one work item through the state machine. Every return
// path records the state the item ended in.
func (o *Orchestrator) processItem(ctx context.Context, item domain.ManualWorkItem) ItemResult {
	log := o.logger.WithManual(item.Name)
	result := ItemResult{Name: item.Name, State: domain.StatePending}

	// DOWNLOADING
	result.State = domain.StateDownloading
	path, size, err := o.downloader.Download(ctx, item.URL, o.cfg.DownloadDir)
	if err != nil {
		log.Error().Err(err).Msg("Download failed")
		result.State = domain.StateFailed
		result.Err = err
		return result
	}
	defer os.Remove(path)

	if size < o.cfg.MinDocumentBytes || size > o.cfg.MaxDocumentBytes {
		log.Warn().Int64("size", size).Msg("Document size out of bounds, skipping")
		result.State = domain.StateSkipped
		return result
	}

	// EXTRACTING_TEXT
	result.State = domain.StateExtractingText
	text, err := o.texts.Text(path)
	if err != nil {
		log.Error().Err(err).Msg("Text extraction failed")
		result.State = domain.StateFailed
		result.Err = err
		return result
	}
	if len(text) < o.cfg.MinTextLength {
		log.Warn().Int("text_length", len(text)).Msg("Insufficient extracted text, skipping")
		result.State = domain.StateSkipped
		return result
	}

	// EXTRACTING_METADATA
	result.State = domain.StateExtractingMetadata
	if err := o.limiter.Wait(ctx); err != nil {
		result.State = domain.StateFailed
		result.Err = err
		return result
	}
	meta, err := extractMetadata(ctx, o.generator, text)
	if err != nil {
		log.Error().Err(err).Msg("Metadata extraction failed")
		result.State = domain.StateFailed
		result.Err = err
		return result
	}

	// VALIDATING_GC
	result.State = domain.StateValidatingGC
	gc := o.validateGC(meta.GCNumbers)
	result.GCNumber = gc
	if meta.Manufacturer == "" {
		meta.Manufacturer = item.Manufacturer
	}

	// PERSISTING
	result.State = domain.StatePersisting
	manual := &storage.BoilerManual{
		Name:         item.Name,
		URL:          item.URL,
		Manufacturer: meta.Manufacturer,
		Models:       meta.Models,
		GCNumber:     gc,
		SystemType:   normalize.System(meta.SystemType),
		RawText:      text,
		SHA256:       contentHash(text),
	}
	if err := o.store.UpsertManual(ctx, manual); err != nil {
		log.Error().Err(err).Msg("Manual persist failed")
		result.State = domain.StateFailed
		result.Err = domain.PersistenceError("upsert manual", err)
		return result
	}

	// EXTRACTING_FAULTS
	result.State = domain.StateExtractingFaults
	if err := o.limiter.Wait(ctx); err != nil {
		result.State = domain.StateFailed
		result.Err = err
		return result
	}
	faults, err := extractFaults(ctx, o.generator, text)
	if err != nil {
		log.Error().Err(err).Msg("Fault extraction failed")
		result.State = domain.StateFailed
		result.Err = err
		return result
	}
	result.Faults = len(faults)

	entries := o.faultEntries(meta, gc, faults)
	if len(entries) > 0 {
		if _, err := o.store.InsertFaultCodes(ctx, entries); err != nil {
			// Persistence failures here do not abort the item; other records
			// for the same manual may already have landed.
			log.Error().Err(err).Msg("Fault persist failed")
		}
	}

	// EXTRACTING_PROCEDURES
	result.State = domain.StateExtractingProcedures
	if err := o.limiter.Wait(ctx); err != nil {
		result.State = domain.StateFailed
		result.Err = err
		return result
	}
	procedures, err := extractProcedures(ctx, o.generator, text)
	if err != nil {
		log.Error().Err(err).Msg("Procedure extraction failed")
		result.State = domain.StateFailed
		result.Err = err
		return result
	}

	if len(procedures) > 0 {
		rows := make([]storage.DiagnosticProcedure, 0, len(procedures))
		for _, proc := range procedures {
			rows = append(rows, storage.DiagnosticProcedure{
				ManualID:  manual.ID,
				Subsystem: proc.Subsystem,
				Procedure: proc.Procedure,
				TestType:  proc.TestType,
				Steps:     proc.Steps,
			})
		}
		if _, err := o.store.InsertProcedures(ctx, rows); err != nil {
			log.Error().Err(err).Msg("Procedure persist failed")
		}
	}

	result.State = domain.StateDone
	log.Info().Str("gc_number", gc).Int("faults", len(faults)).Msg("Manual ingested")
	return result
}

// validateGC normalizes candidate GC numbers and returns the first valid one.
// Items with no valid candidate get a placeholder so they stay traceable.
func (o *Orchestrator) validateGC(candidates []string) string {
	for _, candidate := range candidates {
		gc := normalize.GCNumber(candidate)
		if normalize.ValidGCNumber(gc) {
			return gc
		}
	}

	o.pendingSeq++
	return fmt.Sprintf("PENDING-%d", o.pendingSeq)
}

// faultEntries converts extracted faults into write rows, normalizing codes
// and dropping entries whose code normalizes away entirely.
func (o *Orchestrator) faultEntries(meta *domain.ManualMetadata, gc string, faults []domain.ExtractedFault) []storage.FaultCodeEntry {
	model := ""
	if len(meta.Models) > 0 {
		model = meta.Models[0]
	}

	entries := make([]storage.FaultCodeEntry, 0, len(faults))
	for _, fault := range faults {
		code := normalize.FaultCode(fault.FaultCode)
		if code == nil {
			continue
		}
		entries = append(entries, storage.FaultCodeEntry{
			Manufacturer: meta.Manufacturer,
			ModelName:    model,
			GCNumber:     gc,
			FaultCode:    *code,
			Description:  fault.Description,
			Solutions:    fault.Solutions,
		})
	}
	return entries
}

// runQualityCheck persists a cross-cutting quality snapshot. It is
// observational: any failure is logged and the batch continues.
func (o *Orchestrator) runQualityCheck(ctx context.Context, batchNum int, report *RunReport) {
	total, missingRemedy, duplicates, err := o.store.CountFaultStats(ctx)
	if err != nil {
		o.logger.Warn().Err(err).Int("batch", batchNum).Msg("Quality check query failed")
		return
	}

	malformed := 0
	for _, item := range report.Items {
		if item.State == domain.StateDone && !normalize.ValidGCNumber(item.GCNumber) {
			malformed++
		}
	}

	qr := &storage.QualityReport{
		BatchNumber:    batchNum,
		TotalManuals:   report.Done,
		MalformedCodes: malformed,
		MissingRemedy:  missingRemedy,
		Duplicates:     duplicates,
		Errors:         report.Errors,
	}
	if err := o.store.SaveQualityReport(ctx, qr); err != nil {
		o.logger.Warn().Err(err).Int("batch", batchNum).Msg("Quality report persist failed")
		return
	}

	o.logger.Info().
		Int("batch", batchNum).
		Int("total_fault_rows", total).
		Int("missing_remedy", missingRemedy).
		Int("duplicates", duplicates).
		Int("malformed_codes", malformed).
		Msg("Batch quality check complete")
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
