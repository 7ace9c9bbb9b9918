// Package ingest implements the manual-ingestion batch pipeline: download a
// manual, extract its text, pull structured metadata and fault tables out of
// it with an LLM, validate, and persist.
package ingest

import (
	"context"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/storage"
)

// Downloader fetches a source document to local disk and reports its size.
type Downloader interface {
	Download(ctx context.Context, url, dir string) (path string, size int64, err error)
}

// TextExtractor pulls plain text out of a downloaded document.
type TextExtractor interface {
	Text(path string) (string, error)
}

// ManualStore is the persistence surface the orchestrator writes through.
type ManualStore interface {
	Worklist(ctx context.Context) ([]domain.ManualWorkItem, error)
	UpsertManual(ctx context.Context, manual *storage.BoilerManual) error
	InsertFaultCodes(ctx context.Context, entries []storage.FaultCodeEntry) (int, error)
	InsertProcedures(ctx context.Context, procedures []storage.DiagnosticProcedure) (int, error)
	SaveQualityReport(ctx context.Context, report *storage.QualityReport) error
	CountFaultStats(ctx context.Context) (total, missingRemedy, duplicates int, err error)
}
