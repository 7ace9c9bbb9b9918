package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/observability"
	"github.com/boilerbrain-ai/boilerbrain/internal/storage"
)

// sampleText is padded past the minimum-text threshold used in tests.
var sampleText = `Worcester Greenstar 30i installation and service manual.
GC number 47-311-89. Fault E119 indicates low system pressure.` +
	strings.Repeat(" boiler service text", 30)

type fakeDownloader struct {
	size int64
	err  error
}

func (d *fakeDownloader) Download(ctx context.Context, url, dir string) (string, int64, error) {
	if d.err != nil {
		return "", 0, d.err
	}
	return "/tmp/does-not-exist.pdf", d.size, nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) Text(path string) (string, error) {
	return e.text, e.err
}

// fakeGenerator answers each extraction stage with canned JSON, keyed off the
// prompt wording.
type fakeGenerator struct {
	metadata   string
	faults     string
	procedures string
	err        error
	calls      int
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	switch {
	case strings.Contains(prompt, "JSON object with this exact shape"):
		return g.metadata, nil
	case strings.Contains(prompt, "Extract every fault"):
		return g.faults, nil
	default:
		return g.procedures, nil
	}
}

func defaultGenerator() *fakeGenerator {
	return &fakeGenerator{
		metadata: `{"manufacturer":"Worcester","models":["Greenstar 30i"],"gc_numbers":["GC 47 311 89"],"system_type":"combi"}`,
		faults: `[{"fault_code":"E.119","description":"Low water pressure","solutions":["Repressurise the system"]},
			{"fault_code":"","description":"no code","solutions":[]}]`,
		procedures: `[{"subsystem":"pump","procedure":"Pump head check","test_type":"electrical","steps":["Isolate supply","Measure resistance"]}]`,
	}
}

type fakeStore struct {
	worklist    []domain.ManualWorkItem
	worklistErr error

	manuals        []*storage.BoilerManual
	faultEntries   []storage.FaultCodeEntry
	procedures     []storage.DiagnosticProcedure
	reports        []*storage.QualityReport
	upsertErr      error
	insertFaultErr error
	statsErr       error
}

func (s *fakeStore) Worklist(ctx context.Context) ([]domain.ManualWorkItem, error) {
	return s.worklist, s.worklistErr
}

func (s *fakeStore) UpsertManual(ctx context.Context, manual *storage.BoilerManual) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.manuals = append(s.manuals, manual)
	return nil
}

func (s *fakeStore) InsertFaultCodes(ctx context.Context, entries []storage.FaultCodeEntry) (int, error) {
	if s.insertFaultErr != nil {
		return 0, s.insertFaultErr
	}
	s.faultEntries = append(s.faultEntries, entries...)
	return len(entries), nil
}

func (s *fakeStore) InsertProcedures(ctx context.Context, procedures []storage.DiagnosticProcedure) (int, error) {
	s.procedures = append(s.procedures, procedures...)
	return len(procedures), nil
}

func (s *fakeStore) SaveQualityReport(ctx context.Context, report *storage.QualityReport) error {
	s.reports = append(s.reports, report)
	return nil
}

func (s *fakeStore) CountFaultStats(ctx context.Context) (int, int, int, error) {
	if s.statsErr != nil {
		return 0, 0, 0, s.statsErr
	}
	return len(s.faultEntries), 0, 0, nil
}

type fakeLedger struct {
	processed map[string]struct{}
	readErr   error
}

func newFakeLedger(names ...string) *fakeLedger {
	l := &fakeLedger{processed: make(map[string]struct{})}
	for _, name := range names {
		l.processed[name] = struct{}{}
	}
	return l
}

func (l *fakeLedger) Processed(ctx context.Context) (map[string]struct{}, error) {
	if l.readErr != nil {
		return nil, l.readErr
	}
	return l.processed, nil
}

func (l *fakeLedger) MarkProcessed(ctx context.Context, name string) error {
	l.processed[name] = struct{}{}
	return nil
}

func (l *fakeLedger) Close() error { return nil }

func testConfig() Config {
	return Config{
		MinDocumentBytes: 100,
		MaxDocumentBytes: 1 << 20,
		MinTextLength:    200,
		BatchSize:        10,
	}
}

func newTestOrchestrator(cfg Config, ledger storage.Ledger, d Downloader, e TextExtractor, g generator, s ManualStore) *Orchestrator {
	return NewOrchestrator(observability.Nop(), cfg, ledger, d, e, g, s)
}

func workItem(name string) domain.ManualWorkItem {
	return domain.ManualWorkItem{Name: name, URL: "https://example.com/" + name, Manufacturer: "Worcester"}
}

func TestRunHappyPath(t *testing.T) {
	store := &fakeStore{worklist: []domain.ManualWorkItem{workItem("greenstar-30i.pdf")}}
	ledger := newFakeLedger()
	gen := defaultGenerator()

	o := newTestOrchestrator(testConfig(), ledger, &fakeDownloader{size: 5000}, &fakeExtractor{text: sampleText}, gen, store)

	report, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Done)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Failed)
	assert.Equal(t, 3, gen.calls)

	require.Len(t, store.manuals, 1)
	manual := store.manuals[0]
	assert.Equal(t, "47-311-89", manual.GCNumber)
	assert.Equal(t, "Worcester", manual.Manufacturer)
	assert.NotEmpty(t, manual.SHA256)

	// The empty fault code is dropped, the dotted one is normalized.
	require.Len(t, store.faultEntries, 1)
	assert.Equal(t, "E119", store.faultEntries[0].FaultCode)
	assert.Equal(t, "Greenstar 30i", store.faultEntries[0].ModelName)

	require.Len(t, store.procedures, 1)
	assert.Equal(t, "pump", store.procedures[0].Subsystem)

	// Completed item lands in the ledger.
	_, marked := ledger.processed["greenstar-30i.pdf"]
	assert.True(t, marked)

	// The end-of-run quality check persisted a report.
	require.Len(t, store.reports, 1)
	assert.Equal(t, 1, store.reports[0].TotalManuals)
}

func TestRunSkipsLedgeredItems(t *testing.T) {
	store := &fakeStore{worklist: []domain.ManualWorkItem{workItem("already-done.pdf")}}
	ledger := newFakeLedger("already-done.pdf")
	gen := defaultGenerator()

	o := newTestOrchestrator(testConfig(), ledger, &fakeDownloader{size: 5000}, &fakeExtractor{text: sampleText}, gen, store)

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, gen.calls)
	assert.Empty(t, store.manuals)
}

func TestRunWorklistFailureIsFatal(t *testing.T) {
	store := &fakeStore{worklistErr: errors.New("connection refused")}
	o := newTestOrchestrator(testConfig(), newFakeLedger(), &fakeDownloader{}, &fakeExtractor{}, defaultGenerator(), store)

	_, err := o.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindSource, domain.KindOf(err))
	assert.Contains(t, err.Error(), "manual_worklist query failed")
}

func TestRunLedgerFailureIsFatal(t *testing.T) {
	store := &fakeStore{worklist: []domain.ManualWorkItem{workItem("a.pdf")}}
	ledger := newFakeLedger()
	ledger.readErr = errors.New("disk gone")

	o := newTestOrchestrator(testConfig(), ledger, &fakeDownloader{}, &fakeExtractor{}, defaultGenerator(), store)

	_, err := o.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processed ledger")
}

func TestProcessItemSizeBounds(t *testing.T) {
	tests := []struct {
		name string
		size int64
	}{
		{"too small", 10},
		{"too large", 10 << 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{worklist: []domain.ManualWorkItem{workItem("odd-size.pdf")}}
			gen := defaultGenerator()
			o := newTestOrchestrator(testConfig(), newFakeLedger(), &fakeDownloader{size: tc.size}, &fakeExtractor{text: sampleText}, gen, store)

			report, err := o.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, report.Skipped)
			assert.Zero(t, gen.calls)
		})
	}
}

func TestProcessItemShortTextSkipped(t *testing.T) {
	store := &fakeStore{worklist: []domain.ManualWorkItem{workItem("thin.pdf")}}
	gen := defaultGenerator()
	o := newTestOrchestrator(testConfig(), newFakeLedger(), &fakeDownloader{size: 5000}, &fakeExtractor{text: "scanned image only"}, gen, store)

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, gen.calls)
}

func TestProcessItemPlaceholderGC(t *testing.T) {
	store := &fakeStore{worklist: []domain.ManualWorkItem{workItem("no-gc-1.pdf"), workItem("no-gc-2.pdf")}}
	gen := defaultGenerator()
	gen.metadata = `{"manufacturer":"Baxi","models":["Duo-tec"],"gc_numbers":["not a number"],"system_type":"combi"}`

	o := newTestOrchestrator(testConfig(), newFakeLedger(), &fakeDownloader{size: 5000}, &fakeExtractor{text: sampleText}, gen, store)

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Done)

	require.Len(t, store.manuals, 2)
	assert.Equal(t, "PENDING-1", store.manuals[0].GCNumber)
	assert.Equal(t, "PENDING-2", store.manuals[1].GCNumber)
}

func TestRunContinuesPastItemFailures(t *testing.T) {
	store := &fakeStore{worklist: []domain.ManualWorkItem{workItem("broken.pdf"), workItem("fine.pdf")}}
	gen := defaultGenerator()

	extractor := &flakyExtractor{failFor: "broken", text: sampleText}
	o := newTestOrchestrator(testConfig(), newFakeLedger(), &trackingDownloader{size: 5000, extractor: extractor}, extractor, gen, store)

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Done)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "broken.pdf")
}

// trackingDownloader tells the extractor which item is being processed so the
// extractor can fail selectively.
type trackingDownloader struct {
	size      int64
	extractor *flakyExtractor
}

func (d *trackingDownloader) Download(ctx context.Context, url, dir string) (string, int64, error) {
	d.extractor.current = url
	return "/tmp/does-not-exist.pdf", d.size, nil
}

type flakyExtractor struct {
	failFor string
	text    string
	current string
}

func (e *flakyExtractor) Text(path string) (string, error) {
	if strings.Contains(e.current, e.failFor) {
		return "", errors.New("corrupt document")
	}
	return e.text, nil
}

func TestProcessItemFaultPersistFailureDoesNotAbort(t *testing.T) {
	store := &fakeStore{
		worklist:       []domain.ManualWorkItem{workItem("persist-trouble.pdf")},
		insertFaultErr: errors.New("unique violation"),
	}
	gen := defaultGenerator()
	o := newTestOrchestrator(testConfig(), newFakeLedger(), &fakeDownloader{size: 5000}, &fakeExtractor{text: sampleText}, gen, store)

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Done)
	// Procedures still landed even though the fault insert failed.
	assert.Len(t, store.procedures, 1)
}

func TestRunBatchQualityChecks(t *testing.T) {
	items := make([]domain.ManualWorkItem, 5)
	for i := range items {
		items[i] = workItem(strings.Repeat("x", i+1) + ".pdf")
	}
	store := &fakeStore{worklist: items}

	cfg := testConfig()
	cfg.BatchSize = 2

	o := newTestOrchestrator(cfg, newFakeLedger(), &fakeDownloader{size: 5000}, &fakeExtractor{text: sampleText}, defaultGenerator(), store)

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, report.Done)

	// Two full batches plus the final partial one.
	require.Len(t, store.reports, 3)
	assert.Equal(t, 1, store.reports[0].BatchNumber)
	assert.Equal(t, 3, store.reports[2].BatchNumber)
}

func TestRunQualityCheckFailureIsNonFatal(t *testing.T) {
	store := &fakeStore{
		worklist: []domain.ManualWorkItem{workItem("a.pdf")},
		statsErr: errors.New("stats table missing"),
	}
	o := newTestOrchestrator(testConfig(), newFakeLedger(), &fakeDownloader{size: 5000}, &fakeExtractor{text: sampleText}, defaultGenerator(), store)

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Done)
	assert.Empty(t, store.reports)
}
