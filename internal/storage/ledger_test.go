package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	ledger, err := OpenLedger(path)
	require.NoError(t, err)
	defer ledger.Close()

	processed, err := ledger.Processed(ctx)
	require.NoError(t, err)
	assert.Empty(t, processed)

	require.NoError(t, ledger.MarkProcessed(ctx, "greenstar-30i.pdf"))
	require.NoError(t, ledger.MarkProcessed(ctx, "duo-tec.pdf"))

	// Re-marking an existing entry is a no-op, not an error.
	require.NoError(t, ledger.MarkProcessed(ctx, "greenstar-30i.pdf"))

	processed, err = ledger.Processed(ctx)
	require.NoError(t, err)
	assert.Len(t, processed, 2)
	assert.Contains(t, processed, "greenstar-30i.pdf")
}

func TestLedgerSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	ledger, err := OpenLedger(path)
	require.NoError(t, err)
	require.NoError(t, ledger.MarkProcessed(ctx, "persisted.pdf"))
	require.NoError(t, ledger.Close())

	reopened, err := OpenLedger(path)
	require.NoError(t, err)
	defer reopened.Close()

	processed, err := reopened.Processed(ctx)
	require.NoError(t, err)
	assert.Contains(t, processed, "persisted.pdf")
}
