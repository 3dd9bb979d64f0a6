package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirmatho-gpt/invanalyzer"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	archive, err := OpenArchive(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

func TestArchiveTransactionsRoundTrip(t *testing.T) {
	archive := openTestArchive(t)
	rec := sampleTransaction()

	inserted, err := archive.SaveTransactions([]invanalyzer.TransactionRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	loaded, err := archive.Transactions("isa_jane")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assertSameTransaction(t, rec, loaded[0])
}

func TestArchiveSaveIsIdempotent(t *testing.T) {
	archive := openTestArchive(t)
	rec := sampleTransaction()

	_, err := archive.SaveTransactions([]invanalyzer.TransactionRecord{rec})
	require.NoError(t, err)
	inserted, err := archive.SaveTransactions([]invanalyzer.TransactionRecord{rec})
	require.NoError(t, err)
	assert.Zero(t, inserted, "same fingerprint must not archive twice")

	loaded, err := archive.Transactions("")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestArchiveHoldingsRoundTrip(t *testing.T) {
	archive := openTestArchive(t)
	rec := sampleHolding()

	inserted, err := archive.SaveHoldings([]invanalyzer.HoldingRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	loaded, err := archive.Holdings("isa_jane")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assertSameHolding(t, rec, loaded[0])
}

func TestArchiveFiltersByAccount(t *testing.T) {
	archive := openTestArchive(t)
	mine := sampleTransaction()
	other := sampleTransaction()
	other.Account = "sipp"
	other.ID = invanalyzer.Fingerprint(other)

	_, err := archive.SaveTransactions([]invanalyzer.TransactionRecord{mine, other})
	require.NoError(t, err)

	loaded, err := archive.Transactions("sipp")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "sipp", loaded[0].Account)

	accounts, err := archive.Accounts()
	require.NoError(t, err)
	assert.Equal(t, []string{"isa_jane", "sipp"}, accounts)
}
