package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirmatho-gpt/invanalyzer"
	"github.com/kirmatho-gpt/invanalyzer/date"
)

func TestTransactionTreeRoundTrip(t *testing.T) {
	root := t.TempDir()

	late := sampleTransaction()
	early := sampleTransaction()
	early.TradeDate = date.New(2023, 6, 1)
	early.ID = invanalyzer.Fingerprint(early)
	other := sampleTransaction()
	other.Account = "sipp"
	other.ID = invanalyzer.Fingerprint(other)

	require.NoError(t, WriteTransactionTree(root, []invanalyzer.TransactionRecord{late, early, other}))

	_, err := os.Stat(filepath.Join(root, "isa_jane", TransactionsFile))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "sipp", TransactionsFile))
	require.NoError(t, err)

	loaded, err := LoadTransactionTree(root)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	// Within an account the records come back in effective-date order.
	assert.Equal(t, early.ID, loaded[0].ID)
	assert.Equal(t, late.ID, loaded[1].ID)
	assert.Equal(t, "sipp", loaded[2].Account)
}

func TestHoldingsTreeRoundTrip(t *testing.T) {
	root := t.TempDir()

	first := sampleHolding()
	second := sampleHolding()
	second.On = date.New(2024, 4, 1)
	second.ID = invanalyzer.HoldingFingerprint(second)

	require.NoError(t, WriteHoldingsTree(root, []invanalyzer.HoldingRecord{first, second}))

	_, err := os.Stat(filepath.Join(root, "isa_jane", "holdings_2024-03-01_normalized.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "isa_jane", "holdings_2024-04-01_normalized.csv"))
	require.NoError(t, err)

	loaded, err := LoadHoldingsTree(root)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, date.New(2024, 3, 1), loaded[0].On)
	assert.Equal(t, date.New(2024, 4, 1), loaded[1].On)
}

func TestWriteGainReports(t *testing.T) {
	root := t.TempDir()
	rows := []invanalyzer.UnrealizedGainRow{
		{Account: "isa_jane", On: date.New(2024, 3, 1), Symbol: "VOD", Currency: "GBP"},
		{Account: "isa_jane", On: date.New(2024, 4, 1), Symbol: "VOD", Currency: "GBP"},
	}
	require.NoError(t, WriteGainReports(root, rows))

	_, err := os.Stat(filepath.Join(root, "isa_jane", "unrealized_gains_2024-03-01.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "isa_jane", "unrealized_gains_2024-04-01.csv"))
	require.NoError(t, err)
}

func TestWriteCombinedGainReportLatestOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined.csv")
	rows := []invanalyzer.UnrealizedGainRow{
		{Account: "isa_jane", On: date.New(2024, 3, 1), Symbol: "VOD"},
		{Account: "isa_jane", On: date.New(2024, 4, 1), Symbol: "VOD"},
	}
	require.NoError(t, WriteCombinedGainReport(path, rows, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-04-01")
	assert.NotContains(t, string(data), "2024-03-01")
}

func TestWriteCombinedGainReportEmptyWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined.csv")
	require.NoError(t, WriteCombinedGainReport(path, nil, true))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshots(t *testing.T) {
	a := sampleHolding()
	b := sampleHolding()
	b.Symbol = "BP"
	later := sampleHolding()
	later.On = date.New(2024, 4, 1)
	undated := sampleHolding()
	undated.On = date.Date{}

	snapshots := Snapshots([]invanalyzer.HoldingRecord{later, a, b, undated})
	require.Len(t, snapshots, 2)
	assert.Equal(t, date.New(2024, 3, 1), snapshots[0].On)
	assert.Len(t, snapshots[0].Rows, 2)
	assert.Equal(t, date.New(2024, 4, 1), snapshots[1].On)
}
