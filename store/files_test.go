package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirmatho-gpt/invanalyzer/date"
)

func TestTransactionAccount(t *testing.T) {
	account, err := TransactionAccount("transactions_isa_jane_2024.csv")
	require.NoError(t, err)
	assert.Equal(t, "isa_jane", account)

	account, err = TransactionAccount("transactions_sipp_export.txt")
	require.NoError(t, err)
	assert.Equal(t, "sipp", account)

	_, err = TransactionAccount("transactions.csv")
	assert.Error(t, err)

	_, err = TransactionAccount("holdings_isa_2024.csv")
	assert.Error(t, err)
}

func TestHoldingsMeta(t *testing.T) {
	cases := []struct {
		filename string
		account  string
		on       date.Date
	}{
		{"holdings_isa_jane_2024-03-01.csv", "isa_jane", date.New(2024, 3, 1)},
		{"holdings_sipp_20240301.csv", "sipp", date.New(2024, 3, 1)},
		{"holdings_trading_01-03-2024.txt", "trading", date.New(2024, 3, 1)},
	}
	for _, tc := range cases {
		account, on, err := HoldingsMeta(tc.filename)
		require.NoError(t, err, tc.filename)
		assert.Equal(t, tc.account, account, tc.filename)
		assert.Equal(t, tc.on, on, tc.filename)
	}

	_, _, err := HoldingsMeta("holdings_isa.csv")
	assert.Error(t, err, "missing date token")

	_, _, err = HoldingsMeta("holdings_2024-03-01.csv")
	assert.Error(t, err, "missing account name")
}

func TestValuationDateFromStem(t *testing.T) {
	assert.Equal(t, date.New(2024, 3, 1), valuationDateFromStem("holdings_2024-03-01_normalized.csv"))
	assert.True(t, valuationDateFromStem("transactions_normalized.csv").IsZero())
}
