package store

// Schema is the SQLite archive schema. Decimal fields are stored as TEXT so
// values round-trip without float drift; dates are ISO-8601 TEXT.
const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	transaction_id TEXT PRIMARY KEY,
	account_name TEXT NOT NULL,
	broker TEXT NOT NULL,
	trade_date TEXT,
	settlement_date TEXT,
	symbol TEXT,
	sedol TEXT,
	quantity TEXT,
	price TEXT,
	description TEXT,
	reference TEXT,
	debit TEXT,
	credit TEXT,
	running_balance TEXT,
	currency TEXT,
	source_file TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_name);
CREATE INDEX IF NOT EXISTS idx_transactions_trade_date ON transactions(trade_date);

CREATE TABLE IF NOT EXISTS holdings (
	snapshot_id TEXT PRIMARY KEY,
	account_name TEXT NOT NULL,
	broker TEXT NOT NULL,
	valuation_date TEXT NOT NULL,
	symbol TEXT NOT NULL,
	name TEXT,
	quantity TEXT,
	price TEXT,
	average_price TEXT,
	market_value TEXT,
	book_cost TEXT,
	gain_loss TEXT,
	gain_loss_pct TEXT,
	currency TEXT,
	source_file TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_holdings_account ON holdings(account_name);
CREATE INDEX IF NOT EXISTS idx_holdings_valuation_date ON holdings(valuation_date);
`
