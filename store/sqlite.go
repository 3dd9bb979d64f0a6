package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kirmatho-gpt/invanalyzer"
)

// Archive is a SQLite store of normalized records, keyed by their content
// fingerprints. Saving the same record twice is a no-op, so re-archiving a
// normalized tree after new imports only adds the new rows.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (creating if needed) the archive at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing archive schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error { return a.db.Close() }

// SaveTransactions inserts normalized transactions, ignoring records whose
// fingerprint is already archived. It returns the number of new rows.
func (a *Archive) SaveTransactions(records []invanalyzer.TransactionRecord) (int, error) {
	tx, err := a.db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO transactions
		(transaction_id, account_name, broker, trade_date, settlement_date,
		 symbol, sedol, quantity, price, description, reference,
		 debit, credit, running_balance, currency, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range records {
		res, err := stmt.Exec(
			t.ID, t.Account, t.Broker,
			nullString(dateField(t.TradeDate)), nullString(dateField(t.SettlementDate)),
			nullString(t.Symbol), nullString(t.Sedol),
			nullString(decimalField(t.Quantity)), nullString(decimalField(t.Price)),
			nullString(t.Description), nullString(t.Reference),
			nullString(decimalField(t.Debit)), nullString(decimalField(t.Credit)),
			nullString(decimalField(t.RunningBalance)),
			nullString(t.Currency), t.SourceFile,
		)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		inserted += int(n)
	}
	return inserted, tx.Commit()
}

// SaveHoldings inserts normalized holdings lines, ignoring already-archived
// fingerprints. It returns the number of new rows.
func (a *Archive) SaveHoldings(records []invanalyzer.HoldingRecord) (int, error) {
	tx, err := a.db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO holdings
		(snapshot_id, account_name, broker, valuation_date, symbol, name,
		 quantity, price, average_price, market_value, book_cost,
		 gain_loss, gain_loss_pct, currency, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, h := range records {
		res, err := stmt.Exec(
			h.ID, h.Account, h.Broker, dateField(h.On),
			h.Symbol, nullString(h.Name),
			nullString(decimalField(h.Quantity)), nullString(decimalField(h.Price)),
			nullString(decimalField(h.AveragePrice)), nullString(decimalField(h.MarketValue)),
			nullString(decimalField(h.BookCost)), nullString(decimalField(h.GainLoss)),
			nullString(decimalField(h.GainLossPct)),
			nullString(h.Currency), h.SourceFile,
		)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		inserted += int(n)
	}
	return inserted, tx.Commit()
}

// Transactions returns the archived transactions for one account, ordered
// by trade date. An empty account returns every archived transaction.
func (a *Archive) Transactions(account string) ([]invanalyzer.TransactionRecord, error) {
	query := `
		SELECT transaction_id, account_name, broker, trade_date, settlement_date,
		       symbol, sedol, quantity, price, description, reference,
		       debit, credit, running_balance, currency, source_file
		FROM transactions`
	var args []any
	if account != "" {
		query += ` WHERE account_name = ?`
		args = append(args, account)
	}
	query += ` ORDER BY trade_date, transaction_id`

	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []invanalyzer.TransactionRecord
	for rows.Next() {
		var t invanalyzer.TransactionRecord
		var tradeDate, settlementDate, symbol, sedol, quantity, price sql.NullString
		var description, reference, debit, credit, balance, currency sql.NullString
		if err := rows.Scan(
			&t.ID, &t.Account, &t.Broker, &tradeDate, &settlementDate,
			&symbol, &sedol, &quantity, &price, &description, &reference,
			&debit, &credit, &balance, &currency, &t.SourceFile,
		); err != nil {
			return nil, err
		}
		if t.TradeDate, err = parseDate(tradeDate.String); err != nil {
			return nil, err
		}
		if t.SettlementDate, err = parseDate(settlementDate.String); err != nil {
			return nil, err
		}
		if t.Quantity, err = parseDecimal(quantity.String); err != nil {
			return nil, err
		}
		if t.Price, err = parseDecimal(price.String); err != nil {
			return nil, err
		}
		if t.Debit, err = parseDecimal(debit.String); err != nil {
			return nil, err
		}
		if t.Credit, err = parseDecimal(credit.String); err != nil {
			return nil, err
		}
		if t.RunningBalance, err = parseDecimal(balance.String); err != nil {
			return nil, err
		}
		t.Symbol, t.Sedol = symbol.String, sedol.String
		t.Description, t.Reference = description.String, reference.String
		t.Currency = currency.String
		records = append(records, t)
	}
	return records, rows.Err()
}

// Holdings returns the archived holdings for one account, ordered by
// valuation date then symbol. An empty account returns everything.
func (a *Archive) Holdings(account string) ([]invanalyzer.HoldingRecord, error) {
	query := `
		SELECT snapshot_id, account_name, broker, valuation_date, symbol, name,
		       quantity, price, average_price, market_value, book_cost,
		       gain_loss, gain_loss_pct, currency, source_file
		FROM holdings`
	var args []any
	if account != "" {
		query += ` WHERE account_name = ?`
		args = append(args, account)
	}
	query += ` ORDER BY valuation_date, symbol`

	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []invanalyzer.HoldingRecord
	for rows.Next() {
		var h invanalyzer.HoldingRecord
		var on string
		var name, quantity, price, averagePrice, marketValue sql.NullString
		var bookCost, gainLoss, gainLossPct, currency sql.NullString
		if err := rows.Scan(
			&h.ID, &h.Account, &h.Broker, &on, &h.Symbol, &name,
			&quantity, &price, &averagePrice, &marketValue, &bookCost,
			&gainLoss, &gainLossPct, &currency, &h.SourceFile,
		); err != nil {
			return nil, err
		}
		if h.On, err = parseDate(on); err != nil {
			return nil, err
		}
		if h.Quantity, err = parseDecimal(quantity.String); err != nil {
			return nil, err
		}
		if h.Price, err = parseDecimal(price.String); err != nil {
			return nil, err
		}
		if h.AveragePrice, err = parseDecimal(averagePrice.String); err != nil {
			return nil, err
		}
		if h.MarketValue, err = parseDecimal(marketValue.String); err != nil {
			return nil, err
		}
		if h.BookCost, err = parseDecimal(bookCost.String); err != nil {
			return nil, err
		}
		if h.GainLoss, err = parseDecimal(gainLoss.String); err != nil {
			return nil, err
		}
		if h.GainLossPct, err = parseDecimal(gainLossPct.String); err != nil {
			return nil, err
		}
		h.Name, h.Currency = name.String, currency.String
		records = append(records, h)
	}
	return records, rows.Err()
}

// Accounts lists the distinct account names present in the archive.
func (a *Archive) Accounts() ([]string, error) {
	rows, err := a.db.Query(`
		SELECT account_name FROM transactions
		UNION
		SELECT account_name FROM holdings
		ORDER BY account_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		accounts = append(accounts, name)
	}
	return accounts, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
