package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/accounting/ledger"
	"github.com/openbooks/accounting/models"
)

const txnSelectQuery = `SELECT t.id, t.date, t.description, t.account_id, t.amount, t.kind, t.entry_ref,
	t.created_at, t.updated_at, COALESCE(a.name, '')
	FROM transactions t
	LEFT JOIN accounts a ON t.account_id = a.id`

func scanTransaction(scanner interface{ Scan(...any) error }) (models.Transaction, error) {
	var t models.Transaction
	err := scanner.Scan(&t.ID, &t.Date, &t.Description, &t.AccountID, &t.Amount, &t.Kind,
		&t.EntryRef, &t.CreatedAt, &t.UpdatedAt, &t.AccountName)
	return t, err
}

// periodFromQuery reads the inclusive from/to query parameters. Absent
// bounds widen to cover the whole ledger.
func periodFromQuery(r *http.Request) (ledger.Period, string) {
	period := ledger.Period{
		Start: time.Time{},
		End:   time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		d, err := models.ParseDate(from)
		if err != nil {
			return ledger.Period{}, "from must be in YYYY-MM-DD format"
		}
		period.Start = d.Time
	}
	if to := r.URL.Query().Get("to"); to != "" {
		d, err := models.ParseDate(to)
		if err != nil {
			return ledger.Period{}, "to must be in YYYY-MM-DD format"
		}
		period.End = d.Time
	}
	if period.End.Before(period.Start) {
		return ledger.Period{}, "to must not precede from"
	}
	return period, ""
}

// loadAccounts reads the full chart of accounts.
func loadAccounts() ([]models.Account, error) {
	rows, err := DB.Query(accountSelectQuery + " ORDER BY number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// loadTransactions reads transactions matching an optional WHERE
// clause, ordered by date then ID.
func loadTransactions(where string, args ...any) ([]models.Transaction, error) {
	query := txnSelectQuery
	if where != "" {
		query += " " + where
	}
	query += " ORDER BY t.date, t.id"

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// adjustBalance applies a signed delta to an account's stored running
// balance inside the given transaction. The caller owns commit and
// rollback.
func adjustBalance(tx *sql.Tx, accountID int, delta decimal.Decimal) error {
	var balance decimal.Decimal
	if err := tx.QueryRow("SELECT balance FROM accounts WHERE id = ?", accountID).Scan(&balance); err != nil {
		return err
	}
	res, err := tx.Exec("UPDATE accounts SET balance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		balance.Add(delta), accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
