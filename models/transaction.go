package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the side of a transaction line: debit or credit.
type EntryKind string

const (
	Debit  EntryKind = "debit"
	Credit EntryKind = "credit"
)

// Valid reports whether k is debit or credit.
func (k EntryKind) Valid() bool {
	return k == Debit || k == Credit
}

// Transaction is a single journal line posted against one account.
// Lines created together as one balanced journal entry share an
// EntryRef; lines posted individually have an empty EntryRef.
type Transaction struct {
	ID          int             `json:"id"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	AccountID   int             `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        EntryKind       `json:"kind"`
	EntryRef    string          `json:"entry_ref,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	// Computed fields
	AccountName string `json:"account_name,omitempty"`
}

// TransactionInput is used for creating/updating transactions.
type TransactionInput struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	AccountID   int             `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        EntryKind       `json:"kind"`
}

func (t *TransactionInput) Validate() string {
	if _, err := ParseDate(t.Date); err != nil {
		return "date must be in YYYY-MM-DD format"
	}
	if t.Description == "" {
		return "description is required"
	}
	if t.AccountID <= 0 {
		return "account_id is required"
	}
	if !t.Amount.IsPositive() {
		return "amount must be positive"
	}
	if !t.Kind.Valid() {
		return "kind must be one of: debit, credit"
	}
	return ""
}
