package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/openbooks/accounting/models"
)

// Line is one side of a journal entry: an amount posted to an account
// on the debit or credit side.
type Line struct {
	AccountID int              `json:"account_id"`
	Amount    decimal.Decimal  `json:"amount"`
	Kind      models.EntryKind `json:"kind"`
}

// Entry is a balanced journal entry: two or more lines whose debits
// equal their credits. Entries are only constructed through NewEntry,
// which enforces the balance invariant up front instead of trusting
// callers to pair lines by convention.
type Entry struct {
	Date        models.Date `json:"date"`
	Description string      `json:"description"`
	Lines       []Line      `json:"lines"`
}

// NewEntry validates lines and returns a balanced Entry. Every amount
// must be positive and the debit and credit totals must be equal.
func NewEntry(date models.Date, description string, lines []Line) (Entry, error) {
	if len(lines) < 2 {
		return Entry{}, &UnbalancedEntryError{}
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, l := range lines {
		if !l.Amount.IsPositive() {
			return Entry{}, &AmountError{Amount: l.Amount}
		}
		switch l.Kind {
		case models.Debit:
			debits = debits.Add(l.Amount)
		case models.Credit:
			credits = credits.Add(l.Amount)
		}
	}
	if !debits.Equal(credits) {
		return Entry{}, &UnbalancedEntryError{Debits: debits, Credits: credits}
	}

	return Entry{Date: date, Description: description, Lines: lines}, nil
}
