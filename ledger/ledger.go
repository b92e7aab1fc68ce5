// Package ledger implements the double-entry computation engine:
// balance derivation, trial balance and statement building, and
// period-closing entry generation. Every function is a pure
// computation over in-memory accounts and transactions; persistence
// and transport live elsewhere.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/accounting/models"
)

// epsilon absorbs rounding when comparing report totals.
var epsilon = decimal.New(1, -2) // 0.01

// Period is an inclusive [Start, End] date window.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period, bounds included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// NaturalSide returns the entry kind that increases an account of the
// given type: debit for asset/expense, credit for the rest.
func NaturalSide(t models.AccountType) models.EntryKind {
	switch t {
	case models.TypeAsset, models.TypeExpense:
		return models.Debit
	case models.TypeLiability, models.TypeEquity, models.TypeRevenue:
		return models.Credit
	}
	return ""
}

// ValidateEntryKind checks a transaction kind against the natural side
// of the account type. The caller decides whether a violation is a
// hard rejection or advisory; posting against natural side is normal
// for the far leg of a balanced entry.
func ValidateEntryKind(accountType models.AccountType, kind models.EntryKind) error {
	if NaturalSide(accountType) != kind {
		return &InvalidEntryTypeError{AccountType: accountType, Kind: kind}
	}
	return nil
}

// SignedEffect returns the amount a single transaction line adds to
// the balance of an account of the given type: positive when the line
// is on the account's natural side, negative otherwise.
func SignedEffect(accountType models.AccountType, kind models.EntryKind, amount decimal.Decimal) decimal.Decimal {
	if NaturalSide(accountType) == kind {
		return amount
	}
	return amount.Neg()
}

// ComputeBalance derives the signed balance of one account over a
// period: opening balance plus the signed effect of every in-period
// transaction referencing the account.
func ComputeBalance(account models.Account, transactions []models.Transaction, period Period) decimal.Decimal {
	balance := account.OpeningBalance
	for _, t := range transactions {
		if t.AccountID != account.ID || !period.Contains(t.Date.Time) {
			continue
		}
		balance = balance.Add(SignedEffect(account.Type, t.Kind, t.Amount))
	}
	return balance
}
