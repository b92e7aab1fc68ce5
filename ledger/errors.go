package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openbooks/accounting/models"
)

// InvalidEntryTypeError reports a transaction kind that violates the
// natural-side rule for the account's type.
type InvalidEntryTypeError struct {
	AccountType models.AccountType
	Kind        models.EntryKind
}

func (e *InvalidEntryTypeError) Error() string {
	return fmt.Sprintf("invalid %s entry for %s account (natural side is %s)",
		e.Kind, e.AccountType, NaturalSide(e.AccountType))
}

// MissingRequiredAccountError reports accounts that must exist before
// a period can be closed.
type MissingRequiredAccountError struct {
	Missing []string
}

func (e *MissingRequiredAccountError) Error() string {
	return "closing requires missing account(s): " + strings.Join(e.Missing, ", ")
}

// UnbalancedEntryError reports a journal entry whose debit and credit
// lines do not sum to the same total.
type UnbalancedEntryError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("entry does not balance: debits %s != credits %s",
		e.Debits.StringFixed(2), e.Credits.StringFixed(2))
}

// AmountError reports a zero or negative line amount.
type AmountError struct {
	Amount decimal.Decimal
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("line amount must be positive, got %s", e.Amount)
}
