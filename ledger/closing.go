package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openbooks/accounting/models"
)

// Well-known account names located by case-insensitive substring
// match, following the convention of the chart of accounts.
const (
	incomeSummaryName    = "income summary"
	retainedEarningsName = "retained earnings"
	dividendsName        = "dividend"
)

// ClosePeriod generates the closing entries for a period in four
// ordered steps: revenue accounts to Income Summary, expense accounts
// to Income Summary, Income Summary to Retained Earnings, and
// Dividends to Retained Earnings. The required Income Summary and
// Retained Earnings accounts are checked before anything is generated;
// if either is missing no step runs and *MissingRequiredAccountError
// is returned.
//
// The function is pure: it returns balanced entries dated on the
// period end and never mutates its inputs. The caller is responsible
// for committing all returned entries atomically. Running it twice
// against an uncommitted snapshot generates duplicates.
func ClosePeriod(accounts []models.Account, transactions []models.Transaction, period Period) ([]Entry, error) {
	incomeSummary, okIS := findByName(accounts, incomeSummaryName)
	retainedEarnings, okRE := findByName(accounts, retainedEarningsName)
	if !okIS || !okRE {
		e := &MissingRequiredAccountError{}
		if !okIS {
			e.Missing = append(e.Missing, "Income Summary")
		}
		if !okRE {
			e.Missing = append(e.Missing, "Retained Earnings")
		}
		return nil, e
	}

	closeDate := models.Date{Time: period.End}
	var entries []Entry

	// Step 1: close revenue accounts to Income Summary.
	var revenueLines []Line
	totalRevenue := decimal.Zero
	for _, a := range accounts {
		if a.Type != models.TypeRevenue {
			continue
		}
		balance := ComputeBalance(a, transactions, period)
		if balance.IsZero() {
			continue
		}
		revenueLines = append(revenueLines, zeroingLine(a, balance))
		totalRevenue = totalRevenue.Add(balance)
	}
	if len(revenueLines) > 0 {
		// When the balances offset exactly the zeroing lines already
		// balance each other and Income Summary takes no line.
		lines := revenueLines
		if !totalRevenue.IsZero() {
			lines = append(lines, aggregateLine(incomeSummary, totalRevenue))
		}
		entry, err := NewEntry(closeDate, "Closing entry: revenue accounts to Income Summary", lines)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	// Step 2: close expense accounts to Income Summary.
	var expenseLines []Line
	totalExpenses := decimal.Zero
	for _, a := range accounts {
		if a.Type != models.TypeExpense {
			continue
		}
		balance := ComputeBalance(a, transactions, period)
		if balance.IsZero() {
			continue
		}
		expenseLines = append(expenseLines, zeroingLine(a, balance))
		totalExpenses = totalExpenses.Add(balance)
	}
	if len(expenseLines) > 0 {
		lines := expenseLines
		if !totalExpenses.IsZero() {
			lines = append(lines, aggregateLine(incomeSummary, totalExpenses.Neg()))
		}
		entry, err := NewEntry(closeDate, "Closing entry: expense accounts to Income Summary", lines)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	// Step 3: close Income Summary to Retained Earnings.
	netIncome := totalRevenue.Sub(totalExpenses)
	if !netIncome.IsZero() {
		isKind, reKind := models.Debit, models.Credit
		if netIncome.IsNegative() {
			isKind, reKind = models.Credit, models.Debit
		}
		entry, err := NewEntry(closeDate, "Closing entry: Income Summary to Retained Earnings", []Line{
			{AccountID: incomeSummary.ID, Amount: netIncome.Abs(), Kind: isKind},
			{AccountID: retainedEarnings.ID, Amount: netIncome.Abs(), Kind: reKind},
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	// Step 4: close Dividends to Retained Earnings, when present.
	if dividends, ok := findByName(accounts, dividendsName); ok {
		balance := ComputeBalance(dividends, transactions, period)
		if !balance.IsZero() {
			entry, err := NewEntry(closeDate, "Closing entry: Dividends to Retained Earnings", []Line{
				zeroingLine(dividends, balance),
				aggregateLine(retainedEarnings, balance),
			})
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// zeroingLine produces the line that brings a temporary account's
// period balance to zero: the reverse of its natural side for a
// positive balance, the natural side for a negative one.
func zeroingLine(a models.Account, balance decimal.Decimal) Line {
	kind := opposite(NaturalSide(a.Type))
	if balance.IsNegative() {
		kind = NaturalSide(a.Type)
	}
	return Line{AccountID: a.ID, Amount: balance.Abs(), Kind: kind}
}

// aggregateLine posts a signed total to an account: positive amounts
// on the account's natural side, negative on the opposite.
func aggregateLine(a models.Account, signed decimal.Decimal) Line {
	kind := NaturalSide(a.Type)
	if signed.IsNegative() {
		kind = opposite(kind)
	}
	return Line{AccountID: a.ID, Amount: signed.Abs(), Kind: kind}
}

func findByName(accounts []models.Account, substr string) (models.Account, bool) {
	for _, a := range accounts {
		if strings.Contains(strings.ToLower(a.Name), substr) {
			return a, true
		}
	}
	return models.Account{}, false
}
