package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/openbooks/accounting/models"
)

// TrialBalanceRow is one account's period balance split into a debit
// or a credit column. Exactly one of the two columns is nonzero.
type TrialBalanceRow struct {
	AccountID int                `json:"account_id"`
	Number    string             `json:"number"`
	Name      string             `json:"name"`
	Type      models.AccountType `json:"type"`
	Debit     decimal.Decimal    `json:"debit"`
	Credit    decimal.Decimal    `json:"credit"`
}

// TrialBalance lists every account's balance in debit/credit columns
// with column totals and the balance check.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Balanced    bool              `json:"balanced"`
}

// BuildTrialBalance computes each account's period balance and splits
// it into columns by the account's natural side: a positive balance
// lands on the natural side, a negative one on the opposite side as
// its absolute value.
func BuildTrialBalance(accounts []models.Account, transactions []models.Transaction, period Period) TrialBalance {
	tb := TrialBalance{
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, a := range accounts {
		balance := ComputeBalance(a, transactions, period)
		row := TrialBalanceRow{
			AccountID: a.ID,
			Number:    a.Number,
			Name:      a.Name,
			Type:      a.Type,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
		}

		natural := NaturalSide(a.Type)
		side := natural
		if balance.IsNegative() {
			side = opposite(natural)
		}
		if side == models.Debit {
			row.Debit = balance.Abs()
		} else {
			row.Credit = balance.Abs()
		}

		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}

	tb.Balanced = tb.TotalDebit.Sub(tb.TotalCredit).Abs().LessThan(epsilon)
	return tb
}

func opposite(k models.EntryKind) models.EntryKind {
	if k == models.Debit {
		return models.Credit
	}
	return models.Debit
}

// AccountAmount is an account with its net period amount, used in the
// statement sections.
type AccountAmount struct {
	AccountID int             `json:"account_id"`
	Number    string          `json:"number"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeStatement summarizes revenue and expense accounts for a period.
type IncomeStatement struct {
	Revenues      []AccountAmount `json:"revenues"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

// BuildIncomeStatement derives revenue and expense totals and net
// income from period balances.
func BuildIncomeStatement(accounts []models.Account, transactions []models.Transaction, period Period) IncomeStatement {
	is := IncomeStatement{
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, a := range accounts {
		switch a.Type {
		case models.TypeRevenue:
			balance := ComputeBalance(a, transactions, period)
			is.Revenues = append(is.Revenues, accountAmount(a, balance))
			is.TotalRevenue = is.TotalRevenue.Add(balance)
		case models.TypeExpense:
			balance := ComputeBalance(a, transactions, period)
			is.Expenses = append(is.Expenses, accountAmount(a, balance))
			is.TotalExpenses = is.TotalExpenses.Add(balance)
		}
	}

	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses)
	return is
}

// BalanceSheet summarizes asset, liability, and equity accounts as of
// the period end. Net income for the period is folded into equity as
// unposted retained earnings. The accounting equation (assets =
// liabilities + equity) is reported, not enforced.
type BalanceSheet struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	NetIncome        decimal.Decimal `json:"net_income"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
	Balanced         bool            `json:"balanced"`
}

// BuildBalanceSheet derives the balance sheet sections from period
// balances, adding the income statement's net income to total equity.
func BuildBalanceSheet(accounts []models.Account, transactions []models.Transaction, period Period) BalanceSheet {
	bs := BalanceSheet{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}

	for _, a := range accounts {
		balance := ComputeBalance(a, transactions, period)
		switch a.Type {
		case models.TypeAsset:
			bs.Assets = append(bs.Assets, accountAmount(a, balance))
			bs.TotalAssets = bs.TotalAssets.Add(balance)
		case models.TypeLiability:
			bs.Liabilities = append(bs.Liabilities, accountAmount(a, balance))
			bs.TotalLiabilities = bs.TotalLiabilities.Add(balance)
		case models.TypeEquity:
			bs.Equity = append(bs.Equity, accountAmount(a, balance))
			bs.TotalEquity = bs.TotalEquity.Add(balance)
		}
	}

	is := BuildIncomeStatement(accounts, transactions, period)
	bs.NetIncome = is.NetIncome
	bs.TotalEquity = bs.TotalEquity.Add(is.NetIncome)
	bs.Balanced = bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalEquity)).Abs().LessThan(epsilon)
	return bs
}

func accountAmount(a models.Account, amount decimal.Decimal) AccountAmount {
	return AccountAmount{AccountID: a.ID, Number: a.Number, Name: a.Name, Amount: amount}
}

// LedgerLine is one transaction in a general-ledger listing with the
// running balance after it was applied.
type LedgerLine struct {
	Transaction models.Transaction `json:"transaction"`
	Balance     decimal.Decimal    `json:"balance"`
}

// AccountLedger is the general-ledger view of one account for a
// period: opening balance, chronological lines, closing balance.
type AccountLedger struct {
	AccountID int                `json:"account_id"`
	Number    string             `json:"number"`
	Name      string             `json:"name"`
	Type      models.AccountType `json:"type"`
	Opening   decimal.Decimal    `json:"opening"`
	Lines     []LedgerLine       `json:"lines"`
	Closing   decimal.Decimal    `json:"closing"`
}

// BuildAccountLedger produces the general-ledger view for a single
// account, lines ordered by date then ID.
func BuildAccountLedger(account models.Account, transactions []models.Transaction, period Period) AccountLedger {
	al := AccountLedger{
		AccountID: account.ID,
		Number:    account.Number,
		Name:      account.Name,
		Type:      account.Type,
		Opening:   account.OpeningBalance,
	}

	var matched []models.Transaction
	for _, t := range transactions {
		if t.AccountID == account.ID && period.Contains(t.Date.Time) {
			matched = append(matched, t)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date.Time) {
			return matched[i].Date.Before(matched[j].Date.Time)
		}
		return matched[i].ID < matched[j].ID
	})

	running := account.OpeningBalance
	for _, t := range matched {
		running = running.Add(SignedEffect(account.Type, t.Kind, t.Amount))
		al.Lines = append(al.Lines, LedgerLine{Transaction: t, Balance: running})
	}
	al.Closing = running
	return al
}

// BuildGeneralLedger produces the general-ledger view for every
// account.
func BuildGeneralLedger(accounts []models.Account, transactions []models.Transaction, period Period) []AccountLedger {
	ledgers := make([]AccountLedger, 0, len(accounts))
	for _, a := range accounts {
		ledgers = append(ledgers, BuildAccountLedger(a, transactions, period))
	}
	return ledgers
}
