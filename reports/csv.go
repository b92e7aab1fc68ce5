// Package reports renders statement-builder output to flat delimited
// text for export.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/openbooks/accounting/ledger"
	"github.com/openbooks/accounting/models"
)

// WriteTrialBalanceCSV renders a trial balance with one row per
// account and a totals row.
func WriteTrialBalanceCSV(w io.Writer, tb ledger.TrialBalance) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_number", "account_name", "debit", "credit"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range tb.Rows {
		debit, credit := "", ""
		if row.Debit.IsPositive() {
			debit = row.Debit.StringFixed(2)
		}
		if row.Credit.IsPositive() {
			credit = row.Credit.StringFixed(2)
		}
		if err := cw.Write([]string{row.Number, row.Name, debit, credit}); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := cw.Write([]string{"", "Totals", tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}
	return cw.Error()
}

// WriteIncomeStatementCSV renders revenue and expense sections with
// their totals and net income.
func WriteIncomeStatementCSV(w io.Writer, is ledger.IncomeStatement) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"section", "account", "amount"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range is.Revenues {
		if err := cw.Write([]string{"revenue", r.Name, r.Amount.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := cw.Write([]string{"revenue", "Total Revenue", is.TotalRevenue.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}
	for _, e := range is.Expenses {
		if err := cw.Write([]string{"expense", e.Name, e.Amount.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := cw.Write([]string{"expense", "Total Expenses", is.TotalExpenses.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}
	if err := cw.Write([]string{"", "Net Income", is.NetIncome.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing net income: %w", err)
	}
	return cw.Error()
}

// WriteBalanceSheetCSV renders asset, liability, and equity sections
// with totals. Net income appears as an equity line.
func WriteBalanceSheetCSV(w io.Writer, bs ledger.BalanceSheet) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"section", "account", "amount"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	sections := []struct {
		name  string
		rows  []ledger.AccountAmount
		total string
	}{
		{"assets", bs.Assets, bs.TotalAssets.StringFixed(2)},
		{"liabilities", bs.Liabilities, bs.TotalLiabilities.StringFixed(2)},
	}
	for _, s := range sections {
		for _, r := range s.rows {
			if err := cw.Write([]string{s.name, r.Name, r.Amount.StringFixed(2)}); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
		if err := cw.Write([]string{s.name, "Total", s.total}); err != nil {
			return fmt.Errorf("writing totals: %w", err)
		}
	}

	for _, r := range bs.Equity {
		if err := cw.Write([]string{"equity", r.Name, r.Amount.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := cw.Write([]string{"equity", "Net Income", bs.NetIncome.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing net income: %w", err)
	}
	if err := cw.Write([]string{"equity", "Total", bs.TotalEquity.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}
	return cw.Error()
}

// WriteGeneralLedgerCSV renders every account's lines with running
// balances.
func WriteGeneralLedgerCSV(w io.Writer, ledgers []ledger.AccountLedger) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_number", "account_name", "date", "description", "debit", "credit", "balance"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, al := range ledgers {
		if err := cw.Write([]string{al.Number, al.Name, "", "Opening balance", "", "", al.Opening.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing opening row: %w", err)
		}
		for _, line := range al.Lines {
			t := line.Transaction
			debit, credit := "", ""
			if t.Kind == models.Debit {
				debit = t.Amount.StringFixed(2)
			} else {
				credit = t.Amount.StringFixed(2)
			}
			if err := cw.Write([]string{al.Number, al.Name, t.Date.String(), t.Description, debit, credit, line.Balance.StringFixed(2)}); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
	}
	return cw.Error()
}
