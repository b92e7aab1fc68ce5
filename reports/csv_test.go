package reports

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/accounting/ledger"
	"github.com/openbooks/accounting/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteTrialBalanceCSV(t *testing.T) {
	tb := ledger.TrialBalance{
		Rows: []ledger.TrialBalanceRow{
			{Number: "1000", Name: "Cash", Type: models.TypeAsset, Debit: dec("10200"), Credit: decimal.Zero},
			{Number: "4000", Name: "Sales Revenue", Type: models.TypeRevenue, Debit: decimal.Zero, Credit: dec("1000")},
		},
		TotalDebit:  dec("10200"),
		TotalCredit: dec("1000"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTrialBalanceCSV(&buf, tb))

	records := parseCSV(t, &buf)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"account_number", "account_name", "debit", "credit"}, records[0])
	assert.Equal(t, []string{"1000", "Cash", "10200.00", ""}, records[1])
	assert.Equal(t, []string{"4000", "Sales Revenue", "", "1000.00"}, records[2])
	assert.Equal(t, []string{"", "Totals", "10200.00", "1000.00"}, records[3])
}

func TestWriteIncomeStatementCSV(t *testing.T) {
	is := ledger.IncomeStatement{
		Revenues:      []ledger.AccountAmount{{Name: "Sales Revenue", Amount: dec("1000")}},
		Expenses:      []ledger.AccountAmount{{Name: "Rent Expense", Amount: dec("800")}},
		TotalRevenue:  dec("1000"),
		TotalExpenses: dec("800"),
		NetIncome:     dec("200"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteIncomeStatementCSV(&buf, is))

	records := parseCSV(t, &buf)
	require.Len(t, records, 6)
	assert.Equal(t, []string{"revenue", "Sales Revenue", "1000.00"}, records[1])
	assert.Equal(t, []string{"revenue", "Total Revenue", "1000.00"}, records[2])
	assert.Equal(t, []string{"expense", "Rent Expense", "800.00"}, records[3])
	assert.Equal(t, []string{"expense", "Total Expenses", "800.00"}, records[4])
	assert.Equal(t, []string{"", "Net Income", "200.00"}, records[5])
}

func TestWriteBalanceSheetCSV(t *testing.T) {
	bs := ledger.BalanceSheet{
		Assets:           []ledger.AccountAmount{{Name: "Cash", Amount: dec("10200")}},
		Liabilities:      []ledger.AccountAmount{{Name: "Accounts Payable", Amount: dec("5000")}},
		Equity:           []ledger.AccountAmount{{Name: "Common Stock", Amount: dec("5000")}},
		NetIncome:        dec("200"),
		TotalAssets:      dec("10200"),
		TotalLiabilities: dec("5000"),
		TotalEquity:      dec("5200"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBalanceSheetCSV(&buf, bs))

	records := parseCSV(t, &buf)
	require.Len(t, records, 8)
	assert.Equal(t, []string{"assets", "Cash", "10200.00"}, records[1])
	assert.Equal(t, []string{"assets", "Total", "10200.00"}, records[2])
	assert.Equal(t, []string{"liabilities", "Accounts Payable", "5000.00"}, records[3])
	assert.Equal(t, []string{"liabilities", "Total", "5000.00"}, records[4])
	assert.Equal(t, []string{"equity", "Common Stock", "5000.00"}, records[5])
	assert.Equal(t, []string{"equity", "Net Income", "200.00"}, records[6])
	assert.Equal(t, []string{"equity", "Total", "5200.00"}, records[7])
}

func TestWriteGeneralLedgerCSV(t *testing.T) {
	txn := models.Transaction{
		ID:          1,
		Date:        models.NewDate(2025, 1, 15),
		Description: "Sale to customer",
		AccountID:   1,
		Amount:      dec("1000"),
		Kind:        models.Debit,
	}
	ledgers := []ledger.AccountLedger{
		{
			Number:  "1000",
			Name:    "Cash",
			Type:    models.TypeAsset,
			Opening: dec("10000"),
			Lines:   []ledger.LedgerLine{{Transaction: txn, Balance: dec("11000")}},
			Closing: dec("11000"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGeneralLedgerCSV(&buf, ledgers))

	records := parseCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"1000", "Cash", "", "Opening balance", "", "", "10000.00"}, records[1])
	assert.Equal(t, []string{"1000", "Cash", "2025-01-15", "Sale to customer", "1000.00", "", "11000.00"}, records[2])
}
