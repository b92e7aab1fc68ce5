package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/accounting/models"
)

// applyEntries converts closing entries into posted transactions so
// tests can recompute balances as they would look after committing.
func applyEntries(entries []Entry, startID int) []models.Transaction {
	var txns []models.Transaction
	id := startID
	for _, e := range entries {
		for _, l := range e.Lines {
			txns = append(txns, models.Transaction{
				ID:          id,
				Date:        e.Date,
				Description: e.Description,
				AccountID:   l.AccountID,
				Amount:      l.Amount,
				Kind:        l.Kind,
			})
			id++
		}
	}
	return txns
}

func accountByName(t *testing.T, accounts []models.Account, name string) models.Account {
	t.Helper()
	for _, a := range accounts {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("no account named %q", name)
	return models.Account{}
}

func TestClosePeriod(t *testing.T) {
	accounts := testChart()
	txns := testTransactions()
	p := january()

	entries, err := ClosePeriod(accounts, txns, p)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Step 1: revenue to Income Summary. Sales carries a credit
	// balance of 1000, so it is debited and Income Summary credited.
	rev := entries[0]
	require.Len(t, rev.Lines, 2)
	assert.Equal(t, 6, rev.Lines[0].AccountID)
	assert.Equal(t, models.Debit, rev.Lines[0].Kind)
	assert.True(t, dec("1000").Equal(rev.Lines[0].Amount))
	assert.Equal(t, 5, rev.Lines[1].AccountID)
	assert.Equal(t, models.Credit, rev.Lines[1].Kind)

	// Step 2: expenses to Income Summary. Rent is credited 800 and
	// Income Summary debited.
	exp := entries[1]
	require.Len(t, exp.Lines, 2)
	assert.Equal(t, 7, exp.Lines[0].AccountID)
	assert.Equal(t, models.Credit, exp.Lines[0].Kind)
	assert.True(t, dec("800").Equal(exp.Lines[0].Amount))
	assert.Equal(t, 5, exp.Lines[1].AccountID)
	assert.Equal(t, models.Debit, exp.Lines[1].Kind)

	// Step 3: net income 200 moves from Income Summary to Retained
	// Earnings as a credit.
	net := entries[2]
	require.Len(t, net.Lines, 2)
	assert.Equal(t, 5, net.Lines[0].AccountID)
	assert.Equal(t, models.Debit, net.Lines[0].Kind)
	assert.True(t, dec("200").Equal(net.Lines[0].Amount))
	assert.Equal(t, 4, net.Lines[1].AccountID)
	assert.Equal(t, models.Credit, net.Lines[1].Kind)

	// All closing entries are dated on the period end.
	for _, e := range entries {
		assert.True(t, e.Date.Equal(date(2025, 1, 31).Time), "entry dated %s", e.Date)
	}
}

// After committing the closing entries, every temporary account reads
// zero for the closed period and retained earnings holds net income.
func TestClosePeriod_ZeroesTemporaryAccounts(t *testing.T) {
	accounts := testChart()
	txns := testTransactions()
	p := january()

	entries, err := ClosePeriod(accounts, txns, p)
	require.NoError(t, err)
	posted := append(txns, applyEntries(entries, 100)...)

	sales := accountByName(t, accounts, "Sales Revenue")
	rent := accountByName(t, accounts, "Rent Expense")
	is := accountByName(t, accounts, "Income Summary")
	re := accountByName(t, accounts, "Retained Earnings")

	assert.True(t, ComputeBalance(sales, posted, p).IsZero())
	assert.True(t, ComputeBalance(rent, posted, p).IsZero())
	assert.True(t, ComputeBalance(is, posted, p).IsZero())
	assert.True(t, dec("200").Equal(ComputeBalance(re, posted, p)))

	// The trial balance still balances after closing.
	tb := BuildTrialBalance(accounts, posted, p)
	assert.True(t, tb.Balanced)
}

func TestClosePeriod_NetLoss(t *testing.T) {
	accounts := testChart()
	// Expenses exceed revenue: 800 rent against 300 sales.
	txns := []models.Transaction{
		{ID: 1, Date: date(2025, 1, 15), AccountID: 1, Amount: dec("300"), Kind: models.Debit},
		{ID: 2, Date: date(2025, 1, 15), AccountID: 6, Amount: dec("300"), Kind: models.Credit},
		{ID: 3, Date: date(2025, 1, 20), AccountID: 7, Amount: dec("800"), Kind: models.Debit},
		{ID: 4, Date: date(2025, 1, 20), AccountID: 1, Amount: dec("800"), Kind: models.Credit},
	}
	p := january()

	entries, err := ClosePeriod(accounts, txns, p)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// A loss debits Retained Earnings.
	posted := append(txns, applyEntries(entries, 100)...)
	re := accountByName(t, accounts, "Retained Earnings")
	assert.True(t, dec("-500").Equal(ComputeBalance(re, posted, p)))
}

func TestClosePeriod_Dividends(t *testing.T) {
	accounts := append(testChart(), models.Account{
		ID: 8, Number: "3300", Name: "Dividends", Type: models.TypeEquity, OpeningBalance: decimal.Zero,
	})
	// Declare and pay a 50 dividend on top of the usual activity.
	txns := append(testTransactions(),
		models.Transaction{ID: 5, Date: date(2025, 1, 25), AccountID: 8, Amount: dec("50"), Kind: models.Debit},
		models.Transaction{ID: 6, Date: date(2025, 1, 25), AccountID: 1, Amount: dec("50"), Kind: models.Credit},
	)
	p := january()

	entries, err := ClosePeriod(accounts, txns, p)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	div := entries[3]
	require.Len(t, div.Lines, 2)
	assert.Equal(t, 8, div.Lines[0].AccountID)
	assert.Equal(t, models.Credit, div.Lines[0].Kind)
	assert.True(t, dec("50").Equal(div.Lines[0].Amount))
	assert.Equal(t, 4, div.Lines[1].AccountID)
	assert.Equal(t, models.Debit, div.Lines[1].Kind)

	posted := append(txns, applyEntries(entries, 100)...)
	assert.True(t, ComputeBalance(accounts[7], posted, p).IsZero(), "dividends must close to zero")
	re := accountByName(t, accounts, "Retained Earnings")
	assert.True(t, dec("150").Equal(ComputeBalance(re, posted, p)), "net income 200 less 50 dividends")
}

func TestClosePeriod_MissingRequiredAccounts(t *testing.T) {
	// Without Income Summary and Retained Earnings nothing is generated.
	var accounts []models.Account
	for _, a := range testChart() {
		if a.Name == "Income Summary" || a.Name == "Retained Earnings" {
			continue
		}
		accounts = append(accounts, a)
	}

	entries, err := ClosePeriod(accounts, testTransactions(), january())
	assert.Nil(t, entries)
	var mre *MissingRequiredAccountError
	require.ErrorAs(t, err, &mre)
	assert.ElementsMatch(t, []string{"Income Summary", "Retained Earnings"}, mre.Missing)
}

// Revenue balances that offset exactly still close: the zeroing lines
// balance each other and Income Summary takes no line.
func TestClosePeriod_OffsettingRevenue(t *testing.T) {
	accounts := append(testChart(), models.Account{
		ID: 8, Number: "4100", Name: "Sales Refunds", Type: models.TypeRevenue, OpeningBalance: decimal.Zero,
	})
	// A 100 sale fully refunded: Sales +100, Refunds -100.
	txns := []models.Transaction{
		{ID: 1, Date: date(2025, 1, 10), AccountID: 1, Amount: dec("100"), Kind: models.Debit},
		{ID: 2, Date: date(2025, 1, 10), AccountID: 6, Amount: dec("100"), Kind: models.Credit},
		{ID: 3, Date: date(2025, 1, 12), AccountID: 8, Amount: dec("100"), Kind: models.Debit},
		{ID: 4, Date: date(2025, 1, 12), AccountID: 1, Amount: dec("100"), Kind: models.Credit},
	}
	p := january()

	entries, err := ClosePeriod(accounts, txns, p)
	require.NoError(t, err)
	// One revenue entry, no net income to move.
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Lines, 2)
	for _, l := range entries[0].Lines {
		assert.NotEqual(t, 5, l.AccountID, "Income Summary takes no line when the step nets to zero")
	}

	posted := append(txns, applyEntries(entries, 100)...)
	sales := accountByName(t, accounts, "Sales Revenue")
	refunds := accountByName(t, accounts, "Sales Refunds")
	assert.True(t, ComputeBalance(sales, posted, p).IsZero())
	assert.True(t, ComputeBalance(refunds, posted, p).IsZero())
}

func TestClosePeriod_NoActivity(t *testing.T) {
	entries, err := ClosePeriod(testChart(), nil, january())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
