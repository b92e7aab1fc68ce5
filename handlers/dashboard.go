package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/openbooks/accounting/ledger"
)

type dashboardData struct {
	TotalAccounts     int `json:"total_accounts"`
	TotalTransactions int `json:"total_transactions"`

	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
	NetIncome        decimal.Decimal `json:"net_income"`
	EquationBalanced bool            `json:"equation_balanced"`

	RecentTransactions []recentTransaction `json:"recent_transactions"`
}

type recentTransaction struct {
	ID          int    `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	AccountName string `json:"account_name"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
}

// GetDashboard retrieves dashboard summary statistics
// @Summary      Get dashboard
// @Description  Counts, ledger-to-date statement totals, the accounting-equation check, and recent transactions.
// @Tags         dashboard
// @Produce      json
// @Param        from  query     string  false  "Period start (YYYY-MM-DD)"
// @Param        to    query     string  false  "Period end (YYYY-MM-DD)"
// @Success      200   {object}  Response{data=dashboardData}
// @Router       /dashboard [get]
// @Security     BasicAuth
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	period, msg := periodFromQuery(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var d dashboardData
	DB.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&d.TotalAccounts)
	DB.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&d.TotalTransactions)

	accounts, txns, err := snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	bs := ledger.BuildBalanceSheet(accounts, txns, period)
	d.TotalAssets = bs.TotalAssets
	d.TotalLiabilities = bs.TotalLiabilities
	d.TotalEquity = bs.TotalEquity
	d.NetIncome = bs.NetIncome
	d.EquationBalanced = bs.Balanced

	rows, err := DB.Query(txnSelectQuery + " ORDER BY t.created_at DESC, t.id DESC LIMIT 5")
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			t, err := scanTransaction(rows)
			if err != nil {
				continue
			}
			d.RecentTransactions = append(d.RecentTransactions, recentTransaction{
				ID:          t.ID,
				Date:        t.Date.String(),
				Description: t.Description,
				AccountName: t.AccountName,
				Amount:      t.Amount.StringFixed(2),
				Kind:        string(t.Kind),
			})
		}
	}
	if d.RecentTransactions == nil {
		d.RecentTransactions = []recentTransaction{}
	}

	writeJSON(w, http.StatusOK, d)
}
