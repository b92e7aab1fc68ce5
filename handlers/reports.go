package handlers

import (
	"net/http"

	"github.com/openbooks/accounting/ledger"
	"github.com/openbooks/accounting/models"
	"github.com/openbooks/accounting/reports"
)

// snapshot loads the full chart of accounts and ledger for report
// building.
func snapshot() ([]models.Account, []models.Transaction, error) {
	accounts, err := loadAccounts()
	if err != nil {
		return nil, nil, err
	}
	txns, err := loadTransactions("")
	if err != nil {
		return nil, nil, err
	}
	return accounts, txns, nil
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

func writeCSV(w http.ResponseWriter, filename string, render func() error) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := render(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// GetTrialBalance builds the trial balance report
// @Summary      Trial balance
// @Description  Every account's period balance split into debit/credit columns, with totals and the balance check.
// @Tags         reports
// @Produce      json
// @Produce      text/csv
// @Param        from    query     string  false  "Period start (YYYY-MM-DD)"
// @Param        to      query     string  false  "Period end (YYYY-MM-DD)"
// @Param        format  query     string  false  "Set to csv for CSV output"
// @Success      200     {object}  Response{data=ledger.TrialBalance}
// @Router       /reports/trial-balance [get]
// @Security     BasicAuth
func GetTrialBalance(w http.ResponseWriter, r *http.Request) {
	period, msg := periodFromQuery(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	accounts, txns, err := snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	tb := ledger.BuildTrialBalance(accounts, txns, period)
	if wantsCSV(r) {
		writeCSV(w, "trial-balance.csv", func() error { return reports.WriteTrialBalanceCSV(w, tb) })
		return
	}
	writeJSON(w, http.StatusOK, tb)
}

// GetIncomeStatement builds the income statement
// @Summary      Income statement
// @Description  Revenue and expense accounts for the period with totals and net income.
// @Tags         reports
// @Produce      json
// @Produce      text/csv
// @Param        from    query     string  false  "Period start (YYYY-MM-DD)"
// @Param        to      query     string  false  "Period end (YYYY-MM-DD)"
// @Param        format  query     string  false  "Set to csv for CSV output"
// @Success      200     {object}  Response{data=ledger.IncomeStatement}
// @Router       /reports/income-statement [get]
// @Security     BasicAuth
func GetIncomeStatement(w http.ResponseWriter, r *http.Request) {
	period, msg := periodFromQuery(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	accounts, txns, err := snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	is := ledger.BuildIncomeStatement(accounts, txns, period)
	if wantsCSV(r) {
		writeCSV(w, "income-statement.csv", func() error { return reports.WriteIncomeStatementCSV(w, is) })
		return
	}
	writeJSON(w, http.StatusOK, is)
}

// GetBalanceSheet builds the balance sheet
// @Summary      Balance sheet
// @Description  Asset, liability, and equity sections as of the period end, with net income folded into equity.
// @Tags         reports
// @Produce      json
// @Produce      text/csv
// @Param        from    query     string  false  "Period start (YYYY-MM-DD)"
// @Param        to      query     string  false  "Period end (YYYY-MM-DD)"
// @Param        format  query     string  false  "Set to csv for CSV output"
// @Success      200     {object}  Response{data=ledger.BalanceSheet}
// @Router       /reports/balance-sheet [get]
// @Security     BasicAuth
func GetBalanceSheet(w http.ResponseWriter, r *http.Request) {
	period, msg := periodFromQuery(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	accounts, txns, err := snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	bs := ledger.BuildBalanceSheet(accounts, txns, period)
	if wantsCSV(r) {
		writeCSV(w, "balance-sheet.csv", func() error { return reports.WriteBalanceSheetCSV(w, bs) })
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

// GetGeneralLedger builds the general ledger report
// @Summary      General ledger
// @Description  Per-account chronological transaction listings with running balances.
// @Tags         reports
// @Produce      json
// @Produce      text/csv
// @Param        from    query     string  false  "Period start (YYYY-MM-DD)"
// @Param        to      query     string  false  "Period end (YYYY-MM-DD)"
// @Param        format  query     string  false  "Set to csv for CSV output"
// @Success      200     {object}  Response{data=[]ledger.AccountLedger}
// @Router       /reports/general-ledger [get]
// @Security     BasicAuth
func GetGeneralLedger(w http.ResponseWriter, r *http.Request) {
	period, msg := periodFromQuery(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	accounts, txns, err := snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	gl := ledger.BuildGeneralLedger(accounts, txns, period)
	if wantsCSV(r) {
		writeCSV(w, "general-ledger.csv", func() error { return reports.WriteGeneralLedgerCSV(w, gl) })
		return
	}
	writeJSON(w, http.StatusOK, gl)
}
