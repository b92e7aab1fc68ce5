package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/openbooks/accounting/ledger"
	"github.com/openbooks/accounting/models"
)

// ClosingInput selects the period to close.
type ClosingInput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ClosePeriod generates and records closing entries
// @Summary      Close period
// @Description  Generate the closing entries that zero revenue and expense accounts into Income Summary and close Income Summary (and Dividends) into Retained Earnings. All entries commit atomically; the required accounts are verified before anything is written.
// @Tags         closing
// @Accept       json
// @Produce      json
// @Param        period  body      ClosingInput  true  "Period to close"
// @Success      201     {object}  Response{data=[]models.Transaction}
// @Failure      400     {object}  Response{error=string}
// @Failure      422     {object}  Response{error=string}
// @Router       /closing [post]
// @Security     BasicAuth
func ClosePeriod(w http.ResponseWriter, r *http.Request) {
	var input ClosingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	start, err := models.ParseDate(input.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be in YYYY-MM-DD format")
		return
	}
	end, err := models.ParseDate(input.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be in YYYY-MM-DD format")
		return
	}
	if end.Before(start.Time) {
		writeError(w, http.StatusBadRequest, "end must not precede start")
		return
	}
	period := ledger.Period{Start: start.Time, End: end.Time}

	accounts, err := loadAccounts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	txns, err := loadTransactions("")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Compute first, commit second: the entries are derived from a
	// consistent snapshot and written as one unit.
	entries, err := ledger.ClosePeriod(accounts, txns, period)
	var missing *ledger.MissingRequiredAccountError
	if errors.As(err, &missing) {
		writeError(w, http.StatusUnprocessableEntity, missing.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	var ids []int
	for _, entry := range entries {
		entryIDs, err := postEntry(tx, entry)
		if err != nil {
			status := http.StatusInternalServerError
			if err == sql.ErrNoRows {
				err = fmt.Errorf("account not found")
			}
			writeError(w, status, err.Error())
			return
		}
		ids = append(ids, entryIDs...)
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, fetchTransactions(ids))
}
