package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/openbooks/accounting/ledger"
	"github.com/openbooks/accounting/models"
)

// EntryInput is used for posting a balanced journal entry.
type EntryInput struct {
	Date        string        `json:"date"`
	Description string        `json:"description"`
	Lines       []ledger.Line `json:"lines"`
}

// CreateEntry posts a balanced journal entry
// @Summary      Create journal entry
// @Description  Post a balanced set of journal lines. Debits must equal credits; all lines and their balance effects commit atomically and share an entry reference.
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        entry  body      EntryInput  true  "Entry contents"
// @Success      201    {object}  Response{data=[]models.Transaction}
// @Failure      400    {object}  Response{error=string}
// @Failure      404    {object}  Response{error=string}
// @Router       /entries [post]
// @Security     BasicAuth
func CreateEntry(w http.ResponseWriter, r *http.Request) {
	var input EntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	date, err := models.ParseDate(input.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}
	if input.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	entry, err := ledger.NewEntry(date, input.Description, input.Lines)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	ids, err := postEntry(tx, entry)
	if err != nil {
		status := http.StatusInternalServerError
		if err == sql.ErrNoRows {
			status = http.StatusNotFound
			err = fmt.Errorf("account not found")
		}
		writeError(w, status, err.Error())
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, fetchTransactions(ids))
}

// postEntry inserts every line of a balanced entry and applies its
// balance effect inside the given transaction. Lines share a fresh
// entry reference. Returns the inserted row IDs.
func postEntry(tx *sql.Tx, entry ledger.Entry) ([]int, error) {
	ref := uuid.NewString()
	ids := make([]int, 0, len(entry.Lines))

	for _, line := range entry.Lines {
		account, err := scanAccount(tx.QueryRow(accountSelectQuery+" WHERE id = ?", line.AccountID))
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, err
			}
			return nil, fmt.Errorf("loading account %d: %w", line.AccountID, err)
		}

		var id int
		err = tx.QueryRow(`INSERT INTO transactions (date, description, account_id, amount, kind, entry_ref)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
			entry.Date, entry.Description, line.AccountID, line.Amount, line.Kind, ref).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("inserting line: %w", err)
		}
		ids = append(ids, id)

		if err := adjustBalance(tx, account.ID, ledger.SignedEffect(account.Type, line.Kind, line.Amount)); err != nil {
			return nil, fmt.Errorf("inconsistent ledger state: %w", err)
		}
	}
	return ids, nil
}

// fetchTransactions re-reads rows by ID for response bodies.
func fetchTransactions(ids []int) []models.Transaction {
	txns := make([]models.Transaction, 0, len(ids))
	for _, id := range ids {
		if t, err := scanTransaction(DB.QueryRow(txnSelectQuery+" WHERE t.id = ?", id)); err == nil {
			txns = append(txns, t)
		}
	}
	return txns
}
