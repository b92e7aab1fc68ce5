package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openbooks/accounting/ledger"
	"github.com/openbooks/accounting/models"
)

// ListTransactions lists all transactions
// @Summary      List transactions
// @Description  Get journal lines, optionally filtered by account, kind, and date range.
// @Tags         transactions
// @Produce      json
// @Param        account_id  query     int     false  "Filter by account"
// @Param        kind        query     string  false  "Filter by kind (debit/credit)"
// @Param        from        query     string  false  "Earliest date (YYYY-MM-DD)"
// @Param        to          query     string  false  "Latest date (YYYY-MM-DD)"
// @Success      200         {object}  Response{data=[]models.Transaction}
// @Router       /transactions [get]
// @Security     BasicAuth
func ListTransactions(w http.ResponseWriter, r *http.Request) {
	var conditions []string
	var args []any

	if aid := r.URL.Query().Get("account_id"); aid != "" {
		conditions = append(conditions, "t.account_id = ?")
		args = append(args, aid)
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		conditions = append(conditions, "t.kind = ?")
		args = append(args, kind)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		conditions = append(conditions, "t.date >= ?")
		args = append(args, from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		conditions = append(conditions, "t.date <= ?")
		args = append(args, to)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	txns, err := loadTransactions(where, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

// GetTransaction retrieves a single transaction by ID
// @Summary      Get transaction
// @Description  Get details of a specific journal line.
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  Response{data=models.Transaction}
// @Failure      404  {object}  Response{error=string}
// @Router       /transactions/{id} [get]
// @Security     BasicAuth
func GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	t, err := scanTransaction(DB.QueryRow(txnSelectQuery+" WHERE t.id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTransaction creates a new transaction
// @Summary      Create transaction
// @Description  Record a journal line. The row insert and the account balance effect commit atomically.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        transaction  body      models.TransactionInput  true  "Transaction contents"
// @Success      201          {object}  Response{data=models.Transaction}
// @Failure      400          {object}  Response{error=string}
// @Failure      404          {object}  Response{error=string}
// @Router       /transactions [post]
// @Security     BasicAuth
func CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var input models.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	account, err := scanAccount(tx.QueryRow(accountSelectQuery+" WHERE id = ?", input.AccountID))
	if err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	if kindErr := ledger.ValidateEntryKind(account.Type, input.Kind); kindErr != nil {
		if StrictPosting {
			writeError(w, http.StatusBadRequest, kindErr.Error())
			return
		}
		slog.Warn("posting against natural side",
			"account", account.Name, "type", account.Type, "kind", input.Kind)
	}

	var id int
	err = tx.QueryRow(`INSERT INTO transactions (date, description, account_id, amount, kind)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		input.Date, input.Description, input.AccountID, input.Amount, input.Kind).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := adjustBalance(tx, account.ID, ledger.SignedEffect(account.Type, input.Kind, input.Amount)); err != nil {
		writeError(w, http.StatusInternalServerError, "inconsistent ledger state: "+err.Error())
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	t, _ := scanTransaction(DB.QueryRow(txnSelectQuery+" WHERE t.id = ?", id))
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTransaction updates an existing transaction
// @Summary      Update transaction
// @Description  Update a journal line. The prior effect on the account balance is reversed and the new one applied in a single atomic unit. The referenced account cannot change.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id           path      int                      true  "Transaction ID"
// @Param        transaction  body      models.TransactionInput  true  "Updated transaction contents"
// @Success      200          {object}  Response{data=models.Transaction}
// @Failure      400          {object}  Response{error=string}
// @Failure      404          {object}  Response{error=string}
// @Router       /transactions/{id} [put]
// @Security     BasicAuth
func UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	// The prior line must exist so its effect can be reversed before
	// the new one is applied; otherwise the running balance corrupts.
	prior, err := scanTransaction(tx.QueryRow(txnSelectQuery+" WHERE t.id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if input.AccountID != prior.AccountID {
		writeError(w, http.StatusBadRequest, "account_id cannot be changed; delete and recreate instead")
		return
	}

	account, err := scanAccount(tx.QueryRow(accountSelectQuery+" WHERE id = ?", prior.AccountID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "inconsistent ledger state: account missing")
		return
	}

	if kindErr := ledger.ValidateEntryKind(account.Type, input.Kind); kindErr != nil {
		if StrictPosting {
			writeError(w, http.StatusBadRequest, kindErr.Error())
			return
		}
		slog.Warn("posting against natural side",
			"account", account.Name, "type", account.Type, "kind", input.Kind)
	}

	_, err = tx.Exec(`UPDATE transactions SET date = ?, description = ?, amount = ?, kind = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.Date, input.Description, input.Amount, input.Kind, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Reverse the old effect, then apply the new one.
	delta := ledger.SignedEffect(account.Type, prior.Kind, prior.Amount).Neg().
		Add(ledger.SignedEffect(account.Type, input.Kind, input.Amount))
	if err := adjustBalance(tx, account.ID, delta); err != nil {
		writeError(w, http.StatusInternalServerError, "inconsistent ledger state: "+err.Error())
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	t, _ := scanTransaction(DB.QueryRow(txnSelectQuery+" WHERE t.id = ?", id))
	writeJSON(w, http.StatusOK, t)
}

// DeleteTransaction deletes a transaction
// @Summary      Delete transaction
// @Description  Remove a journal line, reversing its effect on the account balance atomically.
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /transactions/{id} [delete]
// @Security     BasicAuth
func DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	tx, err := DB.Begin()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer tx.Rollback()

	prior, err := scanTransaction(tx.QueryRow(txnSelectQuery+" WHERE t.id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	account, err := scanAccount(tx.QueryRow(accountSelectQuery+" WHERE id = ?", prior.AccountID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "inconsistent ledger state: account missing")
		return
	}

	if _, err := tx.Exec("DELETE FROM transactions WHERE id = ?", id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := adjustBalance(tx, account.ID, ledger.SignedEffect(account.Type, prior.Kind, prior.Amount).Neg()); err != nil {
		writeError(w, http.StatusInternalServerError, "inconsistent ledger state: "+err.Error())
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
