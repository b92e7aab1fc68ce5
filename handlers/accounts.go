package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/openbooks/accounting/ledger"
	"github.com/openbooks/accounting/models"
)

const accountSelectQuery = `SELECT id, number, name, description, type, opening_balance, balance, created_at, updated_at
	FROM accounts`

func scanAccount(scanner interface{ Scan(...any) error }) (models.Account, error) {
	var a models.Account
	err := scanner.Scan(&a.ID, &a.Number, &a.Name, &a.Description, &a.Type,
		&a.OpeningBalance, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// ListAccounts lists all accounts
// @Summary      List accounts
// @Description  Get the chart of accounts with running balances.
// @Tags         accounts
// @Produce      json
// @Param        search  query     string  false  "Search by name or number"
// @Param        type    query     string  false  "Filter by account type"
// @Success      200  {object}  Response{data=[]models.Account}
// @Router       /accounts [get]
// @Security     BasicAuth
func ListAccounts(w http.ResponseWriter, r *http.Request) {
	query := accountSelectQuery
	var conditions []string
	var args []any

	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "(name LIKE ? OR number LIKE ?)")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	if tp := r.URL.Query().Get("type"); tp != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, tp)
	}
	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY number"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		accounts = append(accounts, a)
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// GetAccount retrieves a single account by ID
// @Summary      Get account
// @Description  Get details and running balance of a specific account.
// @Tags         accounts
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  Response{data=models.Account}
// @Failure      404  {object}  Response{error=string}
// @Router       /accounts/{id} [get]
// @Security     BasicAuth
func GetAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	a, err := scanAccount(DB.QueryRow(accountSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateAccount creates a new account
// @Summary      Create account
// @Description  Create a new account in the chart of accounts.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        account  body      models.AccountInput  true  "Account contents"
// @Success      201      {object}  Response{data=models.Account}
// @Failure      400      {object}  Response{error=string}
// @Router       /accounts [post]
// @Security     BasicAuth
func CreateAccount(w http.ResponseWriter, r *http.Request) {
	var input models.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// A new account's running balance starts at its opening balance.
	var id int
	err := DB.QueryRow(`INSERT INTO accounts (number, name, description, type, opening_balance, balance)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		input.Number, input.Name, input.Description, input.Type,
		input.OpeningBalance, input.OpeningBalance).Scan(&id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a, err := scanAccount(DB.QueryRow(accountSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created account: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAccount updates an existing account
// @Summary      Update account
// @Description  Update account details. The account type is immutable. Changing the opening balance adjusts the running balance by the same delta.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Account ID"
// @Param        account  body      models.AccountInput true  "Updated account contents"
// @Success      200      {object}  Response{data=models.Account}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /accounts/{id} [put]
// @Security     BasicAuth
func UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var input models.AccountInput
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

	existing, err := scanAccount(tx.QueryRow(accountSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if input.Type != existing.Type {
		writeError(w, http.StatusBadRequest, "account type is immutable")
		return
	}

	// Re-base the running balance on the new opening balance so the
	// balance invariant (opening + sum of effects) holds.
	newBalance := existing.Balance.Sub(existing.OpeningBalance).Add(input.OpeningBalance)

	_, err = tx.Exec(`UPDATE accounts SET number = ?, name = ?, description = ?, opening_balance = ?,
		balance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.Number, input.Name, input.Description, input.OpeningBalance, newBalance, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a, err := scanAccount(DB.QueryRow(accountSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated account: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAccount deletes an account
// @Summary      Delete account
// @Description  Remove an account. Fails while transactions still reference it.
// @Tags         accounts
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /accounts/{id} [delete]
// @Security     BasicAuth
func DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var refs int
	DB.QueryRow("SELECT COUNT(*) FROM transactions WHERE account_id = ?", id).Scan(&refs)
	if refs > 0 {
		writeError(w, http.StatusConflict, "account has transactions and cannot be deleted")
		return
	}

	res, err := DB.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// GetAccountLedger retrieves the general-ledger view of one account
// @Summary      Get account ledger
// @Description  Get the account's transactions for a period with running balances.
// @Tags         accounts
// @Produce      json
// @Param        id    path      int     true   "Account ID"
// @Param        from  query     string  false  "Period start (YYYY-MM-DD)"
// @Param        to    query     string  false  "Period end (YYYY-MM-DD)"
// @Success      200   {object}  Response{data=ledger.AccountLedger}
// @Failure      404   {object}  Response{error=string}
// @Router       /accounts/{id}/ledger [get]
// @Security     BasicAuth
func GetAccountLedger(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	a, err := scanAccount(DB.QueryRow(accountSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	period, msg := periodFromQuery(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	txns, err := loadTransactions("WHERE t.account_id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ledger.BuildAccountLedger(a, txns, period))
}
