package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/novamfg/ledger/models"
)

const accountSelectQuery = `SELECT id, code, name, account_type, account_type_group, normal_balance, status, current_balance, created_at, updated_at
	FROM accounts`

func scanAccount(scanner interface{ Scan(...any) error }) (models.Account, error) {
	var a models.Account
	var cached sql.NullInt64
	err := scanner.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.TypeGroup, &a.NormalBalance,
		&a.Status, &cached, &a.CreatedAt, &a.UpdatedAt)
	if cached.Valid {
		balance := models.FromMinorUnits(cached.Int64)
		a.CurrentBalance = &balance
	}
	return a, err
}

// ListAccounts lists chart-of-accounts entries
// @Summary      List accounts
// @Description  Get chart-of-accounts entries, filterable by type, group, and status for categorized pickers.
// @Tags         accounts
// @Produce      json
// @Param        type    query     string  false  "Filter by account type"
// @Param        group   query     string  false  "Filter by account type group"
// @Param        status  query     string  false  "Filter by status (active, inactive)"
// @Param        search  query     string  false  "Search by name"
// @Success      200     {object}  Response{data=[]models.Account}
// @Router       /accounts [get]
// @Security     BasicAuth
func ListAccounts(w http.ResponseWriter, r *http.Request) {
	query := accountSelectQuery
	var conditions []string
	var args []any

	if tp := r.URL.Query().Get("type"); tp != "" {
		conditions = append(conditions, "account_type = ?")
		args = append(args, tp)
	}
	if g := r.URL.Query().Get("group"); g != "" {
		conditions = append(conditions, "account_type_group = ?")
		args = append(args, g)
	}
	if st := r.URL.Query().Get("status"); st != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, st)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+search+"%")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY code, name"

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
// @Description  Get details and classification of a specific account.
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
// @Description  Create a chart-of-accounts entry. Type group and normal balance are derived from the account type, never accepted as input.
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

	group, normal, err := models.Classify(input.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := input.Status
	if status == "" {
		status = models.StatusActive
	}
	var cached *int64
	if input.Type.HasCachedBalance() {
		zero := int64(0)
		cached = &zero
	}

	var id int
	err = DB.QueryRow(`INSERT INTO accounts (code, name, account_type, account_type_group, normal_balance, status, current_balance)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		input.Code, input.Name, input.Type, group, normal, status, cached).Scan(&id)
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
// @Description  Update an account; classification is recomputed from the new type.
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

	group, normal, err := models.Classify(input.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := input.Status
	if status == "" {
		status = models.StatusActive
	}

	res, err := DB.Exec(`UPDATE accounts SET code = ?, name = ?, account_type = ?, account_type_group = ?,
		normal_balance = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		input.Code, input.Name, input.Type, group, normal, status, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	// A type change can move the account into or out of the cached set.
	if input.Type.HasCachedBalance() {
		if _, err := Cache.Repair(id); err != nil {
			writeLedgerError(w, err)
			return
		}
	} else {
		if _, err := DB.Exec("UPDATE accounts SET current_balance = NULL WHERE id = ?", id); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	a, err := scanAccount(DB.QueryRow(accountSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch updated account: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeactivateAccount deactivates an account
// @Summary      Deactivate account
// @Description  Mark an account inactive. Inactive accounts reject new postings but keep their history.
// @Tags         accounts
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  Response{data=models.Account}
// @Failure      404  {object}  Response{error=string}
// @Router       /accounts/{id}/deactivate [post]
// @Security     BasicAuth
func DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	res, err := DB.Exec("UPDATE accounts SET status = 'inactive', updated_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}

	a, err := scanAccount(DB.QueryRow(accountSelectQuery+" WHERE id = ?", id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAccount deletes an unreferenced account
// @Summary      Delete account
// @Description  Remove an account that no transaction line references. Referenced accounts must be deactivated instead.
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
	if err := DB.QueryRow("SELECT COUNT(*) FROM transaction_lines WHERE account_id = ?", id).Scan(&refs); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if refs > 0 {
		writeError(w, http.StatusConflict, "account has transaction lines; deactivate it instead")
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

// ReconcileAccount checks a cached balance against the ledger
// @Summary      Reconcile cached balance
// @Description  Compare the cached current balance of a bank/cash/petty-cash account with the balance derived from the transaction log. Pass fix=true to rewrite a drifted cache.
// @Tags         accounts
// @Produce      json
// @Param        id   path      int     true   "Account ID"
// @Param        fix  query     bool    false  "Repair the cached balance when drifted"
// @Success      200  {object}  Response{data=ledger.ReconcileResult}
// @Failure      400  {object}  Response{error=string}
// @Failure      404  {object}  Response{error=string}
// @Router       /accounts/{id}/reconcile [get]
// @Security     BasicAuth
func ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	if r.URL.Query().Get("fix") == "true" {
		result, err := Cache.Repair(id)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := Cache.ReconcileAccount(id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
