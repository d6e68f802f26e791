package handlers

import (
	"net/http"
	"strconv"
	"time"
)

// GetBalanceSheet builds the balance sheet report
// @Summary      Balance sheet
// @Description  Assets, liabilities, and equity balances as of a date, with net income as retained earnings and an accounting-equation check. An unbalanced sheet is reported with its discrepancy, not suppressed.
// @Tags         reports
// @Produce      json
// @Param        as_of    query     string  false  "Statement date (YYYY-MM-DD), defaults to today"
// @Param        compare  query     string  false  "Optional comparison date (YYYY-MM-DD)"
// @Success      200      {object}  Response{data=models.BalanceSheet}
// @Failure      400      {object}  Response{error=string}
// @Router       /reports/balance-sheet [get]
// @Security     BasicAuth
func GetBalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf := r.URL.Query().Get("as_of")
	if asOf == "" {
		asOf = time.Now().Format("2006-01-02")
	}
	var compare *string
	if c := r.URL.Query().Get("compare"); c != "" {
		compare = &c
	}

	sheet, err := Sheets.Build(asOf, compare)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

// GetAccountStatement builds the account statement report
// @Summary      Account statement
// @Description  Opening balance, ordered transactions with running balances, and closing balance for one account over a date range.
// @Tags         reports
// @Produce      json
// @Param        account_id  query     int     true  "Account ID"
// @Param        from        query     string  true  "Period start (YYYY-MM-DD)"
// @Param        to          query     string  true  "Period end (YYYY-MM-DD)"
// @Success      200         {object}  Response{data=models.AccountStatement}
// @Failure      400         {object}  Response{error=string}
// @Failure      404         {object}  Response{error=string}
// @Router       /reports/account-statement [get]
// @Security     BasicAuth
func GetAccountStatement(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.Atoi(r.URL.Query().Get("account_id"))
	if err != nil || accountID <= 0 {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required (YYYY-MM-DD)")
		return
	}

	statement, err := Queries.PeriodActivity(accountID, from, to)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statement)
}
