package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/novamfg/ledger/export"
)

// ExportAccountStatement exports an account statement as CSV
// @Summary      Export account statement CSV
// @Description  Download an account statement as UTF-8 CSV with a leading BOM and 2-decimal amounts.
// @Tags         exports
// @Produce      text/csv
// @Param        account_id  query     int     true  "Account ID"
// @Param        from        query     string  true  "Period start (YYYY-MM-DD)"
// @Param        to          query     string  true  "Period end (YYYY-MM-DD)"
// @Success      200         {string}  string  "CSV content"
// @Failure      400         {object}  Response{error=string}
// @Router       /exports/account-statement.csv [get]
// @Security     BasicAuth
func ExportAccountStatement(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="statement-%d-%s-%s.csv"`, accountID, from, to))
	export.WriteAccountStatement(w, statement)
}

// ExportBalanceSheet exports a balance sheet as CSV
// @Summary      Export balance sheet CSV
// @Description  Download the balance sheet as UTF-8 CSV with a leading BOM and 2-decimal amounts.
// @Tags         exports
// @Produce      text/csv
// @Param        as_of    query     string  false  "Statement date (YYYY-MM-DD), defaults to today"
// @Param        compare  query     string  false  "Optional comparison date (YYYY-MM-DD)"
// @Success      200      {string}  string  "CSV content"
// @Failure      400      {object}  Response{error=string}
// @Router       /exports/balance-sheet.csv [get]
// @Security     BasicAuth
func ExportBalanceSheet(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="balance-sheet-%s.csv"`, asOf))
	export.WriteBalanceSheet(w, sheet)
}
