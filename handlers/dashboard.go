package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type dashboardData struct {
	TotalAccounts        int `json:"total_accounts"`
	ActiveAccounts       int `json:"active_accounts"`
	TotalEntries         int `json:"total_entries"`
	TotalLines           int `json:"total_lines"`
	ProjectionsOutOfSync int `json:"projections_out_of_sync"`

	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
	NetIncome        decimal.Decimal `json:"net_income"`
	Balanced         bool            `json:"balanced"`

	RecentEntries []map[string]any `json:"recent_entries"`
}

// GetDashboard retrieves ledger summary statistics
// @Summary      Get dashboard
// @Description  Get entity counts, as-of-today statement totals, cached-balance sync status, and recent entries.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  Response{data=dashboardData}
// @Router       /dashboard [get]
// @Security     BasicAuth
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	var d dashboardData

	DB.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&d.TotalAccounts)
	DB.QueryRow("SELECT COUNT(*) FROM accounts WHERE status = 'active'").Scan(&d.ActiveAccounts)
	DB.QueryRow("SELECT COUNT(*) FROM journal_entries").Scan(&d.TotalEntries)
	DB.QueryRow("SELECT COUNT(*) FROM transaction_lines").Scan(&d.TotalLines)

	sheet, err := Sheets.Build(time.Now().Format("2006-01-02"), nil)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	d.TotalAssets = sheet.TotalAssets
	d.TotalLiabilities = sheet.TotalLiabilities
	d.TotalEquity = sheet.TotalEquity
	d.NetIncome = sheet.NetIncome
	d.Balanced = sheet.Balanced

	results, err := Cache.Reconcile()
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	for _, res := range results {
		if !res.InSync {
			d.ProjectionsOutOfSync++
		}
	}

	// Recent 5 entries
	rows, err := DB.Query(`SELECT id, COALESCE(reference, ''), transaction_date, description
		FROM journal_entries ORDER BY created_at DESC, id DESC LIMIT 5`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var id int
			var ref, date string
			var desc *string
			rows.Scan(&id, &ref, &date, &desc)
			d.RecentEntries = append(d.RecentEntries, map[string]any{
				"id":               id,
				"reference":        ref,
				"transaction_date": date,
				"description":      desc,
			})
		}
	}
	if d.RecentEntries == nil {
		d.RecentEntries = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, d)
}
