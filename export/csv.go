// Package export renders ledger reports as CSV. Files are UTF-8 with a
// leading BOM and carry a small metadata block before the column header;
// monetary values are formatted with exactly 2 decimal places and a "."
// separator regardless of on-screen display conventions.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/novamfg/ledger/models"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// WriteAccountStatement writes an account statement as CSV.
func WriteAccountStatement(w io.Writer, st models.AccountStatement) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	meta := [][]string{
		{"Account Statement"},
		{"Account", st.AccountName},
		{"Period", st.DateFrom, st.DateTo},
		{"Opening Balance", st.OpeningBalance.StringFixed(2)},
		{},
		{"date", "reference", "description", "debit", "credit", "running_balance"},
	}
	for _, row := range meta {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing statement header: %w", err)
		}
	}

	for i, line := range st.Lines {
		row := []string{line.TransactionDate, line.Reference, deref(line.Description), "", "", line.RunningBalance.StringFixed(2)}
		if !line.Debit.IsZero() {
			row[3] = line.Debit.StringFixed(2)
		}
		if !line.Credit.IsZero() {
			row[4] = line.Credit.StringFixed(2)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	footer := [][]string{
		{"Totals", "", "", st.PeriodDebitTotal.StringFixed(2), st.PeriodCreditTotal.StringFixed(2), ""},
		{"Closing Balance", st.ClosingBalance.StringFixed(2)},
	}
	for _, row := range footer {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing statement footer: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBalanceSheet writes a balance sheet as CSV, one row per account plus
// section and grand totals.
func WriteBalanceSheet(w io.Writer, bs models.BalanceSheet) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	meta := [][]string{
		{"Balance Sheet"},
		{"As Of", bs.AsOfDate},
	}
	header := []string{"section", "account_number", "account_name", "balance"}
	if bs.CompareDate != nil {
		meta = append(meta, []string{"Compared To", *bs.CompareDate})
		header = append(header, "compare_balance")
	}
	meta = append(meta, []string{}, header)
	for _, row := range meta {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing balance sheet header: %w", err)
		}
	}

	sections := []struct {
		name    string
		section models.BalanceSheetSection
	}{
		{"Assets / Current", bs.CurrentAssets},
		{"Assets / Fixed", bs.FixedAssets},
		{"Liabilities / Current", bs.CurrentLiabilities},
		{"Liabilities / Long Term", bs.LongTermLiabilities},
		{"Equity", bs.Equity},
	}
	for _, sec := range sections {
		for _, line := range sec.section.Lines {
			row := []string{sec.name, deref(line.AccountCode), line.AccountName, line.Balance.StringFixed(2)}
			if bs.CompareDate != nil {
				cmp := ""
				if line.CompareBalance != nil {
					cmp = line.CompareBalance.StringFixed(2)
				}
				row = append(row, cmp)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing balance sheet row: %w", err)
			}
		}
	}

	footer := [][]string{
		{},
		{"Total Assets", "", "", bs.TotalAssets.StringFixed(2)},
		{"Total Liabilities", "", "", bs.TotalLiabilities.StringFixed(2)},
		{"Total Equity", "", "", bs.TotalEquity.StringFixed(2)},
	}
	if !bs.Balanced {
		footer = append(footer, []string{"Discrepancy", "", "", bs.Discrepancy.StringFixed(2)})
	}
	for _, row := range footer {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing balance sheet footer: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
