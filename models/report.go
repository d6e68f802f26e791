package models

import "github.com/shopspring/decimal"

// BalanceSheetLine is one account row in a balance sheet section. Balances
// are presented as positive magnitudes in conventional statement form.
type BalanceSheetLine struct {
	AccountID      int              `json:"account_id"`
	AccountCode    *string          `json:"account_number"`
	AccountName    string           `json:"account_name"`
	Balance        decimal.Decimal  `json:"balance"`
	CompareBalance *decimal.Decimal `json:"compare_balance,omitempty"`
}

// BalanceSheetSection groups lines with their total.
type BalanceSheetSection struct {
	Lines []BalanceSheetLine `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

// BalanceSheet is the aggregated statement as of a date, with an optional
// comparison date. Balanced is a diagnostic: a false value is reported with
// the literal discrepancy, never suppressed.
type BalanceSheet struct {
	AsOfDate    string  `json:"as_of_date"`
	CompareDate *string `json:"compare_date,omitempty"`

	CurrentAssets       BalanceSheetSection `json:"current_assets"`
	FixedAssets         BalanceSheetSection `json:"fixed_assets"`
	CurrentLiabilities  BalanceSheetSection `json:"current_liabilities"`
	LongTermLiabilities BalanceSheetSection `json:"long_term_liabilities"`
	Equity              BalanceSheetSection `json:"equity"`

	NetIncome        decimal.Decimal `json:"net_income"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`

	Balanced    bool            `json:"balanced"`
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

// StatementLine is one transaction line within an account statement,
// carrying the running balance after applying that line.
type StatementLine struct {
	JournalEntryID  int             `json:"journal_entry_id"`
	Reference       string          `json:"reference"`
	TransactionDate string          `json:"transaction_date"`
	Description     *string         `json:"description"`
	Debit           decimal.Decimal `json:"debit_amount"`
	Credit          decimal.Decimal `json:"credit_amount"`
	RunningBalance  decimal.Decimal `json:"running_balance"`
}

// AccountStatement is the period activity of one account: opening balance,
// ordered lines with running balances, and closing balance.
type AccountStatement struct {
	AccountID         int             `json:"account_id"`
	AccountName       string          `json:"account_name"`
	DateFrom          string          `json:"date_from"`
	DateTo            string          `json:"date_to"`
	OpeningBalance    decimal.Decimal `json:"opening_balance"`
	Lines             []StatementLine `json:"lines"`
	ClosingBalance    decimal.Decimal `json:"closing_balance"`
	PeriodDebitTotal  decimal.Decimal `json:"period_debit_total"`
	PeriodCreditTotal decimal.Decimal `json:"period_credit_total"`
}
