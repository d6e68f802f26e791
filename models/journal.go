package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is an immutable, dated accounting event owning two or more
// transaction lines whose debits equal credits. There is no update or delete
// path: corrections are posted as offsetting reversal entries.
type JournalEntry struct {
	ID                    int       `json:"id"`
	Reference             string    `json:"reference"`
	TransactionDate       string    `json:"transaction_date"`
	Description           *string   `json:"description"`
	RelatedDocumentType   *string   `json:"related_document_type"`
	RelatedDocumentID     *int      `json:"related_document_id"`
	CreatedBy             *int      `json:"created_by"`
	ResponsibleEmployeeID *int      `json:"responsible_employee_id"`
	ReversalOf            *int      `json:"reversal_of,omitempty"`
	CreatedAt             time.Time `json:"created_at"`

	Lines []TransactionLine `json:"lines,omitempty"`
}

// TransactionLine is one single-sided posting to one account within a
// journal entry. Exactly one of Debit/Credit is nonzero.
type TransactionLine struct {
	ID             int             `json:"id"`
	JournalEntryID int             `json:"journal_entry_id"`
	AccountID      int             `json:"account_id"`
	Debit          decimal.Decimal `json:"debit_amount"`
	Credit         decimal.Decimal `json:"credit_amount"`
	Description    *string         `json:"description"`
	// Joined for display
	AccountName *string `json:"account_name,omitempty"`
}

// JournalEntryInput is the posting request consumed from collaborators
// (vouchers, transfers, payroll). The related document reference is opaque
// to the ledger core.
type JournalEntryInput struct {
	TransactionDate       string                 `json:"transaction_date"`
	Description           *string                `json:"description"`
	Reference             *string                `json:"reference"`
	RelatedDocumentType   *string                `json:"related_document_type"`
	RelatedDocumentID     *int                   `json:"related_document_id"`
	CreatedBy             *int                   `json:"created_by"`
	ResponsibleEmployeeID *int                   `json:"responsible_employee_id"`
	Lines                 []TransactionLineInput `json:"lines"`
}

// TransactionLineInput is one proposed line of a posting.
type TransactionLineInput struct {
	AccountID   int             `json:"account_id"`
	Debit       decimal.Decimal `json:"debit_amount"`
	Credit      decimal.Decimal `json:"credit_amount"`
	Description *string         `json:"description"`
}

// ReverseEntryInput parameterizes the reversal of a posted entry. An empty
// transaction date reverses on the original entry's date.
type ReverseEntryInput struct {
	TransactionDate string  `json:"transaction_date"`
	Description     *string `json:"description"`
	CreatedBy       *int    `json:"created_by"`
}
