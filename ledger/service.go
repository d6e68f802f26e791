package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/novamfg/ledger/models"
)

const dateFormat = "2006-01-02"

// balanceTolerance is the maximum permitted difference between entry debits
// and credits, in minor units (0.01 currency unit).
const balanceTolerance = int64(1)

// Service is the journal entry service: the sole write path into the ledger.
// Every posting is a single storage transaction covering the entry header,
// all lines, and any cached-balance updates; a failure at any step leaves no
// trace.
type Service struct {
	db *sql.DB
}

// NewService creates a Service on the given database handle.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

type accountRow struct {
	ID            int
	Name          string
	Type          models.AccountType
	NormalBalance models.NormalBalance
	Status        string
}

type minorLine struct {
	accountID   int
	debit       int64
	credit      int64
	description *string
}

// Post validates and commits a balanced journal entry, returning the
// committed entry with its lines. On any validation or storage failure the
// ledger is left unchanged.
func (s *Service) Post(input models.JournalEntryInput) (models.JournalEntry, error) {
	return s.post(input, nil)
}

// Reverse posts an offsetting entry for a committed journal entry: same
// lines with debits and credits swapped, linked via reversal_of. This is the
// only correction mechanism; entries are never mutated or deleted.
func (s *Service) Reverse(entryID int, input models.ReverseEntryInput) (models.JournalEntry, error) {
	orig, err := s.Get(entryID)
	if err != nil {
		return models.JournalEntry{}, err
	}

	date := input.TransactionDate
	if date == "" {
		date = orig.TransactionDate
	}
	desc := input.Description
	if desc == nil {
		d := fmt.Sprintf("Reversal of %s", orig.Reference)
		desc = &d
	}

	lines := make([]models.TransactionLineInput, len(orig.Lines))
	for i, l := range orig.Lines {
		lines[i] = models.TransactionLineInput{
			AccountID:   l.AccountID,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
		}
	}

	rev := models.JournalEntryInput{
		TransactionDate:       date,
		Description:           desc,
		RelatedDocumentType:   orig.RelatedDocumentType,
		RelatedDocumentID:     orig.RelatedDocumentID,
		CreatedBy:             input.CreatedBy,
		ResponsibleEmployeeID: orig.ResponsibleEmployeeID,
		Lines:                 lines,
	}
	return s.post(rev, &entryID)
}

func (s *Service) post(input models.JournalEntryInput, reversalOf *int) (models.JournalEntry, error) {
	if _, err := time.Parse(dateFormat, input.TransactionDate); err != nil {
		return models.JournalEntry{}, InvalidDateError{Value: input.TransactionDate}
	}
	if len(input.Lines) < 2 {
		return models.JournalEntry{}, InvalidEntryError{Reason: "at least 2 lines are required"}
	}

	lines := make([]minorLine, 0, len(input.Lines))
	accountIDs := make([]int, 0, len(input.Lines))
	var totalDebit, totalCredit int64
	for _, l := range input.Lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return models.JournalEntry{}, InvalidAmountError{AccountID: l.AccountID, Reason: "amount must be positive"}
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			return models.JournalEntry{}, InvalidAmountError{AccountID: l.AccountID, Reason: "exactly one of debit_amount or credit_amount must be nonzero"}
		}
		debit, ok := models.MinorUnits(l.Debit)
		if !ok {
			return models.JournalEntry{}, InvalidAmountError{AccountID: l.AccountID, Reason: fmt.Sprintf("debit %s has more than 2 decimal places", l.Debit)}
		}
		credit, ok := models.MinorUnits(l.Credit)
		if !ok {
			return models.JournalEntry{}, InvalidAmountError{AccountID: l.AccountID, Reason: fmt.Sprintf("credit %s has more than 2 decimal places", l.Credit)}
		}
		totalDebit += debit
		totalCredit += credit
		lines = append(lines, minorLine{accountID: l.AccountID, debit: debit, credit: credit, description: l.Description})
		accountIDs = append(accountIDs, l.AccountID)
	}

	if diff := totalDebit - totalCredit; diff > balanceTolerance || diff < -balanceTolerance {
		return models.JournalEntry{}, UnbalancedEntryError{
			Debits:  models.FromMinorUnits(totalDebit),
			Credits: models.FromMinorUnits(totalCredit),
		}
	}

	accounts, err := s.loadAccounts(accountIDs)
	if err != nil {
		return models.JournalEntry{}, err
	}
	for _, l := range lines {
		a, ok := accounts[l.accountID]
		if !ok {
			return models.JournalEntry{}, UnknownAccountError{AccountID: l.accountID}
		}
		if a.Status != models.StatusActive {
			return models.JournalEntry{}, InactiveAccountError{AccountID: a.ID, Name: a.Name}
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.JournalEntry{}, StorageError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO journal_entries
		(reference, transaction_date, description, related_document_type, related_document_id, created_by, responsible_employee_id, reversal_of)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Reference, input.TransactionDate, input.Description,
		input.RelatedDocumentType, input.RelatedDocumentID,
		input.CreatedBy, input.ResponsibleEmployeeID, reversalOf)
	if err != nil {
		return models.JournalEntry{}, StorageError{Op: "insert entry", Err: err}
	}
	entryID64, _ := res.LastInsertId()
	entryID := int(entryID64)

	// Auto-generate the reference from the entry id when the caller did not
	// supply one; the header is inserted with NULL first since the id is not
	// known before the insert.
	if input.Reference == nil {
		if _, err := tx.Exec("UPDATE journal_entries SET reference = ? WHERE id = ?",
			fmt.Sprintf("JE-%06d", entryID), entryID); err != nil {
			return models.JournalEntry{}, StorageError{Op: "set reference", Err: err}
		}
	}

	for _, l := range lines {
		if _, err := tx.Exec(`INSERT INTO transaction_lines
			(journal_entry_id, account_id, debit_amount, credit_amount, description)
			VALUES (?, ?, ?, ?, ?)`,
			entryID, l.accountID, l.debit, l.credit, l.description); err != nil {
			return models.JournalEntry{}, StorageError{Op: "insert line", Err: err}
		}

		// Cached balance projection for bank/cash/petty-cash accounts is
		// maintained in the same transaction as the posting that changes it.
		if accounts[l.accountID].Type.HasCachedBalance() {
			if _, err := tx.Exec(`UPDATE accounts
				SET current_balance = COALESCE(current_balance, 0) + ?, updated_at = CURRENT_TIMESTAMP
				WHERE id = ?`, l.debit-l.credit, l.accountID); err != nil {
				return models.JournalEntry{}, StorageError{Op: "update cached balance", Err: err}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.JournalEntry{}, StorageError{Op: "commit", Err: err}
	}

	return s.Get(entryID)
}

// Get returns a committed journal entry with its lines.
func (s *Service) Get(id int) (models.JournalEntry, error) {
	var e models.JournalEntry
	err := s.db.QueryRow(`SELECT id, COALESCE(reference, ''), transaction_date, description,
		related_document_type, related_document_id, created_by, responsible_employee_id, reversal_of, created_at
		FROM journal_entries WHERE id = ?`, id).
		Scan(&e.ID, &e.Reference, &e.TransactionDate, &e.Description,
			&e.RelatedDocumentType, &e.RelatedDocumentID, &e.CreatedBy,
			&e.ResponsibleEmployeeID, &e.ReversalOf, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JournalEntry{}, UnknownEntryError{EntryID: id}
	}
	if err != nil {
		return models.JournalEntry{}, StorageError{Op: "read entry", Err: err}
	}

	rows, err := s.db.Query(`SELECT l.id, l.journal_entry_id, l.account_id, l.debit_amount, l.credit_amount, l.description, a.name
		FROM transaction_lines l
		JOIN accounts a ON l.account_id = a.id
		WHERE l.journal_entry_id = ?
		ORDER BY l.id`, id)
	if err != nil {
		return models.JournalEntry{}, StorageError{Op: "read lines", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var l models.TransactionLine
		var debit, credit int64
		if err := rows.Scan(&l.ID, &l.JournalEntryID, &l.AccountID, &debit, &credit, &l.Description, &l.AccountName); err != nil {
			return models.JournalEntry{}, StorageError{Op: "scan line", Err: err}
		}
		l.Debit = models.FromMinorUnits(debit)
		l.Credit = models.FromMinorUnits(credit)
		e.Lines = append(e.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return models.JournalEntry{}, StorageError{Op: "read lines", Err: err}
	}
	return e, nil
}

func (s *Service) loadAccounts(ids []int) (map[int]accountRow, error) {
	if len(ids) == 0 {
		return map[int]accountRow{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Query(`SELECT id, name, account_type, normal_balance, status
		FROM accounts WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, StorageError{Op: "load accounts", Err: err}
	}
	defer rows.Close()

	accounts := make(map[int]accountRow, len(ids))
	for rows.Next() {
		var a accountRow
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.NormalBalance, &a.Status); err != nil {
			return nil, StorageError{Op: "scan account", Err: err}
		}
		accounts[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, StorageError{Op: "load accounts", Err: err}
	}
	return accounts, nil
}
