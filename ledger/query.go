package ledger

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/novamfg/ledger/models"
)

// QueryEngine derives balances, turnovers, and running-balance sequences
// from the transaction-line log. It never mutates state: identical calls
// against an unchanged log return identical results.
type QueryEngine struct {
	db *sql.DB
}

// NewQueryEngine creates a QueryEngine on the given database handle.
func NewQueryEngine(db *sql.DB) *QueryEngine {
	return &QueryEngine{db: db}
}

// BalanceAsOf computes the account balance over all entries dated on or
// before asOf, expressed in the account's natural positive direction: the
// raw debit-minus-credit sum is negated for credit-normal accounts.
func (q *QueryEngine) BalanceAsOf(accountID int, asOf string) (decimal.Decimal, error) {
	if err := validateDate(asOf); err != nil {
		return decimal.Zero, err
	}
	a, err := q.account(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	raw, err := q.rawBalance(accountID, asOf, true)
	if err != nil {
		return decimal.Zero, err
	}
	if a.NormalBalance == models.NormalCredit {
		raw = -raw
	}
	return models.FromMinorUnits(raw), nil
}

// PeriodActivity computes the statement of one account over a date range:
// opening balance (strictly before dateFrom), lines in deterministic order
// with a running balance folded onto the opening balance, and the closing
// balance. Same-day postings are ordered by journal entry id, then line id.
func (q *QueryEngine) PeriodActivity(accountID int, dateFrom, dateTo string) (models.AccountStatement, error) {
	if err := validateDate(dateFrom); err != nil {
		return models.AccountStatement{}, err
	}
	if err := validateDate(dateTo); err != nil {
		return models.AccountStatement{}, err
	}
	if dateFrom > dateTo {
		return models.AccountStatement{}, InvalidDateError{Value: dateFrom + ".." + dateTo, Reason: "date_from is after date_to"}
	}

	a, err := q.account(accountID)
	if err != nil {
		return models.AccountStatement{}, err
	}

	openingRaw, err := q.rawBalance(accountID, dateFrom, false)
	if err != nil {
		return models.AccountStatement{}, err
	}
	// Signed delta per line in the account's natural direction.
	sign := int64(1)
	if a.NormalBalance == models.NormalCredit {
		sign = -1
	}

	rows, err := q.db.Query(`SELECT e.id, COALESCE(e.reference, ''), e.transaction_date, l.debit_amount, l.credit_amount, l.description
		FROM transaction_lines l
		JOIN journal_entries e ON l.journal_entry_id = e.id
		WHERE l.account_id = ? AND e.transaction_date >= ? AND e.transaction_date <= ?
		ORDER BY e.transaction_date ASC, e.id ASC, l.id ASC`, accountID, dateFrom, dateTo)
	if err != nil {
		return models.AccountStatement{}, StorageError{Op: "read statement lines", Err: err}
	}
	defer rows.Close()

	st := models.AccountStatement{
		AccountID:      accountID,
		AccountName:    a.Name,
		DateFrom:       dateFrom,
		DateTo:         dateTo,
		OpeningBalance: models.FromMinorUnits(sign * openingRaw),
		Lines:          []models.StatementLine{},
	}

	running := sign * openingRaw
	var debitTotal, creditTotal int64
	for rows.Next() {
		var line models.StatementLine
		var debit, credit int64
		if err := rows.Scan(&line.JournalEntryID, &line.Reference, &line.TransactionDate, &debit, &credit, &line.Description); err != nil {
			return models.AccountStatement{}, StorageError{Op: "scan statement line", Err: err}
		}
		debitTotal += debit
		creditTotal += credit
		running += sign * (debit - credit)
		line.Debit = models.FromMinorUnits(debit)
		line.Credit = models.FromMinorUnits(credit)
		line.RunningBalance = models.FromMinorUnits(running)
		st.Lines = append(st.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return models.AccountStatement{}, StorageError{Op: "read statement lines", Err: err}
	}

	st.ClosingBalance = models.FromMinorUnits(running)
	st.PeriodDebitTotal = models.FromMinorUnits(debitTotal)
	st.PeriodCreditTotal = models.FromMinorUnits(creditTotal)
	return st, nil
}

// rawBalance sums debit minus credit in minor units over all lines of
// entries dated up to `until` (inclusive or strictly before).
func (q *QueryEngine) rawBalance(accountID int, until string, inclusive bool) (int64, error) {
	op := "<"
	if inclusive {
		op = "<="
	}
	var debit, credit int64
	err := q.db.QueryRow(`SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM transaction_lines l
		JOIN journal_entries e ON l.journal_entry_id = e.id
		WHERE l.account_id = ? AND e.transaction_date `+op+` ?`, accountID, until).
		Scan(&debit, &credit)
	if err != nil {
		return 0, StorageError{Op: "sum balance", Err: err}
	}
	return debit - credit, nil
}

func (q *QueryEngine) account(id int) (accountRow, error) {
	var a accountRow
	err := q.db.QueryRow(`SELECT id, name, account_type, normal_balance, status
		FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Type, &a.NormalBalance, &a.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return accountRow{}, UnknownAccountError{AccountID: id}
	}
	if err != nil {
		return accountRow{}, StorageError{Op: "read account", Err: err}
	}
	return a, nil
}

func validateDate(s string) error {
	if _, err := time.Parse(dateFormat, s); err != nil {
		return InvalidDateError{Value: s}
	}
	return nil
}
