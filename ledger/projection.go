package ledger

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/novamfg/ledger/models"
)

// Projection reconciles the cached current_balance columns on bank, cash,
// and petty-cash accounts against balances derived from the transaction log.
// The cache is a read optimization only; the log is authoritative.
type Projection struct {
	db *sql.DB
}

// NewProjection creates a Projection on the given database handle.
func NewProjection(db *sql.DB) *Projection {
	return &Projection{db: db}
}

// ReconcileResult compares one cached balance with its derived value.
type ReconcileResult struct {
	AccountID   int                `json:"account_id"`
	AccountName string             `json:"account_name"`
	AccountType models.AccountType `json:"account_type"`
	Cached      decimal.Decimal    `json:"cached_balance"`
	Derived     decimal.Decimal    `json:"derived_balance"`
	Drift       decimal.Decimal    `json:"drift"`
	InSync      bool               `json:"in_sync"`
}

// Reconcile compares every cached account balance with the ledger-derived
// value. It is a pure read; use Repair to rewrite a drifted cache.
func (p *Projection) Reconcile() ([]ReconcileResult, error) {
	rows, err := p.db.Query(`SELECT id, name, account_type, COALESCE(current_balance, 0)
		FROM accounts
		WHERE account_type IN ('bank', 'cash', 'petty_cash')
		ORDER BY id`)
	if err != nil {
		return nil, StorageError{Op: "list cached accounts", Err: err}
	}
	defer rows.Close()

	var results []ReconcileResult
	for rows.Next() {
		var r ReconcileResult
		var cached int64
		if err := rows.Scan(&r.AccountID, &r.AccountName, &r.AccountType, &cached); err != nil {
			return nil, StorageError{Op: "scan cached account", Err: err}
		}
		derived, err := p.derived(r.AccountID)
		if err != nil {
			return nil, err
		}
		r.Cached = models.FromMinorUnits(cached)
		r.Derived = models.FromMinorUnits(derived)
		r.Drift = models.FromMinorUnits(cached - derived)
		r.InSync = cached == derived
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, StorageError{Op: "list cached accounts", Err: err}
	}
	if results == nil {
		results = []ReconcileResult{}
	}
	return results, nil
}

// ReconcileAccount compares a single account's cached balance with the
// derived value.
func (p *Projection) ReconcileAccount(accountID int) (ReconcileResult, error) {
	var r ReconcileResult
	var cached sql.NullInt64
	err := p.db.QueryRow(`SELECT id, name, account_type, current_balance
		FROM accounts WHERE id = ?`, accountID).
		Scan(&r.AccountID, &r.AccountName, &r.AccountType, &cached)
	if errors.Is(err, sql.ErrNoRows) {
		return ReconcileResult{}, UnknownAccountError{AccountID: accountID}
	}
	if err != nil {
		return ReconcileResult{}, StorageError{Op: "read account", Err: err}
	}
	if !r.AccountType.HasCachedBalance() {
		return ReconcileResult{}, NoCachedBalanceError{AccountID: accountID}
	}

	derived, err := p.derived(accountID)
	if err != nil {
		return ReconcileResult{}, err
	}
	r.Cached = models.FromMinorUnits(cached.Int64)
	r.Derived = models.FromMinorUnits(derived)
	r.Drift = models.FromMinorUnits(cached.Int64 - derived)
	r.InSync = cached.Int64 == derived
	return r, nil
}

// Repair rewrites the cached balance of one account from the ledger.
func (p *Projection) Repair(accountID int) (ReconcileResult, error) {
	r, err := p.ReconcileAccount(accountID)
	if err != nil {
		return ReconcileResult{}, err
	}
	if r.InSync {
		return r, nil
	}

	derived, _ := models.MinorUnits(r.Derived)
	if _, err := p.db.Exec(`UPDATE accounts
		SET current_balance = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, derived, accountID); err != nil {
		return ReconcileResult{}, StorageError{Op: "repair cached balance", Err: err}
	}

	r.Cached = r.Derived
	r.Drift = decimal.Zero
	r.InSync = true
	return r, nil
}

// derived computes the natural debit-minus-credit balance over the full log.
// The cached accounts are all debit-normal asset types.
func (p *Projection) derived(accountID int) (int64, error) {
	var debit, credit int64
	err := p.db.QueryRow(`SELECT COALESCE(SUM(debit_amount), 0), COALESCE(SUM(credit_amount), 0)
		FROM transaction_lines WHERE account_id = ?`, accountID).
		Scan(&debit, &credit)
	if err != nil {
		return 0, StorageError{Op: "sum derived balance", Err: err}
	}
	return debit - credit, nil
}
