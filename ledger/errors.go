// Package ledger implements the double-entry core: the single write path for
// journal entries, balance derivation from the transaction-line log, balance
// sheet aggregation, and reconciliation of cached balances.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnbalancedEntryError reports a posting whose debits and credits differ by
// more than the rounding tolerance. Nothing is written.
type UnbalancedEntryError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e UnbalancedEntryError) Error() string {
	return fmt.Sprintf("entry is unbalanced: debits %s != credits %s (difference %s)",
		e.Debits.StringFixed(2), e.Credits.StringFixed(2),
		e.Debits.Sub(e.Credits).Abs().StringFixed(2))
}

// UnknownAccountError reports a reference to an account that does not exist.
type UnknownAccountError struct {
	AccountID int
}

func (e UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown account %d", e.AccountID)
}

// UnknownEntryError reports a reference to a journal entry that does not exist.
type UnknownEntryError struct {
	EntryID int
}

func (e UnknownEntryError) Error() string {
	return fmt.Sprintf("unknown journal entry %d", e.EntryID)
}

// InactiveAccountError reports a posting against a deactivated account.
type InactiveAccountError struct {
	AccountID int
	Name      string
}

func (e InactiveAccountError) Error() string {
	return fmt.Sprintf("account %d (%s) is inactive", e.AccountID, e.Name)
}

// InvalidAmountError reports a non-positive, two-sided, or malformed line
// amount.
type InvalidAmountError struct {
	AccountID int
	Reason    string
}

func (e InvalidAmountError) Error() string {
	if e.AccountID > 0 {
		return fmt.Sprintf("invalid amount on account %d: %s", e.AccountID, e.Reason)
	}
	return "invalid amount: " + e.Reason
}

// InvalidEntryError reports a structurally invalid posting request (too few
// lines and similar shape problems).
type InvalidEntryError struct {
	Reason string
}

func (e InvalidEntryError) Error() string {
	return "invalid journal entry: " + e.Reason
}

// NoCachedBalanceError reports a reconcile request against an account type
// that carries no cached balance column.
type NoCachedBalanceError struct {
	AccountID int
}

func (e NoCachedBalanceError) Error() string {
	return fmt.Sprintf("account %d carries no cached balance", e.AccountID)
}

// InvalidDateError reports a malformed date or an inverted date range on a
// query. Query-side validation has no side effects.
type InvalidDateError struct {
	Value  string
	Reason string
}

func (e InvalidDateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid date %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid date %q: want YYYY-MM-DD", e.Value)
}

// StorageError wraps a failure from the transaction layer. Any posting that
// hits one is rolled back in full.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }
