package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account in the chart of accounts.
type AccountType string

const (
	TypeBank               AccountType = "bank"
	TypeCash               AccountType = "cash"
	TypePettyCash          AccountType = "petty_cash"
	TypeAccountsReceivable AccountType = "accounts_receivable"
	TypeOtherCurrentAsset  AccountType = "other_current_asset"
	TypeFixedAsset         AccountType = "fixed_asset"
	TypeAccountsPayable    AccountType = "accounts_payable"
	TypeCreditCard         AccountType = "credit_card"
	TypeLoan               AccountType = "loan"
	TypeOtherLiability     AccountType = "other_liability"
	TypeOwnerEquity        AccountType = "owner_equity"
	TypeRevenue            AccountType = "revenue"
	TypeOtherIncome        AccountType = "other_income"
	TypeExpense            AccountType = "expense"
	TypeCostOfGoodsSold    AccountType = "cost_of_goods_sold"
	TypeOtherExpense       AccountType = "other_expense"
)

// AccountTypeGroup is the statement-level grouping derived from AccountType.
type AccountTypeGroup string

const (
	GroupAsset           AccountTypeGroup = "asset"
	GroupLiability       AccountTypeGroup = "liability"
	GroupEquity          AccountTypeGroup = "equity"
	GroupRevenue         AccountTypeGroup = "revenue"
	GroupCostOfGoodsSold AccountTypeGroup = "cost_of_goods_sold"
	GroupExpense         AccountTypeGroup = "expense"
)

// NormalBalance is the direction in which an account balance is
// conventionally positive.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "debit"
	NormalCredit NormalBalance = "credit"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Classify maps an account type to its group and normal balance. This is the
// single authoritative classification table; group and normal balance are
// never accepted as user input. An unknown type is a hard error.
func Classify(t AccountType) (AccountTypeGroup, NormalBalance, error) {
	switch t {
	case TypeBank, TypeCash, TypePettyCash, TypeAccountsReceivable,
		TypeOtherCurrentAsset, TypeFixedAsset:
		return GroupAsset, NormalDebit, nil
	case TypeAccountsPayable, TypeCreditCard, TypeLoan, TypeOtherLiability:
		return GroupLiability, NormalCredit, nil
	case TypeOwnerEquity:
		return GroupEquity, NormalCredit, nil
	case TypeRevenue, TypeOtherIncome:
		return GroupRevenue, NormalCredit, nil
	case TypeCostOfGoodsSold:
		return GroupCostOfGoodsSold, NormalDebit, nil
	case TypeExpense, TypeOtherExpense:
		return GroupExpense, NormalDebit, nil
	}
	return "", "", fmt.Errorf("unknown account type %q", t)
}

// AccountTypes returns all valid account types in display order.
func AccountTypes() []AccountType {
	return []AccountType{
		TypeBank, TypeCash, TypePettyCash, TypeAccountsReceivable,
		TypeOtherCurrentAsset, TypeFixedAsset, TypeAccountsPayable,
		TypeCreditCard, TypeLoan, TypeOtherLiability, TypeOwnerEquity,
		TypeRevenue, TypeOtherIncome, TypeExpense, TypeCostOfGoodsSold,
		TypeOtherExpense,
	}
}

// HasCachedBalance reports whether accounts of this type carry the
// denormalized current_balance column (bank and cash-like accounts only).
func (t AccountType) HasCachedBalance() bool {
	switch t {
	case TypeBank, TypeCash, TypePettyCash:
		return true
	}
	return false
}

// Account represents a row in the chart of accounts.
type Account struct {
	ID            int              `json:"id"`
	Code          *string          `json:"code"`
	Name          string           `json:"name"`
	Type          AccountType      `json:"account_type"`
	TypeGroup     AccountTypeGroup `json:"account_type_group"`
	NormalBalance NormalBalance    `json:"normal_balance"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	// CurrentBalance is the cached projection for bank/cash/petty-cash
	// accounts; nil for every other type. Advisory only, re-derivable from
	// the transaction log.
	CurrentBalance *decimal.Decimal `json:"current_balance,omitempty"`
}

// AccountInput is used for creating/updating accounts. Group and normal
// balance are intentionally absent: they are recomputed from Classify.
type AccountInput struct {
	Code   *string     `json:"code"`
	Name   string      `json:"name"`
	Type   AccountType `json:"account_type"`
	Status string      `json:"status"`
}

func (a *AccountInput) Validate() string {
	if a.Name == "" {
		return "name is required"
	}
	if _, _, err := Classify(a.Type); err != nil {
		return err.Error()
	}
	switch a.Status {
	case "", StatusActive, StatusInactive:
	default:
		return "status must be one of: active, inactive"
	}
	return ""
}
