package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		accType AccountType
		group   AccountTypeGroup
		normal  NormalBalance
	}{
		{TypeBank, GroupAsset, NormalDebit},
		{TypeCash, GroupAsset, NormalDebit},
		{TypePettyCash, GroupAsset, NormalDebit},
		{TypeAccountsReceivable, GroupAsset, NormalDebit},
		{TypeOtherCurrentAsset, GroupAsset, NormalDebit},
		{TypeFixedAsset, GroupAsset, NormalDebit},
		{TypeAccountsPayable, GroupLiability, NormalCredit},
		{TypeCreditCard, GroupLiability, NormalCredit},
		{TypeLoan, GroupLiability, NormalCredit},
		{TypeOtherLiability, GroupLiability, NormalCredit},
		{TypeOwnerEquity, GroupEquity, NormalCredit},
		{TypeRevenue, GroupRevenue, NormalCredit},
		{TypeOtherIncome, GroupRevenue, NormalCredit},
		{TypeExpense, GroupExpense, NormalDebit},
		{TypeCostOfGoodsSold, GroupCostOfGoodsSold, NormalDebit},
		{TypeOtherExpense, GroupExpense, NormalDebit},
	}
	for _, tt := range tests {
		t.Run(string(tt.accType), func(t *testing.T) {
			group, normal, err := Classify(tt.accType)
			require.NoError(t, err)
			assert.Equal(t, tt.group, group)
			assert.Equal(t, tt.normal, normal)
		})
	}
}

func TestClassifyCoversEveryType(t *testing.T) {
	for _, accType := range AccountTypes() {
		_, _, err := Classify(accType)
		assert.NoError(t, err, "type %s", accType)
	}
}

func TestClassifyUnknownType(t *testing.T) {
	_, _, err := Classify("cryptocurrency")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cryptocurrency")
}

func TestHasCachedBalance(t *testing.T) {
	assert.True(t, TypeBank.HasCachedBalance())
	assert.True(t, TypeCash.HasCachedBalance())
	assert.True(t, TypePettyCash.HasCachedBalance())
	assert.False(t, TypeAccountsReceivable.HasCachedBalance())
	assert.False(t, TypeRevenue.HasCachedBalance())
	assert.False(t, TypeOwnerEquity.HasCachedBalance())
}

func TestAccountInputValidate(t *testing.T) {
	tests := []struct {
		name  string
		input AccountInput
		want  string
	}{
		{"valid", AccountInput{Name: "Main Bank", Type: TypeBank}, ""},
		{"valid with status", AccountInput{Name: "Old Sales", Type: TypeRevenue, Status: StatusInactive}, ""},
		{"missing name", AccountInput{Type: TypeBank}, "name is required"},
		{"unknown type", AccountInput{Name: "X", Type: "savings"}, `unknown account type "savings"`},
		{"bad status", AccountInput{Name: "X", Type: TypeBank, Status: "archived"}, "status must be one of: active, inactive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.input.Validate())
		})
	}
}
