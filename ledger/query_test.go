package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novamfg/ledger/models"
)

func TestBalanceAsOfNaturalDirection(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	engine := NewQueryEngine(database)

	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)
	payable := createAccount(t, database, "Accounts Payable", models.TypeAccountsPayable)
	materials := createAccount(t, database, "Raw Materials Purchases", models.TypeCostOfGoodsSold)

	postEntry(t, svc, "2024-01-05", debitLine(bank, "10000"), creditLine(sales, "10000"))
	postEntry(t, svc, "2024-01-08", debitLine(materials, "2000"), creditLine(payable, "2000"))

	tests := []struct {
		name      string
		accountID int
		want      string
	}{
		{"debit-normal bank", bank, "10000.00"},
		{"credit-normal revenue", sales, "10000.00"},
		{"credit-normal payable", payable, "2000.00"},
		{"debit-normal cogs", materials, "2000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, err := engine.BalanceAsOf(tt.accountID, "2024-01-31")
			require.NoError(t, err)
			assertAmount(t, tt.want, balance)
		})
	}
}

func TestBalanceAsOfDateCutoff(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	engine := NewQueryEngine(database)

	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)

	postEntry(t, svc, "2024-01-05", debitLine(bank, "100"), creditLine(sales, "100"))
	postEntry(t, svc, "2024-01-20", debitLine(bank, "50"), creditLine(sales, "50"))

	before, err := engine.BalanceAsOf(bank, "2024-01-04")
	require.NoError(t, err)
	assert.True(t, before.IsZero())

	// The as-of date is inclusive.
	onDay, err := engine.BalanceAsOf(bank, "2024-01-05")
	require.NoError(t, err)
	assertAmount(t, "100.00", onDay)

	after, err := engine.BalanceAsOf(bank, "2024-01-20")
	require.NoError(t, err)
	assertAmount(t, "150.00", after)
}

func TestBalanceAsOfErrors(t *testing.T) {
	database := openTestDB(t)
	engine := NewQueryEngine(database)

	_, err := engine.BalanceAsOf(99, "2024-01-31")
	var unknown UnknownAccountError
	require.ErrorAs(t, err, &unknown)

	bank := createAccount(t, database, "Bank", models.TypeBank)
	_, err = engine.BalanceAsOf(bank, "Jan 31, 2024")
	var invalid InvalidDateError
	require.ErrorAs(t, err, &invalid)
}

func TestPeriodActivityRunningBalance(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	engine := NewQueryEngine(database)

	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)
	expense := createAccount(t, database, "Factory Supplies", models.TypeExpense)

	// Opening activity before the requested window.
	postEntry(t, svc, "2023-12-15", debitLine(bank, "1000"), creditLine(sales, "1000"))
	// In-window activity.
	postEntry(t, svc, "2024-01-10", debitLine(bank, "200"), creditLine(sales, "200"))
	postEntry(t, svc, "2024-01-20", debitLine(expense, "50"), creditLine(bank, "50"))
	// After the window: must not appear.
	postEntry(t, svc, "2024-02-02", debitLine(bank, "999"), creditLine(sales, "999"))

	stmt, err := engine.PeriodActivity(bank, "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	assertAmount(t, "1000.00", stmt.OpeningBalance)
	require.Len(t, stmt.Lines, 2)
	assertAmount(t, "1200.00", stmt.Lines[0].RunningBalance)
	assertAmount(t, "1150.00", stmt.Lines[1].RunningBalance)
	assertAmount(t, "1150.00", stmt.ClosingBalance)
	assertAmount(t, "200.00", stmt.PeriodDebitTotal)
	assertAmount(t, "50.00", stmt.PeriodCreditTotal)
}

func TestPeriodActivitySameDayOrdering(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	engine := NewQueryEngine(database)

	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)

	// Three postings on the same date resolve in entry id order.
	postEntry(t, svc, "2024-03-15", debitLine(bank, "10"), creditLine(sales, "10"))
	postEntry(t, svc, "2024-03-15", debitLine(bank, "20"), creditLine(sales, "20"))
	postEntry(t, svc, "2024-03-15", debitLine(bank, "30"), creditLine(sales, "30"))

	stmt, err := engine.PeriodActivity(bank, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, stmt.Lines, 3)
	assertAmount(t, "10.00", stmt.Lines[0].RunningBalance)
	assertAmount(t, "30.00", stmt.Lines[1].RunningBalance)
	assertAmount(t, "60.00", stmt.Lines[2].RunningBalance)
}

func TestPeriodActivityCreditNormalAccount(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	engine := NewQueryEngine(database)

	bank := createAccount(t, database, "Bank", models.TypeBank)
	payable := createAccount(t, database, "Accounts Payable", models.TypeAccountsPayable)
	materials := createAccount(t, database, "Raw Materials Purchases", models.TypeCostOfGoodsSold)

	postEntry(t, svc, "2024-01-05", debitLine(materials, "2000"), creditLine(payable, "2000"))
	postEntry(t, svc, "2024-01-12", debitLine(payable, "500"), creditLine(bank, "500"))

	stmt, err := engine.PeriodActivity(payable, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, stmt.Lines, 2)
	// Credits grow a credit-normal account, debits shrink it.
	assertAmount(t, "2000.00", stmt.Lines[0].RunningBalance)
	assertAmount(t, "1500.00", stmt.Lines[1].RunningBalance)
	assertAmount(t, "1500.00", stmt.ClosingBalance)
}

func TestPeriodActivityAgreesWithBalanceAsOf(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	engine := NewQueryEngine(database)

	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)

	postEntry(t, svc, "2024-01-03", debitLine(bank, "123.45"), creditLine(sales, "123.45"))
	postEntry(t, svc, "2024-01-17", debitLine(bank, "0.55"), creditLine(sales, "0.55"))

	stmt, err := engine.PeriodActivity(bank, "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	balance, err := engine.BalanceAsOf(bank, "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, balance.StringFixed(2), stmt.ClosingBalance.StringFixed(2))
}

func TestPeriodActivityDeterministic(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	engine := NewQueryEngine(database)

	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)

	postEntry(t, svc, "2024-01-10", debitLine(bank, "12"), creditLine(sales, "12"))
	postEntry(t, svc, "2024-01-10", debitLine(bank, "34"), creditLine(sales, "34"))

	first, err := engine.PeriodActivity(bank, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	second, err := engine.PeriodActivity(bank, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPeriodActivityErrors(t *testing.T) {
	database := openTestDB(t)
	engine := NewQueryEngine(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)

	_, err := engine.PeriodActivity(404, "2024-01-01", "2024-01-31")
	var unknown UnknownAccountError
	require.ErrorAs(t, err, &unknown)

	var invalid InvalidDateError
	_, err = engine.PeriodActivity(bank, "2024-02-01", "2024-01-01")
	require.ErrorAs(t, err, &invalid)

	_, err = engine.PeriodActivity(bank, "not-a-date", "2024-01-31")
	require.ErrorAs(t, err, &invalid)
}

func TestPeriodActivityEmptyWindow(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	engine := NewQueryEngine(database)

	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)
	postEntry(t, svc, "2024-01-05", debitLine(bank, "75"), creditLine(sales, "75"))

	stmt, err := engine.PeriodActivity(bank, "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	assert.Empty(t, stmt.Lines)
	assertAmount(t, "75.00", stmt.OpeningBalance)
	assertAmount(t, "75.00", stmt.ClosingBalance)
	assertAmount(t, "0.00", stmt.PeriodDebitTotal)
	assertAmount(t, "0.00", stmt.PeriodCreditTotal)
}
