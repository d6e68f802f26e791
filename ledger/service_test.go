package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novamfg/ledger/models"
)

func TestPostBalancedEntry(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	bank := createAccount(t, database, "Main Bank Account", models.TypeBank)
	sales := createAccount(t, database, "Product Sales", models.TypeRevenue)

	desc := "cash sale"
	entry, err := svc.Post(models.JournalEntryInput{
		TransactionDate: "2024-01-05",
		Description:     &desc,
		Lines: []models.TransactionLineInput{
			debitLine(bank, "10000"),
			creditLine(sales, "10000"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "JE-000001", entry.Reference)
	assert.Equal(t, "2024-01-05", entry.TransactionDate)
	require.Len(t, entry.Lines, 2)
	assertAmount(t, "10000.00", entry.Lines[0].Debit)
	assertAmount(t, "0.00", entry.Lines[0].Credit)
	assertAmount(t, "10000.00", entry.Lines[1].Credit)
	assert.Nil(t, entry.ReversalOf)
}

func TestPostCustomReferenceMustBeUnique(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)

	ref := "VCH-2024-17"
	input := models.JournalEntryInput{
		TransactionDate: "2024-01-05",
		Reference:       &ref,
		Lines: []models.TransactionLineInput{
			debitLine(bank, "100"),
			creditLine(sales, "100"),
		},
	}

	entry, err := svc.Post(input)
	require.NoError(t, err)
	assert.Equal(t, "VCH-2024-17", entry.Reference)

	_, err = svc.Post(input)
	var storageErr StorageError
	require.ErrorAs(t, err, &storageErr)
}

func TestPostUnbalancedEntryWritesNothing(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	x := createAccount(t, database, "X", models.TypeBank)
	y := createAccount(t, database, "Y", models.TypeRevenue)

	_, err := svc.Post(models.JournalEntryInput{
		TransactionDate: "2024-03-01",
		Lines: []models.TransactionLineInput{
			debitLine(x, "500"),
			creditLine(y, "400"),
		},
	})

	var unbalanced UnbalancedEntryError
	require.ErrorAs(t, err, &unbalanced)
	assertAmount(t, "500.00", unbalanced.Debits)
	assertAmount(t, "400.00", unbalanced.Credits)
	assert.Contains(t, err.Error(), "100.00")

	assert.Equal(t, 0, countRows(t, database, "journal_entries"))
	assert.Equal(t, 0, countRows(t, database, "transaction_lines"))
}

func TestPostToleratesOneMinorUnit(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)

	// 0.01 difference is within the rounding tolerance.
	_, err := svc.Post(models.JournalEntryInput{
		TransactionDate: "2024-03-01",
		Lines: []models.TransactionLineInput{
			debitLine(bank, "100.00"),
			creditLine(sales, "99.99"),
		},
	})
	require.NoError(t, err)
}

func TestPostUnknownAccount(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)

	_, err := svc.Post(models.JournalEntryInput{
		TransactionDate: "2024-03-01",
		Lines: []models.TransactionLineInput{
			debitLine(bank, "100"),
			creditLine(9999, "100"),
		},
	})

	var unknown UnknownAccountError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 9999, unknown.AccountID)
	assert.Equal(t, 0, countRows(t, database, "transaction_lines"))
}

func TestPostInactiveAccount(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)
	old := createAccount(t, database, "Old Sales", models.TypeRevenue)
	_, err := database.Exec("UPDATE accounts SET status = 'inactive' WHERE id = ?", old)
	require.NoError(t, err)

	_, err = svc.Post(models.JournalEntryInput{
		TransactionDate: "2024-03-01",
		Lines: []models.TransactionLineInput{
			debitLine(bank, "100"),
			creditLine(old, "100"),
		},
	})

	var inactive InactiveAccountError
	require.ErrorAs(t, err, &inactive)
	assert.Equal(t, old, inactive.AccountID)
	assert.Equal(t, "Old Sales", inactive.Name)
}

func TestPostRejectsInvalidAmounts(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)

	tests := []struct {
		name string
		line models.TransactionLineInput
	}{
		{"both sides set", models.TransactionLineInput{AccountID: bank, Debit: dec(t, "50"), Credit: dec(t, "50")}},
		{"both sides zero", models.TransactionLineInput{AccountID: bank}},
		{"negative debit", models.TransactionLineInput{AccountID: bank, Debit: dec(t, "-50")}},
		{"three decimal places", models.TransactionLineInput{AccountID: bank, Debit: dec(t, "50.005")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Post(models.JournalEntryInput{
				TransactionDate: "2024-03-01",
				Lines:           []models.TransactionLineInput{tt.line, creditLine(sales, "50")},
			})
			var invalid InvalidAmountError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, 0, countRows(t, database, "transaction_lines"))
		})
	}
}

func TestPostRequiresTwoLines(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)

	_, err := svc.Post(models.JournalEntryInput{
		TransactionDate: "2024-03-01",
		Lines:           []models.TransactionLineInput{debitLine(bank, "100")},
	})

	var invalid InvalidEntryError
	require.ErrorAs(t, err, &invalid)
}

func TestPostRejectsBadDate(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)

	_, err := svc.Post(models.JournalEntryInput{
		TransactionDate: "05/01/2024",
		Lines: []models.TransactionLineInput{
			debitLine(bank, "100"),
			creditLine(sales, "100"),
		},
	})

	var invalid InvalidDateError
	require.ErrorAs(t, err, &invalid)
}

func TestPostUpdatesCachedBalance(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)
	petty := createAccount(t, database, "Petty Cash", models.TypePettyCash)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)

	postEntry(t, svc, "2024-01-05", debitLine(bank, "250.00"), creditLine(sales, "250.00"))
	postEntry(t, svc, "2024-01-06", debitLine(petty, "40.00"), creditLine(bank, "40.00"))

	var bankCached, pettyCached int64
	require.NoError(t, database.QueryRow("SELECT current_balance FROM accounts WHERE id = ?", bank).Scan(&bankCached))
	require.NoError(t, database.QueryRow("SELECT current_balance FROM accounts WHERE id = ?", petty).Scan(&pettyCached))
	assert.Equal(t, int64(21000), bankCached)
	assert.Equal(t, int64(4000), pettyCached)

	// Non-cached account types keep a NULL projection.
	var salesCached *int64
	require.NoError(t, database.QueryRow("SELECT current_balance FROM accounts WHERE id = ?", sales).Scan(&salesCached))
	assert.Nil(t, salesCached)
}

func TestReverseEntry(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	engine := NewQueryEngine(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)

	original := postEntry(t, svc, "2024-01-05", debitLine(bank, "300"), creditLine(sales, "300"))

	reversal, err := svc.Reverse(original.ID, models.ReverseEntryInput{TransactionDate: "2024-01-10"})
	require.NoError(t, err)

	require.NotNil(t, reversal.ReversalOf)
	assert.Equal(t, original.ID, *reversal.ReversalOf)
	assert.Equal(t, "2024-01-10", reversal.TransactionDate)
	require.NotNil(t, reversal.Description)
	assert.Equal(t, "Reversal of JE-000001", *reversal.Description)

	// Lines are swapped.
	require.Len(t, reversal.Lines, 2)
	assertAmount(t, "300.00", reversal.Lines[0].Credit)
	assertAmount(t, "300.00", reversal.Lines[1].Debit)

	// Balances return to zero after the reversal date.
	balance, err := engine.BalanceAsOf(bank, "2024-01-10")
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "bank balance should be zero, got %s", balance)

	// The original entry is untouched.
	got, err := svc.Get(original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Lines, got.Lines)
	assert.Equal(t, 2, countRows(t, database, "journal_entries"))
}

func TestReverseUnknownEntry(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)

	_, err := svc.Reverse(42, models.ReverseEntryInput{})
	var unknown UnknownEntryError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 42, unknown.EntryID)
}

func TestGetUnknownEntry(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)

	_, err := svc.Get(7)
	var unknown UnknownEntryError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 7, unknown.EntryID)
}

func TestMultiLineEntry(t *testing.T) {
	database := openTestDB(t)
	svc := NewService(database)
	bank := createAccount(t, database, "Bank", models.TypeBank)
	sales := createAccount(t, database, "Sales", models.TypeRevenue)
	scrap := createAccount(t, database, "Scrap Sales", models.TypeOtherIncome)

	entry := postEntry(t, svc, "2024-02-01",
		debitLine(bank, "1500.75"),
		creditLine(sales, "1400.25"),
		creditLine(scrap, "100.50"),
	)
	require.Len(t, entry.Lines, 3)

	var totalDebit, totalCredit decimal.Decimal
	for _, l := range entry.Lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	assert.True(t, totalDebit.Equal(totalCredit))
}
