package ledger

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novamfg/ledger/db"
	"github.com/novamfg/ledger/models"
)

// openTestDB opens a fresh migrated database in a temp directory.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "ledger.db"))

	database, err := db.Open()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

func createAccount(t *testing.T, database *sql.DB, name string, accType models.AccountType) int {
	t.Helper()
	group, normal, err := models.Classify(accType)
	require.NoError(t, err)

	var cached *int64
	if accType.HasCachedBalance() {
		zero := int64(0)
		cached = &zero
	}

	var id int
	err = database.QueryRow(`INSERT INTO accounts (name, account_type, account_type_group, normal_balance, status, current_balance)
		VALUES (?, ?, ?, ?, 'active', ?) RETURNING id`,
		name, accType, group, normal, cached).Scan(&id)
	require.NoError(t, err)
	return id
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func debitLine(accountID int, amount string) models.TransactionLineInput {
	d, _ := decimal.NewFromString(amount)
	return models.TransactionLineInput{AccountID: accountID, Debit: d}
}

func creditLine(accountID int, amount string) models.TransactionLineInput {
	d, _ := decimal.NewFromString(amount)
	return models.TransactionLineInput{AccountID: accountID, Credit: d}
}

func postEntry(t *testing.T, svc *Service, date string, lines ...models.TransactionLineInput) models.JournalEntry {
	t.Helper()
	entry, err := svc.Post(models.JournalEntryInput{TransactionDate: date, Lines: lines})
	require.NoError(t, err)
	return entry
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func countRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
