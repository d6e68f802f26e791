package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/novamfg/ledger/models"
)

//go:embed chart_of_accounts.yaml
var defaultChart []byte

type seedAccount struct {
	Code string             `yaml:"code"`
	Name string             `yaml:"name"`
	Type models.AccountType `yaml:"type"`
}

// Seed inserts the default chart of accounts when the accounts table is
// empty. Existing installations are left untouched.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		return fmt.Errorf("counting accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	var accounts []seedAccount
	if err := yaml.Unmarshal(defaultChart, &accounts); err != nil {
		return fmt.Errorf("parsing default chart: %w", err)
	}

	for _, a := range accounts {
		group, normal, err := models.Classify(a.Type)
		if err != nil {
			return fmt.Errorf("default chart account %q: %w", a.Name, err)
		}
		var cached *int64
		if a.Type.HasCachedBalance() {
			zero := int64(0)
			cached = &zero
		}
		_, err = db.Exec(`INSERT INTO accounts (code, name, account_type, account_type_group, normal_balance, status, current_balance)
			VALUES (?, ?, ?, ?, ?, 'active', ?)`,
			a.Code, a.Name, a.Type, group, normal, cached)
		if err != nil {
			return fmt.Errorf("seeding account %q: %w", a.Name, err)
		}
	}

	slog.Info("seeded default chart of accounts", "accounts", len(accounts))
	return nil
}
