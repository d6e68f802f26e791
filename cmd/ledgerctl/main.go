// ledgerctl is the admin CLI for the ledger database: seeding the chart of
// accounts, reconciling cached balances, and exporting reports as CSV
// without going through the HTTP API.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/novamfg/ledger/db"
	"github.com/novamfg/ledger/export"
	"github.com/novamfg/ledger/ledger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Ledger database administration",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newExportCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB loads .env, opens the database, and runs migrations.
func openDB() (*sql.DB, error) {
	_ = godotenv.Load()
	database, err := db.Open()
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the default chart of accounts into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()
			return db.Seed(database)
		},
	}
}

func newReconcileCommand() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare cached account balances against the transaction log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			projection := ledger.NewProjection(database)
			results, err := projection.Reconcile()
			if err != nil {
				return err
			}

			drifted := 0
			for _, r := range results {
				status := "ok"
				if !r.InSync {
					status = "DRIFT " + r.Drift.StringFixed(2)
					drifted++
				}
				fmt.Printf("%-5d %-30s cached %12s derived %12s  %s\n",
					r.AccountID, r.AccountName, r.Cached.StringFixed(2), r.Derived.StringFixed(2), status)
			}
			if drifted == 0 {
				fmt.Println("all cached balances in sync")
				return nil
			}

			if !fix {
				return fmt.Errorf("%d cached balance(s) drifted; rerun with --fix to repair", drifted)
			}
			for _, r := range results {
				if r.InSync {
					continue
				}
				if _, err := projection.Repair(r.AccountID); err != nil {
					return err
				}
				fmt.Printf("repaired account %d\n", r.AccountID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "rewrite drifted cached balances from the ledger")
	return cmd
}

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports as CSV",
	}
	cmd.AddCommand(newExportStatementCommand())
	cmd.AddCommand(newExportBalanceSheetCommand())
	return cmd
}

func newExportStatementCommand() *cobra.Command {
	var accountID int
	var from, to, out string

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Export an account statement as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			statement, err := ledger.NewQueryEngine(database).PeriodActivity(accountID, from, to)
			if err != nil {
				return err
			}

			w, closeFn, err := openOutput(out)
			if err != nil {
				return err
			}
			defer closeFn()
			return export.WriteAccountStatement(w, statement)
		},
	}

	cmd.Flags().IntVar(&accountID, "account", 0, "account id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&from, "from", "", "period start YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&to, "to", "", "period end YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

func newExportBalanceSheetCommand() *cobra.Command {
	var asOf, compare, out string

	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Export the balance sheet as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			if asOf == "" {
				asOf = time.Now().Format("2006-01-02")
			}
			var comparePtr *string
			if compare != "" {
				comparePtr = &compare
			}

			sheet, err := ledger.NewBalanceSheetBuilder(database).Build(asOf, comparePtr)
			if err != nil {
				return err
			}

			w, closeFn, err := openOutput(out)
			if err != nil {
				return err
			}
			defer closeFn()
			return export.WriteBalanceSheet(w, sheet)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "statement date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&compare, "compare", "", "comparison date YYYY-MM-DD")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
