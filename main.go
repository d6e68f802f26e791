package main

//go:generate swag init

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/novamfg/ledger/db"
	_ "github.com/novamfg/ledger/docs"
	"github.com/novamfg/ledger/handlers"
	"github.com/novamfg/ledger/ledger"
)

// @title           ERP Ledger API
// @version         1.0.0
// @description     Double-entry ledger core: chart of accounts, atomic journal posting, balance and statement queries, balance sheet, CSV export.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.basic  BasicAuth

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Configure structured logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Open database
	database, err := db.Open()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations and seed the default chart on first boot
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	if err := db.Seed(database); err != nil {
		slog.Error("failed to seed chart of accounts", "error", err)
		os.Exit(1)
	}

	// Wire shared DB and ledger services for handlers
	handlers.DB = database
	handlers.Journal = ledger.NewService(database)
	handlers.Queries = ledger.NewQueryEngine(database)
	handlers.Sheets = ledger.NewBalanceSheetBuilder(database)
	handlers.Cache = ledger.NewProjection(database)

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// API routes with basic auth
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handlers.BasicAuth)

		// Chart of accounts
		r.Get("/accounts", handlers.ListAccounts)
		r.Post("/accounts", handlers.CreateAccount)
		r.Get("/accounts/{id}", handlers.GetAccount)
		r.Put("/accounts/{id}", handlers.UpdateAccount)
		r.Delete("/accounts/{id}", handlers.DeleteAccount)
		r.Post("/accounts/{id}/deactivate", handlers.DeactivateAccount)
		r.Get("/accounts/{id}/reconcile", handlers.ReconcileAccount)

		// Journal entries: append-only, reversal is the only correction path
		r.Get("/journal-entries", handlers.ListJournalEntries)
		r.Post("/journal-entries", handlers.CreateJournalEntry)
		r.Get("/journal-entries/{id}", handlers.GetJournalEntry)
		r.Post("/journal-entries/{id}/reverse", handlers.ReverseJournalEntry)

		// Reports
		r.Get("/reports/balance-sheet", handlers.GetBalanceSheet)
		r.Get("/reports/account-statement", handlers.GetAccountStatement)

		// CSV exports
		r.Get("/exports/account-statement.csv", handlers.ExportAccountStatement)
		r.Get("/exports/balance-sheet.csv", handlers.ExportBalanceSheet)

		// Dashboard
		r.Get("/dashboard", handlers.GetDashboard)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := fmt.Sprintf(":%s", port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
