package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/novamfg/ledger/ledger"
)

// Response is the standard JSON envelope for all API responses.
type Response struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// DB is the shared database connection used by all handlers.
var DB *sql.DB

// Ledger core services, wired in main.
var (
	Journal *ledger.Service
	Queries *ledger.QueryEngine
	Sheets  *ledger.BalanceSheetBuilder
	Cache   *ledger.Projection
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: msg})
}

// writeLedgerError maps the ledger error taxonomy onto HTTP status codes.
// Validation failures are caller-correctable (400), missing references are
// 404, and storage failures surface as a generic 500.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.As(err, &ledger.UnknownAccountError{}),
		errors.As(err, &ledger.UnknownEntryError{}):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &ledger.UnbalancedEntryError{}),
		errors.As(err, &ledger.InactiveAccountError{}),
		errors.As(err, &ledger.InvalidAmountError{}),
		errors.As(err, &ledger.InvalidEntryError{}),
		errors.As(err, &ledger.InvalidDateError{}),
		errors.As(err, &ledger.NoCachedBalanceError{}):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("ledger operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// BasicAuth is middleware that enforces HTTP Basic Authentication.
func BasicAuth(next http.Handler) http.Handler {
	user := os.Getenv("AUTH_USER")
	pass := os.Getenv("AUTH_PASS")

	// If no credentials are configured, skip auth
	if user == "" && pass == "" {
		slog.Warn("AUTH_USER and AUTH_PASS not set, API is unauthenticated")
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="ledger"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
