package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/novamfg/ledger/models"
)

const entrySelectQuery = `SELECT e.id, COALESCE(e.reference, ''), e.transaction_date, e.description,
	e.related_document_type, e.related_document_id, e.created_by, e.responsible_employee_id, e.reversal_of, e.created_at
	FROM journal_entries e`

// ListJournalEntries lists journal entry headers
// @Summary      List journal entries
// @Description  Get journal entry headers, filterable by account and date range. Lines are returned by the single-entry endpoint.
// @Tags         journal-entries
// @Produce      json
// @Param        account_id  query     int     false  "Only entries touching this account"
// @Param        from        query     string  false  "Earliest transaction date (YYYY-MM-DD)"
// @Param        to          query     string  false  "Latest transaction date (YYYY-MM-DD)"
// @Success      200         {object}  Response{data=[]models.JournalEntry}
// @Router       /journal-entries [get]
// @Security     BasicAuth
func ListJournalEntries(w http.ResponseWriter, r *http.Request) {
	query := entrySelectQuery
	var conditions []string
	var args []any

	if aid := r.URL.Query().Get("account_id"); aid != "" {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM transaction_lines l WHERE l.journal_entry_id = e.id AND l.account_id = ?)")
		args = append(args, aid)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		conditions = append(conditions, "e.transaction_date >= ?")
		args = append(args, from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		conditions = append(conditions, "e.transaction_date <= ?")
		args = append(args, to)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.transaction_date DESC, e.id DESC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Reference, &e.TransactionDate, &e.Description,
			&e.RelatedDocumentType, &e.RelatedDocumentID, &e.CreatedBy,
			&e.ResponsibleEmployeeID, &e.ReversalOf, &e.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetJournalEntry retrieves a journal entry with its lines
// @Summary      Get journal entry
// @Description  Get a journal entry header with all of its transaction lines.
// @Tags         journal-entries
// @Produce      json
// @Param        id   path      int  true  "Journal entry ID"
// @Success      200  {object}  Response{data=models.JournalEntry}
// @Failure      404  {object}  Response{error=string}
// @Router       /journal-entries/{id} [get]
// @Security     BasicAuth
func GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	entry, err := Journal.Get(id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// CreateJournalEntry posts a balanced journal entry
// @Summary      Post journal entry
// @Description  Atomically post a balanced journal entry (two or more one-sided lines, debits equal credits within 0.01). Entries are immutable once committed.
// @Tags         journal-entries
// @Accept       json
// @Produce      json
// @Param        entry  body      models.JournalEntryInput  true  "Entry contents"
// @Success      201    {object}  Response{data=models.JournalEntry}
// @Failure      400    {object}  Response{error=string}
// @Failure      404    {object}  Response{error=string}
// @Router       /journal-entries [post]
// @Security     BasicAuth
func CreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var input models.JournalEntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	entry, err := Journal.Post(input)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ReverseJournalEntry posts an offsetting reversal entry
// @Summary      Reverse journal entry
// @Description  Post an offsetting entry (debits and credits swapped) for a committed entry. The original is never mutated.
// @Tags         journal-entries
// @Accept       json
// @Produce      json
// @Param        id        path      int                       true   "Journal entry ID"
// @Param        reversal  body      models.ReverseEntryInput  false  "Reversal parameters"
// @Success      201       {object}  Response{data=models.JournalEntry}
// @Failure      400       {object}  Response{error=string}
// @Failure      404       {object}  Response{error=string}
// @Router       /journal-entries/{id}/reverse [post]
// @Security     BasicAuth
func ReverseJournalEntry(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var input models.ReverseEntryInput
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	entry, err := Journal.Reverse(id, input)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
