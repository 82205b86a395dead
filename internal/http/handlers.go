package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/log"
)

// transactionView is the JSON rendering of a row together with its ordinal
// index, which is how rows are addressed for deletion.
type transactionView struct {
	Index    int    `json:"index"`
	Date     string `json:"date"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Notes    string `json:"notes,omitempty"`
}

func toView(index int, tx core.Transaction) transactionView {
	return transactionView{
		Index:    index,
		Date:     tx.Date.String(),
		Type:     string(tx.Type),
		Category: tx.Category,
		Amount:   tx.Amount.Decimal(),
		Notes:    tx.Notes,
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	dateStr := strings.TrimSpace(r.Form.Get("date"))
	var date core.Date
	if dateStr == "" {
		now := time.Now()
		date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	} else {
		var err error
		date, err = core.ParseDate(dateStr)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	txType, err := core.ParseTxType(r.Form.Get("type"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid transaction type")
		return
	}

	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	tx := core.Transaction{
		Date:     date,
		Type:     txType,
		Category: sanitizeInput(r.Form.Get("category")),
		Amount:   core.Money{Cents: cents},
		Notes:    sanitizeInput(r.Form.Get("notes")),
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid data: "+err.Error())
		return
	}

	ref, err := s.store.Append(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save transaction",
			log.FieldError, err,
			log.FieldTxType, string(tx.Type),
			log.FieldCategory, tx.Category,
			log.FieldAmountCents, tx.Amount.Cents,
			log.FieldComponent, log.ComponentHTTP,
			log.FieldOperation, log.OpAppend)
		writeError(w, http.StatusInternalServerError, "error saving transaction")
		return
	}

	slog.InfoContext(r.Context(), "Transaction created",
		log.FieldTxType, string(tx.Type),
		log.FieldCategory, tx.Category,
		log.FieldAmountCents, tx.Amount.Cents,
		log.FieldRowRef, ref,
		log.FieldComponent, log.ComponentHTTP,
		log.FieldOperation, log.OpAppend)

	writeJSON(w, http.StatusCreated, map[string]any{
		"ref":         ref,
		"transaction": toView(-1, tx),
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		w.Header().Set("Allow", "DELETE, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request format")
		return
	}
	idxStr := strings.TrimSpace(r.Form.Get("index"))
	if idxStr == "" {
		idxStr = strings.TrimSpace(r.URL.Query().Get("index"))
	}
	index, err := strconv.Atoi(idxStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid row index")
		return
	}

	if err := s.store.Delete(r.Context(), index); err != nil {
		if errors.Is(err, ledger.ErrIndexOutOfRange) {
			writeError(w, http.StatusNotFound, "no row at index "+idxStr)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete transaction",
			log.FieldError, err,
			log.FieldRowIndex, index,
			log.FieldComponent, log.ComponentHTTP,
			log.FieldOperation, log.OpDelete)
		writeError(w, http.StatusInternalServerError, "error deleting transaction")
		return
	}

	slog.InfoContext(r.Context(), "Transaction deleted",
		log.FieldRowIndex, index,
		log.FieldComponent, log.ComponentHTTP,
		log.FieldOperation, log.OpDelete)

	writeJSON(w, http.StatusOK, map[string]any{"deleted": index})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "error loading transactions")
		return
	}

	if year, month, ok := parseYearMonth(r); ok {
		rows = core.FilterByMonth(rows, year, month)
	}

	views := make([]transactionView, 0, len(rows))
	for i, tx := range rows {
		views = append(views, toView(i, tx))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": views})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rows, err := s.store.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load transactions for summary", "error", err)
		writeError(w, http.StatusInternalServerError, "error loading transactions")
		return
	}

	filtered := false
	year, month, ok := parseYearMonth(r)
	if ok {
		rows = core.FilterByMonth(rows, year, month)
		filtered = true
	}

	totals := core.Summarize(rows)

	type categoryView struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}
	breakdown := core.CategoryBreakdown(rows)
	byCategory := make([]categoryView, 0, len(breakdown))
	for _, ca := range breakdown {
		byCategory = append(byCategory, categoryView{Name: ca.Name, Amount: ca.Amount.Decimal()})
	}

	resp := map[string]any{
		"money_in":    totals.MoneyIn.Decimal(),
		"money_out":   totals.MoneyOut.Decimal(),
		"balance":     totals.Balance.Decimal(),
		"by_category": byCategory,
	}
	if filtered {
		resp["year"] = year
		resp["month"] = month
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleLabels exposes the type-dependent category field labels so the
// presentation layer can render the right prompt per transaction type.
func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	labels := map[string]string{}
	for _, t := range []core.TxType{core.Expense, core.Income, core.DebtGiven, core.DebtRepaid} {
		labels[string(t)] = core.CategoryLabel(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"labels": labels})
}
