// Package handler exposes the ledger operations over a small JSON API. It is
// a thin boundary: inputs are decoded and type-checked here, business rules
// live in the service layer.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ThaiKG/personal-accounting-bot/internal/models"
	"github.com/ThaiKG/personal-accounting-bot/internal/service"
)

// LedgerHandler wires the ledger service into an http.ServeMux.
type LedgerHandler struct {
	ledger *service.LedgerService
}

// NewLedgerHandler creates a handler backed by the given service.
func NewLedgerHandler(ledger *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Register mounts all ledger routes on mux.
func (h *LedgerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/expenses", h.addExpense)
	mux.HandleFunc("POST /api/v1/debts", h.addDirectDebt)
	mux.HandleFunc("POST /api/v1/settlements", h.settle)
	mux.HandleFunc("DELETE /api/v1/expenses/latest", h.deleteLatestExpense)
	mux.HandleFunc("DELETE /api/v1/expenses/{id}", h.deleteExpense)
	mux.HandleFunc("GET /api/v1/expenses", h.listHistory)
	mux.HandleFunc("GET /api/v1/balances/{userID}", h.getBalance)
}

type addExpenseRequest struct {
	PaidBy       string   `json:"paid_by"`
	Amount       float64  `json:"amount"`
	Participants []string `json:"participants"`
	Description  string   `json:"description"`
}

func (h *LedgerHandler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.ledger.AddExpense(r.Context(), req.PaidBy, req.Amount, req.Participants, req.Description)
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, result)
}

type addDebtRequest struct {
	FromUser    string  `json:"from_user"`
	ToUser      string  `json:"to_user"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

func (h *LedgerHandler) addDirectDebt(w http.ResponseWriter, r *http.Request) {
	var req addDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.ledger.AddDirectDebt(r.Context(), req.FromUser, req.ToUser, req.Amount, req.Description)
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, result)
}

type settleRequest struct {
	FromUser string  `json:"from_user"`
	ToUser   string  `json:"to_user"`
	Amount   float64 `json:"amount"`
}

func (h *LedgerHandler) settle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.ledger.Settle(r.Context(), req.FromUser, req.ToUser, req.Amount)
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, result)
}

func (h *LedgerHandler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledger.DeleteExpense(r.Context(), r.PathValue("id"))
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, expenseView(result.Expense))
}

func (h *LedgerHandler) deleteLatestExpense(w http.ResponseWriter, r *http.Request) {
	payerID := r.URL.Query().Get("payer")
	if payerID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "payer query parameter required")
		return
	}

	result, err := h.ledger.DeleteLatestExpense(r.Context(), payerID)
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, expenseView(result.Expense))
}

func (h *LedgerHandler) getBalance(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.GetBalance(r.Context(), r.PathValue("userID"))
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"net":              report.Net,
		"per_counterparty": report.PerCounterparty,
	})
}

func (h *LedgerHandler) listHistory(w http.ResponseWriter, r *http.Request) {
	filter := service.HistoryFilter{
		PayerID: r.URL.Query().Get("payer"),
	}
	if v := r.URL.Query().Get("settled"); v != "" {
		settled, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "settled must be a boolean")
			return
		}
		filter.Settled = &settled
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer")
			return
		}
		filter.Limit = limit
	}

	expenses, err := h.ledger.ListHistory(r.Context(), filter)
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	views := make([]map[string]any, len(expenses))
	for i, expense := range expenses {
		views[i] = expenseView(expense)
	}
	respondSuccess(w, http.StatusOK, views)
}

// expenseView renders an expense with its derived fields for API consumers.
func expenseView(e *models.Expense) map[string]any {
	settlements := make([]map[string]any, len(e.Settlements))
	for i, s := range e.Settlements {
		settlements[i] = map[string]any{
			"user_id":     s.UserID,
			"amount_paid": s.AmountPaid,
			"date_paid":   s.DatePaid,
		}
	}
	return map[string]any{
		"id":               e.ID,
		"paid_by":          e.PaidBy,
		"amount":           e.Amount,
		"description":      e.Description,
		"participants":     e.Participants,
		"date":             e.Date,
		"share":            e.Share(),
		"settlements":      settlements,
		"is_fully_settled": e.IsFullySettled(),
	}
}
