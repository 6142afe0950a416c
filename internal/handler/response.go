package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ThaiKG/personal-accounting-bot/internal/ledger"
)

// APIResponse is the uniform envelope for every JSON reply.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

// APIError carries a machine-readable code plus a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondSuccess(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, APIResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// respondLedgerError maps the core's typed failures onto HTTP statuses.
func respondLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "INVALID_AMOUNT", err.Error())
	case errors.Is(err, ledger.ErrInvalidParticipants):
		respondError(w, http.StatusBadRequest, "INVALID_PARTICIPANTS", err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ledger.ErrHasSettlements):
		respondError(w, http.StatusConflict, "HAS_SETTLEMENTS", err.Error())
	case errors.Is(err, ledger.ErrOverpayment):
		respondError(w, http.StatusUnprocessableEntity, "OVERPAYMENT_REJECTED", err.Error())
	case errors.Is(err, ledger.ErrNoOutstandingDebt):
		respondError(w, http.StatusUnprocessableEntity, "NO_OUTSTANDING_DEBT", err.Error())
	default:
		slog.Error("unhandled ledger error", "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
	}
}
