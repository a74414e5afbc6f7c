package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"earnscope/internal/earnings"
	"earnscope/pkg/logger"
)

// EarningsHandler handles earnings timing API endpoints.
type EarningsHandler struct {
	calendar *earnings.Calendar
	logger   *logger.Logger
}

// NewEarningsHandler creates a new earnings handler.
func NewEarningsHandler(cal *earnings.Calendar, log *logger.Logger) *EarningsHandler {
	return &EarningsHandler{
		calendar: cal,
		logger:   log,
	}
}

// GetEarnings returns the next earnings event for a symbol
// GET /api/earnings/{symbol}
func (h *EarningsHandler) GetEarnings(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	event := h.calendar.NextEarnings(r.Context(), symbol)
	if event == nil {
		respondError(w, http.StatusNotFound, "No upcoming earnings found")
		return
	}

	respondJSON(w, http.StatusOK, event)
}

// GetOpportunity returns the next earnings event with derived trading
// windows and validation warnings
// GET /api/opportunity/{symbol}
func (h *EarningsHandler) GetOpportunity(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	opportunity := h.calendar.TradingOpportunity(r.Context(), symbol)
	if opportunity == nil {
		respondError(w, http.StatusNotFound, "No upcoming earnings found")
		return
	}

	respondJSON(w, http.StatusOK, opportunity)
}
