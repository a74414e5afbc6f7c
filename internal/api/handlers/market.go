package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"earnscope/internal/orchestrator"
	"earnscope/pkg/logger"
)

const defaultMaxExpirations = 6

// MarketHandler handles market data API endpoints.
type MarketHandler struct {
	orchestrator *orchestrator.Orchestrator
	logger       *logger.Logger
}

// NewMarketHandler creates a new market data handler.
func NewMarketHandler(orch *orchestrator.Orchestrator, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		orchestrator: orch,
		logger:       log,
	}
}

// GetPrice returns the current price for a symbol
// GET /api/price/{symbol}
func (h *MarketHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	quote, ok := h.orchestrator.GetPrice(r.Context(), symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "Price unavailable from every provider")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// GetExpirations returns upcoming option expiration dates
// GET /api/expirations/{symbol}?max=6
func (h *MarketHandler) GetExpirations(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	max := defaultMaxExpirations
	if v := r.URL.Query().Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "max must be a positive integer")
			return
		}
		max = n
	}

	dates, source := h.orchestrator.GetExpirations(r.Context(), symbol, max)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":      symbol,
		"expirations": dates,
		"source":      source,
	})
}

// GetChain returns the option chain for one expiration
// GET /api/chain/{symbol}/{expiration}
func (h *MarketHandler) GetChain(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]
	expiration := vars["expiration"]

	chain, source, err := h.orchestrator.GetChain(r.Context(), symbol, expiration)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Warn("Chain lookup failed")
		respondError(w, http.StatusBadGateway, "Option chain unavailable from every provider")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"chain":  chain,
		"source": source,
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
