// Package handlers holds the HTTP handlers for the dividend API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nolan-veed/divcast/internal/research"
	"github.com/nolan-veed/divcast/pkg/logger"
)

// maxBatchSymbols caps one batch request.
const maxBatchSymbols = 100

// DividendsHandler handles dividend estimation endpoints.
type DividendsHandler struct {
	service *research.Service
	logger  *logger.Logger
}

// NewDividendsHandler creates a new dividends handler
func NewDividendsHandler(svc *research.Service, log *logger.Logger) *DividendsHandler {
	return &DividendsHandler{
		service: svc,
		logger:  log,
	}
}

// GetEstimate returns the payment-date estimate for one ticker.
// GET /api/dividends/{symbol}/estimate?as_of=2024-09-01
func (h *DividendsHandler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}

	est, err := h.service.Estimate(r.Context(), symbol, asOf)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Estimate failed")
		respondError(w, http.StatusBadGateway, "estimation failed")
		return
	}

	respondJSON(w, http.StatusOK, est)
}

// GetSchedule returns projected upcoming payment dates.
// GET /api/dividends/{symbol}/schedule?as_of=2024-09-01
func (h *DividendsHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}

	dates, err := h.service.Schedule(r.Context(), symbol, asOf)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Schedule failed")
		respondError(w, http.StatusBadGateway, "schedule projection failed")
		return
	}

	schedule := make([]string, 0, len(dates))
	for _, d := range dates {
		schedule = append(schedule, d.Format("2006-01-02"))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":   symbol,
		"schedule": schedule,
	})
}

// GetSnapshot returns the last persisted estimation result.
// GET /api/dividends/{symbol}/snapshot
func (h *DividendsHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	result, err := h.service.LatestSnapshot(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Snapshot lookup failed")
		respondError(w, http.StatusInternalServerError, "snapshot lookup failed")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "no snapshot stored")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// batchRequest is the POST /api/dividends/batch body.
type batchRequest struct {
	Symbols []string `json:"symbols"`
	AsOf    string   `json:"as_of,omitempty"`
}

// PostBatch evaluates many tickers in one request.
// POST /api/dividends/batch
func (h *DividendsHandler) PostBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Symbols) == 0 {
		respondError(w, http.StatusBadRequest, "symbols is required")
		return
	}
	if len(req.Symbols) > maxBatchSymbols {
		respondError(w, http.StatusBadRequest, "too many symbols")
		return
	}

	asOf := time.Now()
	if req.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			respondError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	items := h.service.EstimateBatch(r.Context(), req.Symbols, asOf)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(items),
		"results": items,
	})
}

// parseAsOf reads the optional as_of query parameter, defaulting to now.
// Writes the error response itself and reports ok=false on a bad value.
func parseAsOf(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Now(), true
	}

	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return parsed, true
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
