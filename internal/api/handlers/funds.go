// Package handlers implements the status API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/fundwatch/internal/contracts"
	"github.com/wonny/fundwatch/internal/pipeline"
	"github.com/wonny/fundwatch/pkg/logger"
	"github.com/wonny/fundwatch/pkg/redis"
)

// defaultSeriesDays bounds /series responses when no ?days is given.
const defaultSeriesDays = 90

// FundHandler serves read-only fund, signal, and series views.
type FundHandler struct {
	store   contracts.SeriesStore
	signals contracts.SignalStore
	cache   *redis.Cache
	funds   []contracts.Instrument
	logger  *logger.Logger
}

// NewFundHandler creates the handler. cache may be nil.
func NewFundHandler(
	store contracts.SeriesStore,
	signals contracts.SignalStore,
	cache *redis.Cache,
	funds []contracts.Instrument,
	log *logger.Logger,
) *FundHandler {
	return &FundHandler{
		store:   store,
		signals: signals,
		cache:   cache,
		funds:   funds,
		logger:  log.WithField("module", "api"),
	}
}

// ListFunds returns the tracked fund set.
func (h *FundHandler) ListFunds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"funds": h.funds})
}

// LatestSignals serves the most recent digest from the display cache,
// falling back to the persisted signals table.
func (h *FundHandler) LatestSignals(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		var digest contracts.Digest
		hit, err := h.cache.Get(r.Context(), pipeline.DigestCacheKey, &digest)
		if err != nil {
			h.logger.WithError(err).Warn("Digest cache read failed")
		}
		if hit {
			writeJSON(w, http.StatusOK, map[string]interface{}{"source": "cache", "digest": digest})
			return
		}
	}

	signals, err := h.signals.LatestSignals(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest signals")
		http.Error(w, "failed to load signals", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"source": "store", "signals": signals})
}

// Series returns the trailing rows for one fund:
// GET /api/v1/series/{code}?days=N
func (h *FundHandler) Series(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if !h.tracked(code) {
		http.Error(w, "unknown fund code", http.StatusNotFound)
		return
	}

	days := defaultSeriesDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = n
	}

	rows, err := h.store.TrailingWindow(r.Context(), code, days, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load series")
		http.Error(w, "failed to load series", http.StatusInternalServerError)
		return
	}

	type point struct {
		Date string   `json:"date"`
		NAV  *float64 `json:"nav"`
	}
	points := make([]point, 0, len(rows))
	for i := range rows {
		p := point{Date: rows[i].Date.Format("2006-01-02")}
		if v, ok := rows[i].Value(code); ok {
			nav := v
			p.NAV = &nav
		}
		points = append(points, p)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"code": code, "points": points})
}

func (h *FundHandler) tracked(code string) bool {
	for _, f := range h.funds {
		if f.Code == code {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
