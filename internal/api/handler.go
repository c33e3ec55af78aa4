package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pankajhirway/ChartAnalyzer/analyzer"
	"github.com/pankajhirway/ChartAnalyzer/config"
	"github.com/pankajhirway/ChartAnalyzer/models"
	"github.com/pankajhirway/ChartAnalyzer/observability"
	"github.com/pankajhirway/ChartAnalyzer/scanner"
	"github.com/pankajhirway/ChartAnalyzer/services"
)

// AnalysisService is the analysis surface the handlers call.
type AnalysisService interface {
	Analyze(ctx context.Context, symbol, timeframe string) (*models.AnalysisResult, error)
	IndicatorsOnly(ctx context.Context, symbol, timeframe string) (*models.IndicatorSet, error)
}

// ScanService is the scanner surface the handlers call.
type ScanService interface {
	ScanUniverse(ctx context.Context, universe string, filter models.ScanFilter, maxResults int) (*models.ScanRun, error)
	GetRun(ctx context.Context, id uuid.UUID) (*models.ScanRun, error)
	LatestRun(ctx context.Context) (*models.ScanRun, error)
	RunHistory(ctx context.Context, limit int) ([]models.ScanRun, error)
}

// Store is the persistence surface the handlers call. Nil when the service
// runs without a database.
type Store interface {
	Health(ctx context.Context) error
	SaveAnalysis(ctx context.Context, result *models.AnalysisResult) error
	AddToWatchlist(ctx context.Context, symbol, note string) error
	RemoveFromWatchlist(ctx context.Context, symbol string) error
	GetWatchlist(ctx context.Context) ([]models.WatchlistEntry, error)
}

// Handler handles HTTP API requests
type Handler struct {
	analysis AnalysisService
	scanner  ScanService
	store    Store
	cfg      *config.Config
}

// NewHandler creates a new Handler. store may be nil.
func NewHandler(analysis AnalysisService, scan ScanService, store Store, cfg *config.Config) *Handler {
	return &Handler{analysis: analysis, scanner: scan, store: store, cfg: cfg}
}

// HandleHealth returns the health status of the application
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"database": "unknown",
		},
	}

	if h.store != nil {
		if err := h.store.Health(r.Context()); err == nil {
			status["services"].(map[string]string)["database"] = "connected"
		} else {
			status["services"].(map[string]string)["database"] = "disconnected"
			status["status"] = "degraded"
		}
	} else {
		status["services"].(map[string]string)["database"] = "not_configured"
	}

	cbStatus := services.GetGlobalRegistry().Status()
	status["circuit_breakers"] = cbStatus
	for _, cb := range cbStatus {
		if cb.State == "open" {
			status["status"] = "degraded"
			break
		}
	}

	h.jsonResponse(w, status)
}

// HandleAnalyze runs the full analysis pipeline for a symbol. The optional
// portfolio query parameter adds position notionals to the trade plan.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.symbolParam(w, r)
	if !ok {
		return
	}
	timeframe := r.URL.Query().Get("timeframe")

	result, err := h.analysis.Analyze(r.Context(), symbol, timeframe)
	if err != nil {
		h.analysisError(w, err)
		return
	}

	if h.store != nil {
		if err := h.store.SaveAnalysis(r.Context(), result); err != nil {
			observability.Warn("failed to persist analysis", "symbol", symbol, "error", err)
		}
	}

	if result.TradeSuggestion != nil {
		if pv := r.URL.Query().Get("portfolio"); pv != "" {
			h.jsonResponse(w, h.withNotionals(result, pv))
			return
		}
	}
	h.jsonResponse(w, result)
}

// analyzeWithNotionals decorates a result with position sizes in money terms.
type analyzeWithNotionals struct {
	*models.AnalysisResult
	PositionNotional    *decimal.Decimal `json:"position_notional,omitempty"`
	MaxPositionNotional *decimal.Decimal `json:"max_position_notional,omitempty"`
}

func (h *Handler) withNotionals(result *models.AnalysisResult, portfolio string) interface{} {
	value, err := decimal.NewFromString(portfolio)
	if err != nil || value.IsNegative() {
		return result
	}
	suggested := result.TradeSuggestion.PositionNotional(value)
	max := result.TradeSuggestion.MaxPositionNotional(value)
	return analyzeWithNotionals{
		AnalysisResult:      result,
		PositionNotional:    &suggested,
		MaxPositionNotional: &max,
	}
}

// HandleIndicators returns only the indicator snapshot for a symbol.
func (h *Handler) HandleIndicators(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.symbolParam(w, r)
	if !ok {
		return
	}

	indicators, err := h.analysis.IndicatorsOnly(r.Context(), symbol, r.URL.Query().Get("timeframe"))
	if err != nil {
		h.analysisError(w, err)
		return
	}
	h.jsonResponse(w, indicators)
}

// HandleLevels returns the support and resistance levels for a symbol.
func (h *Handler) HandleLevels(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.symbolParam(w, r)
	if !ok {
		return
	}

	result, err := h.analysis.Analyze(r.Context(), symbol, r.URL.Query().Get("timeframe"))
	if err != nil {
		h.analysisError(w, err)
		return
	}
	h.jsonResponse(w, map[string]interface{}{
		"symbol":     result.Symbol,
		"support":    result.SupportLevels,
		"resistance": result.ResistanceLevels,
	})
}

// HandlePatterns returns the detected chart patterns for a symbol.
func (h *Handler) HandlePatterns(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.symbolParam(w, r)
	if !ok {
		return
	}

	result, err := h.analysis.Analyze(r.Context(), symbol, r.URL.Query().Get("timeframe"))
	if err != nil {
		h.analysisError(w, err)
		return
	}
	h.jsonResponse(w, map[string]interface{}{
		"symbol":   result.Symbol,
		"patterns": result.DetectedPatterns,
	})
}

// ScanRequest is the POST /api/scan body. Preset and Filter are mutually
// exclusive; Preset wins when both are present.
type ScanRequest struct {
	Universe   string             `json:"universe"`
	Preset     string             `json:"preset,omitempty"`
	Filter     *models.ScanFilter `json:"filter,omitempty"`
	MaxResults int                `json:"max_results,omitempty"`
}

// HandleScan runs a market scan.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}

	filter := models.DefaultScanFilter()
	if req.Preset != "" {
		preset, ok := scanner.PresetByID(req.Preset)
		if !ok {
			h.jsonError(w, fmt.Sprintf("unknown preset %q", req.Preset), http.StatusBadRequest)
			return
		}
		filter = preset.Filter
	} else if req.Filter != nil {
		filter = *req.Filter
		if filter.MaxCompositeScore == 0 {
			filter.MaxCompositeScore = 100
		}
	}

	run, err := h.scanner.ScanUniverse(r.Context(), req.Universe, filter, req.MaxResults)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, run)
}

// HandleScanPresets returns the built-in scan presets.
func (h *Handler) HandleScanPresets(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, scanner.Presets())
}

// HandleLatestScan returns the most recent scan run.
func (h *Handler) HandleLatestScan(w http.ResponseWriter, r *http.Request) {
	run, err := h.scanner.LatestRun(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if run == nil {
		h.jsonResponse(w, map[string]interface{}{"run": nil})
		return
	}
	h.jsonResponse(w, run)
}

// HandleScanHistory returns recent scan runs.
func (h *Handler) HandleScanHistory(w http.ResponseWriter, r *http.Request) {
	limit := h.ParseLimitParam(r, 10)

	runs, err := h.scanner.RunHistory(r.Context(), limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, runs)
}

// HandleGetScanRun returns one scan run by id.
func (h *Handler) HandleGetScanRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.jsonError(w, "invalid scan run id", http.StatusBadRequest)
		return
	}

	run, err := h.scanner.GetRun(r.Context(), id)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if run == nil {
		h.jsonError(w, "scan run not found", http.StatusNotFound)
		return
	}
	h.jsonResponse(w, run)
}

// WatchlistRequest is the POST /api/watchlist body.
type WatchlistRequest struct {
	Symbol string `json:"symbol"`
	Note   string `json:"note,omitempty"`
}

// HandleGetWatchlist returns all watchlist entries.
func (h *Handler) HandleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.jsonError(w, "watchlist requires a database", http.StatusServiceUnavailable)
		return
	}
	entries, err := h.store.GetWatchlist(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	h.jsonResponse(w, entries)
}

// HandleAddToWatchlist adds a symbol to the watchlist.
func (h *Handler) HandleAddToWatchlist(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.jsonError(w, "watchlist requires a database", http.StatusServiceUnavailable)
		return
	}

	var req WatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid JSON request", http.StatusBadRequest)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := h.ValidateSymbol(symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.AddToWatchlist(r.Context(), symbol, req.Note); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, map[string]string{"status": "added", "symbol": symbol})
}

// HandleRemoveFromWatchlist removes a symbol from the watchlist.
func (h *Handler) HandleRemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.jsonError(w, "watchlist requires a database", http.StatusServiceUnavailable)
		return
	}

	symbol, ok := h.symbolParam(w, r)
	if !ok {
		return
	}
	if err := h.store.RemoveFromWatchlist(r.Context(), symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonResponse(w, map[string]string{"status": "removed", "symbol": symbol})
}

// Helper functions

// symbolParam extracts and validates the symbol path parameter. On failure
// it writes the error response and returns false.
func (h *Handler) symbolParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	if err := h.ValidateSymbol(symbol); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return symbol, true
}

// analysisError maps analysis failures to HTTP statuses. Insufficient
// history reads as "symbol not analyzable", a 404.
func (h *Handler) analysisError(w http.ResponseWriter, err error) {
	if errors.Is(err, analyzer.ErrInsufficientData) {
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	h.jsonError(w, err.Error(), http.StatusInternalServerError)
}

// ValidateSymbol validates a stock symbol
func (h *Handler) ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long (max 20 characters)")
	}

	matched, _ := regexp.MatchString("^[A-Z0-9.-]+$", symbol)
	if !matched {
		return fmt.Errorf("invalid symbol format (alphanumeric, dots, and dashes only)")
	}

	return nil
}

// ParseLimitParam parses the limit query parameter
func (h *Handler) ParseLimitParam(r *http.Request, defaultLimit int) int {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			return l
		}
	}
	return defaultLimit
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
