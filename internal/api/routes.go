package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pankajhirway/ChartAnalyzer/config"
)

// NewRouter creates and configures a Chi router with all routes
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.Scanner.AnalysisTimeoutSec) * time.Second))
	r.Use(CORSMiddleware(cfg.HTTP.CORSAllowedOrigins))
	r.Use(MetricsMiddleware)

	// Metrics endpoint for Prometheus
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)

		// Analysis
		r.Get("/analyze/{symbol}", h.HandleAnalyze)
		r.Get("/indicators/{symbol}", h.HandleIndicators)
		r.Get("/levels/{symbol}", h.HandleLevels)
		r.Get("/patterns/{symbol}", h.HandlePatterns)

		// Scanner
		r.Route("/scan", func(r chi.Router) {
			r.Post("/", h.HandleScan)
			r.Get("/presets", h.HandleScanPresets)
			r.Get("/latest", h.HandleLatestScan)
			r.Get("/history", h.HandleScanHistory)
			r.Get("/{id}", h.HandleGetScanRun)
		})

		// Watchlist
		r.Route("/watchlist", func(r chi.Router) {
			r.Get("/", h.HandleGetWatchlist)
			r.Post("/", h.HandleAddToWatchlist)
			r.Delete("/{symbol}", h.HandleRemoveFromWatchlist)
		})
	})

	return r
}

// CORSMiddleware returns CORS middleware with the specified allowed origins
func CORSMiddleware(allowedOrigins string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
