package http

import (
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/allankassio/ipma-weather-proxy-api/internal/observability"
)

// NewRouter wires the full route surface: health and metrics at the root,
// the API behind /v1 with rate limiting and a per-request timeout.
func NewRouter(h *Handler, logger *zap.Logger, limiter *rate.Limiter, requestTimeout time.Duration) *mux.Router {
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)

	router.HandleFunc("/health", h.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())

	api := router.PathPrefix("/v1").Subrouter()
	api.Use(RateLimitMiddleware(limiter))
	api.Use(TimeoutMiddleware(requestTimeout))
	api.HandleFunc("/localities", h.GetLocalities).Methods("GET")
	api.HandleFunc("/forecast/daily", h.GetDailyForecast).Methods("GET")
	api.HandleFunc("/forecast/day", h.GetDayForecast).Methods("GET")

	return router
}
