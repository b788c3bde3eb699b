package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/allankassio/ipma-weather-proxy-api/internal/client"
	"github.com/allankassio/ipma-weather-proxy-api/internal/models"
	"github.com/allankassio/ipma-weather-proxy-api/internal/service"
	"github.com/allankassio/ipma-weather-proxy-api/internal/validation"
)

// Locality name bounds for query validation.
const (
	localityMinLen = 2
	localityMaxLen = 64
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	weather *service.WeatherService
	logger  *zap.Logger
}

// NewHandler returns a new Handler.
func NewHandler(weather *service.WeatherService, logger *zap.Logger) *Handler {
	return &Handler{weather: weather, logger: logger}
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"service":   "ipma-weather-proxy-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetLocalities handles GET /v1/localities. Supports an optional
// case-insensitive substring filter (q) and a district filter (district_id).
func (h *Handler) GetLocalities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	districtID, err := queryIntPtr(query, "district_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_DISTRICT", "district_id must be an integer")
		return
	}

	items, err := h.weather.Localities(r.Context(), query.Get("q"), districtID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Locality{} // never serialize null for the data array
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(items),
		"data":  items,
	})
}

// GetDailyForecast handles GET /v1/forecast/daily. The locality is addressed
// either by global_id_local or by a resolvable locality name.
func (h *Handler) GetDailyForecast(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resolveGlobalID(w, r)
	if !ok {
		return
	}
	doc, err := h.weather.Forecast(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// GetDayForecast handles GET /v1/forecast/day: the normalized single-day
// forecast with weather-type labels and grouped wind info.
func (h *Handler) GetDayForecast(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("forecast_date")
	if dateStr == "" {
		writeError(w, r, http.StatusBadRequest, "MISSING_PARAMETER", "forecast_date is required")
		return
	}
	d, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_DATE", "forecast_date must be YYYY-MM-DD")
		return
	}

	id, ok := h.resolveGlobalID(w, r)
	if !ok {
		return
	}

	day, err := h.weather.Day(r.Context(), id, d.Format("2006-01-02"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// resolveGlobalID extracts the target locality id from the query, resolving a
// locality name when no explicit id was given. Writes the error response and
// returns ok=false on failure.
func (h *Handler) resolveGlobalID(w http.ResponseWriter, r *http.Request) (int, bool) {
	query := r.URL.Query()
	idStr := query.Get("global_id_local")
	locality := query.Get("locality")

	if idStr == "" && locality == "" {
		writeError(w, r, http.StatusBadRequest, "MISSING_PARAMETER", "Provide either global_id_local or locality")
		return 0, false
	}

	if idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			writeError(w, r, http.StatusBadRequest, "INVALID_GLOBAL_ID", "global_id_local must be a positive integer")
			return 0, false
		}
		return id, true
	}

	name, err := validation.ValidateLocalityName(locality, localityMinLen, localityMaxLen)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_LOCALITY", err.Error())
		return 0, false
	}

	districtID, err := queryIntPtr(query, "district_id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_DISTRICT", "district_id must be an integer")
		return 0, false
	}

	loc, err := h.weather.Resolve(r.Context(), name, districtID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return 0, false
	}
	return loc.GlobalIDLocal, true
}

// writeDomainError maps service/client errors to HTTP responses. Resolution
// and date misses are 404s; upstream status failures are 502; everything else
// (transport failures included) is 503.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, client.ErrLocalityNotFound):
		writeError(w, r, http.StatusNotFound, "LOCALITY_NOT_FOUND", "Locality not found")
	case errors.Is(err, service.ErrDateNotAvailable):
		writeError(w, r, http.StatusNotFound, "DATE_NOT_AVAILABLE", "Date not in available forecast window")
	case errors.Is(err, client.ErrUpstreamStatus):
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_STATUS", "Upstream returned an error response")
	default:
		writeError(w, r, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Unable to fetch weather data")
	}
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		logger.Debug("request failed", zap.Error(err))
	}
}

// queryIntPtr parses an optional integer query parameter, returning nil when absent.
func queryIntPtr(query url.Values, name string) (*int, error) {
	s := query.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard envelope with code,
// message, and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}
