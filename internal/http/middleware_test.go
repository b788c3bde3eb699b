package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/allankassio/ipma-weather-proxy-api/internal/service"
)

// TestCorrelationIDMiddleware_GeneratesID verifies a correlation ID is
// generated when the request carries none, and echoed on the response.
func TestCorrelationIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value("correlation_id").(string)
	})
	handler := CorrelationIDMiddleware(zap.NewNop())(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" {
		t.Fatal("correlation_id not injected into context")
	}
	if got := rec.Header().Get("X-Correlation-ID"); got != seen {
		t.Errorf("response header = %q, want %q", got, seen)
	}
}

// TestCorrelationIDMiddleware_HonorsIncoming verifies an incoming header is
// preserved end to end.
func TestCorrelationIDMiddleware_HonorsIncoming(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := CorrelationIDMiddleware(zap.NewNop())(inner)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Correlation-ID"); got != "abc-123" {
		t.Errorf("response header = %q, want abc-123", got)
	}
}

// TestRateLimitMiddleware verifies requests beyond the burst are rejected
// with the 429 envelope.
func TestRateLimitMiddleware(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(1), 2)
	logger := zap.NewNop()
	h := NewHandler(service.NewWeatherService(&fakeClient{}), logger)
	router := NewRouter(h, logger, limiter, 5*time.Second)

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		rec := doGet(t, router, "/v1/localities")
		codes[rec.Code]++
	}
	if codes[http.StatusOK] != 2 {
		t.Errorf("accepted = %d, want 2 (burst)", codes[http.StatusOK])
	}
	if codes[http.StatusTooManyRequests] != 3 {
		t.Errorf("denied = %d, want 3", codes[http.StatusTooManyRequests])
	}
}

// TestRateLimitMiddleware_ExemptsHealth verifies the limiter only guards /v1.
func TestRateLimitMiddleware_ExemptsHealth(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(1), 1)
	logger := zap.NewNop()
	h := NewHandler(service.NewWeatherService(&fakeClient{}), logger)
	router := NewRouter(h, logger, limiter, 5*time.Second)

	doGet(t, router, "/v1/localities") // consume the burst
	for i := 0; i < 3; i++ {
		if rec := doGet(t, router, "/health"); rec.Code != http.StatusOK {
			t.Fatalf("health status = %d, want 200 regardless of limiter", rec.Code)
		}
	}
}

// TestGetRoute verifies path collapsing for metric labels.
func TestGetRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/v1/localities", "/v1/localities"},
		{"/v1/forecast/daily", "/v1/forecast/daily"},
		{"/v1/forecast/day", "/v1/forecast/day"},
		{"/unknown", "other"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if got := getRoute(r); got != tt.want {
			t.Errorf("getRoute(%s) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
