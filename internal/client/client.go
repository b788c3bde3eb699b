package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/allankassio/ipma-weather-proxy-api/internal/cache"
	"github.com/allankassio/ipma-weather-proxy-api/internal/models"
	"github.com/allankassio/ipma-weather-proxy-api/internal/observability"
)

var (
	// ErrUpstreamStatus marks a non-2xx response from IPMA. Transport-level
	// failures (DNS, connect, timeout) are wrapped separately and never match
	// this sentinel, so callers can tell the two apart.
	ErrUpstreamStatus = errors.New("upstream status")

	// ErrLocalityNotFound marks a name that resolved to nothing under both
	// the exact and the substring tier.
	ErrLocalityNotFound = errors.New("locality not found")
)

// Cache keys. Localities and weather types are process-wide singletons;
// forecasts are keyed per locality.
const (
	localitiesKey     = "localities"
	weatherTypesKey   = "weather_types"
	forecastKeyPrefix = "forecast:"
)

// maxTimeout is the ceiling for a single upstream request.
const maxTimeout = 20 * time.Second

// TTLs configures the freshness window of each cache instance.
type TTLs struct {
	Localities   time.Duration
	WeatherTypes time.Duration
	Forecast     time.Duration
}

// Client fetches IPMA open-data resources through three independent TTL
// caches, one per resource class. A miss fetches from upstream and populates
// the cache; concurrent misses on the same key each fetch upstream (there is
// no single-flight) and the last Set wins, which is harmless by overwrite.
type Client struct {
	baseURL    string
	httpClient *http.Client
	localities *cache.Cache[[]models.Locality]
	types      *cache.Cache[map[int]models.WeatherTypeLabel]
	forecasts  *cache.Cache[models.DailyForecast]
	misses     *missTracker
}

// New creates a Client for the given base URL. timeout bounds each upstream
// request and is clamped to 20s; zero selects the ceiling.
func New(baseURL string, timeout time.Duration, ttls TTLs) *Client {
	if timeout <= 0 || timeout > maxTimeout {
		timeout = maxTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		localities: cache.New[[]models.Locality](ttls.Localities),
		types:      cache.New[map[int]models.WeatherTypeLabel](ttls.WeatherTypes),
		forecasts:  cache.New[models.DailyForecast](ttls.Forecast),
		misses:     newMissTracker(),
	}
}

// Localities returns the locality reference table, fetched from
// {base}/distrits-islands.json on cache miss and cached verbatim.
func (c *Client) Localities(ctx context.Context) ([]models.Locality, error) {
	if v, ok := c.localities.Get(localitiesKey); ok {
		observability.CacheHitsTotal.WithLabelValues("localities").Inc()
		return v, nil
	}
	observability.CacheMissesTotal.WithLabelValues("localities").Inc()
	c.trackMiss(localitiesKey)
	defer c.misses.End(localitiesKey)

	var doc struct {
		Data []models.Locality `json:"data"`
	}
	url := c.baseURL + "/distrits-islands.json"
	if err := c.getJSON(ctx, "localities", url, &doc); err != nil {
		return nil, err
	}
	c.localities.Set(localitiesKey, doc.Data)
	return doc.Data, nil
}

// WeatherTypes returns the weather-type label map, built from
// {base}/weather-type-classe.json on cache miss. The transformed map is what
// gets cached, not the raw array.
func (c *Client) WeatherTypes(ctx context.Context) (map[int]models.WeatherTypeLabel, error) {
	if v, ok := c.types.Get(weatherTypesKey); ok {
		observability.CacheHitsTotal.WithLabelValues("weather_types").Inc()
		return v, nil
	}
	observability.CacheMissesTotal.WithLabelValues("weather_types").Inc()
	c.trackMiss(weatherTypesKey)
	defer c.misses.End(weatherTypesKey)

	var doc struct {
		Data []models.WeatherType `json:"data"`
	}
	url := c.baseURL + "/weather-type-classe.json"
	if err := c.getJSON(ctx, "weather_types", url, &doc); err != nil {
		return nil, err
	}
	mapping := make(map[int]models.WeatherTypeLabel, len(doc.Data))
	for _, wt := range doc.Data {
		mapping[wt.IDWeatherType] = models.WeatherTypeLabel{
			PT: wt.DescWeatherTypePT,
			EN: wt.DescWeatherTypeEN,
		}
	}
	c.types.Set(weatherTypesKey, mapping)
	return mapping, nil
}

// DailyForecast returns the multi-day forecast for a locality, fetched from
// {base}/forecast/meteorology/cities/daily/{id}.json on cache miss. Forecasts
// carry the shortest TTL of the three caches.
func (c *Client) DailyForecast(ctx context.Context, globalIDLocal int) (models.DailyForecast, error) {
	key := forecastKeyPrefix + strconv.Itoa(globalIDLocal)
	if v, ok := c.forecasts.Get(key); ok {
		observability.CacheHitsTotal.WithLabelValues("forecast").Inc()
		return v, nil
	}
	observability.CacheMissesTotal.WithLabelValues("forecast").Inc()
	c.trackMiss(key)
	defer c.misses.End(key)

	var doc models.DailyForecast
	url := fmt.Sprintf("%s/forecast/meteorology/cities/daily/%d.json", c.baseURL, globalIDLocal)
	if err := c.getJSON(ctx, "daily_forecast", url, &doc); err != nil {
		return models.DailyForecast{}, err
	}
	c.forecasts.Set(key, doc)
	return doc, nil
}

// ClearCaches empties all three caches, forcing a full refresh. Exposed for
// administrative use.
func (c *Client) ClearCaches() {
	c.localities.Clear()
	c.types.Clear()
	c.forecasts.Clear()
}

// trackMiss records an in-progress miss for key; a count above one means
// duplicate upstream fetches are underway for the same key.
func (c *Client) trackMiss(key string) {
	if c.misses.Begin(key) > 1 {
		observability.CacheStampedeDetectedTotal.Inc()
	}
}

// getJSON fetches url and decodes the JSON body into v. Non-2xx responses
// yield ErrUpstreamStatus; transport errors are wrapped and propagate as-is.
// No retries: a failed fetch fails the call.
func (c *Client) getJSON(ctx context.Context, endpoint, url string, v any) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.IPMACallsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	observability.IPMACallsTotal.WithLabelValues(endpoint, statusLabel(resp.StatusCode)).Inc()
	observability.IPMACallDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d from %s", ErrUpstreamStatus, resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func statusLabel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "success"
	case statusCode >= 400 && statusCode < 500:
		return "client_error"
	case statusCode >= 500:
		return "server_error"
	default:
		return "error"
	}
}
