package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/allankassio/ipma-weather-proxy-api/internal/models"
)

// ErrDateNotAvailable marks a requested date outside the forecast window.
var ErrDateNotAvailable = errors.New("date not in available forecast window")

// IPMAClient is the data-access surface the service layer consumes.
type IPMAClient interface {
	Localities(ctx context.Context) ([]models.Locality, error)
	WeatherTypes(ctx context.Context) (map[int]models.WeatherTypeLabel, error)
	DailyForecast(ctx context.Context, globalIDLocal int) (models.DailyForecast, error)
	FindLocality(ctx context.Context, name string, districtID *int) (models.Locality, error)
}

// WeatherService exposes the typed operations the route layer consumes:
// locality listing and resolution, raw daily forecasts, and single-day
// enrichment. All caching lives in the client underneath.
type WeatherService struct {
	client IPMAClient
}

// NewWeatherService creates a WeatherService backed by the given client.
func NewWeatherService(client IPMAClient) *WeatherService {
	return &WeatherService{client: client}
}

// loggerFromContext extracts a zap.Logger from request context if present.
func loggerFromContext(ctx context.Context) *zap.Logger {
	if v := ctx.Value("logger"); v != nil {
		if l, ok := v.(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return nil
}

// Localities returns the reference table, optionally filtered by a
// case-insensitive name substring and/or a district id.
func (s *WeatherService) Localities(ctx context.Context, q string, districtID *int) ([]models.Locality, error) {
	locs, err := s.client.Localities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list localities: %w", err)
	}

	qn := strings.ToLower(strings.TrimSpace(q))
	if qn == "" && districtID == nil {
		return locs, nil
	}

	out := make([]models.Locality, 0, len(locs))
	for _, l := range locs {
		if qn != "" && !strings.Contains(strings.ToLower(l.Local), qn) {
			continue
		}
		if districtID != nil && l.IDDistrito != *districtID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// Resolve maps a locality name to its reference record.
func (s *WeatherService) Resolve(ctx context.Context, name string, districtID *int) (models.Locality, error) {
	start := time.Now()
	loc, err := s.client.FindLocality(ctx, name, districtID)
	if err != nil {
		return models.Locality{}, err
	}
	if logger := loggerFromContext(ctx); logger != nil {
		logger.Debug("locality resolved",
			zap.String("name", name),
			zap.Int("globalIdLocal", loc.GlobalIDLocal),
			zap.Duration("duration", time.Since(start)))
	}
	return loc, nil
}

// Forecast returns the multi-day forecast document for a locality. Numeric
// coercion is inherent to decoding, so the document is already normalized.
func (s *WeatherService) Forecast(ctx context.Context, globalIDLocal int) (models.DailyForecast, error) {
	doc, err := s.client.DailyForecast(ctx, globalIDLocal)
	if err != nil {
		return models.DailyForecast{}, fmt.Errorf("forecast for %d: %w", globalIDLocal, err)
	}
	return doc, nil
}

// Day returns the enriched forecast for one exact date (string equality
// against forecastDate, no range matching). The day's weather-type code is
// expanded to localized labels, defaulting to empty strings for unknown
// codes, and wind class/direction are grouped.
func (s *WeatherService) Day(ctx context.Context, globalIDLocal int, date string) (models.DayDetail, error) {
	doc, err := s.client.DailyForecast(ctx, globalIDLocal)
	if err != nil {
		return models.DayDetail{}, fmt.Errorf("forecast for %d: %w", globalIDLocal, err)
	}

	var day *models.DayForecast
	for i := range doc.Data {
		if doc.Data[i].ForecastDate == date {
			day = &doc.Data[i]
			break
		}
	}
	if day == nil {
		return models.DayDetail{}, fmt.Errorf("%w: %s", ErrDateNotAvailable, date)
	}

	types, err := s.client.WeatherTypes(ctx)
	if err != nil {
		return models.DayDetail{}, fmt.Errorf("weather types: %w", err)
	}
	label := types[day.IDWeatherType] // zero value -> empty labels for unknown codes

	return models.DayDetail{
		GlobalIDLocal: doc.GlobalIDLocal,
		ForecastDate:  date,
		TMin:          day.TMin,
		TMax:          day.TMax,
		PrecipitaProb: day.PrecipitaProb,
		PredWindDir:   day.PredWindDir,
		Weather: models.WeatherLabel{
			ID: day.IDWeatherType,
			PT: label.PT,
			EN: label.EN,
		},
		Wind: models.Wind{
			Class: day.ClassWindSpeed,
			Dir:   windDir(day.PredWindDir),
		},
	}, nil
}

func windDir(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
