package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds service configuration loaded from YAML and env. Immutable
// after Load; constructed once and threaded through by dependency injection.
type Config struct {
	ServerPort string

	IPMABaseURL string
	IPMATimeout time.Duration

	LocalitiesTTL time.Duration
	ClassesTTL    time.Duration
	ForecastTTL   time.Duration
	WarmCache     bool

	RequestTimeout time.Duration
	RateLimitRPS   int
	RateLimitBurst int

	ShutdownTimeout time.Duration
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	IPMA struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"ipma"`

	Cache struct {
		LocalitiesTTL string `yaml:"localities_ttl"`
		ClassesTTL    string `yaml:"classes_ttl"`
		ForecastTTL   string `yaml:"forecast_ttl"`
		Warm          *bool  `yaml:"warm"`
	} `yaml:"cache"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Reliability struct {
		RateLimitRPS   int `yaml:"rate_limit_rps"`
		RateLimitBurst int `yaml:"rate_limit_burst"`
	} `yaml:"reliability"`

	Shutdown struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"shutdown"`
}

// maxIPMATimeout is the ceiling for a single upstream request.
const maxIPMATimeout = 20 * time.Second

// Load reads configuration from config/{ENV_NAME}.yaml (default dev), with
// env overrides for PORT and IPMA_BASE_URL. A .env file is honored when
// present. Call from project root.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env, absence is fine

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}

	cfg.ServerPort = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.ServerPort == "" {
		cfg.ServerPort = fc.Server.Port
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.IPMABaseURL = strings.TrimSpace(os.Getenv("IPMA_BASE_URL"))
	if cfg.IPMABaseURL == "" {
		cfg.IPMABaseURL = strings.TrimSpace(fc.IPMA.BaseURL)
	}
	if cfg.IPMABaseURL == "" {
		cfg.IPMABaseURL = "https://api.ipma.pt/open-data"
	}
	cfg.IPMABaseURL = strings.TrimSuffix(cfg.IPMABaseURL, "/")
	cfg.IPMATimeout = parseDuration(fc.IPMA.Timeout, maxIPMATimeout)

	// Localities and weather classes change rarely (12h); forecasts are
	// volatile (30m).
	cfg.LocalitiesTTL = parseDuration(fc.Cache.LocalitiesTTL, 12*time.Hour)
	cfg.ClassesTTL = parseDuration(fc.Cache.ClassesTTL, 12*time.Hour)
	cfg.ForecastTTL = parseDuration(fc.Cache.ForecastTTL, 30*time.Minute)
	if fc.Cache.Warm != nil {
		cfg.WarmCache = *fc.Cache.Warm
	}

	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 25*time.Second)

	cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	if cfg.RateLimitRPS < 0 {
		cfg.RateLimitRPS = 0
	}
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 2 * cfg.RateLimitRPS
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration field from YAML. A bare integer is read as
// seconds, so both "1800" and "30m" configure the same TTL. Empty strings,
// parse failures, and non-positive results fall back to defaultVal.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return defaultVal
		}
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate clamps the upstream timeout to its ceiling and keeps the request
// timeout strictly above it so the handler deadline never fires first.
func validate(cfg *Config) error {
	if cfg.IPMATimeout > maxIPMATimeout {
		cfg.IPMATimeout = maxIPMATimeout
	}
	if cfg.IPMATimeout <= 0 {
		return fmt.Errorf("ipma.timeout must be positive")
	}
	if cfg.RequestTimeout <= cfg.IPMATimeout {
		cfg.RequestTimeout = cfg.IPMATimeout + 5*time.Second
	}
	return nil
}
