package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/gotrend/forecast"
	"github.com/sartorproj/gotrend/prediction"
)

// config is the daemon configuration read from the environment.
type config struct {
	Port               string
	LogLevel           slog.Level
	RateLimitPerMinute int
	AllowOrigins       string
	RequestTimeout     time.Duration
	Prediction         *prediction.Config
}

func loadConfig() (*config, error) {
	cfg := &config{
		Port:         getEnv("PORT", "8080"),
		AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		Prediction:   prediction.DefaultConfig(),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	var err error
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return nil, err
	}
	timeoutSeconds, err := getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = time.Duration(timeoutSeconds) * time.Second

	p := cfg.Prediction
	if v := os.Getenv("TRENDCAST_DEFAULT_MODEL"); v != "" {
		if p.DefaultModel, err = forecast.ParseModelType(v); err != nil {
			return nil, fmt.Errorf("TRENDCAST_DEFAULT_MODEL: %w", err)
		}
	}
	if p.DefaultHorizon, err = getEnvInt("TRENDCAST_DEFAULT_HORIZON", p.DefaultHorizon); err != nil {
		return nil, err
	}
	if p.DefaultConfidence, err = getEnvFloat("TRENDCAST_DEFAULT_CONFIDENCE", p.DefaultConfidence); err != nil {
		return nil, err
	}
	if p.HoldoutFraction, err = getEnvFloat("TRENDCAST_HOLDOUT_FRACTION", p.HoldoutFraction); err != nil {
		return nil, err
	}
	if p.PolynomialDegree, err = getEnvInt("TRENDCAST_POLYNOMIAL_DEGREE", p.PolynomialDegree); err != nil {
		return nil, err
	}
	if v := os.Getenv("TRENDCAST_FILL_GAPS"); v != "" {
		if p.FillGaps, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("TRENDCAST_FILL_GAPS: %w", err)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
