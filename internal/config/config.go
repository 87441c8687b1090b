package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/efreitasn/clob/internal/domain"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the order book driver.
type Config struct {
	Symbol     string
	LogLevel   string
	LogFormat  string
	PriceScale int32
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. Variables from a .env file (CLOB_ENV_FILE, or
// ./.env when unset) are loaded first and never override the process
// environment. A missing ./.env is ignored; an unreadable or malformed
// one is an error, as is any invalid value.
func Load() (*Config, error) {
	if path := os.Getenv("CLOB_ENV_FILE"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load CLOB_ENV_FILE %q: %w", path, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	symbol := getStr("CLOB_SYMBOL", "DEMO")

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	logFormat := getStr("LOG_FORMAT", "json")
	if logFormat != "json" && logFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT: %q, must be one of: json, text", logFormat)
	}

	scale, err := getInt("CLOB_PRICE_SCALE", int(domain.DefaultPriceScale))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOB_PRICE_SCALE: %w", err)
	}
	if scale < 0 || scale > 8 {
		return nil, fmt.Errorf("invalid CLOB_PRICE_SCALE: %d, must be between 0 and 8", scale)
	}

	return &Config{
		Symbol:     symbol,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		PriceScale: int32(scale),
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
