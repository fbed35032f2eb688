package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"prompt_badges/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort      string
	DatabaseURL  string
	DBMaxConns   int32
	JWTSecret    string
	ServiceToken string // empty disables the /internal routes

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool

	CacheTTL        time.Duration
	CacheMaxEntries int

	SweepEnabled   bool
	SweepHour      uint
	SweepMinute    uint
	SweepBatchSize int

	APIRateLimit    int
	APIRateWindow   time.Duration
	CheckRateLimit  int
	CheckRateWindow time.Duration
}

// Load reads .env (if present) and the environment. Invalid config is fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// Parse builds a Config from the environment only.
func Parse() (*Config, error) {
	var errs []error

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	sweepAt := os.Getenv("SWEEP_AT")
	if sweepAt == "" {
		sweepAt = "03:00"
	}
	hour, minute, err := parseClock(sweepAt)
	if err != nil {
		errs = append(errs, fmt.Errorf("SWEEP_AT: %w", err))
	}

	cfg := &Config{
		AppPort:      port,
		DatabaseURL:  dbURL,
		DBMaxConns:   int32(intEnv("DB_MAX_CONNS", 10, &errs)),
		JWTSecret:    jwtSecret,
		ServiceToken: os.Getenv("SERVICE_TOKEN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       intEnvAllowZero("REDIS_DB", 0, &errs),

		LogLevel: logLevel,
		LogJSON:  os.Getenv("LOG_JSON") == "true",

		CacheTTL:        time.Duration(intEnv("LEADERBOARD_CACHE_TTL_SECONDS", 300, &errs)) * time.Second,
		CacheMaxEntries: intEnv("LEADERBOARD_CACHE_MAX_ENTRIES", 200, &errs),

		SweepEnabled:   os.Getenv("SWEEP_ENABLED") != "false",
		SweepHour:      hour,
		SweepMinute:    minute,
		SweepBatchSize: intEnv("SWEEP_BATCH_SIZE", 500, &errs),

		APIRateLimit:    intEnv("API_RATE_LIMIT", 120, &errs),
		APIRateWindow:   time.Duration(intEnv("API_RATE_WINDOW_SECONDS", 60, &errs)) * time.Second,
		CheckRateLimit:  intEnv("CHECK_RATE_LIMIT", 30, &errs),
		CheckRateWindow: time.Duration(intEnv("CHECK_RATE_WINDOW_SECONDS", 60, &errs)) * time.Second,
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// intEnv reads a positive integer, falling back to def when unset.
func intEnv(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a positive integer, got %q", key, v))
		return def
	}
	return n
}

func intEnvAllowZero(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a non-negative integer, got %q", key, v))
		return def
	}
	return n
}

// parseClock parses HH:MM (24h).
func parseClock(s string) (hour, minute uint, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, 0, fmt.Errorf("bad hour in %q", s)
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 {
		return 0, 0, fmt.Errorf("bad minute in %q", s)
	}
	return uint(hh), uint(mm), nil
}
