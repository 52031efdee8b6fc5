package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName           = "BallotlyticWizard"
	defaultAppEnv            = "development"
	defaultPort              = "8080"
	defaultLogLevel          = "info"
	defaultShutdownDelay     = 10 * time.Second
	defaultIdempotencyTTL    = 24 * time.Hour
	defaultAuthLatency       = time.Second
	defaultRestoreLatency    = time.Second
	defaultConnectLatency    = time.Second
	defaultOracleLatency     = 3 * time.Second
	defaultSettlementLatency = 3 * time.Second
	defaultVerifySuccessRate = 0.9
	shutdownSecondsEnvVar    = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar   = "SHUTDOWN_TIMEOUT"
	idemTTLDurEnvVar         = "IDEMPOTENCY_TTL"
)

// Config captures application runtime configuration loaded from environment variables.
// The simulated collaborator latencies default to the demo profile (1s auth, 3s
// oracle and settlement) and can be shortened for local experimentation.
type Config struct {
	AppName           string
	AppEnv            string
	Port              string
	LogLevel          string
	DatabaseURL       string
	RedisURL          string
	ShutdownPeriod    time.Duration
	IdempotencyTTL    time.Duration
	AuthLatency       time.Duration
	RestoreLatency    time.Duration
	ConnectLatency    time.Duration
	OracleLatency     time.Duration
	SettlementLatency time.Duration
	VerifySuccessRate float64
}

// Load reads configuration values from the environment and populates a Config
// instance. DATABASE_URL and REDIS_URL are optional: without them the service
// runs entirely on in-memory backends, which is the demo deployment.
func Load() (Config, error) {
	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		ShutdownPeriod:    defaultShutdownDelay,
		IdempotencyTTL:    defaultIdempotencyTTL,
		AuthLatency:       defaultAuthLatency,
		RestoreLatency:    defaultRestoreLatency,
		ConnectLatency:    defaultConnectLatency,
		OracleLatency:     defaultOracleLatency,
		SettlementLatency: defaultSettlementLatency,
		VerifySuccessRate: defaultVerifySuccessRate,
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(idemTTLDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", idemTTLDurEnvVar, err)
		}
		cfg.IdempotencyTTL = d
	}

	durations := []struct {
		envVar string
		dst    *time.Duration
	}{
		{"AUTH_LATENCY", &cfg.AuthLatency},
		{"RESTORE_LATENCY", &cfg.RestoreLatency},
		{"CONNECT_LATENCY", &cfg.ConnectLatency},
		{"ORACLE_LATENCY", &cfg.OracleLatency},
		{"SETTLEMENT_LATENCY", &cfg.SettlementLatency},
	}
	for _, entry := range durations {
		v := os.Getenv(entry.envVar)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", entry.envVar, err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("invalid %s: must not be negative", entry.envVar)
		}
		*entry.dst = d
	}

	if v := os.Getenv("VERIFY_SUCCESS_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid VERIFY_SUCCESS_RATE: %w", err)
		}
		if rate < 0 || rate > 1 {
			return Config{}, fmt.Errorf("invalid VERIFY_SUCCESS_RATE: must be within [0, 1]")
		}
		cfg.VerifySuccessRate = rate
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
