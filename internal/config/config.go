package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/useradmin/user-admin/backend/internal/model/user"
)

// Config aggregates every setting of the service.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Log    LogConfig
	CORS   CORSConfig
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Store: store, Log: logCfg, CORS: loadCORSConfig()}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

func loadServerConfig() (ServerConfig, error) {
	timeout := 10 * time.Second
	if override, err := parseOptionalIntEnv("SHUTDOWN_TIMEOUT_SECONDS"); err != nil {
		return ServerConfig{}, err
	} else if override != nil && *override > 0 {
		timeout = time.Duration(*override) * time.Second
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// ":8080" and "127.0.0.1:8080" are used as-is.
		return ServerConfig{Addr: port, ShutdownTimeout: timeout}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, ShutdownTimeout: timeout}, nil
}

// StoreConfig controls the in-memory user store.
type StoreConfig struct {
	IDStrategy  user.IDStrategy
	SeedEnabled bool
}

// Seed returns the records the store should start with.
func (c StoreConfig) Seed() []user.User {
	if !c.SeedEnabled {
		return nil
	}
	return user.Seed()
}

func loadStoreConfig() (StoreConfig, error) {
	strategy, err := user.ParseIDStrategy(os.Getenv("USER_ID_STRATEGY"))
	if err != nil {
		return StoreConfig{}, fmt.Errorf("invalid USER_ID_STRATEGY: %w", err)
	}

	seed, err := parseBoolEnv("USER_SEED_ENABLED", true)
	if err != nil {
		return StoreConfig{}, err
	}

	return StoreConfig{IDStrategy: strategy, SeedEnabled: seed}, nil
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  zapcore.Level
	Format string
}

// NewLogger builds a zap logger from the configuration.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	var zc zap.Config
	if c.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(c.Level)
	return zc.Build()
}

func loadLogConfig() (LogConfig, error) {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
			return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL value %q: %w", raw, err)
		}
	}

	format := strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json"))
	if format != "json" && format != "console" {
		return LogConfig{}, fmt.Errorf("invalid LOG_FORMAT value: %q", format)
	}

	return LogConfig{Level: level, Format: format}, nil
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string
}

func loadCORSConfig() CORSConfig {
	raw := getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return CORSConfig{AllowedOrigins: origins}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
