package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by STORE_BACKEND.
const (
	StoreFile      = "file"
	StorePostgres  = "postgres"
	StoreDatastore = "datastore"
	StoreMemory    = "memory"
)

// Stats caches accepted by STATS_CACHE.
const (
	CacheNone  = "none"
	CacheLocal = "local"
	CacheRedis = "redis"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// server config
	APP_PORT           int
	CORS_ALLOW_ORIGINS []string
	TIMEZONE           string
	// registry config
	STORE_BACKEND string
	DATA_DIR      string
	// database config
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	// datastore config
	DATASTORE_PROJECT_ID string
	// cache / search config
	STATS_CACHE     string
	REDIS_URI       string
	STATS_CACHE_TTL time.Duration
	ELASTIC_URL     string
	// dashboard constants
	PREDICTED_OUTPUT  int
	DEPARTMENT_TARGET int
	UNIT_OUTPUT       int
	// report config
	REPORT_TEMPLATE_PATH string
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
}

// LoadEnvConfig reads .env (when present) and the process environment into DefaultEnvConfig.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &envConfig{
		APP_PORT:             getEnvInt("APP_PORT", 8080),
		CORS_ALLOW_ORIGINS:   getEnvList("CORS_ALLOW_ORIGINS", []string{"*"}),
		TIMEZONE:             getEnvString("TIMEZONE", "Local"),
		STORE_BACKEND:        strings.ToLower(getEnvString("STORE_BACKEND", StoreFile)),
		DATA_DIR:             getEnvString("DATA_DIR", "data"),
		DB_HOST:              getEnvString("DB_HOST", "localhost"),
		DB_PORT:              getEnvInt("DB_PORT", 5432),
		DB_USER:              getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:          getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:              getEnvString("DB_NAME", "postgres"),
		DB_SSL_MODE:          getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME: getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
		DATASTORE_PROJECT_ID: getEnvString("DATASTORE_PROJECT_ID", ""),
		STATS_CACHE:          strings.ToLower(getEnvString("STATS_CACHE", CacheNone)),
		REDIS_URI:            getEnvString("REDIS_URI", ""),
		STATS_CACHE_TTL:      getEnvDuration("STATS_CACHE_TTL", 30*time.Second),
		ELASTIC_URL:          getEnvString("ELASTIC_URL", ""),
		PREDICTED_OUTPUT:     getEnvInt("PREDICTED_OUTPUT", 1000),
		DEPARTMENT_TARGET:    getEnvInt("DEPARTMENT_TARGET", 100),
		UNIT_OUTPUT:          getEnvInt("UNIT_OUTPUT", 10),
		REPORT_TEMPLATE_PATH: getEnvString("REPORT_TEMPLATE_PATH", ""),
		LOG_FILE_PATH:        getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:            getEnvString("LOG_LEVEL", "info"),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	DefaultEnvConfig = cfg
	return nil
}

// Validate rejects settings the service cannot start with.
func (c *envConfig) Validate() error {
	switch c.STORE_BACKEND {
	case StoreFile, StorePostgres, StoreDatastore, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.STORE_BACKEND)
	}
	switch c.STATS_CACHE {
	case CacheNone, CacheLocal:
	case CacheRedis:
		if c.REDIS_URI == "" {
			return fmt.Errorf("REDIS_URI is required for the redis stats cache")
		}
	default:
		return fmt.Errorf("unknown STATS_CACHE %q", c.STATS_CACHE)
	}
	if c.APP_PORT <= 0 || c.APP_PORT > 65535 {
		return fmt.Errorf("invalid APP_PORT %d", c.APP_PORT)
	}
	if c.STORE_BACKEND == StoreDatastore && c.DATASTORE_PROJECT_ID == "" {
		return fmt.Errorf("DATASTORE_PROJECT_ID is required for the datastore backend")
	}
	if _, err := time.LoadLocation(c.TIMEZONE); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.TIMEZONE, err)
	}
	return nil
}

// Location resolves TIMEZONE. Validate has already checked it.
func (c *envConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TIMEZONE)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
