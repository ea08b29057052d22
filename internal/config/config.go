package config

import (
	"os"
	"strconv"
	"strings"
)

// Backend names accepted by STORE_BACKEND and the per-kind overrides.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendObject   = "object"
)

// StoreConfig selects which backend serves each entity kind.
// UserBackend and ItemBackend fall back to Backend when empty.
type StoreConfig struct {
	Backend         string
	UserBackend     string
	ItemBackend     string
	LookupTimeoutMs int
}

// UserBackendName returns the backend bound to users.
func (s StoreConfig) UserBackendName() string {
	return pick(s.UserBackend, s.Backend)
}

// ItemBackendName returns the backend bound to items.
func (s StoreConfig) ItemBackendName() string {
	return pick(s.ItemBackend, s.Backend)
}

// Uses reports whether any entity kind is bound to the named backend.
func (s StoreConfig) Uses(backend string) bool {
	return s.UserBackendName() == backend || s.ItemBackendName() == backend
}

func pick(override, def string) string {
	if v := strings.ToLower(strings.TrimSpace(override)); v != "" {
		return v
	}
	if v := strings.ToLower(strings.TrimSpace(def)); v != "" {
		return v
	}
	return BackendMemory
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// SQLiteConfig holds settings for the embedded SQLite store.
type SQLiteConfig struct {
	Path         string
	MaxOpenConns int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// RedisConfig holds settings for the optional read-through cache.
// The cache is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTLSec   int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Env      string
	LogLevel string
	Port     string
	Store    StoreConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() *AppConfig {
	return &AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "32123"),
		Store: StoreConfig{
			Backend:         getEnv("STORE_BACKEND", BackendMemory),
			UserBackend:     getEnv("USER_STORE_BACKEND", ""),
			ItemBackend:     getEnv("ITEM_STORE_BACKEND", ""),
			LookupTimeoutMs: getEnvInt("STORE_LOOKUP_TIMEOUT_MS", 3000),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		SQLite: SQLiteConfig{
			Path:         getEnv("SQLITE_PATH", "repoapi.db"),
			MaxOpenConns: getEnvInt("SQLITE_MAX_OPEN_CONNS", 4),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			Region:    getEnv("MINIO_REGION", "us-east-1"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTLSec:   getEnvInt("REDIS_TTL_SEC", 60),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
