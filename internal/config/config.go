// Package config handles application configuration loading from environment
// variables and an optional config file. It provides a centralized Config
// struct used across the application.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection. DatabaseURL wins over the individual fields.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Valkey (Redis-compatible cache)
	CacheEnabled   bool
	CacheTTL       time.Duration
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Uploads
	StorageBackend    string // "disk" or "s3"
	UploadDir         string
	UploadURLPrefix   string
	UploadMaxFileSize int64

	// S3-compatible object storage
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string
	S3PublicURL string

	// Orphan file sweeper
	CleanupSchedule string
	CleanupGrace    time.Duration

	// Startup seeding
	SeedOnStart bool
	SeedPreset  string

	// Per-IP requests per minute
	RateLimitAPI       int
	RateLimitDownloads int

	CORSOrigins []string

	// Logging
	LogLevel      string
	LogFormat     string // "text" or "json"
	LogFile       string // also write to this file when set
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// defaults lists every key with its development default.
var defaults = map[string]any{
	"APP_HOST": "0.0.0.0",
	"APP_PORT": "8080",
	"APP_ENV":  "development",

	"DATABASE_URL":      "",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_USER":     "contenthub",
	"POSTGRES_PASSWORD": "changeme",
	"POSTGRES_DB":       "contenthub",

	"CACHE_ENABLED":   false,
	"CACHE_TTL":       "60s",
	"VALKEY_HOST":     "localhost",
	"VALKEY_PORT":     "6379",
	"VALKEY_PASSWORD": "",
	"VALKEY_DB":       0,

	"STORAGE_BACKEND":      StorageDisk,
	"UPLOAD_DIR":           "uploads",
	"UPLOAD_URL_PREFIX":    "/uploads",
	"UPLOAD_MAX_FILE_SIZE": int64(100 << 20),

	"S3_ENDPOINT":   "",
	"S3_REGION":     "fsn1",
	"S3_ACCESS_KEY": "",
	"S3_SECRET_KEY": "",
	"S3_BUCKET":     "",
	"S3_PREFIX":     "uploads/",
	"S3_PUBLIC_URL": "",

	"CLEANUP_SCHEDULE": "0 0 * * * *",
	"CLEANUP_GRACE":    "1h",

	"SEED_ON_START": true,
	"SEED_PRESET":   "default",

	"RATE_LIMIT_API":       300,
	"RATE_LIMIT_DOWNLOADS": 30,

	"CORS_ORIGINS": "*",

	"LOG_LEVEL":       "info",
	"LOG_FORMAT":      "text",
	"LOG_FILE":        "",
	"LOG_MAX_SIZE_MB": 100,
	"LOG_MAX_BACKUPS": 5,
	"LOG_MAX_AGE":     30,
}

// Load reads configuration from environment variables, merged over an
// optional config file (YAML, TOML or JSON, keys named like the
// environment variables). Returns an error if critical values are
// missing or inconsistent.
func Load(file string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{
		Host: v.GetString("APP_HOST"),
		Port: v.GetString("APP_PORT"),
		Env:  v.GetString("APP_ENV"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		DBHost:      v.GetString("POSTGRES_HOST"),
		DBPort:      v.GetString("POSTGRES_PORT"),
		DBUser:      v.GetString("POSTGRES_USER"),
		DBPassword:  v.GetString("POSTGRES_PASSWORD"),
		DBName:      v.GetString("POSTGRES_DB"),

		CacheEnabled:   v.GetBool("CACHE_ENABLED"),
		CacheTTL:       v.GetDuration("CACHE_TTL"),
		ValkeyHost:     v.GetString("VALKEY_HOST"),
		ValkeyPort:     v.GetString("VALKEY_PORT"),
		ValkeyPassword: v.GetString("VALKEY_PASSWORD"),
		ValkeyDB:       v.GetInt("VALKEY_DB"),

		StorageBackend:    strings.ToLower(v.GetString("STORAGE_BACKEND")),
		UploadDir:         v.GetString("UPLOAD_DIR"),
		UploadURLPrefix:   v.GetString("UPLOAD_URL_PREFIX"),
		UploadMaxFileSize: v.GetInt64("UPLOAD_MAX_FILE_SIZE"),

		S3Endpoint:  v.GetString("S3_ENDPOINT"),
		S3Region:    v.GetString("S3_REGION"),
		S3AccessKey: v.GetString("S3_ACCESS_KEY"),
		S3SecretKey: v.GetString("S3_SECRET_KEY"),
		S3Bucket:    v.GetString("S3_BUCKET"),
		S3Prefix:    v.GetString("S3_PREFIX"),
		S3PublicURL: v.GetString("S3_PUBLIC_URL"),

		CleanupSchedule: v.GetString("CLEANUP_SCHEDULE"),
		CleanupGrace:    v.GetDuration("CLEANUP_GRACE"),

		SeedOnStart: v.GetBool("SEED_ON_START"),
		SeedPreset:  v.GetString("SEED_PRESET"),

		RateLimitAPI:       v.GetInt("RATE_LIMIT_API"),
		RateLimitDownloads: v.GetInt("RATE_LIMIT_DOWNLOADS"),

		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		LogFile:       v.GetString("LOG_FILE"),
		LogMaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAgeDays: v.GetInt("LOG_MAX_AGE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env == "production" && c.DatabaseURL == "" && c.DBPassword == "changeme" {
		return errors.New("POSTGRES_PASSWORD must be set in production")
	}
	switch c.StorageBackend {
	case StorageDisk:
	case StorageS3:
		if c.S3Endpoint == "" || c.S3Bucket == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return errors.New("STORAGE_BACKEND=s3 requires S3_ENDPOINT, S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageDisk, StorageS3, c.StorageBackend)
	}
	if c.UploadMaxFileSize <= 0 {
		return errors.New("UPLOAD_MAX_FILE_SIZE must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
