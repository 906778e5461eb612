package config

import (
	"errors"
	"os"
	"time"

	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	AppBaseURL  string

	DatabaseURL string
	RedisURL    string
	DraftStore  string
	DraftTTL    time.Duration

	SecretKey         string
	AdminEmail        string
	AdminPasswordHash string

	MidtransServerKey  string
	MidtransProduction bool
	PaymentTimeout     time.Duration

	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRedirectURL     string
	GoogleCredentialsFile string
	SheetsSpreadsheetID   string
	SheetsRange           string
	NotificationEmail     string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Infof("error loading .env file: %s. relying on environment variables", err)
	}

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("APP_ENV", EnvDevelopment),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		DraftStore:  getEnv("DRAFT_STORE", "redis"),
		DraftTTL:    cast.ToDuration(getEnv("DRAFT_TTL", "720h")),

		SecretKey:         os.Getenv("SECRET_KEY"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		MidtransServerKey:  os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransProduction: cast.ToBool(getEnv("MIDTRANS_PRODUCTION", "false")),
		PaymentTimeout:     cast.ToDuration(getEnv("PAYMENT_TIMEOUT", "10s")),

		GoogleClientID:        os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:    os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:     os.Getenv("GOOGLE_REDIRECT_URL"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		SheetsSpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
		SheetsRange:           getEnv("SHEETS_RANGE", "Submissions!A1"),
		NotificationEmail:     os.Getenv("NOTIFICATION_EMAIL"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "invoices"),
		MinioUseSSL:    cast.ToBool(getEnv("MINIO_USE_SSL", "false")),
	}

	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = 10 * time.Second
	}

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL environment variable not set")
	}
	if cfg.SecretKey == "" {
		return cfg, errors.New("SECRET_KEY environment variable not set")
	}
	if cfg.IsProduction() && cfg.MidtransServerKey == "" {
		return cfg, errors.New("MIDTRANS_SERVER_KEY environment variable not set")
	}
	if cfg.DraftStore == "redis" && cfg.RedisURL == "" {
		return cfg, errors.New("REDIS_URL environment variable not set")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
