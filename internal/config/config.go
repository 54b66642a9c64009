package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabasePath  string
	JWTSecret     string
	AllowedOrigin string

	// Receipt uploads
	UploadDir     string
	MaxUploadSize int64

	// External OCR collaborator
	OCRServiceURL string
	OCRTimeout    time.Duration
}

// Load loads configuration from environment variables or sets defaults.
// A local .env file is honored when present. The JWT secret has no
// default and must be supplied by the environment.
func Load() (*Config, error) {
	// Ignore the error: a missing .env just means plain env vars.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "4000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	maxUploadStr := getEnv("MAX_UPLOAD_SIZE", strconv.Itoa(5<<20))
	maxUpload, err := strconv.ParseInt(maxUploadStr, 10, 64)
	if err != nil {
		return nil, err
	}

	ocrTimeout, err := time.ParseDuration(getEnv("OCR_TIMEOUT", "30s"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", "./finpal.db"),
		JWTSecret:     secret,
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: maxUpload,
		OCRServiceURL: getEnv("OCR_SERVICE_URL", "http://localhost:5001"),
		OCRTimeout:    ocrTimeout,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
