package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	Storage StorageConfig
}

type StorageConfig struct {
	// Backend selects where uploaded blobs go: "local" or "s3".
	Backend       string
	UploadDir     string
	MaxUploadSize int64

	S3 S3Config
}

type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// Endpoint is optional, for S3-compatible services (MinIO, R2, ...).
	Endpoint string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "1h"))
	if err != nil {
		accessExpiry = 1 * time.Hour
	}

	maxUploadSize, err := strconv.ParseInt(getEnv("MAX_UPLOAD_SIZE", "33554432"), 10, 64)
	if err != nil {
		maxUploadSize = 32 << 20
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:       getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry: accessExpiry,

		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "local"),
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadSize: maxUploadSize,

			S3: S3Config{
				Region:    getEnv("S3_REGION", "us-east-1"),
				Bucket:    getEnv("S3_BUCKET", ""),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
				Endpoint:  getEnv("S3_ENDPOINT", ""),
			},
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}
