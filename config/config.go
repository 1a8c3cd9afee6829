package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Annany2002/bookreader-backend/internal/logger"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	customLog = logger.NewLogger()
)

// Blob backends understood by BLOB_BACKEND.
const (
	BlobBackendLocal = "local"
	BlobBackendS3    = "s3"
)

// DefaultTranslateEndpoint is the public Google translate endpoint used when
// TRANSLATE_ENDPOINT is not set.
const DefaultTranslateEndpoint = "https://translate.googleapis.com/translate_a/single"

// Config holds application configuration values
type Config struct {
	ServerPort     string
	JWTSecret      string
	JWTExpiration  time.Duration
	BcryptCost     int
	MetadataDbDir  string
	MetadataDbFile string

	UploadDir      string
	MaxUploadBytes int64
	BlobBackend    string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TranslateEndpoint string
	TranslateTimeout  time.Duration
	TranslateCacheTTL time.Duration

	CORSAllowedOrigins []string
	AuthRateLimit      int
	AuthRateWindow     time.Duration
}

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignores it for production).
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable must be set")
	}

	cfg := &Config{
		ServerPort:     strings.TrimPrefix(getEnv("SERVER_PORT", "8080"), ":"),
		JWTSecret:      jwtSecret,
		JWTExpiration:  time.Minute * time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)),
		BcryptCost:     getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		MetadataDbDir:  getEnv("DATABASE_DIRECTORY", "data"),
		MetadataDbFile: getEnv("DATABASE_FILE", "app.db"),

		UploadDir:      getEnv("UPLOAD_DIRECTORY", "uploads"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 50)) << 20,
		BlobBackend:    strings.ToLower(getEnv("BLOB_BACKEND", BlobBackendLocal)),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		TranslateEndpoint: getEnv("TRANSLATE_ENDPOINT", DefaultTranslateEndpoint),
		TranslateTimeout:  getEnvDuration("TRANSLATE_TIMEOUT", 10*time.Second),
		TranslateCacheTTL: getEnvDuration("TRANSLATE_CACHE_TTL", 24*time.Hour),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AuthRateLimit:      getEnvInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow:     getEnvDuration("AUTH_RATE_WINDOW", time.Minute),
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		customLog.Warnf("Invalid BCRYPT_COST %d. Using default %d.", cfg.BcryptCost, bcrypt.DefaultCost)
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	switch cfg.BlobBackend {
	case BlobBackendLocal:
	case BlobBackendS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3_BUCKET must be set when BLOB_BACKEND=s3")
		}
	default:
		return nil, errors.New("BLOB_BACKEND must be 'local' or 's3'")
	}

	customLog.Printf("Configuration loaded successfully. Port: %s, JWT Exp: %v, Blob backend: %s",
		cfg.ServerPort, cfg.JWTExpiration, cfg.BlobBackend)
	return cfg, nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		customLog.Warnf("Invalid %s '%s'. Using default %d.", key, raw, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		customLog.Warnf("Invalid %s '%s'. Using default %v.", key, raw, fallback)
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
