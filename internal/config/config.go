package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/neexbeast/destination-seeder/internal/backend"
	"github.com/neexbeast/destination-seeder/internal/destination"
	"github.com/neexbeast/destination-seeder/internal/media"
	"github.com/neexbeast/destination-seeder/internal/pexels"
)

// defaultPexelsKey is the key the seeder ships with.
const defaultPexelsKey = "RPIgagJW4vMqV1C9hgq1y3lUTQfAzvx2fSMZ53ky1dvgYLJOEREedUSU"

// Seed holds the seeder configuration. Every field has a compiled-in default;
// environment variables (optionally from a .env file) override them.
type Seed struct {
	PexelsAPIKey    string
	PexelsSearchURL string
	BaseURL         string
	BackendToken    string

	TotalDestinations int
	ImagesPer         int
	VideosPer         int
	UploadDelay       time.Duration
	CreatedBy         string

	// RedisURL enables the photo-search cache when set.
	RedisURL string
	// FakerSeed makes synthetic data reproducible when non-zero.
	FakerSeed uint64
	LogLevel  slog.Level
}

// Stub holds the configuration of the local destination-service stand-in.
type Stub struct {
	Port          string
	PublicURL     string
	Token         string
	DatabaseURL   string
	MigrationsDir string

	MinIO MinIO

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// MinIO holds object-store settings. The stand-in keeps objects in memory
// unless Endpoint is set.
type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// loadDotenv reads .env from the working directory if present.
func loadDotenv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "err", err)
	}
}

// LoadSeed loads the seeder configuration.
func LoadSeed() (*Seed, error) {
	loadDotenv()

	cfg := &Seed{
		PexelsAPIKey:      getEnv("PEXELS_API_KEY", defaultPexelsKey),
		PexelsSearchURL:   getEnv("PEXELS_SEARCH_URL", pexels.DefaultSearchURL),
		BaseURL:           getEnv("BASE_URL", backend.DefaultBaseURL),
		BackendToken:      getEnv("BACKEND_TOKEN", ""),
		TotalDestinations: getIntEnv("TOTAL_DESTINATIONS", 100),
		ImagesPer:         getIntEnv("IMAGES_PER_DESTINATION", 5),
		VideosPer:         getIntEnv("VIDEOS_PER_DESTINATION", 5),
		UploadDelay:       getDurationEnv("UPLOAD_DELAY", media.DefaultUploadDelay),
		CreatedBy:         getEnv("CREATED_BY", destination.DefaultCreatedBy),
		RedisURL:          getEnv("REDIS_URL", ""),
		FakerSeed:         getUint64Env("FAKER_SEED", 0),
		LogLevel:          getLevelEnv("LOG_LEVEL", slog.LevelInfo),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the seeder configuration.
func (c *Seed) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if c.PexelsAPIKey == "" {
		return fmt.Errorf("PEXELS_API_KEY is required")
	}
	if c.TotalDestinations < 0 {
		return fmt.Errorf("TOTAL_DESTINATIONS must not be negative, got %d", c.TotalDestinations)
	}
	if c.ImagesPer <= 0 || c.VideosPer <= 0 {
		return fmt.Errorf("media counts must be positive, got %d images and %d videos", c.ImagesPer, c.VideosPer)
	}
	return nil
}

// LoadStub loads the stand-in service configuration.
func LoadStub() (*Stub, error) {
	loadDotenv()

	port := getEnv("PORT", "8083")
	cfg := &Stub{
		Port:          port,
		PublicURL:     getEnv("PUBLIC_URL", "http://localhost:"+port),
		Token:         getEnv("STUB_TOKEN", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		MinIO: MinIO{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "destination-media"),
			UseSSL:    getBoolEnv("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if cfg.MinIO.Endpoint != "" && (cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "") {
		return nil, fmt.Errorf("configuration validation failed: MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with MINIO_ENDPOINT")
	}
	return cfg, nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getUint64Env(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getLevelEnv(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
	}
	return defaultValue
}
