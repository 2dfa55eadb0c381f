// Package config loads all runtime configuration from the environment so
// main stays lean. A .env file is honored in development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// Database captures the relational store configuration. An empty URL
// selects the in-memory stores.
type Database struct {
	URL string
}

// RedisConfig captures the session store configuration. An empty URL
// selects the in-memory cart store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Blobs captures the document byte backend. CloudinaryURL selects the
// cloud backend; otherwise bytes land under LocalDir.
type Blobs struct {
	CloudinaryURL string
	LocalDir      string
}

// Config is everything the server needs.
type Config struct {
	Server   Server
	Database Database
	Redis    RedisConfig
	Blobs    Blobs
}

// FromEnv builds the configuration from environment variables, loading a
// .env file first when one exists.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Server: Server{
			Addr:          envOr("ASEARA_ADDR", ":8080"),
			JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     envOr("JWT_ISSUER", "aseara"),
			JWTAudience:   envOr("JWT_AUDIENCE", "aseara-api"),
		},
		Database: Database{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Blobs: Blobs{
			CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
			LocalDir:      envOr("DOCUMENT_DIR", "data/documents"),
		},
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
