package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	RedisAddr     string
	RedisPassword string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Extractor settings
	FetchTimeout   time.Duration
	UserAgent      string
	NotFoundMarker string

	// Channel the completion message is published on
	CompleteChannel string

	TaskMaxRetries int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Load() Config {
	// Optional .env for local development; deployments use the real environment.
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:   getenv("APP_ENV", "development"),
		HTTPAddr: getenv("HTTP_ADDR", ":8081"),

		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DBHost:     getenv("DB_HOST", "127.0.0.1"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME", "linkscraper"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		FetchTimeout:   time.Duration(getenvInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		UserAgent:      getenv("SCRAPER_USER_AGENT", ""),
		NotFoundMarker: getenv("NOT_FOUND_MARKER", "Recurso no encontrado"),

		CompleteChannel: getenv("COMPLETE_CHANNEL", "processing_complete"),

		TaskMaxRetries: getenvInt("TASK_MAX_RETRIES", 0),
	}
	if cfg.RedisAddr == "" {
		panic(fmt.Errorf("REDIS_ADDR is required"))
	}
	return cfg
}
