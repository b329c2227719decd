package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Storage backend: "file", "redis" or "postgres"
	StorageType string
	StoragePath string
	BlobKey     string
	RedisURL    string
	DatabaseURL string

	// Gemini AI. An empty key switches the service into simulation
	// mode instead of failing startup.
	GeminiAPIKey         string
	GeminiConcurrentReqs int
	SimDelayMs           int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		StorageType: getEnvOrDefault("STORAGE_TYPE", "file"),
		StoragePath: getEnvOrDefault("STORAGE_PATH", "./data"),
		BlobKey:     getEnvOrDefault("BLOB_KEY", "seiso_marketing_db_v1"),

		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		SimDelayMs:           getEnvAsIntOrDefault("SIM_DELAY_MS", 800),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	switch cfg.StorageType {
	case "redis":
		cfg.RedisURL = mustGetEnv("REDIS_URL")
	case "postgres":
		cfg.DatabaseURL = mustGetEnv("DATABASE_URL")
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
