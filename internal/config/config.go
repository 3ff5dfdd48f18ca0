package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port        string
	DBPath      string
	DatasetPath string // GeoJSON export of the cafe sheet
	GinMode     string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string // bcrypt; empty disables admin login
	TokenTTL          time.Duration

	RateLimit  int
	RateWindow time.Duration

	LocateTimeout time.Duration
}

// Load reads the configuration from the environment
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", ":8080"),
		DBPath:      getEnv("DB_PATH", "./data/cafes.db"),
		DatasetPath: getEnv("CAFES_PATH", "./data/cafes.json"),
		GinMode:     getEnv("GIN_MODE", "release"),

		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		TokenTTL:          getDuration("TOKEN_TTL", 24*time.Hour),

		RateLimit:  getInt("RATE_LIMIT", 120),
		RateWindow: getDuration("RATE_WINDOW", time.Minute),

		LocateTimeout: getDuration("LOCATE_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return v
}
