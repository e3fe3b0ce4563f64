package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port                string
	DatabaseURL         string
	RedisURL            string // Empty disables the dish cache
	FrontendURL         string // Frontend base URL (for dish share links and QR codes)
	JWTSecret           string // Secret key for JWT token signing
	JWTTTLMinutes       int    // JWT token expiration time in minutes
	BcryptCost          int
	CacheTTLSeconds     int
	LogLevel            string
	RateLimitRPS        float64 // Rate limit for general API endpoints (requests per second)
	RateLimitBurst      int     // Burst size for rate limiting
	RateLimitAuthRPS    float64 // Rate limit for auth endpoints (stricter)
	RateLimitAuthBurst  int     // Burst size for auth endpoints
	RateLimitLikeRPS    float64 // Rate limit for like toggles, keyed by user
	RateLimitLikeBurst  int     // Burst size for like toggles
	ShutdownTimeoutSecs int
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTTTLMinutes:       getEnvInt("JWT_TTL_MINUTES", 60),
		BcryptCost:          getEnvInt("BCRYPT_COST", 10),
		CacheTTLSeconds:     getEnvInt("CACHE_TTL_SECONDS", 300),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		RateLimitRPS:        getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitAuthRPS:    getEnvFloat("RATE_LIMIT_AUTH_RPS", 2),
		RateLimitAuthBurst:  getEnvInt("RATE_LIMIT_AUTH_BURST", 5),
		RateLimitLikeRPS:    getEnvFloat("RATE_LIMIT_LIKE_RPS", 5),
		RateLimitLikeBurst:  getEnvInt("RATE_LIMIT_LIKE_BURST", 10),
		ShutdownTimeoutSecs: getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
	}
}

// Validate reports the first missing or out-of-range setting.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTTTLMinutes <= 0 {
		return fmt.Errorf("JWT_TTL_MINUTES must be positive, got %d", c.JWTTTLMinutes)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive, got %d", c.CacheTTLSeconds)
	}
	return nil
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSecs) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
