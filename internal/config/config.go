/**
 * @description
 * Configuration loader for the Polytickers Backend.
 * Responsible for reading environment variables, setting defaults, and performing strict validation.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - standard "os": For reading env vars
 *
 * @notes
 * - Upstream URLs all carry production defaults; only secrets are empty by default.
 * - Uses a Singleton-like pattern where Load() returns a Config struct.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Polymarket PolymarketConfig
	Dome       DomeConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string // "development" or "production"
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	URL string
}

// PolymarketConfig holds Polymarket API endpoints
type PolymarketConfig struct {
	GammaURL  string // Events/markets listing API
	ClobURL   string // Order book price API
	BridgeURL string // Deposit bridge API
}

// DomeConfig holds the DOME trade router settings
type DomeConfig struct {
	BaseURL string
	APIKey  string
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Attempt to load .env, but don't crash if it fails (k8s/prod might inject env vars directly)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Polymarket: PolymarketConfig{
			GammaURL:  getEnv("POLYMARKET_GAMMA_URL", "https://gamma-api.polymarket.com"),
			ClobURL:   getEnv("POLYMARKET_CLOB_URL", "https://clob.polymarket.com"),
			BridgeURL: getEnv("POLYMARKET_BRIDGE_URL", "https://bridge.polymarket.com"),
		},
		Dome: DomeConfig{
			BaseURL: getEnv("DOME_API_URL", "https://api.domeapi.io/v1"),
			APIKey:  sanitizeCredential(getEnv("DOME_API_KEY", "")),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks for required variables
func validate(cfg *Config) error {
	if cfg.Polymarket.GammaURL == "" {
		return fmt.Errorf("POLYMARKET_GAMMA_URL is required")
	}
	if cfg.Polymarket.ClobURL == "" {
		return fmt.Errorf("POLYMARKET_CLOB_URL is required")
	}
	if cfg.Dome.APIKey == "" && cfg.Server.Env != "test" {
		// Warning: trading routes will reject requests until this is set
		fmt.Println("Warning: DOME_API_KEY is missing. Trade routes will be unavailable.")
	}
	return nil
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func sanitizeCredential(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.Trim(trimmed, "\"")
}

// Helper to get env var as int
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
