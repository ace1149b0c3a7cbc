package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	SupabaseURL     string
	PlaidClientID   string
	PlaidSecret     string
	PlaidEnv        string
	LogLevel        string
	Development     bool
	DemoMode        bool
	UniquePurchases bool
	AllowedOrigins  []string
}

// PlaidEnabled reports whether bank linking routes should be mounted.
func (c Config) PlaidEnabled() bool {
	return c.PlaidClientID != "" && c.PlaidSecret != ""
}

func Load() (Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTSecret:       getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseURL:     strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		PlaidClientID:   getEnv("PLAID_CLIENT_ID", ""),
		PlaidSecret:     getEnv("PLAID_SECRET", ""),
		PlaidEnv:        getEnv("PLAID_ENV", "sandbox"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Development:     getEnv("APP_ENV", "production") == "development",
		DemoMode:        getBool("DEMO_MODE", false),
		UniquePurchases: getBool("MARKETPLACE_UNIQUE_PURCHASES", false),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if cfg.PlaidEnabled() && cfg.PlaidEnv != "sandbox" && cfg.PlaidEnv != "production" {
		return cfg, fmt.Errorf("invalid PLAID_ENV: %s", cfg.PlaidEnv)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
