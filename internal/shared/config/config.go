package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	LLMProvider string
	LLMModel    string

	ImageProvider string

	// Cloudflare D1 query RPC (production user store + credit ledger).
	CFAccountID  string
	D1DatabaseID string
	CFAPIToken   string

	// Postgres alternative for self-hosted deployments.
	DatabaseURL string

	// Generated-document store.
	PDFMirrorDir  string
	PDFTTL        time.Duration
	SweepInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	cfAccount := os.Getenv("CLOUDFLARE_ACCOUNT_ID")

	if env == "production" && dbURL == "" && cfAccount == "" {
		log.Printf("a user store (CLOUDFLARE_ACCOUNT_ID or DATABASE_URL) is required in production")
	}

	ttl := getEnvDuration("CARD_PDF_TTL", time.Hour)

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4"),
		ImageProvider:   getEnv("IMAGE_PROVIDER", "fal"),
		CFAccountID:     cfAccount,
		D1DatabaseID:    os.Getenv("D1_DATABASE_ID"),
		CFAPIToken:      os.Getenv("CLOUDFLARE_API_TOKEN"),
		DatabaseURL:     dbURL,
		PDFMirrorDir:    getEnv("PDF_MIRROR_DIR", ""),
		PDFTTL:          ttl,
		SweepInterval:   getEnvDuration("CARD_SWEEP_INTERVAL", ttl),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
		return parsed
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
