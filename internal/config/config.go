package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

type Config struct {
	Port             int
	LogLevel         string
	OpenAIModel      string
	OpenAIBaseURL    string
	GeminiModel      string
	GeminiBaseURL    string
	GeminiTestAPIKey string
	LLMTemperature   float64
	LLMTimeout       time.Duration
	SessionTTL       time.Duration
	CookieSecure     bool
	DatabaseURL      string
	NatsURL          string
	NatsToken        string
	SlackBotToken    string
	SlackChannel     string
	APIToken         string
}

func Load() Config {
	return Config{
		Port:             envInt("DISCOVERY_PORT", 8750),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		OpenAIModel:      envStr("OPENAI_MODEL", "gpt-5.1"),
		OpenAIBaseURL:    envStr("OPENAI_BASE_URL", ""),
		GeminiModel:      envStr("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiBaseURL:    envStr("GEMINI_BASE_URL", DefaultGeminiBaseURL),
		GeminiTestAPIKey: envStr("GEMINI_TEST_API_KEY", ""),
		LLMTemperature:   envFloat("LLM_TEMPERATURE", 1.0),
		LLMTimeout:       time.Duration(envInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
		SessionTTL:       time.Duration(envInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		CookieSecure:     envBool("COOKIE_SECURE", false),
		DatabaseURL:      envStr("DATABASE_URL", ""),
		NatsURL:          envStr("NATS_URL", ""),
		NatsToken:        envStr("NATS_TOKEN", ""),
		SlackBotToken:    envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:     envStr("SLACK_INSTRUCTOR_CHANNEL", ""),
		APIToken:         envStr("DISCOVERY_API_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt ignores non-positive values so a zero timeout or TTL can't disable the limit.
func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// envFloat ignores non-positive values, like envInt.
func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
