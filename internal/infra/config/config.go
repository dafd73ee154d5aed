package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env  string
	Port string

	// Remote content store (GitHub raw + contents API)
	StoreOwner    string
	StoreRepo     string
	StoreBranch   string
	StoreDataPath string
	StoreTimeout  int    // seconds
	FloorDate     string // oldest date worth querying
	DateStrategy  string // "listing" or "range"

	// Channel discovery
	ChannelStrategy string // "listing" or "roster"
	ChannelRoster   []string

	// Aggregation and incremental loading
	CacheTTLMinutes   int
	MaxDays           int
	WindowInitial     int
	WindowIncrement   int
	SessionTTLMinutes int
	SessionCapacity   int

	// Chat gateway
	ChatGatewayURL string
	ChatGatewayKey string
	ChatModel      string
	ChatTimeout    int // seconds
	ChatRatePerMin int
	ChatRateBurst  int
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9030"),

		StoreOwner:    getEnv("STORE_OWNER", "misrori"),
		StoreRepo:     getEnv("STORE_REPO", "daily_news"),
		StoreBranch:   getEnv("STORE_BRANCH", "main"),
		StoreDataPath: getEnv("STORE_DATA_PATH", "data"),
		StoreTimeout:  getEnvInt("STORE_TIMEOUT_SECONDS", 15),
		FloorDate:     getEnv("FLOOR_DATE", "2026-02-10"),
		DateStrategy:  getEnv("DATE_STRATEGY", "listing"),

		ChannelStrategy: getEnv("CHANNEL_STRATEGY", "listing"),
		ChannelRoster:   splitList(getEnv("CHANNEL_ROSTER", "")),

		CacheTTLMinutes:   getEnvInt("CACHE_TTL_MINUTES", 5),
		MaxDays:           getEnvInt("MAX_DAYS", 30),
		WindowInitial:     getEnvInt("WINDOW_INITIAL", 5),
		WindowIncrement:   getEnvInt("WINDOW_INCREMENT", 3),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 30),
		SessionCapacity:   getEnvInt("SESSION_CAPACITY", 1024),

		ChatGatewayURL: getEnv("CHAT_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1"),
		ChatGatewayKey: getSecret("CHAT_GATEWAY_KEY", "CHAT_GATEWAY_KEY_FILE", ""),
		ChatModel:      getEnv("CHAT_MODEL", "google/gemini-3-flash-preview"),
		ChatTimeout:    getEnvInt("CHAT_TIMEOUT_SECONDS", 60),
		ChatRatePerMin: getEnvInt("CHAT_RATE_PER_MINUTE", 10),
		ChatRateBurst:  getEnvInt("CHAT_RATE_BURST", 3),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
