package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "9030", cfg.Port)
	assert.Equal(t, "misrori", cfg.StoreOwner)
	assert.Equal(t, "daily_news", cfg.StoreRepo)
	assert.Equal(t, "listing", cfg.DateStrategy)
	assert.Equal(t, "listing", cfg.ChannelStrategy)
	assert.Empty(t, cfg.ChannelRoster)
	assert.Equal(t, 5, cfg.CacheTTLMinutes)
	assert.Equal(t, 30, cfg.MaxDays)
	assert.Equal(t, 5, cfg.WindowInitial)
	assert.Equal(t, 3, cfg.WindowIncrement)
	assert.Equal(t, "google/gemini-3-flash-preview", cfg.ChatModel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATE_STRATEGY", "range")
	t.Setenv("CHANNEL_STRATEGY", "roster")
	t.Setenv("CHANNEL_ROSTER", "coinbureau, IvanOnTech ,,DataDash")
	t.Setenv("CACHE_TTL_MINUTES", "10")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "range", cfg.DateStrategy)
	assert.Equal(t, "roster", cfg.ChannelStrategy)
	assert.Equal(t, []string{"coinbureau", "IvanOnTech", "DataDash"}, cfg.ChannelRoster)
	assert.Equal(t, 10, cfg.CacheTTLMinutes)
}

func TestGetEnvInt_MalformedFallsBack(t *testing.T) {
	t.Setenv("CACHE_TTL_MINUTES", "soon")
	assert.Equal(t, 5, Load().CacheTTLMinutes)
}

func TestGetSecret_ReadsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("s3cret\n"), 0o600))
	t.Setenv("CHAT_GATEWAY_KEY_FILE", path)

	assert.Equal(t, "s3cret", Load().ChatGatewayKey)
}

func TestGetSecret_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("from-file"), 0o600))
	t.Setenv("CHAT_GATEWAY_KEY_FILE", path)
	t.Setenv("CHAT_GATEWAY_KEY", "from-env")

	assert.Equal(t, "from-env", Load().ChatGatewayKey)
}
