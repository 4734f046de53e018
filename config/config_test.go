package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "PORT", "LOG_LEVEL", "CHAT_PROVIDER",
	"GEMINI_API_KEY", "GEMINI_MODEL", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"CHAT_TIMEOUT", "CHAT_HISTORY_LIMIT", "KNOWLEDGE_BASE_PATH", "CORS_ALLOWED_ORIGINS",
	"TRUSTED_PROXIES", "MAX_BODY_BYTES", "VALKEY_INIT_ADDRESS", "VALKEY_PASSWORD", "VALKEY_TLS",
	"CHAT_RATE_LIMIT", "CHAT_RATE_WINDOW", "HEALTHCHECK_INTERVAL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ChatProviderGemini, cfg.ChatProvider)
	assert.Equal(t, "gemini-2.0-flash", cfg.ChatModel())
	assert.Equal(t, 15*time.Second, cfg.ChatTimeout)
	assert.Equal(t, 8, cfg.ChatHistoryLimit)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.EqualValues(t, 65536, cfg.MaxBodyBytes)
	assert.False(t, cfg.RateLimitEnabled())
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.ChatAPIKey())
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, time.Minute, cfg.ChatRateWindow)
	assert.Equal(t, 20, cfg.ChatRateLimit)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("CHAT_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("CHAT_TIMEOUT", "10s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("VALKEY_INIT_ADDRESS", "localhost:6379")
	t.Setenv("VALKEY_TLS", "true")
	t.Setenv("CHAT_RATE_LIMIT", "5")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10")
	t.Setenv("MAX_BODY_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ChatProviderOpenAI, cfg.ChatProvider)
	assert.Equal(t, "sk-test", cfg.ChatAPIKey())
	assert.Equal(t, "gpt-4.1-mini", cfg.ChatModel())
	assert.Equal(t, 10*time.Second, cfg.ChatTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.RateLimitEnabled())
	assert.True(t, cfg.ValkeyTLS)
	assert.Equal(t, 5, cfg.ChatRateLimit)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.TrustedProxies)
	assert.EqualValues(t, 1024, cfg.MaxBodyBytes)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"CHAT_PROVIDER":      "claude",
		"LOG_LEVEL":          "verbose",
		"CHAT_TIMEOUT":       "soon",
		"CHAT_RATE_WINDOW":   "-1m",
		"CHAT_HISTORY_LIMIT": "0",
		"MAX_BODY_BYTES":     "lots",
		"VALKEY_TLS":         "maybe",
		"CHAT_RATE_LIMIT":    "-3",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadEnv_DoesNotOverrideExisting(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, envDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, envDir, ".env.test"),
		[]byte("PORT=9999\nGEMINI_MODEL=gemini-test\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("PORT", "7000")
	os.Unsetenv("GEMINI_MODEL")
	LoadEnv("test")

	assert.Equal(t, "7000", os.Getenv("PORT"))
	assert.Equal(t, "gemini-test", os.Getenv("GEMINI_MODEL"))
}
