package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	ChatProviderGemini = "gemini"
	ChatProviderOpenAI = "openai"
)

var defaults = map[string]any{
	"APP_ENV":              "dev",
	"PORT":                 "8080",
	"LOG_LEVEL":            "info",
	"CHAT_PROVIDER":        ChatProviderGemini,
	"GEMINI_API_KEY":       "",
	"GEMINI_MODEL":         "gemini-2.0-flash",
	"OPENAI_API_KEY":       "",
	"OPENAI_MODEL":         "gpt-4o-mini",
	"OPENAI_BASE_URL":      "",
	"CHAT_TIMEOUT":         15 * time.Second,
	"CHAT_HISTORY_LIMIT":   8,
	"KNOWLEDGE_BASE_PATH":  "knowledge.txt",
	"CORS_ALLOWED_ORIGINS": "*",
	"TRUSTED_PROXIES":      "",
	"MAX_BODY_BYTES":       64 << 10,
	"VALKEY_INIT_ADDRESS":  "",
	"VALKEY_PASSWORD":      "",
	"VALKEY_TLS":           false,
	"CHAT_RATE_LIMIT":      20,
	"CHAT_RATE_WINDOW":     time.Minute,
	"HEALTHCHECK_INTERVAL": 60 * time.Second,
}

// AppConfig is read once at startup and handed to constructors.
type AppConfig struct {
	Env      string `mapstructure:"APP_ENV"`
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	ChatProvider      string        `mapstructure:"CHAT_PROVIDER"`
	GeminiAPIKey      string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel       string        `mapstructure:"GEMINI_MODEL"`
	OpenAIAPIKey      string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel       string        `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL     string        `mapstructure:"OPENAI_BASE_URL"`
	ChatTimeout       time.Duration `mapstructure:"CHAT_TIMEOUT"`
	ChatHistoryLimit  int           `mapstructure:"CHAT_HISTORY_LIMIT"`
	KnowledgeBasePath string        `mapstructure:"KNOWLEDGE_BASE_PATH"`

	AllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	// Proxies whose X-Forwarded-For is believed. Empty means the peer
	// address is the client address.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`
	MaxBodyBytes   int64    `mapstructure:"MAX_BODY_BYTES"`

	ValkeyAddress  string        `mapstructure:"VALKEY_INIT_ADDRESS"`
	ValkeyPassword string        `mapstructure:"VALKEY_PASSWORD"`
	ValkeyTLS      bool          `mapstructure:"VALKEY_TLS"`
	ChatRateLimit  int           `mapstructure:"CHAT_RATE_LIMIT"`
	ChatRateWindow time.Duration `mapstructure:"CHAT_RATE_WINDOW"`

	HealthCheckInterval time.Duration `mapstructure:"HEALTHCHECK_INTERVAL"`
}

// ChatAPIKey returns the key of the selected provider. An empty key is not an
// error here; the chat relay degrades to its fallback reply instead.
func (c AppConfig) ChatAPIKey() string {
	if c.ChatProvider == ChatProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func (c AppConfig) ChatModel() string {
	if c.ChatProvider == ChatProviderOpenAI {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func (c AppConfig) RateLimitEnabled() bool {
	return c.ValkeyAddress != ""
}

// Load builds an AppConfig from the process environment. Call LoadEnv first
// if an env file should be taken into account.
func Load() (AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg AppConfig
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		trimStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		stringToListHook(),
	)))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.ChatProvider = strings.ToLower(cfg.ChatProvider)

	if err := cfg.validate(); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	var errs []error

	switch c.ChatProvider {
	case ChatProviderGemini, ChatProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("CHAT_PROVIDER: unsupported provider %q", c.ChatProvider))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL: unsupported level %q", c.LogLevel))
	}

	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS: at least one origin is required"))
	}

	positiveDurations := map[string]time.Duration{
		"CHAT_TIMEOUT":         c.ChatTimeout,
		"CHAT_RATE_WINDOW":     c.ChatRateWindow,
		"HEALTHCHECK_INTERVAL": c.HealthCheckInterval,
	}
	for key, d := range positiveDurations {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive, got %s", key, d))
		}
	}

	positiveInts := map[string]int64{
		"CHAT_HISTORY_LIMIT": int64(c.ChatHistoryLimit),
		"CHAT_RATE_LIMIT":    int64(c.ChatRateLimit),
		"MAX_BODY_BYTES":     c.MaxBodyBytes,
	}
	for key, n := range positiveInts {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive, got %d", key, n))
		}
	}

	return errors.Join(errs...)
}

func trimStringHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}
		return strings.TrimSpace(reflect.ValueOf(data).String()), nil
	}
}

// stringToListHook splits comma separated values, dropping blanks.
func stringToListHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
			return data, nil
		}
		return splitList(reflect.ValueOf(data).String()), nil
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
