package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/moodmate/config"
	"github.com/spacesedan/moodmate/internal/chat"
	"github.com/spacesedan/moodmate/internal/clients"
	"github.com/spacesedan/moodmate/internal/logging"
	"github.com/spacesedan/moodmate/internal/monitoring"
	"github.com/spacesedan/moodmate/internal/sentiment"
	"github.com/spacesedan/moodmate/internal/server"
)

const shutdownTimeout = 30 * time.Second

type chatProvider interface {
	chat.Provider
	monitoring.HealthChecker
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("info")
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	knowledgeBase, err := chat.LoadKnowledgeBase(cfg.KnowledgeBasePath)
	if err != nil {
		slog.Warn("[Main] Knowledge base unreadable, using persona prompt only",
			slog.String("path", cfg.KnowledgeBasePath),
			slog.String("error", err.Error()))
	}

	provider := newChatProvider(ctx, cfg)

	relay := chat.NewRelay(chat.Config{
		SystemPrompt: chat.SystemPrompt(knowledgeBase),
		HistoryLimit: cfg.ChatHistoryLimit,
		Timeout:      cfg.ChatTimeout,
	}, provider)

	var chatHealthy *atomic.Bool
	if provider != nil {
		chatHealthy = &atomic.Bool{}
		chatHealthy.Store(true)
		go monitoring.MonitorChatHealth(ctx, provider, chatHealthy, cfg.HealthCheckInterval)
	}

	routerCfg := server.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	}
	if cfg.RateLimitEnabled() {
		limiter, err := clients.NewValkeyClient(ctx, clients.ValkeyConfig{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
			Limit:    cfg.ChatRateLimit,
			Window:   cfg.ChatRateWindow,
		})
		if err != nil {
			slog.Warn("[Main] Chat rate limiting disabled",
				slog.String("error", err.Error()))
		} else {
			defer limiter.Close()
			routerCfg.Limiter = limiter
		}
	}

	handler := server.NewHandler(sentiment.NewClassifier(), relay, chatHealthy)
	router, err := server.NewRouter(handler, routerCfg)
	if err != nil {
		slog.Error("[Main] Failed to build router", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("[Main] MoodMate listening",
			slog.String("addr", srv.Addr),
			slog.String("env", cfg.Env),
			slog.String("chat_provider", relay.ProviderName()),
			slog.String("chat_model", cfg.ChatModel()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server stopped unexpectedly", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// newChatProvider returns nil when the selected provider has no usable
// credentials; chat requests then get the fallback reply.
func newChatProvider(ctx context.Context, cfg config.AppConfig) chatProvider {
	if cfg.ChatAPIKey() == "" {
		slog.Warn("[Main] No API key for chat provider, chat will serve fallback replies",
			slog.String("provider", cfg.ChatProvider))
		return nil
	}

	var (
		provider chatProvider
		err      error
	)

	switch cfg.ChatProvider {
	case config.ChatProviderOpenAI:
		var c *clients.OpenAIClient
		c, err = clients.NewOpenAIClient(clients.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.ChatTimeout,
		})
		if err == nil {
			provider = c
		}
	default:
		var c *clients.GeminiClient
		c, err = clients.NewGeminiClient(ctx, clients.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.ChatTimeout,
		})
		if err == nil {
			provider = c
		}
	}

	if err != nil {
		slog.Warn("[Main] Chat relay will serve fallback replies",
			slog.String("provider", cfg.ChatProvider),
			slog.String("error", err.Error()))
		return nil
	}
	return provider
}
