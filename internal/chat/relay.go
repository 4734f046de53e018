package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/moodmate/internal/models"
)

var (
	ErrEmptyMessage        = errors.New("empty message")
	ErrConfiguration       = errors.New("chat provider not configured")
	ErrUpstreamUnavailable = errors.New("chat provider unavailable")
)

// FallbackReply is shown to the user whenever the provider cannot answer.
const FallbackReply = "MoodMate is unavailable right now. Please try again in a little while."

const (
	defaultHistoryLimit = 8
	defaultTimeout      = 15 * time.Second
)

// Prompt is what a Provider sends upstream. History roles are normalised to
// models.ChatRoleUser and models.ChatRoleAssistant.
type Prompt struct {
	System  string
	History []models.ChatTurn
	Message string
}

type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

type Config struct {
	SystemPrompt string
	HistoryLimit int
	Timeout      time.Duration
}

// Relay forwards chat messages to a Provider, one attempt per message.
type Relay struct {
	cfg      Config
	provider Provider
}

// NewRelay builds a Relay. A nil provider is allowed: every Reply then fails
// with ErrConfiguration.
func NewRelay(cfg Config, provider Provider) *Relay {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Relay{cfg: cfg, provider: provider}
}

func (r *Relay) Configured() bool {
	return r.provider != nil
}

func (r *Relay) ProviderName() string {
	if r.provider == nil {
		return "none"
	}
	return r.provider.Name()
}

// Reply returns the provider's text unchanged.
func (r *Relay) Reply(ctx context.Context, req models.ChatRequest) (string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if r.provider == nil {
		return "", ErrConfiguration
	}

	prompt := Prompt{
		System:  r.cfg.SystemPrompt,
		History: RecentHistory(req.History, r.cfg.HistoryLimit),
		Message: message,
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	reply, err := r.provider.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			return "", err
		}
		slog.Warn("[ChatRelay] Provider request failed",
			slog.String("provider", r.provider.Name()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	if strings.TrimSpace(reply) == "" {
		slog.Warn("[ChatRelay] Provider returned no content",
			slog.String("provider", r.provider.Name()))
		return "", fmt.Errorf("%w: empty response", ErrUpstreamUnavailable)
	}

	slog.Debug("[ChatRelay] Provider replied",
		slog.String("provider", r.provider.Name()),
		slog.Int("history_turns", len(prompt.History)),
		slog.Duration("elapsed", time.Since(start)))

	return reply, nil
}

// RecentHistory drops blank or unknown turns and keeps the last limit ones.
func RecentHistory(history []models.ChatTurn, limit int) []models.ChatTurn {
	turns := make([]models.ChatTurn, 0, len(history))
	for _, turn := range history {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}

		var role string
		switch strings.ToLower(strings.TrimSpace(turn.Role)) {
		case models.ChatRoleUser:
			role = models.ChatRoleUser
		case models.ChatRoleAssistant, "model":
			role = models.ChatRoleAssistant
		default:
			continue
		}
		turns = append(turns, models.ChatTurn{Role: role, Content: content})
	}

	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns
}
