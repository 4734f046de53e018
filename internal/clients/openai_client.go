package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spacesedan/moodmate/internal/chat"
	"github.com/spacesedan/moodmate/internal/models"
)

const (
	openAITemperature = 0.9
	openAIMaxTokens   = 2048
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, any OpenAI-compatible endpoint
	Timeout time.Duration
}

// OpenAIClient implements chat.Provider with the chat completions API.
type OpenAIClient struct {
	Client openai.Client
	model  string
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", chat.ErrConfiguration)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = CHAT_REQUEST_TIMEOUT
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithHeader("User-Agent", USER_AGENT),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.String("model", cfg.Model),
		slog.Duration("timeout", cfg.Timeout))

	return &OpenAIClient{
		Client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

func (o *OpenAIClient) Name() string {
	return "openai"
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt chat.Prompt) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(prompt.History)+2)
	if prompt.System != "" {
		messages = append(messages, openai.SystemMessage(prompt.System))
	}
	for _, turn := range prompt.History {
		if turn.Role == models.ChatRoleAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Content))
			continue
		}
		messages = append(messages, openai.UserMessage(turn.Content))
	}
	messages = append(messages, openai.UserMessage(prompt.Message))

	resp, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       o.model,
		Messages:    messages,
		Temperature: openai.Float(openAITemperature),
		MaxTokens:   openai.Int(openAIMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}

	slog.Debug("[OpenAIClient] Completion finished",
		slog.String("finish_reason", resp.Choices[0].FinishReason))

	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
	defer cancel()

	if _, err := o.Client.Models.Get(ctx, o.model); err != nil {
		slog.Warn("[OpenAIClient] Health check failed",
			slog.String("model", o.model),
			slog.String("error", err.Error()))
		return false
	}
	return true
}
