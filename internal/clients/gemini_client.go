package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/spacesedan/moodmate/internal/chat"
	"github.com/spacesedan/moodmate/internal/models"
)

const (
	geminiTemperature     = 0.9
	geminiTopK            = 40
	geminiTopP            = 0.95
	geminiMaxOutputTokens = 2048
)

var geminiSafetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for tests and proxies
	Timeout time.Duration
}

// GeminiClient implements chat.Provider on top of the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", chat.ErrConfiguration)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = CHAT_REQUEST_TIMEOUT
	}

	headers := http.Header{}
	headers.Set("User-Agent", USER_AGENT)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
			Headers: headers,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	slog.Info("[GeminiClient] Gemini client initialized",
		slog.String("model", cfg.Model),
		slog.Duration("timeout", cfg.Timeout))

	return &GeminiClient{client: client, model: cfg.Model}, nil
}

func (g *GeminiClient) Name() string {
	return "gemini"
}

func (g *GeminiClient) Generate(ctx context.Context, prompt chat.Prompt) (string, error) {
	contents := make([]*genai.Content, 0, len(prompt.History)+1)
	for _, turn := range prompt.History {
		var role genai.Role = genai.RoleUser
		if turn.Role == models.ChatRoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt.Message, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](geminiTemperature),
		TopK:            genai.Ptr[float32](geminiTopK),
		TopP:            genai.Ptr[float32](geminiTopP),
		MaxOutputTokens: geminiMaxOutputTokens,
		SafetySettings:  geminiSafetySettings,
	}
	if prompt.System != "" {
		config.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return resp.Text(), nil
}

// HealthCheck looks up the configured model; it does not spend tokens.
func (g *GeminiClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
	defer cancel()

	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		slog.Warn("[GeminiClient] Health check failed",
			slog.String("model", g.model),
			slog.String("error", err.Error()))
		return false
	}
	return true
}
