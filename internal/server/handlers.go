package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/moodmate/internal/chat"
	"github.com/spacesedan/moodmate/internal/contract"
	"github.com/spacesedan/moodmate/internal/models"
	"github.com/spacesedan/moodmate/internal/sentiment"
)

type MoodClassifier interface {
	Classify(text string) (models.MoodResult, error)
}

type ChatRelay interface {
	Reply(ctx context.Context, req models.ChatRequest) (string, error)
	ProviderName() string
	Configured() bool
}

type HealthResponse struct {
	Status         string `json:"status"`
	ChatProvider   string `json:"chat_provider"`
	ChatConfigured bool   `json:"chat_configured"`
	ChatHealthy    *bool  `json:"chat_healthy,omitempty"`
}

type Handler struct {
	classifier  MoodClassifier
	relay       ChatRelay
	chatHealthy *atomic.Bool
	now         func() time.Time
}

// NewHandler wires the dispatcher. chatHealthy may be nil when no health
// monitor runs.
func NewHandler(classifier MoodClassifier, relay ChatRelay, chatHealthy *atomic.Bool) *Handler {
	return &Handler{
		classifier:  classifier,
		relay:       relay,
		chatHealthy: chatHealthy,
		now:         time.Now,
	}
}

func (h *Handler) AnalyzeMood(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request body must be a JSON object with a text field")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No text provided"})
		return
	}

	result, err := h.classifier.Classify(req.Text)
	if err != nil {
		if errors.Is(err, sentiment.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No text provided"})
			return
		}
		slog.Error("[Dispatcher] Mood analysis failed",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to analyze text"})
		return
	}

	c.JSON(http.StatusOK, models.AnalyzeResponse{
		MoodResult: result,
		AnalyzedAt: h.now().UTC(),
	})
}

func (h *Handler) RelayChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request body must be a JSON object with a message field")
		return
	}

	reply, err := h.relay.Reply(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
	case errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No message provided"})
	case errors.Is(err, chat.ErrConfiguration):
		slog.Error("[Dispatcher] Chat relay is not configured",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, models.ChatResponse{
			Reply: chat.FallbackReply,
			Error: "chat_not_configured",
		})
	default:
		slog.Warn("[Dispatcher] Chat relay failed",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("provider", h.relay.ProviderName()),
			slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, models.ChatResponse{
			Reply: chat.FallbackReply,
			Error: "chat_unavailable",
		})
	}
}

func (h *Handler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:         "ok",
		ChatProvider:   h.relay.ProviderName(),
		ChatConfigured: h.relay.Configured(),
	}
	if h.chatHealthy != nil && resp.ChatConfigured {
		healthy := h.chatHealthy.Load()
		resp.ChatHealthy = &healthy
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListSchemas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"schemas": contract.Names()})
}

func (h *Handler) GetSchema(c *gin.Context) {
	name := c.Param("name")
	schema, ok, err := contract.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown schema"})
		return
	}
	if err != nil {
		slog.Error("[Dispatcher] Schema generation failed",
			slog.String("schema", name),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to generate schema"})
		return
	}
	c.Data(http.StatusOK, "application/schema+json", schema)
}

func respondBindError(c *gin.Context, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
}
