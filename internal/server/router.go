package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/moodmate/internal/models"
)

type RouterConfig struct {
	AllowedOrigins []string
	TrustedProxies []string // nil trusts no proxy, ClientIP is the peer address
	MaxBodyBytes   int64
	Limiter        RateLimiter // nil disables chat rate limiting
}

func NewRouter(h *Handler, cfg RouterConfig) (*gin.Engine, error) {
	corsHandler, err := corsMiddleware(cfg.AllowedOrigins)
	if err != nil {
		return nil, fmt.Errorf("invalid CORS configuration: %w", err)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(RequestLogger(), gin.CustomRecovery(recoverJSON), corsHandler)

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.Use(BodyLimit(cfg.MaxBodyBytes))
	{
		api.POST("/analyze", h.AnalyzeMood)

		chatHandlers := []gin.HandlerFunc{h.RelayChat}
		if cfg.Limiter != nil {
			chatHandlers = append([]gin.HandlerFunc{ChatRateLimit(cfg.Limiter)}, chatHandlers...)
		}
		api.POST("/chat", chatHandlers...)

		api.GET("/schema", h.ListSchemas)
		api.GET("/schema/:name", h.GetSchema)
	}

	return r, nil
}

func recoverJSON(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
}
