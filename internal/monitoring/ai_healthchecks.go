package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 60 * time.Second

type HealthChecker interface {
	Name() string
	HealthCheck(ctx context.Context) bool
}

// MonitorChatHealth probes the chat provider right away and then on every
// tick until ctx is done, storing the outcome in healthy.
func MonitorChatHealth(ctx context.Context, checker HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	probe := func() {
		isHealthy := checker.HealthCheck(ctx)
		if healthy.Swap(isHealthy) != isHealthy {
			slog.Info("[HealthCheck] Chat provider health changed",
				slog.String("provider", checker.Name()),
				slog.Bool("healthy", isHealthy))
		}
		if !isHealthy {
			slog.Warn("[HealthCheck] Chat provider is unhealthy",
				slog.String("provider", checker.Name()))
		}
	}

	probe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
