package openmemory

import (
	"context"
	"log/slog"
	"time"
)

// HealthChecker periodically probes the server's health endpoint and logs
// state transitions. Run blocks until the context is cancelled.
type HealthChecker struct {
	client   *Client
	logger   *slog.Logger
	interval time.Duration
}

func NewHealthChecker(client *Client, logger *slog.Logger, interval time.Duration) *HealthChecker {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &HealthChecker{
		client:   client,
		logger:   logger,
		interval: interval,
	}
}

func (h *HealthChecker) Run(ctx context.Context) {
	h.logger.Info("start health checker", "base_url", h.client.BaseURL())
	defer h.logger.Info("stop health checker")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	healthy := h.probe(ctx, true)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			was := healthy
			healthy = h.probe(ctx, false)
			if healthy && !was {
				h.logger.Info("OpenMemory server recovered", "base_url", h.client.BaseURL())
			}
		}
	}
}

func (h *HealthChecker) probe(ctx context.Context, first bool) bool {
	status, err := h.client.Health(ctx)
	if err != nil {
		h.logger.Warn("OpenMemory server is not reachable", "base_url", h.client.BaseURL(), "err", err)
		return false
	}
	if !status.Healthy() {
		h.logger.Warn("OpenMemory server is not healthy", "status", status.Status)
		return false
	}
	if first {
		h.logger.Info("OpenMemory server is healthy", "status", status.Status, "version", status.Version)
	}
	return true
}
