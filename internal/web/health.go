package web

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/requestctx"
)

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandlers serves /healthz and /readyz.
type HealthHandlers struct {
	checks  []ReadinessCheck
	timeout time.Duration
}

// HealthOption customises HealthHandlers.
type HealthOption func(*HealthHandlers)

// WithReadinessCheck adds a check consulted by /readyz.
func WithReadinessCheck(check ReadinessCheck) HealthOption {
	return func(h *HealthHandlers) {
		if check.Check != nil {
			h.checks = append(h.checks, check)
		}
	}
}

// WithReadinessTimeout bounds the time all readiness checks may take.
func WithReadinessTimeout(d time.Duration) HealthOption {
	return func(h *HealthHandlers) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// NewHealthHandlers constructs health handlers.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{timeout: 2 * time.Second}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Healthz reports liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

// Readyz runs the readiness checks in order and reports the first failure.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			requestctx.Logger(r.Context()).Warn("readiness check failed", zap.String("check", c.Name), zap.Error(err))
			writeText(w, http.StatusServiceUnavailable, "unavailable: "+c.Name)
			return
		}
	}
	writeText(w, http.StatusOK, "ok")
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
