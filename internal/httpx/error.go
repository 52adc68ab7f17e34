package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"finitefield.org/pokedex-web/internal/requestctx"
)

// Error is an HTTP-level failure: something went wrong serving the page
// itself, as opposed to a fetch failure rendered inside the page.
type Error struct {
	Code      string
	Message   string
	Status    int
	RequestID string
	TraceID   string
}

// NewError constructs a new Error with the provided parameters.
func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{
		Code:    sanitize(code, 80),
		Message: sanitize(message, 512),
		Status:  status,
	}
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Code + ": " + e.Message
}

// WriteError writes err to w. htmx requests receive a JSON envelope so the
// client can surface it; everything else gets a plain text body.
func WriteError(ctx context.Context, w http.ResponseWriter, r *http.Request, err Error) {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	requestID := err.RequestID
	if requestID == "" {
		requestID = sanitize(middleware.GetReqID(ctx), 80)
	}
	traceID := err.TraceID
	if traceID == "" {
		traceID = sanitize(requestctx.TraceID(ctx), 64)
	}

	if r != nil && r.Header.Get("HX-Request") == "true" {
		payload := map[string]any{
			"error":   err.Code,
			"message": err.Message,
			"status":  status,
		}
		if requestID != "" {
			payload["request_id"] = requestID
		}
		if traceID != "" {
			payload["trace_id"] = traceID
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
		return
	}

	if requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	http.Error(w, err.Message, status)
}

func sanitize(value string, limit int) string {
	if limit <= 0 {
		limit = 256
	}
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.TrimSpace(value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
