package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/pokedex-web/internal/requestctx"
)

func TestWriteErrorPlainText(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pokemon/pikachu", nil)

	WriteError(req.Context(), rec, req, NewError("internal_server_error", "internal server error", http.StatusInternalServerError))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	require.Equal(t, "internal server error\n", rec.Body.String())
}

func TestWriteErrorJSONForHTMX(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	ctx := requestctx.WithTrace(context.Background(), requestctx.TraceInfo{TraceID: "abc123"})

	WriteError(ctx, rec, req, NewError("template_error", "render\nfailed", 0))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "template_error", payload["error"])
	require.Equal(t, "render failed", payload["message"])
	require.Equal(t, "abc123", payload["trace_id"])
	require.EqualValues(t, 500, payload["status"])
}
