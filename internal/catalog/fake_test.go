package catalog_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/pokedex-web/internal/pokeapi"
)

const testBaseURL = "https://pokeapi.test/api/v2"

// fakeTransport serves canned bodies keyed by URL and records every call.
type fakeTransport struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	calls     []string
	// hook runs before a response is returned; tests use it to hold calls open.
	hook func(ctx context.Context, url string) error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		responses: map[string]string{},
		failures:  map[string]error{},
	}
}

func (f *fakeTransport) respond(url, body string) *fakeTransport {
	f.responses[url] = body
	return f
}

func (f *fakeTransport) fail(url string, err error) *fakeTransport {
	f.failures[url] = err
	return f
}

func (f *fakeTransport) Get(ctx context.Context, url string) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, url); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.failures[url]; ok {
		return nil, err
	}
	if body, ok := f.responses[url]; ok {
		return json.RawMessage(body), nil
	}
	return nil, &pokeapi.StatusError{URL: url, StatusCode: 404, Body: "Not Found"}
}

func (f *fakeTransport) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func newTestClient(t *testing.T, transport pokeapi.Transport) *pokeapi.Client {
	t.Helper()
	client, err := pokeapi.NewClient(transport, testBaseURL)
	require.NoError(t, err)
	return client
}
