package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// APIPrefix is the path the fake serves PokeAPI resources under.
const APIPrefix = "/api/v2"

type fakeResponse struct {
	status int
	body   string
	block  chan struct{}
}

// FakePokeAPI is an httptest server answering canned PokeAPI payloads.
// Unregistered resources answer 404.
type FakePokeAPI struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]fakeResponse
	hits      map[string]int
	queries   map[string][]string
}

// NewFakePokeAPI starts a fake closed at test cleanup.
func NewFakePokeAPI(t testing.TB) *FakePokeAPI {
	t.Helper()

	f := &FakePokeAPI{
		responses: map[string]fakeResponse{},
		hits:      map[string]int{},
		queries:   map[string][]string{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// BaseURL is the API root to configure clients with.
func (f *FakePokeAPI) BaseURL() string {
	return f.URL + APIPrefix
}

// ResourceURL is the absolute URL of resource, as PokeAPI list results carry it.
func (f *FakePokeAPI) ResourceURL(resource string) string {
	return f.BaseURL() + resource
}

// Respond registers a payload for resource, e.g. "/pokemon/pikachu".
func (f *FakePokeAPI) Respond(resource string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[resource] = fakeResponse{status: status, body: body}
}

// Block makes resource hang until the returned release func is called or the
// client goes away.
func (f *FakePokeAPI) Block(resource string, status int, body string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.responses[resource] = fakeResponse{status: status, body: body, block: ch}
	f.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Hits returns how many requests reached resource.
func (f *FakePokeAPI) Hits(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[resource]
}

// TotalHits returns the number of requests the fake has served.
func (f *FakePokeAPI) TotalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.hits {
		total += n
	}
	return total
}

// Queries returns the raw query strings sent for resource.
func (f *FakePokeAPI) Queries(resource string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries[resource]...)
}

func (f *FakePokeAPI) serve(w http.ResponseWriter, r *http.Request) {
	resource := strings.TrimPrefix(r.URL.Path, APIPrefix)

	f.mu.Lock()
	f.hits[resource]++
	f.queries[resource] = append(f.queries[resource], r.URL.RawQuery)
	resp, ok := f.responses[resource]
	f.mu.Unlock()

	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if resp.block != nil {
		select {
		case <-resp.block:
		case <-r.Context().Done():
			return
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}
