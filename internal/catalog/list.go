package catalog

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finitefield.org/pokedex-web/internal/pokeapi"
)

// PageSize is the fixed number of pokemon the list shows.
const PageSize = 100

// ListEntry is one row of the list screen. ImageURL is empty when the detail
// fetch for the entry failed.
type ListEntry struct {
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl,omitempty"`
	DetailsURL string `json:"detailsUrl"`
}

// Href is the detail page link for the entry.
func (e ListEntry) Href() string {
	return PokemonHref(e.Name)
}

// PokemonHref returns the detail route for a pokemon name.
func PokemonHref(name string) string {
	return "/pokemon/" + url.PathEscape(strings.ToLower(name))
}

// ListLoader builds the list screen: one page of summaries joined with the
// sprite of every entry.
type ListLoader struct {
	client *pokeapi.Client
}

// NewListLoader returns a ListLoader backed by client.
func NewListLoader(client *pokeapi.Client) *ListLoader {
	return &ListLoader{client: client}
}

// Load fetches the page, then fetches every entry's detail concurrently and
// waits for all of them. A failed detail leaves that entry without an image;
// only a failed page fetch fails the list, and then no detail is requested.
func (l *ListLoader) Load(ctx context.Context) State[[]ListEntry] {
	page, err := l.client.ListPokemon(ctx, PageSize, 0)
	if err != nil {
		logFetchFailure(ctx, "pokemon list fetch failed", err)
		return Failed[[]ListEntry](MsgListFailed)
	}

	entries := make([]ListEntry, len(page.Results))
	if len(entries) == 0 {
		return Loaded(entries)
	}

	// Goroutines never return an error: a failure is local to its entry and
	// must not cancel the siblings.
	var g errgroup.Group
	for i, item := range page.Results {
		entries[i] = ListEntry{Name: item.Name, DetailsURL: item.URL}
		detailURL := item.URL
		if detailURL == "" {
			detailURL = l.client.PokemonURL(item.Name)
		}
		g.Go(func() error {
			detail, err := l.client.PokemonByURL(ctx, detailURL)
			if err != nil {
				logFetchFailure(ctx, "pokemon detail fetch failed", err, zap.String("pokemon", item.Name))
				return nil
			}
			entries[i].ImageURL = detail.Sprites.FrontDefault
			return nil
		})
	}
	_ = g.Wait()

	return Loaded(entries)
}
