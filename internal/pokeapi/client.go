package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the public PokeAPI v2 root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Client builds PokeAPI URLs and decodes responses fetched through a Transport.
type Client struct {
	transport Transport
	baseURL   string
}

// NewClient returns a client for baseURL. An empty baseURL selects DefaultBaseURL.
func NewClient(transport Transport, baseURL string) (*Client, error) {
	if transport == nil {
		return nil, errors.New("pokeapi: transport is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{transport: transport, baseURL: baseURL}, nil
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// ListURL returns the pokemon collection URL for one page.
func (c *Client) ListURL(limit, offset int) string {
	return c.baseURL + "/pokemon?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
}

// PokemonURL returns the detail URL for name, lower-cased.
func (c *Client) PokemonURL(name string) string {
	return c.baseURL + "/pokemon/" + url.PathEscape(strings.ToLower(name))
}

// AbilityURL returns the ability URL for name, lower-cased.
func (c *Client) AbilityURL(name string) string {
	return c.baseURL + "/ability/" + url.PathEscape(strings.ToLower(name))
}

// ListPokemon fetches one page of summary items.
func (c *Client) ListPokemon(ctx context.Context, limit, offset int) (ListResponse, error) {
	var out ListResponse
	err := c.getJSON(ctx, c.ListURL(limit, offset), &out)
	return out, err
}

// PokemonByURL fetches a pokemon through the resource locator a list result carries.
func (c *Client) PokemonByURL(ctx context.Context, resourceURL string) (Pokemon, error) {
	var out Pokemon
	err := c.getJSON(ctx, resourceURL, &out)
	return out, err
}

// Pokemon fetches a pokemon by name.
func (c *Client) Pokemon(ctx context.Context, name string) (Pokemon, error) {
	return c.PokemonByURL(ctx, c.PokemonURL(name))
}

// Ability fetches an ability by name.
func (c *Client) Ability(ctx context.Context, name string) (Ability, error) {
	var out Ability
	err := c.getJSON(ctx, c.AbilityURL(name), &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.transport.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("pokeapi: decode %s: %w", rawURL, err)
	}
	return nil
}
