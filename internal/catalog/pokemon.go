package catalog

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/observability"
	"finitefield.org/pokedex-web/internal/pokeapi"
)

// PokemonView is the detail screen projection of a pokemon.
type PokemonView struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	ImageURL  string       `json:"imageUrl,omitempty"`
	Height    int          `json:"height"`
	Weight    int          `json:"weight"`
	Types     []TypeTag    `json:"types"`
	Abilities []AbilityRef `json:"abilities"`
	Stats     []Stat       `json:"stats"`
}

// DisplayName is the title-cased name.
func (p PokemonView) DisplayName() string { return TitleCase(p.Name) }

// HeightMeters converts the decimetre height PokeAPI reports.
func (p PokemonView) HeightMeters() string { return fmt.Sprintf("%.1f m", float64(p.Height)/10) }

// WeightKilograms converts the hectogram weight PokeAPI reports.
func (p PokemonView) WeightKilograms() string { return fmt.Sprintf("%.1f kg", float64(p.Weight)/10) }

// TypeTag is a type badge.
type TypeTag struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// CSSClass is the class selecting the type's badge colour.
func (t TypeTag) CSSClass() string { return "type-" + t.Name }

// AbilityRef links a pokemon to one of its abilities.
type AbilityRef struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Href   string `json:"href"`
	Hidden bool   `json:"hidden"`
	Slot   int    `json:"slot"`
}

// Stat is one base stat.
type Stat struct {
	Name     string `json:"name"`
	BaseStat int    `json:"baseStat"`
}

// AbilityHref returns the ability route for an ability name.
func AbilityHref(name string) string {
	return "/ability/" + url.PathEscape(strings.ToLower(name))
}

// PokemonLoader builds the pokemon detail screen.
type PokemonLoader struct {
	client *pokeapi.Client
}

// NewPokemonLoader returns a PokemonLoader backed by client.
func NewPokemonLoader(client *pokeapi.Client) *PokemonLoader {
	return &PokemonLoader{client: client}
}

// Load resolves the pokemon named by the route. A blank name fails without
// touching the network.
func (l *PokemonLoader) Load(ctx context.Context, rawName string) State[PokemonView] {
	name, err := routeName(rawName)
	if err != nil {
		return Failed[PokemonView](MsgPokemonNameMissing)
	}

	detail, err := l.client.Pokemon(ctx, name)
	if err != nil {
		logFetchFailure(ctx, "pokemon fetch failed", err, zap.String("pokemon", observability.SanitizeParam(name)))
		return Failed[PokemonView](fmt.Sprintf(msgPokemonFailedFormat, name))
	}
	return Loaded(ProjectPokemon(detail))
}

// ProjectPokemon keeps the fields the detail screen renders. Official artwork
// wins over the default sprite when present.
func ProjectPokemon(p pokeapi.Pokemon) PokemonView {
	view := PokemonView{
		ID:        p.ID,
		Name:      p.Name,
		ImageURL:  PreferredImage(p.Sprites),
		Height:    p.Height,
		Weight:    p.Weight,
		Types:     make([]TypeTag, 0, len(p.Types)),
		Abilities: make([]AbilityRef, 0, len(p.Abilities)),
		Stats:     make([]Stat, 0, len(p.Stats)),
	}

	types := append([]pokeapi.PokemonType(nil), p.Types...)
	sort.SliceStable(types, func(i, j int) bool { return types[i].Slot < types[j].Slot })
	for _, t := range types {
		view.Types = append(view.Types, TypeTag{Name: t.Type.Name, Label: TitleCase(t.Type.Name)})
	}

	for _, a := range p.Abilities {
		view.Abilities = append(view.Abilities, AbilityRef{
			Name:   a.Ability.Name,
			Label:  TitleCase(a.Ability.Name),
			Href:   AbilityHref(a.Ability.Name),
			Hidden: a.IsHidden,
			Slot:   a.Slot,
		})
	}

	for _, s := range p.Stats {
		view.Stats = append(view.Stats, Stat{Name: s.Stat.Name, BaseStat: s.BaseStat})
	}
	return view
}

// PreferredImage picks the official artwork, falling back to the default sprite.
func PreferredImage(s pokeapi.Sprites) string {
	if artwork := strings.TrimSpace(s.Other.OfficialArtwork.FrontDefault); artwork != "" {
		return artwork
	}
	return s.FrontDefault
}
