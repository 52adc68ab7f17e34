package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"finitefield.org/pokedex-web/internal/catalog"
	"finitefield.org/pokedex-web/internal/pokeapi"
	pokeapimock "finitefield.org/pokedex-web/internal/pokeapi/mock"
)

const pikachuBody = `{
	"id": 25,
	"name": "pikachu",
	"height": 4,
	"weight": 60,
	"sprites": {
		"front_default": "f.png",
		"other": {"official-artwork": {"front_default": "o.png"}}
	},
	"types": [{"slot": 1, "type": {"name": "electric", "url": "https://pokeapi.co/api/v2/type/13/"}}],
	"abilities": [
		{"ability": {"name": "static", "url": "https://pokeapi.co/api/v2/ability/9/"}, "is_hidden": false, "slot": 1},
		{"ability": {"name": "lightning-rod", "url": "https://pokeapi.co/api/v2/ability/31/"}, "is_hidden": true, "slot": 3}
	],
	"stats": [
		{"base_stat": 35, "effort": 0, "stat": {"name": "hp", "url": ""}},
		{"base_stat": 55, "effort": 0, "stat": {"name": "attack", "url": ""}}
	]
}`

func TestPokemonLoaderIssuesOneLowerCasedGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := pokeapimock.NewMockTransport(ctrl)
	ctx := context.Background()

	transport.EXPECT().
		Get(ctx, testBaseURL+"/pokemon/pikachu").
		Return(json.RawMessage(pikachuBody), nil).
		Times(1)

	state := catalog.NewPokemonLoader(newTestClient(t, transport)).Load(ctx, "PIKACHU")
	require.True(t, state.IsLoaded())
}

func TestPokemonLoaderProjectsDetail(t *testing.T) {
	transport := newFakeTransport().respond(testBaseURL+"/pokemon/pikachu", pikachuBody)

	state := catalog.NewPokemonLoader(newTestClient(t, transport)).Load(context.Background(), "pikachu")

	require.True(t, state.IsLoaded())
	require.Empty(t, state.Message())
	view := state.Data()
	require.Equal(t, 25, view.ID)
	require.Equal(t, "pikachu", view.Name)
	require.Equal(t, "Pikachu", view.DisplayName())
	require.Equal(t, "o.png", view.ImageURL, "official artwork wins over the default sprite")
	require.Equal(t, "0.4 m", view.HeightMeters())
	require.Equal(t, "6.0 kg", view.WeightKilograms())
	require.Equal(t, []catalog.TypeTag{{Name: "electric", Label: "Electric"}}, view.Types)
	require.Equal(t, "type-electric", view.Types[0].CSSClass())
	require.Equal(t, []catalog.AbilityRef{
		{Name: "static", Label: "Static", Href: "/ability/static", Hidden: false, Slot: 1},
		{Name: "lightning-rod", Label: "Lightning-Rod", Href: "/ability/lightning-rod", Hidden: true, Slot: 3},
	}, view.Abilities)
	require.Equal(t, []catalog.Stat{{Name: "hp", BaseStat: 35}, {Name: "attack", BaseStat: 55}}, view.Stats)
}

func TestPreferredImageFallsBackToDefaultSprite(t *testing.T) {
	require.Equal(t, "f.png", catalog.PreferredImage(pokeapi.Sprites{FrontDefault: "f.png"}))

	withArtwork := pokeapi.Sprites{FrontDefault: "f.png"}
	withArtwork.Other.OfficialArtwork.FrontDefault = "o.png"
	require.Equal(t, "o.png", catalog.PreferredImage(withArtwork))
}

func TestProjectPokemonOrdersTypesBySlot(t *testing.T) {
	view := catalog.ProjectPokemon(pokeapi.Pokemon{
		Name: "charizard",
		Types: []pokeapi.PokemonType{
			{Slot: 2, Type: pokeapi.NamedResource{Name: "flying"}},
			{Slot: 1, Type: pokeapi.NamedResource{Name: "fire"}},
		},
	})
	require.Equal(t, "fire", view.Types[0].Name)
	require.Equal(t, "flying", view.Types[1].Name)
}

func TestPokemonLoaderMissingName(t *testing.T) {
	for _, name := range []string{"", "   "} {
		transport := newFakeTransport()

		state := catalog.NewPokemonLoader(newTestClient(t, transport)).Load(context.Background(), name)

		require.True(t, state.IsFailed())
		require.Equal(t, "Pokemon name not provided in route.", state.Message())
		require.Equal(t, catalog.PokemonView{}, state.Data())
		require.Empty(t, transport.Calls(), "no network call without a name")
	}
}

func TestPokemonLoaderFetchFailure(t *testing.T) {
	transport := newFakeTransport().fail(testBaseURL+"/pokemon/missingno", errors.New("boom"))

	state := catalog.NewPokemonLoader(newTestClient(t, transport)).Load(context.Background(), "MissingNo")

	require.True(t, state.IsFailed())
	require.Equal(t, "Failed to load details for Pokemon: MissingNo.", state.Message())
	require.Equal(t, catalog.PokemonView{}, state.Data())
	require.Equal(t, []string{testBaseURL + "/pokemon/missingno"}, transport.Calls())
}

func TestPokemonLoaderReRunsOnEveryNavigation(t *testing.T) {
	transport := newFakeTransport().
		respond(testBaseURL+"/pokemon/pikachu", pikachuBody).
		respond(testBaseURL+"/pokemon/raichu", `{"id":26,"name":"raichu","sprites":{"front_default":"r.png"}}`)
	loader := catalog.NewPokemonLoader(newTestClient(t, transport))

	first := loader.Load(context.Background(), "pikachu")
	second := loader.Load(context.Background(), "raichu")

	require.Equal(t, "pikachu", first.Data().Name)
	require.Equal(t, "raichu", second.Data().Name)
	require.Equal(t, "r.png", second.Data().ImageURL)
	require.Len(t, transport.Calls(), 2)
}
