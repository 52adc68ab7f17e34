package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/observability"
	"finitefield.org/pokedex-web/internal/pokeapi"
)

// PreferredVersionGroups is the order flavor text sources are tried in.
var PreferredVersionGroups = []string{
	"sword-shield",
	"ultra-sun-ultra-moon",
	"omega-ruby-alpha-sapphire",
	"black-white",
}

// AbilityView is the ability screen projection. Empty text fields are absent.
type AbilityView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Effect      string `json:"effect,omitempty"`
	ShortEffect string `json:"shortEffect,omitempty"`
	FlavorText  string `json:"flavorText,omitempty"`
}

// DisplayName is the title-cased name.
func (a AbilityView) DisplayName() string { return TitleCase(a.Name) }

// AbilityLoader builds the ability detail screen.
type AbilityLoader struct {
	client *pokeapi.Client
}

// NewAbilityLoader returns an AbilityLoader backed by client.
func NewAbilityLoader(client *pokeapi.Client) *AbilityLoader {
	return &AbilityLoader{client: client}
}

// Load resolves the ability named by the route.
func (l *AbilityLoader) Load(ctx context.Context, rawName string) State[AbilityView] {
	name, err := routeName(rawName)
	if err != nil {
		return Failed[AbilityView](MsgAbilityNameMissing)
	}

	ability, err := l.client.Ability(ctx, name)
	if err != nil {
		logFetchFailure(ctx, "ability fetch failed", err, zap.String("ability", observability.SanitizeParam(name)))
		return Failed[AbilityView](fmt.Sprintf(msgAbilityFailedFormat, name))
	}
	return Loaded(ProjectAbility(ability))
}

// ProjectAbility selects the canonical-language texts of an ability.
func ProjectAbility(a pokeapi.Ability) AbilityView {
	view := AbilityView{ID: a.ID, Name: a.Name}
	if effect, ok := SelectEffect(a.EffectEntries); ok {
		view.Effect = cleanText(effect.Effect)
		view.ShortEffect = cleanText(effect.ShortEffect)
	}
	if flavor, ok := SelectFlavorText(a.FlavorTextEntries); ok {
		view.FlavorText = cleanText(flattenLines(flavor.FlavorText))
	}
	return view
}

// SelectEffect returns the first effect entry in the canonical language.
func SelectEffect(entries []pokeapi.EffectEntry) (pokeapi.EffectEntry, bool) {
	for _, e := range entries {
		if matchesLanguage(e.Language.Name, CanonicalLanguage) {
			return e, true
		}
	}
	return pokeapi.EffectEntry{}, false
}

// SelectFlavorText picks the canonical-language entry of the most preferred
// version group, then any canonical-language entry.
func SelectFlavorText(entries []pokeapi.FlavorTextEntry) (pokeapi.FlavorTextEntry, bool) {
	for _, group := range PreferredVersionGroups {
		for _, e := range entries {
			if e.VersionGroup.Name == group && matchesLanguage(e.Language.Name, CanonicalLanguage) {
				return e, true
			}
		}
	}
	for _, e := range entries {
		if matchesLanguage(e.Language.Name, CanonicalLanguage) {
			return e, true
		}
	}
	return pokeapi.FlavorTextEntry{}, false
}
