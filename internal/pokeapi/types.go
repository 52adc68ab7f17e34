package pokeapi

import "encoding/json"

// NamedResource is the {name, url} pair PokeAPI uses for references and list results.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListResponse is one page of the pokemon collection.
type ListResponse struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// Pokemon is the subset of the pokemon resource the catalog renders.
type Pokemon struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Height    int              `json:"height"`
	Weight    int              `json:"weight"`
	Sprites   Sprites          `json:"sprites"`
	Types     []PokemonType    `json:"types"`
	Abilities []PokemonAbility `json:"abilities"`
	Stats     []PokemonStat    `json:"stats"`
}

// Sprites lists image URLs. Any of them may be empty.
type Sprites struct {
	FrontDefault string       `json:"front_default"`
	BackDefault  string       `json:"back_default"`
	FrontShiny   string       `json:"front_shiny"`
	BackShiny    string       `json:"back_shiny"`
	Other        OtherSprites `json:"other"`
}

// OtherSprites holds the alternate artwork sets.
type OtherSprites struct {
	OfficialArtwork Artwork
	DreamWorld      Artwork
}

// Artwork is a single alternate image set.
type Artwork struct {
	FrontDefault string `json:"front_default"`
	FrontShiny   string `json:"front_shiny"`
}

// UnmarshalJSON accepts both the hyphenated keys PokeAPI serves and their
// underscored spellings.
func (o *OtherSprites) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decode := func(dst *Artwork, keys ...string) error {
		for _, key := range keys {
			payload, ok := raw[key]
			if !ok || string(payload) == "null" {
				continue
			}
			return json.Unmarshal(payload, dst)
		}
		return nil
	}
	if err := decode(&o.OfficialArtwork, "official-artwork", "official_artwork"); err != nil {
		return err
	}
	return decode(&o.DreamWorld, "dream_world", "dream-world")
}

// PokemonType is a slotted type reference.
type PokemonType struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// PokemonAbility is a slotted ability reference.
type PokemonAbility struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

// PokemonStat is a base stat value.
type PokemonStat struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// Ability is the subset of the ability resource the catalog renders.
type Ability struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	EffectEntries     []EffectEntry     `json:"effect_entries"`
	FlavorTextEntries []FlavorTextEntry `json:"flavor_text_entries"`
}

// EffectEntry is a language-tagged effect description.
type EffectEntry struct {
	Effect      string        `json:"effect"`
	ShortEffect string        `json:"short_effect"`
	Language    NamedResource `json:"language"`
}

// FlavorTextEntry is a language- and version-tagged in-game description.
type FlavorTextEntry struct {
	FlavorText   string        `json:"flavor_text"`
	Language     NamedResource `json:"language"`
	VersionGroup NamedResource `json:"version_group"`
}
