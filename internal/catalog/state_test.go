package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateVariantsAreExclusive(t *testing.T) {
	loading := Loading[[]ListEntry]()
	require.True(t, loading.IsLoading())
	require.False(t, loading.IsLoaded() || loading.IsFailed())
	require.Nil(t, loading.Data())
	require.Empty(t, loading.Message())

	loaded := Loaded([]ListEntry{{Name: "bulbasaur"}})
	require.True(t, loaded.IsLoaded())
	require.Equal(t, KindLoaded, loaded.Kind())
	require.Empty(t, loaded.Message())

	failed := Failed[[]ListEntry](MsgListFailed)
	require.True(t, failed.IsFailed())
	require.Nil(t, failed.Data())
	require.Equal(t, MsgListFailed, failed.Message())
}

func TestStateSnapshotJSON(t *testing.T) {
	raw, err := json.Marshal(Failed[AbilityView](MsgAbilityNameMissing).Snapshot())
	require.NoError(t, err)
	require.JSONEq(t, `{"state":"failed","message":"Ability name not provided in route."}`, string(raw))

	raw, err = json.Marshal(Loaded(AbilityView{ID: 9, Name: "static"}).Snapshot())
	require.NoError(t, err)
	require.JSONEq(t, `{"state":"loaded","data":{"id":9,"name":"static"}}`, string(raw))

	raw, err = json.Marshal(Loading[PokemonView]().Snapshot())
	require.NoError(t, err)
	require.JSONEq(t, `{"state":"loading"}`, string(raw))
}

func TestTitleCase(t *testing.T) {
	require.Equal(t, "Lightning-Rod", TitleCase("lightning-rod"))
	require.Equal(t, "Electric", TitleCase("electric"))
	require.Equal(t, "", TitleCase(""))
}

func TestMatchesLanguage(t *testing.T) {
	require.True(t, matchesLanguage("en", CanonicalLanguage))
	require.True(t, matchesLanguage("EN", CanonicalLanguage))
	require.False(t, matchesLanguage("ja", CanonicalLanguage))
	require.False(t, matchesLanguage("ja-Hrkt", CanonicalLanguage))
	require.False(t, matchesLanguage("roomaji", CanonicalLanguage))
	require.False(t, matchesLanguage("", CanonicalLanguage))
}
