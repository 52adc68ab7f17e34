package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestResolveHonorsQValues(t *testing.T) {
	b, err := Default("en")
	require.NoError(t, err)

	require.Equal(t, "ja", b.Resolve("en;q=0.8, ja;q=0.9"))
	require.Equal(t, "en", b.Resolve("en-GB,en;q=0.9"))
	require.Equal(t, "ja", b.Resolve("ja-JP"))
	require.Equal(t, "en", b.Resolve("de-DE,fr;q=0.5"))
	require.Equal(t, "en", b.Resolve(""))
	require.Equal(t, "en", b.Resolve(";;;garbage"))
}

func TestTranslateFallsBack(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yaml": {Data: []byte("detail.hidden: (Hidden)\nonly.en: English only\n")},
		"ja.yaml": {Data: []byte("detail.hidden: (隠れ特性)\n")},
	}
	b, err := Load(fsys, "en", []string{"en", "ja", "fr"})
	require.NoError(t, err)

	require.Equal(t, []string{"en", "ja"}, b.Supported())
	require.Equal(t, "(隠れ特性)", b.T("ja", "detail.hidden"))
	require.Equal(t, "English only", b.T("ja", "only.en"))
	require.Equal(t, "missing.key", b.T("en", "missing.key"))
	require.False(t, b.IsSupported("fr"))
}

func TestLoadRequiresFallback(t *testing.T) {
	_, err := Load(fstest.MapFS{"ja.yaml": {Data: []byte("a: b\n")}}, "en", []string{"en", "ja"})
	require.Error(t, err)
}

func TestDefaultLocalesShareKeys(t *testing.T) {
	b, err := Default("en")
	require.NoError(t, err)
	for key := range b.dict["en"] {
		_, ok := b.dict["ja"][key]
		require.True(t, ok, "ja locale is missing %s", key)
	}
}
