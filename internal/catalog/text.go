package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalLanguage is the language localized API text is selected in.
var CanonicalLanguage = language.English

var whitespaceReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\f", " ")

// TitleCase upper-cases the first letter of each word, keeping hyphens:
// "lightning-rod" becomes "Lightning-Rod".
func TitleCase(s string) string {
	// Casers carry state and are not safe for concurrent use.
	return cases.Title(language.English).String(s)
}

// cleanText trims upstream text. Angle brackets and ampersands are kept as
// written; html/template escapes them on output.
func cleanText(s string) string {
	return strings.TrimSpace(s)
}

// flattenLines turns the hard line breaks used in game text into single spaces.
func flattenLines(s string) string {
	return whitespaceReplacer.Replace(s)
}

// matchesLanguage reports whether an upstream language name denotes want.
// Names are compared as BCP 47 base languages, so "EN" and "en-GB" match en.
func matchesLanguage(name string, want language.Tag) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	tag, err := language.Parse(name)
	if err != nil {
		return strings.EqualFold(name, want.String())
	}
	base, conf := tag.Base()
	if conf == language.No {
		return false
	}
	wantBase, _ := want.Base()
	return base == wantBase
}
