package nav

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/about"
	LabelKey string // i18n key, e.g. "nav.about"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
// An empty Href renders as plain text.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/", LabelKey: "nav.home"},
	{Path: "/about", LabelKey: "nav.about"},
}

// sections maps detail route prefixes to their section label. Neither section
// has an index page of its own, so their crumbs are not links.
var sections = map[string]string{
	"pokemon": "nav.list",
	"ability": "ability.heading",
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		// detail pages belong to the list section
		return currentPath == "/" || strings.HasPrefix(currentPath, "/pokemon/")
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path.
func Breadcrumbs(currentPath string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	clean := path.Clean("/" + currentPath)
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Active: clean == "/"}}
	if clean == "/" {
		return crumbs
	}

	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	if len(parts) == 1 {
		for _, it := range Main {
			if it.Path == clean {
				return append(crumbs, Crumb{Href: it.Path, LabelKey: it.LabelKey, Active: true})
			}
		}
		return append(crumbs, Crumb{Href: clean, Label: titleFromSegment(parts[0]), Active: true})
	}

	if key, ok := sections[parts[0]]; ok {
		crumbs = append(crumbs, Crumb{LabelKey: key})
	}
	last := parts[len(parts)-1]
	return append(crumbs, Crumb{Href: clean, Label: titleFromSegment(last), Active: true})
}

func titleFromSegment(seg string) string {
	if unescaped, err := url.PathUnescape(seg); err == nil {
		seg = unescaped
	}
	seg = strings.ReplaceAll(seg, "_", " ")
	return cases.Title(language.English).String(seg)
}
