// Package content renders the static markdown pages bundled with the binary.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed pages/*.md
var embedded embed.FS

// ErrNotFound is returned when no page exists for a slug in any candidate language.
var ErrNotFound = errors.New("content: page not found")

const fallbackLang = "en"

// Page is a rendered static page.
type Page struct {
	Slug    string
	Lang    string
	Title   string
	Summary string
	HTML    template.HTML
}

type frontMatter struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
}

// Store loads pages named "<slug>.<lang>.md" from a filesystem and caches the rendered result.
type Store struct {
	fsys   fs.FS
	dir    string
	md     goldmark.Markdown
	policy *bluemonday.Policy

	mu    sync.RWMutex
	pages map[string]Page
}

// Default returns a store over the embedded pages.
func Default() *Store {
	return New(embedded, "pages")
}

// New returns a store reading markdown from dir within fsys.
func New(fsys fs.FS, dir string) *Store {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &Store{
		fsys:   fsys,
		dir:    dir,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer)),
		policy: policy,
		pages:  map[string]Page{},
	}
}

// Page returns the page for slug in lang, falling back to English.
func (s *Store) Page(slug, lang string) (Page, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || strings.ContainsAny(slug, "./\\") {
		return Page{}, ErrNotFound
	}
	lang = strings.ToLower(strings.TrimSpace(lang))

	candidates := []string{lang}
	if lang != fallbackLang {
		candidates = append(candidates, fallbackLang)
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		page, err := s.load(slug, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Page{}, err
		}
		return page, nil
	}
	return Page{}, ErrNotFound
}

func (s *Store) load(slug, lang string) (Page, error) {
	key := slug + "|" + lang
	s.mu.RLock()
	page, ok := s.pages[key]
	s.mu.RUnlock()
	if ok {
		return page, nil
	}

	file := path.Join(s.dir, slug+"."+lang+".md")
	data, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		return Page{}, err
	}
	page, err = s.render(slug, lang, data)
	if err != nil {
		return Page{}, fmt.Errorf("content: %s: %w", file, err)
	}

	s.mu.Lock()
	s.pages[key] = page
	s.mu.Unlock()
	return page, nil
}

func (s *Store) render(slug, lang string, data []byte) (Page, error) {
	fm, body := splitFrontMatter(string(data))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("parse front matter: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("render markdown: %w", err)
	}
	title := strings.TrimSpace(front.Title)
	if title == "" {
		title = slug
	}
	return Page{
		Slug:    slug,
		Lang:    lang,
		Title:   title,
		Summary: strings.TrimSpace(front.Summary),
		HTML:    template.HTML(s.policy.SanitizeBytes(buf.Bytes())),
	}, nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}
