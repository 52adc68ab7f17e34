package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"sync"
	"time"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed static
var embeddedStatic embed.FS

// Templates returns the embedded template filesystem rooted at its directory.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the embedded asset filesystem.
func Static() fs.FS {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer executes the page templates. In dev mode templates are reparsed on each render.
type Renderer struct {
	fsys fs.FS
	dev  bool

	mu    sync.RWMutex
	cache *template.Template
}

// NewRenderer parses every *.tmpl in fsys once, failing fast on syntax errors.
func NewRenderer(fsys fs.FS, dev bool) (*Renderer, error) {
	t, err := parseTemplates(fsys)
	if err != nil {
		return nil, err
	}
	return &Renderer{fsys: fsys, dev: dev, cache: t}, nil
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
	}
	files, err := fs.Glob(fsys, "*.tmpl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found")
	}
	return template.New("_root").Funcs(funcMap).ParseFS(fsys, files...)
}

// Render executes the named template into a buffer so failures never leave a half-written page.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	t, err := r.templates()
	if err != nil {
		return nil, fmt.Errorf("template parse error: %w", err)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("template exec error: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) templates() (*template.Template, error) {
	if r.dev {
		t, err := parseTemplates(r.fsys)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache = t
		r.mu.Unlock()
		return t, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache, nil
}
