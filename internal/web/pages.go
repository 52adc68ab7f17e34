package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/catalog"
	"finitefield.org/pokedex-web/internal/content"
	"finitefield.org/pokedex-web/internal/httpx"
	"finitefield.org/pokedex-web/internal/i18n"
	mw "finitefield.org/pokedex-web/internal/middleware"
	"finitefield.org/pokedex-web/internal/nav"
	"finitefield.org/pokedex-web/internal/requestctx"
)

// Fragment names; each is also a template defined in templates/.
const (
	pageList    = "list"
	pagePokemon = "pokemon"
	pageAbility = "ability"
	pageAbout   = "about"
)

// PageData is the view model shared by every page.
type PageData struct {
	Title        string
	Lang         string
	Path         string
	Self         string
	NavigationID string
	Progressive  bool
	Page         string

	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	List    catalog.State[[]catalog.ListEntry]
	Pokemon catalog.State[catalog.PokemonView]
	Ability catalog.State[catalog.AbilityView]
	About   content.Page

	bundle *i18n.Bundle
}

// T translates key into the page language.
func (d PageData) T(key string) string {
	if d.bundle == nil {
		return key
	}
	return d.bundle.T(d.Lang, key)
}

// LoadingKey is the message key of the page's loading shell.
func (d PageData) LoadingKey() string {
	switch d.Page {
	case pagePokemon:
		return "detail.loading"
	case pageAbility:
		return "ability.loading"
	default:
		return "list.loading"
	}
}

// Pages serves the catalog screens.
type Pages struct {
	list        *catalog.ListLoader
	pokemon     *catalog.PokemonLoader
	ability     *catalog.AbilityLoader
	content     *content.Store
	bundle      *i18n.Bundle
	renderer    *Renderer
	progressive bool
}

func (p *Pages) newPageData(r *http.Request, page string) PageData {
	lang := mw.Lang(r)
	return PageData{
		Lang:         lang,
		Path:         r.URL.Path,
		Self:         r.URL.RequestURI(),
		NavigationID: requestctx.NavigationID(r.Context()),
		Progressive:  p.progressive,
		Page:         page,
		Nav:          nav.Build(r.URL.Path),
		Breadcrumbs:  nav.Breadcrumbs(r.URL.Path),
		bundle:       p.bundle,
	}
}

// deferred reports whether the request should get the loading shell and
// fetch its content with a follow-up htmx request.
func (p *Pages) deferred(r *http.Request) bool {
	return p.progressive && !mw.IsHTMX(r.Context())
}

// List renders the pokemon list.
func (p *Pages) List(w http.ResponseWriter, r *http.Request) {
	data := p.newPageData(r, pageList)
	data.Title = data.T("list.heading")
	if p.deferred(r) {
		data.List = catalog.Loading[[]catalog.ListEntry]()
		p.render(w, r, data)
		return
	}
	state := p.list.Load(r.Context())
	if superseded(r) {
		return
	}
	data.List = state
	p.render(w, r, data)
}

// Pokemon renders the detail page of the pokemon named by the route.
func (p *Pages) Pokemon(w http.ResponseWriter, r *http.Request) {
	name := routeParam(r, "name")
	data := p.newPageData(r, pagePokemon)
	data.Title = catalog.TitleCase(name)
	if p.deferred(r) {
		data.Pokemon = catalog.Loading[catalog.PokemonView]()
		p.render(w, r, data)
		return
	}
	state := p.pokemon.Load(r.Context(), name)
	if superseded(r) {
		return
	}
	if state.IsLoaded() {
		data.Title = state.Data().DisplayName()
	}
	data.Pokemon = state
	p.render(w, r, data)
}

// Ability renders the detail page of the ability named by the route.
func (p *Pages) Ability(w http.ResponseWriter, r *http.Request) {
	name := routeParam(r, "name")
	data := p.newPageData(r, pageAbility)
	data.Title = catalog.TitleCase(name)
	if p.deferred(r) {
		data.Ability = catalog.Loading[catalog.AbilityView]()
		p.render(w, r, data)
		return
	}
	state := p.ability.Load(r.Context(), name)
	if superseded(r) {
		return
	}
	if state.IsLoaded() {
		data.Title = state.Data().DisplayName()
	}
	data.Ability = state
	p.render(w, r, data)
}

// About renders the bundled about page.
func (p *Pages) About(w http.ResponseWriter, r *http.Request) {
	data := p.newPageData(r, pageAbout)
	page, err := p.content.Page("about", data.Lang)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, content.ErrNotFound) {
			status = http.StatusNotFound
		}
		requestctx.Logger(r.Context()).Error("about page unavailable", zap.Error(err))
		httpx.WriteError(r.Context(), w, r, httpx.NewError("content_unavailable", "about page unavailable", status))
		return
	}
	data.Title = page.Title
	data.About = page
	p.render(w, r, data)
}

// render writes the whole layout, or only the page fragment for htmx requests.
func (p *Pages) render(w http.ResponseWriter, r *http.Request, data PageData) {
	name := "base"
	if mw.IsHTMX(r.Context()) {
		name = data.Page
	}
	body, err := p.renderer.Render(name, data)
	if err != nil {
		requestctx.Logger(r.Context()).Error("render failed", zap.String("template", name), zap.Error(err))
		httpx.WriteError(r.Context(), w, r, httpx.NewError("render_failed", "failed to render page", http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// superseded reports whether the navigation that issued r has been abandoned.
// Results resolved after that point are discarded instead of rendered.
func superseded(r *http.Request) bool {
	err := r.Context().Err()
	if err == nil {
		return false
	}
	level := zap.DebugLevel
	if errors.Is(err, context.DeadlineExceeded) {
		level = zap.WarnLevel
	}
	requestctx.Logger(r.Context()).Log(level, "discarding result of abandoned navigation",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	return true
}

func routeParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
