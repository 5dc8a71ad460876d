package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/sakif/climate-hub/internal/model"
	"github.com/sakif/climate-hub/internal/service"
)

const flashKey = "flash"

// pages lists every template under templates/ besides base.html.
var pages = []string{
	"home", "about", "blog", "blog_post", "portfolio",
	"contact", "forum", "discussion", "not_found", "error",
}

// Renderer executes page templates inside the shared layout.
//
// Each page is parsed together with base.html into its own template set,
// because every page defines a block named "content" and a single set can
// only hold one definition per name.
type Renderer struct {
	pages       map[string]*template.Template
	sessions    *scs.SessionManager
	auth        *service.AuthService
	content     *service.ContentService
	authEnabled bool
	logger      *slog.Logger
}

// NewRenderer parses the templates in fsys once, at startup. auth may be nil
// when sign-in is disabled.
func NewRenderer(
	fsys fs.FS,
	sessions *scs.SessionManager,
	content *service.ContentService,
	auth *service.AuthService,
	logger *slog.Logger,
) (*Renderer, error) {
	funcs := template.FuncMap{
		"initials": initials,
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(fsys,
			"templates/base.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing %s template: %w", page, err)
		}
		parsed[page] = t
	}

	return &Renderer{
		pages:       parsed,
		sessions:    sessions,
		auth:        auth,
		content:     content,
		authEnabled: auth != nil,
		logger:      logger,
	}, nil
}

// pageData is what every template receives. Data holds the page's own values.
type pageData struct {
	Title       string
	Active      string
	Flash       string
	User        *model.User
	AuthEnabled bool
	Site        model.Site
	Data        map[string]any
}

// render writes page with the given status. The page is rendered into a
// buffer first so a template error still produces a clean 500.
func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data map[string]any) {
	t, ok := rd.pages[page]
	if !ok {
		rd.logger.Error("unknown page template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}

	pd := pageData{
		Title:       title,
		Active:      activeNav(page),
		Flash:       rd.sessions.PopString(r.Context(), flashKey),
		User:        rd.auth.CurrentUser(r.Context()),
		AuthEnabled: rd.authEnabled,
		Site:        rd.content.Site(),
		Data:        data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", pd); err != nil {
		rd.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// flash stores a one-shot message shown on the next rendered page.
func (rd *Renderer) flash(r *http.Request, msg string) {
	rd.sessions.Put(r.Context(), flashKey, msg)
}

// notFound renders the 404 page.
func (rd *Renderer) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	rd.render(w, r, http.StatusNotFound, "not_found", "Not Found", map[string]any{"Message": msg})
}

// serverError logs err and renders the generic error page.
func (rd *Renderer) serverError(w http.ResponseWriter, r *http.Request, err error) {
	rd.logger.Error("request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	rd.render(w, r, http.StatusInternalServerError, "error", "Error", nil)
}

func activeNav(page string) string {
	switch page {
	case "blog_post":
		return "blog"
	case "discussion":
		return "forum"
	}
	return page
}

// initials turns "Dr. Emily Green" into "DEG" for avatar placeholders.
func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			b.WriteRune(r)
			break
		}
	}
	return strings.ToUpper(b.String())
}
