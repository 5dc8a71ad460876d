// Package handler contains the HTTP handlers: server-rendered pages, the
// JSON API under /api, and the GitHub sign-in flow.
//
// Handlers parse requests, call a service and write the response. They hold
// no business rules of their own.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/service"
)

// PageHandler serves the read-only pages backed by the content catalogue.
type PageHandler struct {
	content  *service.ContentService
	renderer *Renderer
}

func NewPageHandler(content *service.ContentService, renderer *Renderer) *PageHandler {
	return &PageHandler{content: content, renderer: renderer}
}

// HandleHome serves GET /.
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "home", "Home", map[string]any{
		"Stats": h.content.Stats(),
	})
}

// HandleAbout serves GET /about.
func (h *PageHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "about", "About Us", map[string]any{
		"Team": h.content.Team(),
	})
}

// HandleBlog serves GET /blog.
func (h *PageHandler) HandleBlog(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "blog", "Blog", map[string]any{
		"Posts": h.content.Posts(),
	})
}

// HandleBlogPost serves GET /blog/{slug}. Unknown slugs get the 404 page.
func (h *PageHandler) HandleBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.content.Post(chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			h.renderer.notFound(w, r, "That blog post doesn't exist.")
			return
		}
		h.renderer.serverError(w, r, err)
		return
	}
	h.renderer.render(w, r, http.StatusOK, "blog_post", post.Title, map[string]any{
		"Post": post,
	})
}

// HandlePortfolio serves GET /portfolio.
func (h *PageHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "portfolio", "Portfolio", map[string]any{
		"Projects": h.content.Projects(),
	})
}

// HandleNotFound is the router's fallback for unknown paths.
func (h *PageHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.notFound(w, r, "")
}
