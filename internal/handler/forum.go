package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/service"
)

// ForumHandler serves the forum pages. Every form follows
// POST/redirect/GET: success redirects with a flash message, a validation
// failure re-renders the form with the visitor's input and a 400.
type ForumHandler struct {
	forum    *service.ForumService
	auth     *service.AuthService
	renderer *Renderer
}

// NewForumHandler wires the forum pages. auth may be nil.
func NewForumHandler(forum *service.ForumService, auth *service.AuthService, renderer *Renderer) *ForumHandler {
	return &ForumHandler{forum: forum, auth: auth, renderer: renderer}
}

// HandleIndex serves GET /forum?tag=.
func (h *ForumHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, http.StatusOK, service.NewDiscussionInput{}, "")
}

func (h *ForumHandler) renderIndex(w http.ResponseWriter, r *http.Request, status int, form service.NewDiscussionInput, formErr string) {
	tag := r.URL.Query().Get("tag")

	discussions, err := h.forum.List(r.Context(), tag)
	if err != nil {
		h.renderer.serverError(w, r, err)
		return
	}
	tags, err := h.forum.Tags(r.Context())
	if err != nil {
		h.renderer.serverError(w, r, err)
		return
	}

	h.renderer.render(w, r, status, "forum", "Community Forum", map[string]any{
		"Discussions": discussions,
		"Tags":        tags,
		"Tag":         tag,
		"Form":        form,
		"Error":       formErr,
	})
}

// HandleCreate serves POST /forum.
func (h *ForumHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	in := service.NewDiscussionInput{
		Title:   r.PostForm.Get("title"),
		Content: r.PostForm.Get("content"),
	}

	d, err := h.forum.CreateDiscussion(r.Context(), h.auth.CurrentUser(r.Context()), in)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.renderIndex(w, r, http.StatusBadRequest, in, err.Error())
			return
		}
		h.renderer.serverError(w, r, err)
		return
	}

	h.renderer.flash(r, fmt.Sprintf("Your discussion %q was posted.", d.Title))
	http.Redirect(w, r, "/forum", http.StatusSeeOther)
}

// HandleShow serves GET /forum/{id}. An unknown id sends the visitor back to
// the forum with a flash message.
func (h *ForumHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	h.renderShow(w, r, http.StatusOK, "", "")
}

func (h *ForumHandler) renderShow(w http.ResponseWriter, r *http.Request, status int, comment, formErr string) {
	id, err := idParam(r)
	if err != nil {
		h.missing(w, r)
		return
	}
	d, err := h.forum.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			h.missing(w, r)
			return
		}
		h.renderer.serverError(w, r, err)
		return
	}

	h.renderer.render(w, r, status, "discussion", d.Title, map[string]any{
		"Discussion": d,
		"Comment":    comment,
		"Error":      formErr,
	})
}

// missing redirects to the listing with a "not found" flash.
func (h *ForumHandler) missing(w http.ResponseWriter, r *http.Request) {
	h.renderer.flash(r, "Discussion not found.")
	http.Redirect(w, r, "/forum", http.StatusSeeOther)
}

// HandleComment serves POST /forum/{id}/comments.
func (h *ForumHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.missing(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	text := r.PostForm.Get("comment")

	_, err = h.forum.AddComment(r.Context(), h.auth.CurrentUser(r.Context()), id, text)
	switch {
	case err == nil:
		h.renderer.flash(r, "Comment posted.")
		http.Redirect(w, r, fmt.Sprintf("/forum/%d", id), http.StatusSeeOther)
	case errors.Is(err, apperror.ErrValidation):
		h.renderShow(w, r, http.StatusBadRequest, text, err.Error())
	case errors.Is(err, apperror.ErrNotFound):
		h.missing(w, r)
	default:
		h.renderer.serverError(w, r, err)
	}
}

// HandleLike serves POST /forum/{id}/like. The visitor goes back to the
// forum page they clicked from, tag filter included.
func (h *ForumHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err == nil {
		_, err = h.forum.Like(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			h.missing(w, r)
			return
		}
		h.renderer.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, forumReturnPath(r.Referer(), fmt.Sprintf("/forum/%d", id)), http.StatusSeeOther)
}

// forumReturnPath keeps only the path and query of a forum referer, so a
// forged Referer can't redirect off-site.
func forumReturnPath(referer, fallback string) string {
	u, err := url.Parse(referer)
	if err != nil || !strings.HasPrefix(u.Path, "/forum") {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
