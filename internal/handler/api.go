package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/service"
)

// APIHandler serves the forum and content as JSON under /api.
type APIHandler struct {
	forum   *service.ForumService
	content *service.ContentService
	auth    *service.AuthService
	logger  *slog.Logger
}

// NewAPIHandler wires the JSON API. auth may be nil.
func NewAPIHandler(
	forum *service.ForumService,
	content *service.ContentService,
	auth *service.AuthService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{forum: forum, content: content, auth: auth, logger: logger}
}

// HandleListDiscussions serves GET /api/discussions?tag=.
func (h *APIHandler) HandleListDiscussions(w http.ResponseWriter, r *http.Request) {
	discussions, err := h.forum.List(r.Context(), r.URL.Query().Get("tag"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, discussions)
}

// HandleCreateDiscussion serves POST /api/discussions.
//
// Request:  {"title": "...", "content": "..."}
// Response: 201 with the stored discussion, 400 on validation failure.
func (h *APIHandler) HandleCreateDiscussion(w http.ResponseWriter, r *http.Request) {
	var in service.NewDiscussionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	d, err := h.forum.CreateDiscussion(r.Context(), h.auth.CurrentUser(r.Context()), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// HandleGetDiscussion serves GET /api/discussions/{id}.
func (h *APIHandler) HandleGetDiscussion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	d, err := h.forum.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type commentRequest struct {
	Content string `json:"content"`
}

// HandleAddComment serves POST /api/discussions/{id}/comments.
func (h *APIHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	c, err := h.forum.AddComment(r.Context(), h.auth.CurrentUser(r.Context()), id, req.Content)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleLike serves POST /api/discussions/{id}/like.
func (h *APIHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	likes, err := h.forum.Like(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"id": id, "likes": likes})
}

// HandleTags serves GET /api/tags.
func (h *APIHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.forum.Tags(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// HandlePosts serves GET /api/posts.
func (h *APIHandler) HandlePosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.content.Posts())
}

// HandlePost serves GET /api/posts/{slug}.
func (h *APIHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	post, err := h.content.Post(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleProjects serves GET /api/projects.
func (h *APIHandler) HandleProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.content.Projects())
}

// HandleNotFound answers unknown /api paths with a JSON 404.
func (h *APIHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, h.logger, apperror.NotFound("route", r.URL.Path))
}
