package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/service"
)

// ContactHandler serves the contact page and its form.
type ContactHandler struct {
	contact  *service.ContactService
	renderer *Renderer
	logger   *slog.Logger
}

func NewContactHandler(contact *service.ContactService, renderer *Renderer, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contact: contact, renderer: renderer, logger: logger}
}

// HandlePage serves GET /contact.
func (h *ContactHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, service.ContactInput{}, "")
}

func (h *ContactHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form service.ContactInput, formErr string) {
	h.renderer.render(w, r, status, "contact", "Contact Us", map[string]any{
		"Form":  form,
		"Error": formErr,
	})
}

// HandleSubmit serves POST /contact.
func (h *ContactHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	in := service.ContactInput{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Message: r.PostForm.Get("message"),
	}

	if _, err := h.contact.Submit(r.Context(), in); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.renderForm(w, r, http.StatusBadRequest, in, err.Error())
			return
		}
		h.renderer.serverError(w, r, err)
		return
	}

	h.renderer.flash(r, "Thanks for your message! We'll be in touch soon.")
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

// HandleAPISubmit serves POST /api/contact.
func (h *ContactHandler) HandleAPISubmit(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	msg, err := h.contact.Submit(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
