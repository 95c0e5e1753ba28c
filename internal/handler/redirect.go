package handler

import (
	"errors"
	"net/http"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/shortcode"
	"github.com/go-chi/chi/v5"
)

// Redirect resolves a short code to its original URL and redirects the
// caller. Expired links answer 410 so clients can tell a dead link
// from one that never existed.
//
//	GET /{shortCode}
//
//	HTTP/1.1 307 Temporary Redirect
//	Location: https://go.dev
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	if !shortcode.Resolvable(shortCode) {
		h.textError(w, "invalid short code", errs.ErrNotFound, http.StatusNotFound)
		return
	}

	originalURL, err := h.service.ResolvePublic(r.Context(), shortCode)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			h.textError(w, "no such link: "+shortCode, err, http.StatusNotFound)
		case errors.Is(err, errs.ErrGone):
			h.textError(w, "link expired: "+shortCode, err, http.StatusGone)
		default:
			h.textError(w, "failed to resolve link: "+shortCode, err, http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, originalURL, http.StatusTemporaryRedirect)
}
