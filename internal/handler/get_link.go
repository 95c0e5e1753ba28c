package handler

import (
	"net/http"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/models/user"
	"github.com/go-chi/chi/v5"
)

// GetLink returns the caller's link by its short code.
//
//	GET /api/links/{shortCode}
//
// Expired links and links of other users are reported as 404.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	caller, ok := user.FromContext(r.Context())
	if !ok {
		h.textError(w, "failed to get user from context",
			errs.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	shortCode := chi.URLParam(r, "shortCode")

	link, err := h.service.Get(r.Context(), caller.ID, shortCode)
	if err != nil {
		h.serviceError(w, "failed to retrieve link: "+shortCode, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.newLinkPayload(link))
}

// ListLinks returns all links of the caller, most recent first.
//
//	GET /api/links
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	caller, ok := user.FromContext(r.Context())
	if !ok {
		h.textError(w, "failed to get user from context",
			errs.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	links, err := h.service.List(r.Context(), caller.ID)
	if err != nil {
		h.serviceError(w, "failed to list links", err)
		return
	}

	payload := make([]linkPayload, 0, len(links))
	for _, link := range links {
		payload = append(payload, h.newLinkPayload(link))
	}

	h.writeJSON(w, http.StatusOK, payload)
}

// SearchLink returns the caller's link with the exact original URL.
//
//	GET /api/links/search?original_url=https://example.com
func (h *Handler) SearchLink(w http.ResponseWriter, r *http.Request) {
	caller, ok := user.FromContext(r.Context())
	if !ok {
		h.textError(w, "failed to get user from context",
			errs.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	originalURL := r.URL.Query().Get("original_url")
	if originalURL == "" {
		h.textError(w, "original_url query parameter is empty",
			errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	link, err := h.service.Search(r.Context(), caller.ID, originalURL)
	if err != nil {
		h.serviceError(w, "failed to search link by url: "+originalURL, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.newLinkPayload(link))
}
