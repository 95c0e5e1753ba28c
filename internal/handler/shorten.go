package handler

import (
	"encoding/json"
	"net/http"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/models/user"
	"github.com/asaskevich/govalidator"
)

type shortenRequestPayload struct {
	OriginalURL   string `json:"original_url"`
	CustomAlias   string `json:"custom_alias,omitempty"`
	ExpiresInDays *int   `json:"expires_in_days,omitempty"`
}

// ShortenLink creates a new shortened link for the authenticated user.
//
// Request:
//
//	POST /api/links/shorten
//	Content-Type: application/json
//	{
//	    "original_url": "https://example.com",
//	    "custom_alias": "example",      // optional
//	    "expires_in_days": 7            // optional
//	}
//
// Response: 201 Created with the link record; 400 for a malformed
// URL or alias, 409 when the alias is taken.
func (h *Handler) ShortenLink(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	caller, ok := user.FromContext(r.Context())
	if !ok {
		h.textError(w, "failed to get user from context",
			errs.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	var payload shortenRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.textError(w, "failed to decode request", err, http.StatusBadRequest)
		return
	}

	if payload.OriginalURL == "" {
		h.textError(w, "original_url field is empty",
			errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}
	if !govalidator.IsURL(payload.OriginalURL) {
		h.textError(w, "provided url isn't valid: "+payload.OriginalURL,
			errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	link, err := h.service.Shorten(r.Context(), caller.ID,
		payload.OriginalURL, payload.CustomAlias, payload.ExpiresInDays)
	if err != nil {
		h.serviceError(w, "failed to shorten url: "+payload.OriginalURL, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, h.newLinkPayload(link))
}
