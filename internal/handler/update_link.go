package handler

import (
	"encoding/json"
	"net/http"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/models"
	"github.com/akarpov/shortly/internal/models/user"
	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
)

type updateRequestPayload struct {
	OriginalURL   *string `json:"original_url,omitempty"`
	ExpiresInDays *int    `json:"expires_in_days,omitempty"`
}

// UpdateLink changes the original URL and/or the expiration of the
// caller's link. The cache entry for the code is invalidated before
// the response is written, so a following redirect never serves the
// replaced URL.
//
//	PUT /api/links/{shortCode}
//	{
//	    "original_url": "https://example.org",  // optional
//	    "expires_in_days": 30                   // optional
//	}
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	caller, ok := user.FromContext(r.Context())
	if !ok {
		h.textError(w, "failed to get user from context",
			errs.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	shortCode := chi.URLParam(r, "shortCode")

	var payload updateRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.textError(w, "failed to decode request", err, http.StatusBadRequest)
		return
	}

	if payload.OriginalURL == nil && payload.ExpiresInDays == nil {
		h.textError(w, "no fields to update",
			errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}
	if payload.OriginalURL != nil && !govalidator.IsURL(*payload.OriginalURL) {
		h.textError(w, "provided url isn't valid: "+*payload.OriginalURL,
			errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	patch := models.LinkPatch{OriginalURL: payload.OriginalURL}
	if payload.ExpiresInDays != nil {
		expiresAt, err := models.ExpiryFromDays(*payload.ExpiresInDays)
		if err != nil {
			h.textError(w, "invalid expires_in_days", err, http.StatusBadRequest)
			return
		}
		patch.ExpiresAt = expiresAt
	}

	link, err := h.service.Update(r.Context(), caller.ID, shortCode, patch)
	if err != nil {
		h.serviceError(w, "failed to update link: "+shortCode, err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.newLinkPayload(link))
}
