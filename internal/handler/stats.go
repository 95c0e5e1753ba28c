package handler

import (
	"net/http"
	"time"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/models/user"
	"github.com/go-chi/chi/v5"
)

type statsPayload struct {
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	AccessCount int64      `json:"access_count"`
}

// LinkStats reports the usage counters of the caller's link.
//
//	GET /api/links/{shortCode}/stats
//
//	HTTP/1.1 200 OK
//	Content-Type: application/json
//
//	{
//	    "short_code": "3BpShqvC",
//	    "original_url": "https://go.dev",
//	    "created_at": "2025-05-01T10:00:00Z",
//	    "access_count": 42
//	}
func (h *Handler) LinkStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := user.FromContext(r.Context())
	if !ok {
		h.textError(w, "failed to get user from context",
			errs.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	shortCode := chi.URLParam(r, "shortCode")

	link, err := h.service.Stats(r.Context(), caller.ID, shortCode)
	if err != nil {
		h.serviceError(w, "failed to get link stats: "+shortCode, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statsPayload{
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
		ExpiresAt:   link.ExpiresAt,
		AccessCount: link.AccessCount,
	})
}
