package handler

import (
	"net/http"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/models/user"
	"github.com/go-chi/chi/v5"
)

// DeleteLink removes the caller's link and invalidates its cache
// entry.
//
//	DELETE /api/links/{shortCode}
//
//	HTTP/1.1 204 No Content
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	caller, ok := user.FromContext(r.Context())
	if !ok {
		h.textError(w, "failed to get user from context",
			errs.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	shortCode := chi.URLParam(r, "shortCode")

	if err := h.service.Delete(r.Context(), caller.ID, shortCode); err != nil {
		h.serviceError(w, "failed to delete link: "+shortCode, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUserLinks removes the caller's account record together with
// every link it owns. Used by account deletion; links must not stay
// resolvable afterwards.
//
//	DELETE /api/user/links
//
//	HTTP/1.1 202 Accepted
func (h *Handler) DeleteUserLinks(w http.ResponseWriter, r *http.Request) {
	caller, ok := user.FromContext(r.Context())
	if !ok {
		h.textError(w, "failed to get user from context",
			errs.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	if err := h.service.DeleteAllForOwner(r.Context(), caller.ID); err != nil {
		h.serviceError(w, "failed to delete user links", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
