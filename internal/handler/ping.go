package handler

import "net/http"

// Ping verifies the connection to the store.
//
//	GET /ping
//
//	HTTP/1.1 200 OK
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.textError(w, "store is unreachable", err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
