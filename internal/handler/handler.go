// Package handler implements the HTTP API of the link service.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akarpov/shortly/internal/config"
	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/logger"
	"github.com/akarpov/shortly/internal/middleware"
	"github.com/akarpov/shortly/internal/models"
	"github.com/akarpov/shortly/internal/service"
	"github.com/akarpov/shortly/pkg/accesslog"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handler carries the dependencies of the HTTP endpoints.
type Handler struct {
	service *service.LinkService
	config  *config.Config
	logger  logger.Logger
}

// New constructs a new Handler, ensuring that the dependencies are
// valid values.
func New(service *service.LinkService, config *config.Config, logger logger.Logger) (*Handler, error) {
	if service == nil {
		return nil, fmt.Errorf("%w: service", errs.ErrNilDependency)
	}
	if config == nil {
		return nil, fmt.Errorf("%w: config", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}
	return &Handler{service: service, config: config, logger: logger}, nil
}

// Register wires the routes and middlewares into the router.
// Owner-scoped endpoints live under /api and require an identity;
// the redirect and health endpoints are public.
func (h *Handler) Register(r chi.Router) chi.Router {
	r.Use(chimiddleware.RequestID)
	r.Use(accesslog.Handler(h.logger))
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authorization(h.config, h.logger))

		r.Route("/links", func(r chi.Router) {
			r.Get("/", h.ListLinks)
			r.Post("/shorten", h.ShortenLink)
			r.Get("/search", h.SearchLink)
			r.Get("/{shortCode}", h.GetLink)
			r.Put("/{shortCode}", h.UpdateLink)
			r.Delete("/{shortCode}", h.DeleteLink)
			r.Get("/{shortCode}/stats", h.LinkStats)
		})

		r.Delete("/user/links", h.DeleteUserLinks)
	})

	r.Get("/ping", h.Ping)
	r.Get("/{shortCode}", h.Redirect)

	return r
}

// linkPayload is the JSON shape of a link record.
type linkPayload struct {
	ID          string     `json:"id"`
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url"`
	OriginalURL string     `json:"original_url"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	AccessCount int64      `json:"access_count"`
}

func (h *Handler) newLinkPayload(link *models.Link) linkPayload {
	return linkPayload{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		ShortURL:    fmt.Sprintf("http://%s/%s", h.config.Server.ReturnAddress, link.ShortCode),
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
		ExpiresAt:   link.ExpiresAt,
		AccessCount: link.AccessCount,
	}
}

// writeJSON encodes the payload with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Errorf("failed to encode response: %v", err)
	}
}

// textError writes an error as plain text. Server-side errors are
// logged, client errors are not.
func (h *Handler) textError(w http.ResponseWriter, message string, err error, code int) {
	if code >= http.StatusInternalServerError {
		h.logger.Errorf("%s: %v", message, err)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprintf(w, "%s: %s", message, err)
}

// serviceError maps service errors of owner-scoped endpoints to
// status codes.
func (h *Handler) serviceError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		h.textError(w, message, err, http.StatusNotFound)
	case errors.Is(err, errs.ErrConflict):
		h.textError(w, message, err, http.StatusConflict)
	case errors.Is(err, errs.ErrInvalidAlias), errors.Is(err, errs.ErrInvalidRequest):
		h.textError(w, message, err, http.StatusBadRequest)
	default:
		h.textError(w, message, err, http.StatusInternalServerError)
	}
}
