package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"restaurant-menu-service/internal/domain"
	"restaurant-menu-service/internal/service"
	"restaurant-menu-service/internal/store"
	"restaurant-menu-service/internal/validation"
)

const maxBodyBytes = 1 << 20

// ResourceService is the CRUD protocol the handlers drive.
type ResourceService interface {
	List(ctx context.Context, res *domain.Resource) ([]domain.Row, error)
	Get(ctx context.Context, res *domain.Resource, rawID string) (domain.Row, error)
	Create(ctx context.Context, res *domain.Resource, body map[string]any) (domain.Row, error)
	Update(ctx context.Context, res *domain.Resource, rawID string, body map[string]any) (domain.Row, error)
	Delete(ctx context.Context, res *domain.Resource, rawID string) error
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	crud      ResourceService
	pinger    store.Pinger
	resources []*domain.Resource
	basePath  string
}

// NewHTTPHandler creates a new HTTPHandler serving resources under basePath.
func NewHTTPHandler(crud ResourceService, pinger store.Pinger, resources []*domain.Resource, basePath string) *HTTPHandler {
	return &HTTPHandler{
		crud:      crud,
		pinger:    pinger,
		resources: resources,
		basePath:  basePath,
	}
}

func (h *HTTPHandler) list(res *domain.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.crud.List(r.Context(), res)
		if err != nil {
			h.respondWithOutcomeError(w, r, res, "list", err)
			return
		}
		respondWithData(w, r, http.StatusOK, fmt.Sprintf("%s retrieved", res.Plural), rows)
	}
}

func (h *HTTPHandler) get(res *domain.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := h.crud.Get(r.Context(), res, chi.URLParam(r, "id"))
		if err != nil {
			h.respondWithOutcomeError(w, r, res, "retrieve", err)
			return
		}
		respondWithData(w, r, http.StatusOK, fmt.Sprintf("%s retrieved", res.Singular), row)
	}
}

func (h *HTTPHandler) create(res *domain.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := decodeBody(w, r)
		if !ok {
			return
		}
		row, err := h.crud.Create(r.Context(), res, body)
		if err != nil {
			h.respondWithOutcomeError(w, r, res, "create", err)
			return
		}
		respondWithData(w, r, http.StatusCreated, fmt.Sprintf("%s created", res.Singular), row)
	}
}

func (h *HTTPHandler) update(res *domain.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := decodeBody(w, r)
		if !ok {
			return
		}
		row, err := h.crud.Update(r.Context(), res, chi.URLParam(r, "id"), body)
		if err != nil {
			h.respondWithOutcomeError(w, r, res, "update", err)
			return
		}
		respondWithData(w, r, http.StatusOK, fmt.Sprintf("%s updated", res.Singular), row)
	}
}

func (h *HTTPHandler) remove(res *domain.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.crud.Delete(r.Context(), res, chi.URLParam(r, "id")); err != nil {
			h.respondWithOutcomeError(w, r, res, "delete", err)
			return
		}
		respondWithMessage(w, r, http.StatusOK, fmt.Sprintf("%s deleted", res.Singular))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	body, err := validation.DecodeObject(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondWithFailures(w, r, []validation.Failure{{Field: "body", Reason: err.Error()}})
		return nil, false
	}
	return body, true
}

// respondWithOutcomeError maps protocol errors to status codes. Storage
// failures are logged and answered with a generic message.
func (h *HTTPHandler) respondWithOutcomeError(w http.ResponseWriter, r *http.Request, res *domain.Resource, op string, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respondWithFailures(w, r, verr.Failures)
	case errors.Is(err, service.ErrEmptyUpdate):
		respondWithError(w, r, http.StatusBadRequest, "nothing to update: no updatable fields were provided")
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, r, http.StatusNotFound, fmt.Sprintf("%s not found", res.Singular))
	case errors.Is(err, store.ErrReferenced):
		respondWithError(w, r, http.StatusConflict, fmt.Sprintf("%s is still referenced by other records", res.Singular))
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("resource", res.Path).
			Str("op", op).
			Msg("store operation failed")
		respondWithError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to %s %s", op, res.Plural))
	}
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for every resource, the health
// check and the API documentation under the base path.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route(h.basePath, func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/docs", h.docsRedirect)
		r.Get("/docs/openapi.json", h.OpenAPI)
		r.Get("/docs/*", h.DocsUI())

		for _, res := range h.resources {
			r.Route("/"+res.Path, func(r chi.Router) {
				r.Get("/", h.list(res))    // GET <base>/<resource>
				r.Post("/", h.create(res)) // POST <base>/<resource>
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.get(res))       // GET <base>/<resource>/{id}
					r.Put("/", h.update(res))    // PUT <base>/<resource>/{id}
					r.Delete("/", h.remove(res)) // DELETE <base>/<resource>/{id}
				})
			})
		}
	})
}
