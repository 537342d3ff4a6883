package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/skein/internal/siteerr"
	"github.com/starford/skein/internal/siteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *siteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *siteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// pageKey extracts the id or URL from the request path (everything after
// /api/pages). Encoded slashes are accepted.
func pageKey(r *http.Request) string {
	raw := chi.URLParam(r, "*")
	if raw == "" {
		return "/"
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	if !strings.HasPrefix(decoded, "/") {
		decoded = "/" + decoded
	}
	return decoded
}

// ListPages handles GET /api/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListPages(r.Context(), r.URL.Query().Get("tag"))
	if err != nil {
		h.fail(w, "list pages", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pages": items,
		"total": len(items),
	})
}

// GetPage handles GET /api/pages/*.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	key := pageKey(r)
	page, err := h.svc.GetPage(r.Context(), key)
	if err != nil {
		h.fail(w, "get page", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Resolve handles GET /api/resolve?ref=&from=.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref := q.Get("ref")
	if ref == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'ref' is required"))
		return
	}
	page, err := h.svc.Resolve(r.Context(), ref, q.Get("from"))
	if err != nil {
		h.fail(w, "resolve", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		h.fail(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	var se *siteerr.Error
	switch {
	case errors.Is(err, siteservice.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, siteservice.ErrNotBuilt):
		writeJSON(w, http.StatusServiceUnavailable, errorBody(err.Error()))
	case errors.As(err, &se):
		writeJSON(w, http.StatusUnprocessableEntity, errResponse{Error: err.Error(), Kind: siteservice.ErrorKind(err)})
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
