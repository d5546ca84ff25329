package httpx

import (
	"net/http"
	"strconv"

	"github.com/pamphlets/pamphlets/internal/domain/model"
	"github.com/pamphlets/pamphlets/internal/service"
)

// ArticleHandlers provides HTTP handlers for article operations.
type ArticleHandlers struct {
	Svc *service.ArticleService
}

// List handles GET /api/articles.
func (h *ArticleHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	articles, err := h.Svc.ListPublished(r.Context(), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

// Get handles GET /api/articles/{slug}.
func (h *ArticleHandlers) Get(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	article, err := h.Svc.GetBySlug(r.Context(), credentialFromRequest(r), slug)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, article)
}

// Create handles POST /api/articles.
func (h *ArticleHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateArticleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	article, err := h.Svc.Create(r.Context(), credentialFromRequest(r), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, article)
}

// Update handles PATCH /api/articles/{slug}.
func (h *ArticleHandlers) Update(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	var req model.UpdateArticleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	article, err := h.Svc.Update(r.Context(), credentialFromRequest(r), slug, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, article)
}

// paginationParams reads limit/offset query parameters with defaults.
func paginationParams(r *http.Request) (limit, offset int) {
	limit = 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
