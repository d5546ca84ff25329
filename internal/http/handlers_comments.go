package httpx

import (
	"net/http"

	"github.com/pamphlets/pamphlets/internal/domain/model"
	"github.com/pamphlets/pamphlets/internal/service"
)

// CommentHandlers provides HTTP handlers for comment operations.
type CommentHandlers struct {
	Svc *service.CommentService
}

// ListByArticle handles GET /api/articles/{id}/comments.
func (h *CommentHandlers) ListByArticle(w http.ResponseWriter, r *http.Request) {
	articleID := r.PathValue("id")
	limit, offset := paginationParams(r)

	comments, err := h.Svc.ListByArticle(r.Context(), articleID, limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// Create handles POST /api/articles/{id}/comments.
func (h *CommentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCommentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.ArticleID = r.PathValue("id")

	comment, err := h.Svc.Create(r.Context(), credentialFromRequest(r), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, comment)
}

// Delete handles DELETE /api/comments/{id}.
func (h *CommentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Svc.Delete(r.Context(), credentialFromRequest(r), id); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
