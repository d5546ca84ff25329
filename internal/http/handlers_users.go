package httpx

import (
	"net/http"

	"github.com/pamphlets/pamphlets/internal/service"
)

// UserHandlers provides HTTP handlers for account operations.
type UserHandlers struct {
	Svc *service.UserService
}

// Me handles GET /api/users/me.
func (h *UserHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Svc.Me(r.Context(), credentialFromRequest(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// List handles GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	users, err := h.Svc.List(r.Context(), credentialFromRequest(r), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Delete handles DELETE /api/users/{id}. Subjects may delete their own
// account; deleting another account requires admin. The session backing the
// request is revoked as part of deletion, so the client clears its cookie.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Svc.Delete(r.Context(), credentialFromRequest(r), id); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
