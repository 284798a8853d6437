package rest

import (
	"log/slog"
	"net/http"

	"github.com/homelyapp/backend/internal/service/user"
)

// UserHandler serves the authenticated user endpoints.
type UserHandler struct {
	svc userService
	log *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: logger.With("handler", "user")}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Me(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Search handles GET /users/search?q=prefix. It powers the share dialog's
// user picker.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Search(r.Context(), user.SearchInput{Query: r.URL.Query().Get("q")})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]userResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}
