package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/user"
)

// userService defines the minimal interface needed by AuthHandler and
// UserHandler.
type userService interface {
	Register(ctx context.Context, input user.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, input user.LoginInput) (*domain.User, string, error)
	Search(ctx context.Context, input user.SearchInput) ([]domain.User, error)
	Me(ctx context.Context) (*domain.User, error)
}

// AuthHandler serves registration and login endpoints.
type AuthHandler struct {
	svc userService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc userService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string       `json:"accessToken"`
	User        userResponse `json:"user"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, token, err := h.svc.Register(r.Context(), user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{AccessToken: token, User: toUserResponse(u)})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, token, err := h.svc.Login(r.Context(), user.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{AccessToken: token, User: toUserResponse(u)})
}
