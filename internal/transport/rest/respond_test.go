package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/homelyapp/backend/internal/domain"
)

func TestHandleError_StatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("expense: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"already exists", fmt.Errorf("user: %w", domain.ErrAlreadyExists), http.StatusConflict},
		{"conflict", fmt.Errorf("decided: %w", domain.ErrConflict), http.StatusConflict},
		{"validation", domain.NewValidationError("title", "required"), http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			handleError(slog.Default(), rec, req, tc.err)

			if rec.Code != tc.want {
				t.Errorf("status: got %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestHandleError_ValidationFields(t *testing.T) {
	t.Parallel()

	err := domain.NewValidationErrors([]domain.FieldError{
		{Field: "title", Message: "required"},
		{Field: "amount", Message: "must not be negative"},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	handleError(slog.Default(), rec, req, err)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"field":"title"`) || !strings.Contains(body, `"field":"amount"`) {
		t.Errorf("body missing field errors: %s", body)
	}
}
