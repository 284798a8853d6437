package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// Search finds users to share with by email prefix. The caller is excluded
// from the results and password hashes are stripped.
func (s *Service) Search(ctx context.Context, input SearchInput) ([]domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	prefix := strings.ToLower(strings.TrimSpace(input.Query))

	users, err := s.users.SearchByEmail(ctx, prefix, userID, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.PasswordHash = ""
	return u, nil
}
