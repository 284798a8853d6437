package sharing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// RemoveSharing removes a user from an entity's share columns. The entity
// owner may remove any shared user; a shared user may remove only their own
// visibility. The underlying entity is never deleted here.
func (s *Service) RemoveSharing(ctx context.Context, input RemoveInput) error {
	caller, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	store, err := s.storeFor(input.Kind)
	if err != nil {
		return err
	}

	owner, err := store.Owner(ctx, input.EntityID)
	if err != nil {
		return fmt.Errorf("get entity owner: %w", err)
	}
	if input.TargetUID == owner {
		return domain.NewValidationError("target_uid", "owner cannot be removed from their own entity")
	}
	if caller != owner && caller != input.TargetUID {
		return domain.ErrForbidden
	}

	if err := store.RemoveShare(ctx, input.EntityID, input.TargetUID); err != nil {
		return fmt.Errorf("remove share: %w", err)
	}

	s.log.InfoContext(ctx, "sharing removed",
		slog.String("entity_kind", input.Kind.String()),
		slog.String("entity_id", input.EntityID.String()),
		slog.String("target", input.TargetUID.String()),
		slog.String("caller", caller.String()),
	)
	return nil
}
