package market

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

// Create saves a new market item and fires the sharing workflow for any
// targets.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.MarketItem, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	shared, err := s.sharer.BuildShareInfo(ctx, input.Targets)
	if err != nil {
		return nil, fmt.Errorf("build share info: %w", err)
	}

	now := nowUTC()
	m := &domain.MarketItem{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      input.Name,
		Quantity:  input.Quantity,
		Shared:    shared,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.items.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create market item: %w", err)
	}

	if len(input.Targets) > 0 {
		s.share(ctx, m.ID, m.Name, input.Targets)
	}

	return m, nil
}

// Get returns a single item if it is visible to the caller.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	m, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get market item: %w", err)
	}
	if !domain.VisibleTo(m.UserID, m.Shared, userID) {
		return nil, fmt.Errorf("market item %s: %w", id, domain.ErrNotFound)
	}

	return m, nil
}

// List returns the items visible to the caller, unpurchased first.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.MarketItem, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	rows, err := s.items.ListReachable(ctx, userID, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list market items: %w", err)
	}

	return rows, nil
}

// Update rewrites a market item. Owner only.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.MarketItem, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.items.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("get market item: %w", err)
	}
	if existing.UserID != userID {
		return nil, domain.ErrForbidden
	}

	shared, err := s.sharer.BuildShareInfo(ctx, input.Targets)
	if err != nil {
		return nil, fmt.Errorf("build share info: %w", err)
	}
	shared = sharing.MergeShareInfo(existing.Shared, shared)
	added := newTargets(existing.Shared, input.Targets)

	m := &domain.MarketItem{
		ID:        existing.ID,
		UserID:    existing.UserID,
		Name:      input.Name,
		Quantity:  input.Quantity,
		Purchased: input.Purchased,
		Shared:    shared,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: nowUTC(),
	}
	if err := s.items.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update market item: %w", err)
	}

	if len(added) > 0 {
		s.share(ctx, m.ID, m.Name, added)
	}

	return m, nil
}

// SetPurchased toggles the purchased flag. Any user who can see the item may
// tick it off the list.
func (s *Service) SetPurchased(ctx context.Context, id uuid.UUID, purchased bool) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	m, err := s.items.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get market item: %w", err)
	}
	if !domain.VisibleTo(m.UserID, m.Shared, userID) {
		return fmt.Errorf("market item %s: %w", id, domain.ErrNotFound)
	}

	if err := s.items.SetPurchased(ctx, id, purchased); err != nil {
		return fmt.Errorf("set purchased: %w", err)
	}
	return nil
}

// Delete removes a market item. Owner only.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	m, err := s.items.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get market item: %w", err)
	}
	if m.UserID != userID {
		return domain.ErrForbidden
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete market item: %w", err)
	}

	s.log.InfoContext(ctx, "market item deleted",
		slog.String("user_id", userID.String()),
		slog.String("item_id", id.String()),
	)
	return nil
}

func (s *Service) share(ctx context.Context, id uuid.UUID, name string, targets []domain.ShareTarget) {
	err := s.sharer.ShareWithUsers(ctx, sharing.ShareInput{
		Kind:        domain.EntityKindMarketItem,
		EntityID:    id,
		EntityTitle: name,
		Targets:     targets,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "share market item failed",
			slog.String("item_id", id.String()),
			slog.Any("error", err),
		)
	}
}
