// Package subscription provides recurring charge management.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

const DefaultLimit = 50

type subscriptionRepo interface {
	Create(ctx context.Context, s *domain.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error)
	ListByOwner(ctx context.Context, owner uuid.UUID, limit, offset int) ([]domain.Subscription, error)
	Update(ctx context.Context, s *domain.Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service provides subscription operations. Subscriptions are private to
// their owner and are never shared.
type Service struct {
	subscriptions subscriptionRepo
	log           *slog.Logger
}

// NewService creates a new Subscription service.
func NewService(log *slog.Logger, subscriptions subscriptionRepo) *Service {
	return &Service{
		subscriptions: subscriptions,
		log:           log.With("service", "subscription"),
	}
}

// Input holds parameters for create and update operations.
type Input struct {
	ID         uuid.UUID // ignored on create
	Title      string
	Amount     decimal.Decimal
	Currency   string
	BillingDay int
	Active     bool
}

// Validate validates the subscription input.
func (i Input) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > 200 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}

	if i.Amount.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "must not be negative"})
	}

	if len(i.Currency) != 3 {
		errs = append(errs, domain.FieldError{Field: "currency", Message: "must be a 3-letter code"})
	}

	if i.BillingDay < 1 || i.BillingDay > 28 {
		errs = append(errs, domain.FieldError{Field: "billing_day", Message: "must be between 1 and 28"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Create saves a new subscription for the caller.
func (s *Service) Create(ctx context.Context, input Input) (*domain.Subscription, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &domain.Subscription{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      input.Title,
		Amount:     input.Amount,
		Currency:   strings.ToUpper(input.Currency),
		BillingDay: input.BillingDay,
		Active:     input.Active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	s.log.InfoContext(ctx, "subscription created",
		slog.String("user_id", userID.String()),
		slog.String("subscription_id", sub.ID.String()),
	)
	return sub, nil
}

// Get returns one of the caller's subscriptions.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	sub, err := s.subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if sub.UserID != userID {
		return nil, fmt.Errorf("subscription %s: %w", id, domain.ErrNotFound)
	}
	return sub, nil
}

// ListInput holds pagination parameters for the list operation.
type ListInput struct {
	Limit  int
	Offset int
}

// Validate validates the list input.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// List returns a page of the caller's subscriptions.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Subscription, error) {
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

	subs, err := s.subscriptions.ListByOwner(ctx, userID, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// Update rewrites a subscription. Owner only.
func (s *Service) Update(ctx context.Context, input Input) (*domain.Subscription, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.subscriptions.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("subscription %s: %w", input.ID, domain.ErrNotFound)
	}

	sub := &domain.Subscription{
		ID:         existing.ID,
		UserID:     existing.UserID,
		Title:      input.Title,
		Amount:     input.Amount,
		Currency:   strings.ToUpper(input.Currency),
		BillingDay: input.BillingDay,
		Active:     input.Active,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.subscriptions.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	return sub, nil
}

// Delete removes a subscription. Owner only.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	existing, err := s.subscriptions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get subscription: %w", err)
	}
	if existing.UserID != userID {
		return fmt.Errorf("subscription %s: %w", id, domain.ErrNotFound)
	}

	if err := s.subscriptions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}
