// Package notification provides the in-app notification feed operations.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

const DefaultLimit = 50

type notificationRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByReceiver(ctx context.Context, receiver uuid.UUID, limit, offset int) ([]domain.Notification, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NotificationStatus) error
	Delete(ctx context.Context, receiver, id uuid.UUID) error
}

// Service provides read, mark-read and delete operations over the
// notification feed. Accept/reject of sharing invites lives in the sharing
// service.
type Service struct {
	notifications notificationRepo
	log           *slog.Logger
}

// NewService creates a new Notification service.
func NewService(log *slog.Logger, notifications notificationRepo) *Service {
	return &Service{
		notifications: notifications,
		log:           log.With("service", "notification"),
	}
}

// ListInput holds feed pagination parameters.
type ListInput struct {
	Limit  int
	Offset int
}

// Validate checks pagination bounds.
func (in ListInput) Validate() error {
	var errs []domain.FieldError
	if in.Limit < 0 || in.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if in.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Feed is one page of a user's notifications plus the total count.
type Feed struct {
	Notifications []domain.Notification
	Total         int
}

// List returns a page of the caller's notifications, newest first.
func (s *Service) List(ctx context.Context, input ListInput) (*Feed, error) {
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

	notifications, total, err := s.notifications.ListByReceiver(ctx, userID, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return &Feed{Notifications: notifications, Total: total}, nil
}

// MarkRead transitions a notification to the read status. Pending sharing
// invites cannot be marked read; they must be accepted or rejected first.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get notification: %w", err)
	}
	if n.Receiver != userID {
		return domain.ErrForbidden
	}
	if n.IsActionable() {
		return fmt.Errorf("notification %s awaits a sharing decision: %w", id, domain.ErrConflict)
	}

	if err := s.notifications.UpdateStatus(ctx, id, domain.NotificationStatusRead); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// Delete removes a notification from the caller's feed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	if err := s.notifications.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}

	s.log.InfoContext(ctx, "notification deleted",
		slog.String("user_id", userID.String()),
		slog.String("notification_id", id.String()),
	)
	return nil
}
