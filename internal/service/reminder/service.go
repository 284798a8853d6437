// Package reminder implements the daily due-account pass. It scans unpaid
// expenses and active subscriptions and produces notifications plus queued
// pushes for everything due or overdue today. Running the pass twice on the
// same day is safe; already notified items are skipped.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
)

type expenseRepo interface {
	ListDueUnpaid(ctx context.Context, cutoff time.Time) ([]domain.Expense, error)
}

type subscriptionRepo interface {
	ListActiveByBillingDay(ctx context.Context, day int) ([]domain.Subscription, error)
}

type notificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	ExistsForSourceSince(ctx context.Context, receiver, sourceID uuid.UUID, typ domain.NotificationType, since time.Time) (bool, error)
}

type pushOutbox interface {
	Enqueue(ctx context.Context, receiver uuid.UUID, title, message string) error
}

// Service runs the reminder pass.
type Service struct {
	log           *slog.Logger
	expenses      expenseRepo
	subscriptions subscriptionRepo
	notifications notificationRepo
	outbox        pushOutbox
}

// NewService creates a new Reminder service.
func NewService(
	log *slog.Logger,
	expenses expenseRepo,
	subscriptions subscriptionRepo,
	notifications notificationRepo,
	outbox pushOutbox,
) *Service {
	return &Service{
		log:           log.With("service", "reminder"),
		expenses:      expenses,
		subscriptions: subscriptions,
		notifications: notifications,
		outbox:        outbox,
	}
}

// Stats summarizes one reminder pass.
type Stats struct {
	Due     int
	Overdue int
	Skipped int
}

// Run executes one reminder pass for the given reference time.
func (s *Service) Run(ctx context.Context, now time.Time) (Stats, error) {
	var stats Stats

	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	expenses, err := s.expenses.ListDueUnpaid(ctx, dayEnd.Add(-time.Nanosecond))
	if err != nil {
		return stats, fmt.Errorf("list due expenses: %w", err)
	}

	for _, e := range expenses {
		typ := domain.NotificationTypeDueAccount
		title := "Payment due today"
		message := fmt.Sprintf("%s (%s %s) is due today", e.Title, e.Amount.StringFixed(2), e.Currency)
		if e.DueDate.Before(dayStart) {
			typ = domain.NotificationTypeOverdueAccount
			title = "Payment overdue"
			message = fmt.Sprintf("%s (%s %s) was due on %s", e.Title, e.Amount.StringFixed(2), e.Currency, e.DueDate.Format("2006-01-02"))
		}

		sent, err := s.notify(ctx, e.UserID, e.ID, domain.EntityKindExpense, typ, title, message, dayStart, now)
		if err != nil {
			return stats, err
		}
		if !sent {
			stats.Skipped++
			continue
		}
		if typ == domain.NotificationTypeOverdueAccount {
			stats.Overdue++
		} else {
			stats.Due++
		}
	}

	subscriptions, err := s.subscriptions.ListActiveByBillingDay(ctx, now.Day())
	if err != nil {
		return stats, fmt.Errorf("list due subscriptions: %w", err)
	}

	for _, sub := range subscriptions {
		title := "Subscription billed today"
		message := fmt.Sprintf("%s (%s %s) bills today", sub.Title, sub.Amount.StringFixed(2), sub.Currency)

		sent, err := s.notify(ctx, sub.UserID, sub.ID, domain.EntityKindSubscription,
			domain.NotificationTypeDueAccount, title, message, dayStart, now)
		if err != nil {
			return stats, err
		}
		if !sent {
			stats.Skipped++
			continue
		}
		stats.Due++
	}

	s.log.InfoContext(ctx, "reminder pass finished",
		slog.Int("due", stats.Due),
		slog.Int("overdue", stats.Overdue),
		slog.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

// notify creates the notification and queues a push unless the receiver was
// already notified about the source today. Reports whether anything was sent.
func (s *Service) notify(
	ctx context.Context,
	receiver, sourceID uuid.UUID,
	kind domain.EntityKind,
	typ domain.NotificationType,
	title, message string,
	since, now time.Time,
) (bool, error) {
	exists, err := s.notifications.ExistsForSourceSince(ctx, receiver, sourceID, typ, since)
	if err != nil {
		return false, fmt.Errorf("check existing notification: %w", err)
	}
	if exists {
		return false, nil
	}

	n := &domain.Notification{
		ID:          uuid.New(),
		Type:        typ,
		Status:      domain.NotificationStatusPending,
		Receiver:    receiver,
		Title:       title,
		Description: message,
		Source:      domain.NotificationSource{ID: sourceID, Type: kind},
		CreatedAt:   now,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}

	if err := s.outbox.Enqueue(ctx, receiver, title, message); err != nil {
		s.log.ErrorContext(ctx, "enqueue push failed",
			slog.String("receiver", receiver.String()),
			slog.Any("error", err),
		)
	}
	return true, nil
}
