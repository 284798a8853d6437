package reminder

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelyapp/backend/internal/domain"
)

type expenseRepoMock struct {
	ListDueUnpaidFunc func(ctx context.Context, cutoff time.Time) ([]domain.Expense, error)
}

func (m *expenseRepoMock) ListDueUnpaid(ctx context.Context, cutoff time.Time) ([]domain.Expense, error) {
	return m.ListDueUnpaidFunc(ctx, cutoff)
}

type subscriptionRepoMock struct {
	ListActiveByBillingDayFunc func(ctx context.Context, day int) ([]domain.Subscription, error)
}

func (m *subscriptionRepoMock) ListActiveByBillingDay(ctx context.Context, day int) ([]domain.Subscription, error) {
	return m.ListActiveByBillingDayFunc(ctx, day)
}

type notificationRepoMock struct {
	existing map[uuid.UUID]bool

	created []*domain.Notification
}

func (m *notificationRepoMock) Create(ctx context.Context, n *domain.Notification) error {
	m.created = append(m.created, n)
	return nil
}

func (m *notificationRepoMock) ExistsForSourceSince(ctx context.Context, receiver, sourceID uuid.UUID, typ domain.NotificationType, since time.Time) (bool, error) {
	return m.existing[sourceID], nil
}

type pushOutboxMock struct {
	enqueued []string
}

func (m *pushOutboxMock) Enqueue(ctx context.Context, receiver uuid.UUID, title, message string) error {
	m.enqueued = append(m.enqueued, title)
	return nil
}

func expense(owner uuid.UUID, title string, due time.Time) domain.Expense {
	return domain.Expense{
		ID:       uuid.New(),
		UserID:   owner,
		Kind:     domain.ExpenseKindExpense,
		Title:    title,
		Amount:   decimal.NewFromFloat(42.50),
		Currency: "EUR",
		DueDate:  due,
	}
}

func noSubscriptions() *subscriptionRepoMock {
	return &subscriptionRepoMock{
		ListActiveByBillingDayFunc: func(ctx context.Context, day int) ([]domain.Subscription, error) {
			return nil, nil
		},
	}
}

func TestRun_DueAndOverdueExpenses(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	lastWeek := today.AddDate(0, 0, -7)

	expenses := &expenseRepoMock{
		ListDueUnpaidFunc: func(ctx context.Context, cutoff time.Time) ([]domain.Expense, error) {
			return []domain.Expense{
				expense(owner, "Rent", today),
				expense(owner, "Electricity", lastWeek),
			}, nil
		},
	}
	notifications := &notificationRepoMock{}
	outbox := &pushOutboxMock{}

	svc := NewService(slog.Default(), expenses, noSubscriptions(), notifications, outbox)

	stats, err := svc.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Due != 1 || stats.Overdue != 1 || stats.Skipped != 0 {
		t.Fatalf("stats: got %+v", stats)
	}

	if len(notifications.created) != 2 {
		t.Fatalf("notifications: got %d, want 2", len(notifications.created))
	}
	byType := map[domain.NotificationType]*domain.Notification{}
	for _, n := range notifications.created {
		byType[n.Type] = n
	}
	if byType[domain.NotificationTypeDueAccount] == nil || byType[domain.NotificationTypeOverdueAccount] == nil {
		t.Fatalf("expected one due and one overdue notification, got %+v", notifications.created)
	}
	if byType[domain.NotificationTypeDueAccount].Receiver != owner {
		t.Error("notification must go to the expense owner")
	}
	if len(outbox.enqueued) != 2 {
		t.Errorf("pushes enqueued: got %d, want 2", len(outbox.enqueued))
	}
}

func TestRun_SecondPassSameDaySkips(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	e := expense(owner, "Rent", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

	expenses := &expenseRepoMock{
		ListDueUnpaidFunc: func(ctx context.Context, cutoff time.Time) ([]domain.Expense, error) {
			return []domain.Expense{e}, nil
		},
	}
	notifications := &notificationRepoMock{existing: map[uuid.UUID]bool{e.ID: true}}
	outbox := &pushOutboxMock{}

	svc := NewService(slog.Default(), expenses, noSubscriptions(), notifications, outbox)

	stats, err := svc.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Skipped != 1 || stats.Due != 0 {
		t.Fatalf("stats: got %+v", stats)
	}
	if len(notifications.created) != 0 || len(outbox.enqueued) != 0 {
		t.Error("already notified expense must not produce anything")
	}
}

func TestRun_SubscriptionBilledToday(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	now := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	expenses := &expenseRepoMock{
		ListDueUnpaidFunc: func(ctx context.Context, cutoff time.Time) ([]domain.Expense, error) {
			return nil, nil
		},
	}
	var gotDay int
	subscriptions := &subscriptionRepoMock{
		ListActiveByBillingDayFunc: func(ctx context.Context, day int) ([]domain.Subscription, error) {
			gotDay = day
			return []domain.Subscription{{
				ID:         uuid.New(),
				UserID:     owner,
				Title:      "Netflix",
				Amount:     decimal.NewFromFloat(15.99),
				Currency:   "EUR",
				BillingDay: 12,
				Active:     true,
			}}, nil
		},
	}
	notifications := &notificationRepoMock{}
	outbox := &pushOutboxMock{}

	svc := NewService(slog.Default(), expenses, subscriptions, notifications, outbox)

	stats, err := svc.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDay != 12 {
		t.Errorf("billing day: got %d, want 12", gotDay)
	}
	if stats.Due != 1 {
		t.Fatalf("stats: got %+v", stats)
	}

	n := notifications.created[0]
	if n.Source.Type != domain.EntityKindSubscription {
		t.Errorf("source type: got %s, want subscription", n.Source.Type)
	}
	if n.Type != domain.NotificationTypeDueAccount {
		t.Errorf("type: got %s, want due_account", n.Type)
	}
}
