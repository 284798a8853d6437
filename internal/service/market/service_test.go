package market

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

type marketRepoMock struct {
	CreateFunc       func(ctx context.Context, m *domain.MarketItem) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error)
	SetPurchasedFunc func(ctx context.Context, id uuid.UUID, purchased bool) error
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error
}

func (m *marketRepoMock) Create(ctx context.Context, item *domain.MarketItem) error {
	return m.CreateFunc(ctx, item)
}

func (m *marketRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *marketRepoMock) ListReachable(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.MarketItem, error) {
	return nil, nil
}

func (m *marketRepoMock) Update(ctx context.Context, item *domain.MarketItem) error { return nil }

func (m *marketRepoMock) SetPurchased(ctx context.Context, id uuid.UUID, purchased bool) error {
	return m.SetPurchasedFunc(ctx, id, purchased)
}

func (m *marketRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

type sharerStub struct{}

func (sharerStub) BuildShareInfo(ctx context.Context, targets []domain.ShareTarget) (domain.Shared, error) {
	return domain.Shared{}, nil
}

func (sharerStub) ShareWithUsers(ctx context.Context, input sharing.ShareInput) error { return nil }

func acceptedItem(owner, member uuid.UUID) *domain.MarketItem {
	at := time.Now().UTC()
	return &domain.MarketItem{
		ID:       uuid.New(),
		UserID:   owner,
		Name:     "Milk",
		Quantity: 2,
		Shared: domain.Shared{
			ShareWith: []uuid.UUID{member},
			ShareInfo: []domain.ShareInfoEntry{{UID: member, UserName: "Bob", AcceptedAt: &at}},
		},
	}
}

// Anyone who can see a shared shopping item may tick it off, not just the owner.
func TestSetPurchased_AcceptedMemberAllowed(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	member := uuid.New()
	item := acceptedItem(owner, member)

	var toggled bool
	repo := &marketRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error) {
			return item, nil
		},
		SetPurchasedFunc: func(ctx context.Context, id uuid.UUID, purchased bool) error {
			toggled = purchased
			return nil
		},
	}
	svc := NewService(slog.Default(), repo, sharerStub{})
	ctx := ctxutil.WithUserID(context.Background(), member)

	if err := svc.SetPurchased(ctx, item.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !toggled {
		t.Error("expected item marked purchased")
	}
}

func TestSetPurchased_StrangerDenied(t *testing.T) {
	t.Parallel()

	item := acceptedItem(uuid.New(), uuid.New())
	repo := &marketRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error) {
			return item, nil
		},
	}
	svc := NewService(slog.Default(), repo, sharerStub{})
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	err := svc.SetPurchased(ctx, item.ID, true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_MemberDenied(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	member := uuid.New()
	item := acceptedItem(owner, member)

	repo := &marketRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error) {
			return item, nil
		},
	}
	svc := NewService(slog.Default(), repo, sharerStub{})
	ctx := ctxutil.WithUserID(context.Background(), member)

	err := svc.Delete(ctx, item.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreate_QuantityValidation(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), &marketRepoMock{}, sharerStub{})
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.Create(ctx, CreateInput{Name: "Milk", Quantity: 0})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
