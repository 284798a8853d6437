package expense

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
	"github.com/homelyapp/backend/pkg/ctxutil"
)

func newTestService(t *testing.T, repo *expenseRepoMock, sh *sharerMock) *Service {
	t.Helper()
	return &Service{
		expenses: repo,
		sharer:   sh,
		log:      slog.Default(),
	}
}

func passthroughSharer() *sharerMock {
	return &sharerMock{
		BuildShareInfoFunc: func(ctx context.Context, targets []domain.ShareTarget) (domain.Shared, error) {
			var shared domain.Shared
			for _, t := range targets {
				shared.ShareWith = append(shared.ShareWith, t.UID)
				shared.ShareInfo = append(shared.ShareInfo, domain.ShareInfoEntry{UID: t.UID, UserName: t.UserName})
			}
			return shared, nil
		},
		ShareWithUsersFunc: func(ctx context.Context, input sharing.ShareInput) error {
			return nil
		},
	}
}

func validCreateInput(targets ...domain.ShareTarget) CreateInput {
	return CreateInput{
		Kind:     domain.ExpenseKindExpense,
		Title:    "Electricity bill",
		Amount:   decimal.NewFromInt(120),
		Currency: "EUR",
		Category: "utilities",
		DueDate:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Targets:  targets,
	}
}

func TestCreate_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &expenseRepoMock{
		CreateFunc: func(ctx context.Context, e *domain.Expense) error { return nil },
	}
	sh := passthroughSharer()

	svc := newTestService(t, repo, sh)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	e, err := svc.Create(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.UserID != userID {
		t.Errorf("owner: got %s, want %s", e.UserID, userID)
	}
	if e.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
	if len(repo.CreateCalls()) != 1 {
		t.Errorf("Create calls: got %d, want 1", len(repo.CreateCalls()))
	}
	if len(sh.ShareWithUsersCalls()) != 0 {
		t.Error("no sharing workflow without targets")
	}
}

func TestCreate_WithTargets_FiresSharing(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	target := domain.ShareTarget{UID: uuid.New(), UserName: "Bob"}

	repo := &expenseRepoMock{
		CreateFunc: func(ctx context.Context, e *domain.Expense) error { return nil },
	}
	sh := passthroughSharer()

	svc := newTestService(t, repo, sh)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	e, err := svc.Create(ctx, validCreateInput(target))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !e.SharedWith(target.UID) {
		t.Error("entity should carry the target in share_with")
	}

	calls := sh.ShareWithUsersCalls()
	if len(calls) != 1 {
		t.Fatalf("ShareWithUsers calls: got %d, want 1", len(calls))
	}
	if calls[0].Input.Kind != domain.EntityKindExpense || calls[0].Input.EntityID != e.ID {
		t.Errorf("share input: got %+v", calls[0].Input)
	}
}

func TestCreate_SharingFailureDoesNotFailSave(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &expenseRepoMock{
		CreateFunc: func(ctx context.Context, e *domain.Expense) error { return nil },
	}
	sh := passthroughSharer()
	sh.ShareWithUsersFunc = func(ctx context.Context, input sharing.ShareInput) error {
		return errors.New("push gateway down")
	}

	svc := newTestService(t, repo, sh)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	_, err := svc.Create(ctx, validCreateInput(domain.ShareTarget{UID: uuid.New(), UserName: "Bob"}))
	if err != nil {
		t.Fatalf("sharing failure must not fail the save, got: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &expenseRepoMock{}, passthroughSharer())
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	input := validCreateInput()
	input.Title = "  "
	input.Currency = "EURO"

	_, err := svc.Create(ctx, input)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %+v", len(ve.Errors), ve.Errors)
	}
}

func TestGet_PendingShareInvisible(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	viewer := uuid.New()
	expenseID := uuid.New()

	repo := &expenseRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
			return &domain.Expense{
				ID:     expenseID,
				UserID: owner,
				Shared: domain.Shared{
					ShareWith: []uuid.UUID{viewer},
					ShareInfo: []domain.ShareInfoEntry{{UID: viewer, UserName: "Bob"}}, // not accepted
				},
			}, nil
		},
	}
	svc := newTestService(t, repo, passthroughSharer())
	ctx := ctxutil.WithUserID(context.Background(), viewer)

	_, err := svc.Get(ctx, expenseID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("pending share must look like not-found, got %v", err)
	}
}

func TestGet_AcceptedShareVisible(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	viewer := uuid.New()
	expenseID := uuid.New()
	at := time.Now()

	repo := &expenseRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
			return &domain.Expense{
				ID:     expenseID,
				UserID: owner,
				Shared: domain.Shared{
					ShareWith: []uuid.UUID{viewer},
					ShareInfo: []domain.ShareInfoEntry{{UID: viewer, UserName: "Bob", AcceptedAt: &at}},
				},
			}, nil
		},
	}
	svc := newTestService(t, repo, passthroughSharer())
	ctx := ctxutil.WithUserID(context.Background(), viewer)

	e, err := svc.Get(ctx, expenseID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != expenseID {
		t.Errorf("id: got %s, want %s", e.ID, expenseID)
	}
}

func TestList_DefaultLimit(t *testing.T) {
	t.Parallel()

	viewer := uuid.New()
	var gotUID uuid.UUID
	var gotLimit, gotOffset int

	repo := &expenseRepoMock{
		ListReachableFunc: func(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.Expense, error) {
			gotUID, gotLimit, gotOffset = uid, limit, offset
			return []domain.Expense{{ID: uuid.New(), UserID: viewer}}, nil
		},
	}
	svc := newTestService(t, repo, passthroughSharer())
	ctx := ctxutil.WithUserID(context.Background(), viewer)

	rows, err := svc.List(ctx, ListInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	if gotUID != viewer {
		t.Errorf("store called with uid %s, want %s", gotUID, viewer)
	}
	if gotLimit != DefaultLimit || gotOffset != 0 {
		t.Errorf("store called with limit/offset %d/%d, want %d/0", gotLimit, gotOffset, DefaultLimit)
	}
}

func TestUpdate_PreservesAcceptance(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	partner := uuid.New()
	expenseID := uuid.New()
	acceptedAt := time.Now().Add(-24 * time.Hour)

	repo := &expenseRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
			return &domain.Expense{
				ID:     expenseID,
				UserID: owner,
				Title:  "old",
				Shared: domain.Shared{
					ShareWith: []uuid.UUID{partner},
					ShareInfo: []domain.ShareInfoEntry{{UID: partner, UserName: "Bob", AcceptedAt: &acceptedAt}},
				},
			}, nil
		},
		UpdateFunc: func(ctx context.Context, e *domain.Expense) error { return nil },
	}
	sh := passthroughSharer()
	svc := newTestService(t, repo, sh)
	ctx := ctxutil.WithUserID(context.Background(), owner)

	input := UpdateInput{
		ID:       expenseID,
		Kind:     domain.ExpenseKindExpense,
		Title:    "new title",
		Amount:   decimal.NewFromInt(80),
		Currency: "EUR",
		DueDate:  time.Now(),
		Targets:  []domain.ShareTarget{{UID: partner, UserName: "Bob"}},
	}
	e, err := svc.Update(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.ShareInfo[0].AcceptedAt == nil || !e.ShareInfo[0].AcceptedAt.Equal(acceptedAt) {
		t.Error("existing acceptance must survive an update")
	}
	// Partner was already shared; no second sharing round.
	if len(sh.ShareWithUsersCalls()) != 0 {
		t.Error("no sharing workflow for already-shared targets")
	}
}

func TestUpdate_NewTargetGetsShared(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	newcomer := uuid.New()
	expenseID := uuid.New()

	repo := &expenseRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
			return &domain.Expense{ID: expenseID, UserID: owner, Title: "old"}, nil
		},
		UpdateFunc: func(ctx context.Context, e *domain.Expense) error { return nil },
	}
	sh := passthroughSharer()
	svc := newTestService(t, repo, sh)
	ctx := ctxutil.WithUserID(context.Background(), owner)

	input := UpdateInput{
		ID:       expenseID,
		Kind:     domain.ExpenseKindExpense,
		Title:    "rent",
		Amount:   decimal.NewFromInt(900),
		Currency: "EUR",
		DueDate:  time.Now(),
		Targets:  []domain.ShareTarget{{UID: newcomer, UserName: "Carol"}},
	}
	if _, err := svc.Update(ctx, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := sh.ShareWithUsersCalls()
	if len(calls) != 1 {
		t.Fatalf("ShareWithUsers calls: got %d, want 1", len(calls))
	}
	if len(calls[0].Input.Targets) != 1 || calls[0].Input.Targets[0].UID != newcomer {
		t.Errorf("only the newcomer should be shared, got %+v", calls[0].Input.Targets)
	}
}

func TestUpdate_NotOwner(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	repo := &expenseRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
			return &domain.Expense{ID: id, UserID: owner}, nil
		},
	}
	svc := newTestService(t, repo, passthroughSharer())
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	input := UpdateInput{
		ID:       uuid.New(),
		Kind:     domain.ExpenseKindExpense,
		Title:    "x",
		Amount:   decimal.NewFromInt(1),
		Currency: "EUR",
		DueDate:  time.Now(),
	}
	_, err := svc.Update(ctx, input)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDelete_NotOwner(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	repo := &expenseRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
			return &domain.Expense{ID: id, UserID: owner}, nil
		},
	}
	svc := newTestService(t, repo, passthroughSharer())
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	err := svc.Delete(ctx, uuid.New())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.DeleteCalls()) != 0 {
		t.Error("Delete should not be called")
	}
}

func TestSetPaid_Success(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	expenseID := uuid.New()

	repo := &expenseRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
			return &domain.Expense{ID: id, UserID: owner}, nil
		},
		SetPaidFunc: func(ctx context.Context, id uuid.UUID, paid bool) error { return nil },
	}
	svc := newTestService(t, repo, passthroughSharer())
	ctx := ctxutil.WithUserID(context.Background(), owner)

	if err := svc.SetPaid(ctx, expenseID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := repo.SetPaidCalls()
	if len(calls) != 1 || !calls[0].Paid {
		t.Errorf("SetPaid calls: got %+v", calls)
	}
}
