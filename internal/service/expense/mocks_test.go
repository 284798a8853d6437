package expense

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
	"github.com/homelyapp/backend/internal/service/sharing"
)

var _ expenseRepo = &expenseRepoMock{}

type expenseRepoMock struct {
	CreateFunc        func(ctx context.Context, e *domain.Expense) error
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Expense, error)
	ListReachableFunc func(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.Expense, error)
	UpdateFunc        func(ctx context.Context, e *domain.Expense) error
	SetPaidFunc       func(ctx context.Context, id uuid.UUID, paid bool) error
	DeleteFunc        func(ctx context.Context, id uuid.UUID) error

	calls struct {
		Create []struct {
			E *domain.Expense
		}
		Update []struct {
			E *domain.Expense
		}
		SetPaid []struct {
			ID   uuid.UUID
			Paid bool
		}
		Delete []struct {
			ID uuid.UUID
		}
	}
	lockCreate  sync.RWMutex
	lockUpdate  sync.RWMutex
	lockSetPaid sync.RWMutex
	lockDelete  sync.RWMutex
}

func (mock *expenseRepoMock) Create(ctx context.Context, e *domain.Expense) error {
	if mock.CreateFunc == nil {
		panic("expenseRepoMock.CreateFunc: method is nil but expenseRepo.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct {
		E *domain.Expense
	}{E: e})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, e)
}

func (mock *expenseRepoMock) CreateCalls() []struct {
	E *domain.Expense
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *expenseRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	if mock.GetByIDFunc == nil {
		panic("expenseRepoMock.GetByIDFunc: method is nil but expenseRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *expenseRepoMock) ListReachable(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.Expense, error) {
	if mock.ListReachableFunc == nil {
		panic("expenseRepoMock.ListReachableFunc: method is nil but expenseRepo.ListReachable was just called")
	}
	return mock.ListReachableFunc(ctx, uid, limit, offset)
}

func (mock *expenseRepoMock) Update(ctx context.Context, e *domain.Expense) error {
	if mock.UpdateFunc == nil {
		panic("expenseRepoMock.UpdateFunc: method is nil but expenseRepo.Update was just called")
	}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, struct {
		E *domain.Expense
	}{E: e})
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, e)
}

func (mock *expenseRepoMock) UpdateCalls() []struct {
	E *domain.Expense
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *expenseRepoMock) SetPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	if mock.SetPaidFunc == nil {
		panic("expenseRepoMock.SetPaidFunc: method is nil but expenseRepo.SetPaid was just called")
	}
	mock.lockSetPaid.Lock()
	mock.calls.SetPaid = append(mock.calls.SetPaid, struct {
		ID   uuid.UUID
		Paid bool
	}{ID: id, Paid: paid})
	mock.lockSetPaid.Unlock()
	return mock.SetPaidFunc(ctx, id, paid)
}

func (mock *expenseRepoMock) SetPaidCalls() []struct {
	ID   uuid.UUID
	Paid bool
} {
	mock.lockSetPaid.RLock()
	calls := mock.calls.SetPaid
	mock.lockSetPaid.RUnlock()
	return calls
}

func (mock *expenseRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("expenseRepoMock.DeleteFunc: method is nil but expenseRepo.Delete was just called")
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct {
		ID uuid.UUID
	}{ID: id})
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *expenseRepoMock) DeleteCalls() []struct {
	ID uuid.UUID
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

var _ sharer = &sharerMock{}

type sharerMock struct {
	BuildShareInfoFunc func(ctx context.Context, targets []domain.ShareTarget) (domain.Shared, error)
	ShareWithUsersFunc func(ctx context.Context, input sharing.ShareInput) error

	calls struct {
		BuildShareInfo []struct {
			Targets []domain.ShareTarget
		}
		ShareWithUsers []struct {
			Input sharing.ShareInput
		}
	}
	lockBuildShareInfo sync.RWMutex
	lockShareWithUsers sync.RWMutex
}

func (mock *sharerMock) BuildShareInfo(ctx context.Context, targets []domain.ShareTarget) (domain.Shared, error) {
	if mock.BuildShareInfoFunc == nil {
		panic("sharerMock.BuildShareInfoFunc: method is nil but sharer.BuildShareInfo was just called")
	}
	mock.lockBuildShareInfo.Lock()
	mock.calls.BuildShareInfo = append(mock.calls.BuildShareInfo, struct {
		Targets []domain.ShareTarget
	}{Targets: targets})
	mock.lockBuildShareInfo.Unlock()
	return mock.BuildShareInfoFunc(ctx, targets)
}

func (mock *sharerMock) BuildShareInfoCalls() []struct {
	Targets []domain.ShareTarget
} {
	mock.lockBuildShareInfo.RLock()
	calls := mock.calls.BuildShareInfo
	mock.lockBuildShareInfo.RUnlock()
	return calls
}

func (mock *sharerMock) ShareWithUsers(ctx context.Context, input sharing.ShareInput) error {
	if mock.ShareWithUsersFunc == nil {
		panic("sharerMock.ShareWithUsersFunc: method is nil but sharer.ShareWithUsers was just called")
	}
	mock.lockShareWithUsers.Lock()
	mock.calls.ShareWithUsers = append(mock.calls.ShareWithUsers, struct {
		Input sharing.ShareInput
	}{Input: input})
	mock.lockShareWithUsers.Unlock()
	return mock.ShareWithUsersFunc(ctx, input)
}

func (mock *sharerMock) ShareWithUsersCalls() []struct {
	Input sharing.ShareInput
} {
	mock.lockShareWithUsers.RLock()
	calls := mock.calls.ShareWithUsers
	mock.lockShareWithUsers.RUnlock()
	return calls
}
