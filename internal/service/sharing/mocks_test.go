package sharing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
)

var _ invitationRepo = &invitationRepoMock{}

type invitationRepoMock struct {
	CreateIfAbsentFunc func(ctx context.Context, inv *domain.SharingInvitation) (bool, error)
	ListByInviterFunc  func(ctx context.Context, invitedBy uuid.UUID) ([]domain.SharingInvitation, error)
	FindActivePairFunc func(ctx context.Context, invitedBy, target uuid.UUID) (*domain.SharingInvitation, error)
	UpdateStatusFunc   func(ctx context.Context, id uuid.UUID, status domain.InviteStatus) error

	calls struct {
		CreateIfAbsent []struct {
			Inv *domain.SharingInvitation
		}
		ListByInviter []struct {
			InvitedBy uuid.UUID
		}
		FindActivePair []struct {
			InvitedBy uuid.UUID
			Target    uuid.UUID
		}
		UpdateStatus []struct {
			ID     uuid.UUID
			Status domain.InviteStatus
		}
	}
	lockCreateIfAbsent sync.RWMutex
	lockListByInviter  sync.RWMutex
	lockFindActivePair sync.RWMutex
	lockUpdateStatus   sync.RWMutex
}

func (mock *invitationRepoMock) CreateIfAbsent(ctx context.Context, inv *domain.SharingInvitation) (bool, error) {
	if mock.CreateIfAbsentFunc == nil {
		panic("invitationRepoMock.CreateIfAbsentFunc: method is nil but invitationRepo.CreateIfAbsent was just called")
	}
	callInfo := struct {
		Inv *domain.SharingInvitation
	}{Inv: inv}
	mock.lockCreateIfAbsent.Lock()
	mock.calls.CreateIfAbsent = append(mock.calls.CreateIfAbsent, callInfo)
	mock.lockCreateIfAbsent.Unlock()
	return mock.CreateIfAbsentFunc(ctx, inv)
}

func (mock *invitationRepoMock) CreateIfAbsentCalls() []struct {
	Inv *domain.SharingInvitation
} {
	mock.lockCreateIfAbsent.RLock()
	calls := mock.calls.CreateIfAbsent
	mock.lockCreateIfAbsent.RUnlock()
	return calls
}

func (mock *invitationRepoMock) ListByInviter(ctx context.Context, invitedBy uuid.UUID) ([]domain.SharingInvitation, error) {
	if mock.ListByInviterFunc == nil {
		panic("invitationRepoMock.ListByInviterFunc: method is nil but invitationRepo.ListByInviter was just called")
	}
	callInfo := struct {
		InvitedBy uuid.UUID
	}{InvitedBy: invitedBy}
	mock.lockListByInviter.Lock()
	mock.calls.ListByInviter = append(mock.calls.ListByInviter, callInfo)
	mock.lockListByInviter.Unlock()
	return mock.ListByInviterFunc(ctx, invitedBy)
}

func (mock *invitationRepoMock) ListByInviterCalls() []struct {
	InvitedBy uuid.UUID
} {
	mock.lockListByInviter.RLock()
	calls := mock.calls.ListByInviter
	mock.lockListByInviter.RUnlock()
	return calls
}

func (mock *invitationRepoMock) FindActivePair(ctx context.Context, invitedBy, target uuid.UUID) (*domain.SharingInvitation, error) {
	if mock.FindActivePairFunc == nil {
		panic("invitationRepoMock.FindActivePairFunc: method is nil but invitationRepo.FindActivePair was just called")
	}
	callInfo := struct {
		InvitedBy uuid.UUID
		Target    uuid.UUID
	}{InvitedBy: invitedBy, Target: target}
	mock.lockFindActivePair.Lock()
	mock.calls.FindActivePair = append(mock.calls.FindActivePair, callInfo)
	mock.lockFindActivePair.Unlock()
	return mock.FindActivePairFunc(ctx, invitedBy, target)
}

func (mock *invitationRepoMock) FindActivePairCalls() []struct {
	InvitedBy uuid.UUID
	Target    uuid.UUID
} {
	mock.lockFindActivePair.RLock()
	calls := mock.calls.FindActivePair
	mock.lockFindActivePair.RUnlock()
	return calls
}

func (mock *invitationRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InviteStatus) error {
	if mock.UpdateStatusFunc == nil {
		panic("invitationRepoMock.UpdateStatusFunc: method is nil but invitationRepo.UpdateStatus was just called")
	}
	callInfo := struct {
		ID     uuid.UUID
		Status domain.InviteStatus
	}{ID: id, Status: status}
	mock.lockUpdateStatus.Lock()
	mock.calls.UpdateStatus = append(mock.calls.UpdateStatus, callInfo)
	mock.lockUpdateStatus.Unlock()
	return mock.UpdateStatusFunc(ctx, id, status)
}

func (mock *invitationRepoMock) UpdateStatusCalls() []struct {
	ID     uuid.UUID
	Status domain.InviteStatus
} {
	mock.lockUpdateStatus.RLock()
	calls := mock.calls.UpdateStatus
	mock.lockUpdateStatus.RUnlock()
	return calls
}

var _ notificationRepo = &notificationRepoMock{}

type notificationRepoMock struct {
	CreateFunc       func(ctx context.Context, n *domain.Notification) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status domain.NotificationStatus) error

	calls struct {
		Create []struct {
			N *domain.Notification
		}
		GetByID []struct {
			ID uuid.UUID
		}
		UpdateStatus []struct {
			ID     uuid.UUID
			Status domain.NotificationStatus
		}
	}
	lockCreate       sync.RWMutex
	lockGetByID      sync.RWMutex
	lockUpdateStatus sync.RWMutex
}

func (mock *notificationRepoMock) Create(ctx context.Context, n *domain.Notification) error {
	if mock.CreateFunc == nil {
		panic("notificationRepoMock.CreateFunc: method is nil but notificationRepo.Create was just called")
	}
	callInfo := struct {
		N *domain.Notification
	}{N: n}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, n)
}

func (mock *notificationRepoMock) CreateCalls() []struct {
	N *domain.Notification
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *notificationRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	if mock.GetByIDFunc == nil {
		panic("notificationRepoMock.GetByIDFunc: method is nil but notificationRepo.GetByID was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *notificationRepoMock) GetByIDCalls() []struct {
	ID uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *notificationRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NotificationStatus) error {
	if mock.UpdateStatusFunc == nil {
		panic("notificationRepoMock.UpdateStatusFunc: method is nil but notificationRepo.UpdateStatus was just called")
	}
	callInfo := struct {
		ID     uuid.UUID
		Status domain.NotificationStatus
	}{ID: id, Status: status}
	mock.lockUpdateStatus.Lock()
	mock.calls.UpdateStatus = append(mock.calls.UpdateStatus, callInfo)
	mock.lockUpdateStatus.Unlock()
	return mock.UpdateStatusFunc(ctx, id, status)
}

func (mock *notificationRepoMock) UpdateStatusCalls() []struct {
	ID     uuid.UUID
	Status domain.NotificationStatus
} {
	mock.lockUpdateStatus.RLock()
	calls := mock.calls.UpdateStatus
	mock.lockUpdateStatus.RUnlock()
	return calls
}

var _ pushOutbox = &pushOutboxMock{}

type pushOutboxMock struct {
	EnqueueFunc func(ctx context.Context, receiver uuid.UUID, title, message string) error

	calls struct {
		Enqueue []struct {
			Receiver uuid.UUID
			Title    string
			Message  string
		}
	}
	lockEnqueue sync.RWMutex
}

func (mock *pushOutboxMock) Enqueue(ctx context.Context, receiver uuid.UUID, title, message string) error {
	if mock.EnqueueFunc == nil {
		panic("pushOutboxMock.EnqueueFunc: method is nil but pushOutbox.Enqueue was just called")
	}
	callInfo := struct {
		Receiver uuid.UUID
		Title    string
		Message  string
	}{Receiver: receiver, Title: title, Message: message}
	mock.lockEnqueue.Lock()
	mock.calls.Enqueue = append(mock.calls.Enqueue, callInfo)
	mock.lockEnqueue.Unlock()
	return mock.EnqueueFunc(ctx, receiver, title, message)
}

func (mock *pushOutboxMock) EnqueueCalls() []struct {
	Receiver uuid.UUID
	Title    string
	Message  string
} {
	mock.lockEnqueue.RLock()
	calls := mock.calls.Enqueue
	mock.lockEnqueue.RUnlock()
	return calls
}

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)

	calls struct {
		GetByID []struct {
			ID uuid.UUID
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if mock.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but userRepo.GetByID was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *userRepoMock) GetByIDCalls() []struct {
	ID uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

var _ EntityStore = &entityStoreMock{}

type entityStoreMock struct {
	OwnerFunc       func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	AcceptShareFunc func(ctx context.Context, id, uid uuid.UUID, acceptedAt time.Time) error
	RemoveShareFunc func(ctx context.Context, id, uid uuid.UUID) error

	calls struct {
		Owner []struct {
			ID uuid.UUID
		}
		AcceptShare []struct {
			ID         uuid.UUID
			UID        uuid.UUID
			AcceptedAt time.Time
		}
		RemoveShare []struct {
			ID  uuid.UUID
			UID uuid.UUID
		}
	}
	lockOwner       sync.RWMutex
	lockAcceptShare sync.RWMutex
	lockRemoveShare sync.RWMutex
}

func (mock *entityStoreMock) Owner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if mock.OwnerFunc == nil {
		panic("entityStoreMock.OwnerFunc: method is nil but entityStore.Owner was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockOwner.Lock()
	mock.calls.Owner = append(mock.calls.Owner, callInfo)
	mock.lockOwner.Unlock()
	return mock.OwnerFunc(ctx, id)
}

func (mock *entityStoreMock) OwnerCalls() []struct {
	ID uuid.UUID
} {
	mock.lockOwner.RLock()
	calls := mock.calls.Owner
	mock.lockOwner.RUnlock()
	return calls
}

func (mock *entityStoreMock) AcceptShare(ctx context.Context, id, uid uuid.UUID, acceptedAt time.Time) error {
	if mock.AcceptShareFunc == nil {
		panic("entityStoreMock.AcceptShareFunc: method is nil but entityStore.AcceptShare was just called")
	}
	callInfo := struct {
		ID         uuid.UUID
		UID        uuid.UUID
		AcceptedAt time.Time
	}{ID: id, UID: uid, AcceptedAt: acceptedAt}
	mock.lockAcceptShare.Lock()
	mock.calls.AcceptShare = append(mock.calls.AcceptShare, callInfo)
	mock.lockAcceptShare.Unlock()
	return mock.AcceptShareFunc(ctx, id, uid, acceptedAt)
}

func (mock *entityStoreMock) AcceptShareCalls() []struct {
	ID         uuid.UUID
	UID        uuid.UUID
	AcceptedAt time.Time
} {
	mock.lockAcceptShare.RLock()
	calls := mock.calls.AcceptShare
	mock.lockAcceptShare.RUnlock()
	return calls
}

func (mock *entityStoreMock) RemoveShare(ctx context.Context, id, uid uuid.UUID) error {
	if mock.RemoveShareFunc == nil {
		panic("entityStoreMock.RemoveShareFunc: method is nil but entityStore.RemoveShare was just called")
	}
	callInfo := struct {
		ID  uuid.UUID
		UID uuid.UUID
	}{ID: id, UID: uid}
	mock.lockRemoveShare.Lock()
	mock.calls.RemoveShare = append(mock.calls.RemoveShare, callInfo)
	mock.lockRemoveShare.Unlock()
	return mock.RemoveShareFunc(ctx, id, uid)
}

func (mock *entityStoreMock) RemoveShareCalls() []struct {
	ID  uuid.UUID
	UID uuid.UUID
} {
	mock.lockRemoveShare.RLock()
	calls := mock.calls.RemoveShare
	mock.lockRemoveShare.RUnlock()
	return calls
}

var _ txManager = &txManagerMock{}

// txManagerMock runs the callback directly, without a real transaction.
type txManagerMock struct{}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
