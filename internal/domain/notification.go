package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationSource points at the entity a notification refers to.
type NotificationSource struct {
	ID   uuid.UUID
	Type EntityKind
}

// Notification is an in-app notification record. Sharing invites are acted
// upon (accept/reject); due-account reminders are informational and only
// transition to read.
type Notification struct {
	ID          uuid.UUID
	Type        NotificationType
	Status      NotificationStatus
	Sender      uuid.UUID
	Receiver    uuid.UUID
	Title       string
	Description string
	Source      NotificationSource
	CreatedAt   time.Time
}

// IsActionable reports whether the notification still awaits an
// accept/reject decision from the receiver.
func (n *Notification) IsActionable() bool {
	return n.Type == NotificationTypeSharingInvite && n.Status == NotificationStatusPending
}
