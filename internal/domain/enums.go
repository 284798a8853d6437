package domain

// InviteStatus represents the lifecycle state of a sharing invitation.
// Accepted and rejected are terminal; there is no way back to pending.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRejected InviteStatus = "rejected"
)

func (s InviteStatus) String() string { return string(s) }

func (s InviteStatus) IsValid() bool {
	switch s {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s InviteStatus) IsTerminal() bool {
	return s == InviteStatusAccepted || s == InviteStatusRejected
}

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotificationTypeSharingInvite  NotificationType = "sharing_invite"
	NotificationTypeDueAccount     NotificationType = "due_account"
	NotificationTypeOverdueAccount NotificationType = "overdue_account"
)

func (t NotificationType) String() string { return string(t) }

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeSharingInvite, NotificationTypeDueAccount, NotificationTypeOverdueAccount:
		return true
	}
	return false
}

// NotificationStatus tracks how the receiver has responded to a notification.
type NotificationStatus string

const (
	NotificationStatusPending         NotificationStatus = "pending"
	NotificationStatusSharingAccepted NotificationStatus = "sharing_accepted"
	NotificationStatusSharingRejected NotificationStatus = "sharing_rejected"
	NotificationStatusRead            NotificationStatus = "read"
)

func (s NotificationStatus) String() string { return string(s) }

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusSharingAccepted,
		NotificationStatusSharingRejected, NotificationStatusRead:
		return true
	}
	return false
}

// EntityKind identifies which shareable entity a notification or sharing
// operation refers to. These values are persisted in notification source
// records, so they must stay stable.
type EntityKind string

const (
	EntityKindExpense       EntityKind = "expense"
	EntityKindTask          EntityKind = "task"
	EntityKindMarketItem    EntityKind = "market_item"
	EntityKindNote          EntityKind = "note"
	EntityKindCalendarEvent EntityKind = "calendar_event"

	// EntityKindSubscription appears only as a notification source;
	// subscriptions are never shared.
	EntityKindSubscription EntityKind = "subscription"
)

func (k EntityKind) String() string { return string(k) }

// IsValid reports whether the kind names a shareable entity.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindExpense, EntityKindTask, EntityKindMarketItem,
		EntityKindNote, EntityKindCalendarEvent:
		return true
	}
	return false
}

// ExpenseKind distinguishes money going out from money coming in.
type ExpenseKind string

const (
	ExpenseKindExpense ExpenseKind = "expense"
	ExpenseKindRevenue ExpenseKind = "revenue"
)

func (k ExpenseKind) String() string { return string(k) }

func (k ExpenseKind) IsValid() bool {
	return k == ExpenseKindExpense || k == ExpenseKindRevenue
}
