package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a household to-do item.
type Task struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	Done        bool
	Shared
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MarketItem is an entry on the shopping list.
type MarketItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Quantity  int
	Purchased bool
	Shared
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note is a free-form text note.
type Note struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Title  string
	Body   string
	Shared
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalendarEvent is a scheduled event on the household calendar.
type CalendarEvent struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Shared
	CreatedAt time.Time
	UpdatedAt time.Time
}
