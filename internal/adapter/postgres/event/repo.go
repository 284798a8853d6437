// Package event implements the CalendarEvent store using PostgreSQL.
package event

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homelyapp/backend/internal/adapter/postgres"
	"github.com/homelyapp/backend/internal/domain"
)

const table = "calendar_events"

var columns = []string{
	"id", "user_id", "title", "description", "starts_at", "ends_at",
	"share_with", "share_info", "created_at", "updated_at",
}

// Repo provides calendar event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new calendar event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID          uuid.UUID               `db:"id"`
	UserID      uuid.UUID               `db:"user_id"`
	Title       string                  `db:"title"`
	Description string                  `db:"description"`
	StartsAt    time.Time               `db:"starts_at"`
	EndsAt      time.Time               `db:"ends_at"`
	ShareWith   []uuid.UUID             `db:"share_with"`
	ShareInfo   []domain.ShareInfoEntry `db:"share_info"`
	CreatedAt   time.Time               `db:"created_at"`
	UpdatedAt   time.Time               `db:"updated_at"`
}

func (r row) toDomain() domain.CalendarEvent {
	return domain.CalendarEvent{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Shared: domain.Shared{
			ShareWith: r.ShareWith,
			ShareInfo: r.ShareInfo,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Create inserts a new calendar event together with its share columns.
func (r *Repo) Create(ctx context.Context, e *domain.CalendarEvent) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	shareWith, shareInfo := postgres.ShareColumns(e.Shared)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			e.ID, e.UserID, e.Title, e.Description, e.StartsAt, e.EndsAt,
			shareWith, shareInfo, e.CreatedAt, e.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "calendar_event", e.ID)
	}
	return nil
}

// GetByID returns a calendar event by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row row
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "calendar_event", id)
	}

	e := row.toDomain()
	return &e, nil
}

// ListReachable returns calendar events visible to the user: owned, or shared
// and accepted. Optionally limited to events starting in [from, to).
func (r *Repo) ListReachable(ctx context.Context, uid uuid.UUID, from, to *time.Time, limit, offset int) ([]domain.CalendarEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	b := postgres.Builder().
		Select(columns...).
		From(table).
		Where(postgres.VisibleExpr(uid))
	if from != nil {
		b = b.Where(squirrel.GtOrEq{"starts_at": *from})
	}
	if to != nil {
		b = b.Where(squirrel.Lt{"starts_at": *to})
	}

	sql, args, err := b.
		OrderBy("starts_at ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}

	events := make([]domain.CalendarEvent, len(rows))
	for i, row := range rows {
		events[i] = row.toDomain()
	}
	return events, nil
}

// Update rewrites the mutable fields of a calendar event, share columns included.
func (r *Repo) Update(ctx context.Context, e *domain.CalendarEvent) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	shareWith, shareInfo := postgres.ShareColumns(e.Shared)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("title", e.Title).
		Set("description", e.Description).
		Set("starts_at", e.StartsAt).
		Set("ends_at", e.EndsAt).
		Set("share_with", shareWith).
		Set("share_info", shareInfo).
		Set("updated_at", e.UpdatedAt).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "calendar_event", e.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("calendar_event %s: %w", e.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a calendar event.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "calendar_event", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("calendar_event %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Owner returns the event's owning user id.
func (r *Repo) Owner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return postgres.OwnerOf(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id)
}

// AcceptShare back-fills acceptedAt for uid on the event's share_info.
func (r *Repo) AcceptShare(ctx context.Context, id, uid uuid.UUID, acceptedAt time.Time) error {
	return postgres.AcceptShare(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id, uid, acceptedAt)
}

// RemoveShare removes uid from the event's share columns.
func (r *Repo) RemoveShare(ctx context.Context, id, uid uuid.UUID) error {
	return postgres.RemoveShare(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id, uid)
}
