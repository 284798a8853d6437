// Package notification implements the Notification store using PostgreSQL.
package notification

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

const table = "notifications"

var columns = []string{
	"id", "type", "status", "sender", "receiver",
	"title", "description", "source_id", "source_type", "created_at",
}

// Repo provides notification persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notification repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID          uuid.UUID `db:"id"`
	Type        string    `db:"type"`
	Status      string    `db:"status"`
	Sender      uuid.UUID `db:"sender"`
	Receiver    uuid.UUID `db:"receiver"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	SourceID    uuid.UUID `db:"source_id"`
	SourceType  string    `db:"source_type"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r row) toDomain() domain.Notification {
	return domain.Notification{
		ID:          r.ID,
		Type:        domain.NotificationType(r.Type),
		Status:      domain.NotificationStatus(r.Status),
		Sender:      r.Sender,
		Receiver:    r.Receiver,
		Title:       r.Title,
		Description: r.Description,
		Source: domain.NotificationSource{
			ID:   r.SourceID,
			Type: domain.EntityKind(r.SourceType),
		},
		CreatedAt: r.CreatedAt,
	}
}

// Create inserts a new notification.
func (r *Repo) Create(ctx context.Context, n *domain.Notification) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			n.ID, n.Type.String(), n.Status.String(), n.Sender, n.Receiver,
			n.Title, n.Description, n.Source.ID, n.Source.Type.String(), n.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "notification", n.ID)
	}
	return nil
}

// GetByID returns a notification by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
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
		return nil, postgres.MapError(err, "notification", id)
	}

	n := row.toDomain()
	return &n, nil
}

// ListByReceiver returns notifications addressed to the user, newest first.
func (r *Repo) ListByReceiver(ctx context.Context, receiver uuid.UUID, limit, offset int) ([]domain.Notification, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := postgres.Builder().
		Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"receiver": receiver}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := pgxscan.Get(ctx, q, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"receiver": receiver}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]domain.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = row.toDomain()
	}
	return notifications, total, nil
}

// UpdateStatus transitions a notification to the given status.
// Returns domain.ErrNotFound if the notification does not exist.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.NotificationStatus) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("status", status.String()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "notification", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ExistsForSourceSince reports whether the receiver already has a
// notification of the given type for the source created at or after since.
// The reminder pass uses this to avoid duplicate due-account notifications.
func (r *Repo) ExistsForSourceSince(ctx context.Context, receiver, sourceID uuid.UUID, typ domain.NotificationType, since time.Time) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"receiver": receiver, "source_id": sourceID, "type": typ.String()}).
		Where(squirrel.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := pgxscan.Get(ctx, q, &count, sql, args...); err != nil {
		return false, fmt.Errorf("count notifications: %w", err)
	}
	return count > 0, nil
}

// Delete removes a notification owned by the receiver.
// Returns domain.ErrNotFound if it does not exist or belongs to another user.
func (r *Repo) Delete(ctx context.Context, receiver, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id, "receiver": receiver}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "notification", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
