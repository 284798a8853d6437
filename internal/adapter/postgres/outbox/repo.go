// Package outbox implements the durable push delivery queue using PostgreSQL.
//
// Sharing and reminder flows enqueue deliveries here instead of calling the
// push provider inline; the dispatcher worker drains due rows and retries
// failures with backoff. A failed push therefore never fails the user action
// that produced it, and a transient provider outage is not a lost delivery.
package outbox

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

const table = "push_outbox"

var columns = []string{
	"id", "receiver", "title", "message", "attempts",
	"next_attempt_at", "delivered_at", "last_error", "created_at",
}

// Delivery is one pending or completed push delivery.
type Delivery struct {
	ID            uuid.UUID  `db:"id"`
	Receiver      uuid.UUID  `db:"receiver"`
	Title         string     `db:"title"`
	Message       string     `db:"message"`
	Attempts      int        `db:"attempts"`
	NextAttemptAt time.Time  `db:"next_attempt_at"`
	DeliveredAt   *time.Time `db:"delivered_at"`
	LastError     *string    `db:"last_error"`
	CreatedAt     time.Time  `db:"created_at"`
}

// Repo provides push outbox persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new outbox repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Enqueue inserts a new delivery due immediately.
func (r *Repo) Enqueue(ctx context.Context, receiver uuid.UUID, title, message string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "receiver", "title", "message", "attempts", "next_attempt_at", "created_at").
		Values(uuid.New(), receiver, title, message, 0, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "push_delivery", receiver)
	}
	return nil
}

// Due returns undelivered deliveries whose next attempt is at or before now,
// oldest first, locked against concurrent dispatchers via SKIP LOCKED.
func (r *Repo) Due(ctx context.Context, now time.Time, limit int) ([]Delivery, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"delivered_at": nil}).
		Where(squirrel.LtOrEq{"next_attempt_at": now}).
		OrderBy("next_attempt_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var deliveries []Delivery
	if err := pgxscan.Select(ctx, q, &deliveries, sql, args...); err != nil {
		return nil, fmt.Errorf("list due deliveries: %w", err)
	}
	return deliveries, nil
}

// MarkDelivered records a successful delivery.
func (r *Repo) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("delivered_at", at).
		Set("last_error", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "push_delivery", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("push_delivery %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// MarkFailed records a failed attempt and schedules the next one.
func (r *Repo) MarkFailed(ctx context.Context, id uuid.UUID, attemptErr string, nextAttemptAt time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", attemptErr).
		Set("next_attempt_at", nextAttemptAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "push_delivery", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("push_delivery %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DeleteDelivered removes deliveries completed before the cutoff.
// Returns the number of rows removed. Used by the cleanup pass.
func (r *Repo) DeleteDelivered(ctx context.Context, before time.Time) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.NotEq{"delivered_at": nil}).
		Where(squirrel.Lt{"delivered_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete delivered: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
