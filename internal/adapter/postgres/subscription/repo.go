// Package subscription implements the Subscription store using PostgreSQL.
package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/homelyapp/backend/internal/adapter/postgres"
	"github.com/homelyapp/backend/internal/domain"
)

const table = "subscriptions"

var columns = []string{
	"id", "user_id", "title", "amount", "currency",
	"billing_day", "active", "created_at", "updated_at",
}

// Repo provides subscription persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new subscription repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID         uuid.UUID       `db:"id"`
	UserID     uuid.UUID       `db:"user_id"`
	Title      string          `db:"title"`
	Amount     decimal.Decimal `db:"amount"`
	Currency   string          `db:"currency"`
	BillingDay int             `db:"billing_day"`
	Active     bool            `db:"active"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func (r row) toDomain() domain.Subscription {
	return domain.Subscription{
		ID:         r.ID,
		UserID:     r.UserID,
		Title:      r.Title,
		Amount:     r.Amount,
		Currency:   r.Currency,
		BillingDay: r.BillingDay,
		Active:     r.Active,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Create inserts a new subscription.
func (r *Repo) Create(ctx context.Context, s *domain.Subscription) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			s.ID, s.UserID, s.Title, s.Amount, s.Currency,
			s.BillingDay, s.Active, s.CreatedAt, s.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "subscription", s.ID)
	}
	return nil
}

// GetByID returns a subscription by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
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
		return nil, postgres.MapError(err, "subscription", id)
	}

	s := row.toDomain()
	return &s, nil
}

// ListByOwner returns the user's subscriptions, most recent first.
func (r *Repo) ListByOwner(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.Subscription, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": uid}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	subs := make([]domain.Subscription, len(rows))
	for i, row := range rows {
		subs[i] = row.toDomain()
	}
	return subs, nil
}

// ListActiveByBillingDay returns all active subscriptions billed on the day.
// Used by the reminder sweep.
func (r *Repo) ListActiveByBillingDay(ctx context.Context, day int) ([]domain.Subscription, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"active": true, "billing_day": day}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list active subscriptions: %w", err)
	}

	subs := make([]domain.Subscription, len(rows))
	for i, row := range rows {
		subs[i] = row.toDomain()
	}
	return subs, nil
}

// Update rewrites the mutable fields of a subscription.
func (r *Repo) Update(ctx context.Context, s *domain.Subscription) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("title", s.Title).
		Set("amount", s.Amount).
		Set("currency", s.Currency).
		Set("billing_day", s.BillingDay).
		Set("active", s.Active).
		Set("updated_at", s.UpdatedAt).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "subscription", s.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s: %w", s.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a subscription.
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
		return postgres.MapError(err, "subscription", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
