// Package market implements the MarketItem store using PostgreSQL.
package market

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

const table = "market_items"

var columns = []string{
	"id", "user_id", "name", "quantity", "purchased",
	"share_with", "share_info", "created_at", "updated_at",
}

// Repo provides market item persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new market item repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID        uuid.UUID               `db:"id"`
	UserID    uuid.UUID               `db:"user_id"`
	Name      string                  `db:"name"`
	Quantity  int                     `db:"quantity"`
	Purchased bool                    `db:"purchased"`
	ShareWith []uuid.UUID             `db:"share_with"`
	ShareInfo []domain.ShareInfoEntry `db:"share_info"`
	CreatedAt time.Time               `db:"created_at"`
	UpdatedAt time.Time               `db:"updated_at"`
}

func (r row) toDomain() domain.MarketItem {
	return domain.MarketItem{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		Purchased: r.Purchased,
		Shared: domain.Shared{
			ShareWith: r.ShareWith,
			ShareInfo: r.ShareInfo,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Create inserts a new market item together with its share columns.
func (r *Repo) Create(ctx context.Context, m *domain.MarketItem) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	shareWith, shareInfo := postgres.ShareColumns(m.Shared)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			m.ID, m.UserID, m.Name, m.Quantity, m.Purchased,
			shareWith, shareInfo, m.CreatedAt, m.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "market_item", m.ID)
	}
	return nil
}

// GetByID returns a market item by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MarketItem, error) {
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
		return nil, postgres.MapError(err, "market_item", id)
	}

	m := row.toDomain()
	return &m, nil
}

// ListReachable returns market items visible to the user: owned, or shared
// and accepted.
func (r *Repo) ListReachable(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.MarketItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(postgres.VisibleExpr(uid)).
		OrderBy("purchased ASC, created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list market items: %w", err)
	}

	items := make([]domain.MarketItem, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

// Update rewrites the mutable fields of a market item, share columns included.
func (r *Repo) Update(ctx context.Context, m *domain.MarketItem) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	shareWith, shareInfo := postgres.ShareColumns(m.Shared)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("name", m.Name).
		Set("quantity", m.Quantity).
		Set("purchased", m.Purchased).
		Set("share_with", shareWith).
		Set("share_info", shareInfo).
		Set("updated_at", m.UpdatedAt).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "market_item", m.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("market_item %s: %w", m.ID, domain.ErrNotFound)
	}
	return nil
}

// SetPurchased toggles the purchased flag.
func (r *Repo) SetPurchased(ctx context.Context, id uuid.UUID, purchased bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("purchased", purchased).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "market_item", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("market_item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a market item.
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
		return postgres.MapError(err, "market_item", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("market_item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Owner returns the item's owning user id.
func (r *Repo) Owner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return postgres.OwnerOf(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id)
}

// AcceptShare back-fills acceptedAt for uid on the item's share_info.
func (r *Repo) AcceptShare(ctx context.Context, id, uid uuid.UUID, acceptedAt time.Time) error {
	return postgres.AcceptShare(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id, uid, acceptedAt)
}

// RemoveShare removes uid from the item's share columns.
func (r *Repo) RemoveShare(ctx context.Context, id, uid uuid.UUID) error {
	return postgres.RemoveShare(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id, uid)
}
