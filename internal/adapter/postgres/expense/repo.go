// Package expense implements the Expense store using PostgreSQL.
//
// The entity row and its share columns are written in a single statement,
// so an expense can never exist with share_with and share_info out of step.
package expense

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

const table = "expenses"

var columns = []string{
	"id", "user_id", "kind", "title", "amount", "currency", "category",
	"due_date", "paid", "share_with", "share_info", "created_at", "updated_at",
}

// Repo provides expense persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new expense repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID        uuid.UUID               `db:"id"`
	UserID    uuid.UUID               `db:"user_id"`
	Kind      string                  `db:"kind"`
	Title     string                  `db:"title"`
	Amount    decimal.Decimal         `db:"amount"`
	Currency  string                  `db:"currency"`
	Category  string                  `db:"category"`
	DueDate   time.Time               `db:"due_date"`
	Paid      bool                    `db:"paid"`
	ShareWith []uuid.UUID             `db:"share_with"`
	ShareInfo []domain.ShareInfoEntry `db:"share_info"`
	CreatedAt time.Time               `db:"created_at"`
	UpdatedAt time.Time               `db:"updated_at"`
}

func (r row) toDomain() domain.Expense {
	return domain.Expense{
		ID:       r.ID,
		UserID:   r.UserID,
		Kind:     domain.ExpenseKind(r.Kind),
		Title:    r.Title,
		Amount:   r.Amount,
		Currency: r.Currency,
		Category: r.Category,
		DueDate:  r.DueDate,
		Paid:     r.Paid,
		Shared: domain.Shared{
			ShareWith: r.ShareWith,
			ShareInfo: r.ShareInfo,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Create inserts a new expense together with its share columns.
func (r *Repo) Create(ctx context.Context, e *domain.Expense) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	shareWith, shareInfo := postgres.ShareColumns(e.Shared)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			e.ID, e.UserID, e.Kind.String(), e.Title, e.Amount, e.Currency, e.Category,
			e.DueDate, e.Paid, shareWith, shareInfo, e.CreatedAt, e.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "expense", e.ID)
	}
	return nil
}

// GetByID returns an expense by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
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
		return nil, postgres.MapError(err, "expense", id)
	}

	e := row.toDomain()
	return &e, nil
}

// ListReachable returns expenses visible to the user: owned, or shared and
// accepted. Newest due date first; pending shares never reach a page.
func (r *Repo) ListReachable(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.Expense, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(postgres.VisibleExpr(uid)).
		OrderBy("due_date DESC, created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses := make([]domain.Expense, len(rows))
	for i, row := range rows {
		expenses[i] = row.toDomain()
	}
	return expenses, nil
}

// ListDueUnpaid returns unpaid expenses with a due date at or before the
// cutoff. Used by the reminder pass.
func (r *Repo) ListDueUnpaid(ctx context.Context, cutoff time.Time) ([]domain.Expense, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"paid": false, "kind": domain.ExpenseKindExpense.String()}).
		Where(squirrel.LtOrEq{"due_date": cutoff}).
		OrderBy("due_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list due expenses: %w", err)
	}

	expenses := make([]domain.Expense, len(rows))
	for i, row := range rows {
		expenses[i] = row.toDomain()
	}
	return expenses, nil
}

// Update rewrites the mutable fields of an expense, share columns included.
// Returns domain.ErrNotFound if the expense does not exist.
func (r *Repo) Update(ctx context.Context, e *domain.Expense) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	shareWith, shareInfo := postgres.ShareColumns(e.Shared)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("kind", e.Kind.String()).
		Set("title", e.Title).
		Set("amount", e.Amount).
		Set("currency", e.Currency).
		Set("category", e.Category).
		Set("due_date", e.DueDate).
		Set("paid", e.Paid).
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
		return postgres.MapError(err, "expense", e.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s: %w", e.ID, domain.ErrNotFound)
	}
	return nil
}

// SetPaid toggles the paid flag.
func (r *Repo) SetPaid(ctx context.Context, id uuid.UUID, paid bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("paid", paid).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "expense", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes an expense.
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
		return postgres.MapError(err, "expense", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Owner returns the expense's owning user id.
func (r *Repo) Owner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return postgres.OwnerOf(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id)
}

// AcceptShare back-fills acceptedAt for uid on the expense's share_info.
func (r *Repo) AcceptShare(ctx context.Context, id, uid uuid.UUID, acceptedAt time.Time) error {
	return postgres.AcceptShare(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id, uid, acceptedAt)
}

// RemoveShare removes uid from the expense's share columns.
func (r *Repo) RemoveShare(ctx context.Context, id, uid uuid.UUID) error {
	return postgres.RemoveShare(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id, uid)
}
