// Package task implements the Task store using PostgreSQL.
package task

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

const table = "tasks"

var columns = []string{
	"id", "user_id", "title", "description", "due_date", "done",
	"share_with", "share_info", "created_at", "updated_at",
}

// Repo provides task persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new task repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID          uuid.UUID               `db:"id"`
	UserID      uuid.UUID               `db:"user_id"`
	Title       string                  `db:"title"`
	Description string                  `db:"description"`
	DueDate     *time.Time              `db:"due_date"`
	Done        bool                    `db:"done"`
	ShareWith   []uuid.UUID             `db:"share_with"`
	ShareInfo   []domain.ShareInfoEntry `db:"share_info"`
	CreatedAt   time.Time               `db:"created_at"`
	UpdatedAt   time.Time               `db:"updated_at"`
}

func (r row) toDomain() domain.Task {
	return domain.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Done:        r.Done,
		Shared: domain.Shared{
			ShareWith: r.ShareWith,
			ShareInfo: r.ShareInfo,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Create inserts a new task together with its share columns.
func (r *Repo) Create(ctx context.Context, t *domain.Task) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	shareWith, shareInfo := postgres.ShareColumns(t.Shared)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			t.ID, t.UserID, t.Title, t.Description, t.DueDate, t.Done,
			shareWith, shareInfo, t.CreatedAt, t.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "task", t.ID)
	}
	return nil
}

// GetByID returns a task by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
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
		return nil, postgres.MapError(err, "task", id)
	}

	t := row.toDomain()
	return &t, nil
}

// ListReachable returns tasks visible to the user: owned, or shared
// and accepted.
func (r *Repo) ListReachable(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.Task, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(postgres.VisibleExpr(uid)).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]domain.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.toDomain()
	}
	return tasks, nil
}

// Update rewrites the mutable fields of a task, share columns included.
func (r *Repo) Update(ctx context.Context, t *domain.Task) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	shareWith, shareInfo := postgres.ShareColumns(t.Shared)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("title", t.Title).
		Set("description", t.Description).
		Set("due_date", t.DueDate).
		Set("done", t.Done).
		Set("share_with", shareWith).
		Set("share_info", shareInfo).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "task", t.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// SetDone toggles the done flag.
func (r *Repo) SetDone(ctx context.Context, id uuid.UUID, done bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("done", done).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "task", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a task.
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
		return postgres.MapError(err, "task", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Owner returns the task's owning user id.
func (r *Repo) Owner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return postgres.OwnerOf(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id)
}

// AcceptShare back-fills acceptedAt for uid on the task's share_info.
func (r *Repo) AcceptShare(ctx context.Context, id, uid uuid.UUID, acceptedAt time.Time) error {
	return postgres.AcceptShare(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id, uid, acceptedAt)
}

// RemoveShare removes uid from the task's share columns.
func (r *Repo) RemoveShare(ctx context.Context, id, uid uuid.UUID) error {
	return postgres.RemoveShare(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id, uid)
}
