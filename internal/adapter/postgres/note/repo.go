// Package note implements the Note store using PostgreSQL.
package note

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

const table = "notes"

var columns = []string{
	"id", "user_id", "title", "body",
	"share_with", "share_info", "created_at", "updated_at",
}

// Repo provides note persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new note repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID        uuid.UUID               `db:"id"`
	UserID    uuid.UUID               `db:"user_id"`
	Title     string                  `db:"title"`
	Body      string                  `db:"body"`
	ShareWith []uuid.UUID             `db:"share_with"`
	ShareInfo []domain.ShareInfoEntry `db:"share_info"`
	CreatedAt time.Time               `db:"created_at"`
	UpdatedAt time.Time               `db:"updated_at"`
}

func (r row) toDomain() domain.Note {
	return domain.Note{
		ID:     r.ID,
		UserID: r.UserID,
		Title:  r.Title,
		Body:   r.Body,
		Shared: domain.Shared{
			ShareWith: r.ShareWith,
			ShareInfo: r.ShareInfo,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Create inserts a new note together with its share columns.
func (r *Repo) Create(ctx context.Context, n *domain.Note) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	shareWith, shareInfo := postgres.ShareColumns(n.Shared)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			n.ID, n.UserID, n.Title, n.Body,
			shareWith, shareInfo, n.CreatedAt, n.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "note", n.ID)
	}
	return nil
}

// GetByID returns a note by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
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
		return nil, postgres.MapError(err, "note", id)
	}

	n := row.toDomain()
	return &n, nil
}

// ListReachable returns notes visible to the user: owned, or shared
// and accepted.
func (r *Repo) ListReachable(ctx context.Context, uid uuid.UUID, limit, offset int) ([]domain.Note, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(postgres.VisibleExpr(uid)).
		OrderBy("updated_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]domain.Note, len(rows))
	for i, row := range rows {
		notes[i] = row.toDomain()
	}
	return notes, nil
}

// Update rewrites the mutable fields of a note, share columns included.
func (r *Repo) Update(ctx context.Context, n *domain.Note) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	shareWith, shareInfo := postgres.ShareColumns(n.Shared)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("title", n.Title).
		Set("body", n.Body).
		Set("share_with", shareWith).
		Set("share_info", shareInfo).
		Set("updated_at", n.UpdatedAt).
		Where(squirrel.Eq{"id": n.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "note", n.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", n.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a note.
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
		return postgres.MapError(err, "note", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Owner returns the note's owning user id.
func (r *Repo) Owner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return postgres.OwnerOf(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id)
}

// AcceptShare back-fills acceptedAt for uid on the note's share_info.
func (r *Repo) AcceptShare(ctx context.Context, id, uid uuid.UUID, acceptedAt time.Time) error {
	return postgres.AcceptShare(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id, uid, acceptedAt)
}

// RemoveShare removes uid from the note's share columns.
func (r *Repo) RemoveShare(ctx context.Context, id, uid uuid.UUID) error {
	return postgres.RemoveShare(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, id, uid)
}
