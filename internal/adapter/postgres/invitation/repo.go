// Package invitation implements the SharingInvitation store using PostgreSQL.
//
// A partial unique index over (invited_by, target) WHERE status <> 'rejected'
// makes creation an atomic create-if-absent: concurrent shares between the
// same pair can never produce two active invitations.
package invitation

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

const table = "sharing_invitations"

var columns = []string{"id", "invited_by", "target", "status", "created_at", "updated_at"}

// Repo provides sharing invitation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new invitation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID        uuid.UUID `db:"id"`
	InvitedBy uuid.UUID `db:"invited_by"`
	Target    uuid.UUID `db:"target"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r row) toDomain() domain.SharingInvitation {
	return domain.SharingInvitation{
		ID:        r.ID,
		InvitedBy: r.InvitedBy,
		Target:    r.Target,
		Status:    domain.InviteStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// CreateIfAbsent inserts a new pending invitation unless a non-rejected one
// already exists for the (invitedBy, target) pair. Returns true when a row
// was actually inserted.
func (r *Repo) CreateIfAbsent(ctx context.Context, inv *domain.SharingInvitation) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(inv.ID, inv.InvitedBy, inv.Target, inv.Status.String(), inv.CreatedAt, inv.UpdatedAt).
		Suffix("ON CONFLICT (invited_by, target) WHERE status <> 'rejected' DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "invitation", inv.ID)
	}

	return tag.RowsAffected() == 1, nil
}

// GetByID returns an invitation by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SharingInvitation, error) {
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
		return nil, postgres.MapError(err, "invitation", id)
	}

	inv := row.toDomain()
	return &inv, nil
}

// ListByInviter returns every invitation initiated by the given user,
// all statuses included. The orchestrator fetches this once per share batch.
func (r *Repo) ListByInviter(ctx context.Context, invitedBy uuid.UUID) ([]domain.SharingInvitation, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"invited_by": invitedBy}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	invitations := make([]domain.SharingInvitation, len(rows))
	for i, row := range rows {
		invitations[i] = row.toDomain()
	}
	return invitations, nil
}

// FindActivePair returns the non-rejected invitation for the
// (invitedBy, target) pair, or domain.ErrNotFound.
func (r *Repo) FindActivePair(ctx context.Context, invitedBy, target uuid.UUID) (*domain.SharingInvitation, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"invited_by": invitedBy, "target": target}).
		Where(squirrel.NotEq{"status": domain.InviteStatusRejected.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row row
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "invitation", target)
	}

	inv := row.toDomain()
	return &inv, nil
}

// UpdateStatus transitions an invitation to the given status.
// Returns domain.ErrNotFound if the invitation does not exist.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InviteStatus) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("status", status.String()).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "invitation", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invitation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes an invitation. Only used by the explicit "remove sharing"
// action; accept/reject never delete rows.
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
		return postgres.MapError(err, "invitation", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invitation %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
