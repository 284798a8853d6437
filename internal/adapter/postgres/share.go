package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/homelyapp/backend/internal/domain"
)

// Every shareable entity table carries the same two share columns:
// share_with uuid[] (flat list for array-contains queries) and
// share_info jsonb (per-user acceptance records). The helpers below keep
// the SQL for those columns in one place so the five entity repos cannot
// drift apart.

// ShareColumns returns the two share column values for s, never nil. Both
// columns are NOT NULL, and share_info must stay a jsonb array for
// jsonb_array_elements; a nil Go slice would encode as SQL NULL.
func ShareColumns(s domain.Shared) ([]uuid.UUID, []domain.ShareInfoEntry) {
	with, info := s.ShareWith, s.ShareInfo
	if with == nil {
		with = []uuid.UUID{}
	}
	if info == nil {
		info = []domain.ShareInfoEntry{}
	}
	return with, info
}

// VisibleExpr builds the visibility filter for list queries: rows owned by
// uid, or rows shared with uid where uid has accepted. Pending shares stay
// invisible to the target, so acceptance is checked here rather than after
// pagination.
func VisibleExpr(uid uuid.UUID) squirrel.Sqlizer {
	// share_with @> keeps the GIN index usable; the EXISTS narrows the
	// match to entries the user has accepted.
	return squirrel.Or{
		squirrel.Eq{"user_id": uid},
		squirrel.And{
			squirrel.Expr("share_with @> ARRAY[?]::uuid[]", uid),
			squirrel.Expr(`EXISTS (
				SELECT 1 FROM jsonb_array_elements(share_info) AS elem
				WHERE elem->>'uid' = ?::text AND elem->'acceptedAt' <> 'null'::jsonb
			)`, uid),
		},
	}
}

// AcceptShare sets acceptedAt on the share_info entry matching uid, in a
// single targeted UPDATE. No read-modify-write: two acceptances racing on
// the same entity each rewrite only their own entry.
// Returns domain.ErrNotFound if the entity does not exist or uid is not in
// its share_with list.
func AcceptShare(ctx context.Context, q Querier, table string, entityID, uid uuid.UUID, acceptedAt time.Time) error {
	sql := fmt.Sprintf(`
		UPDATE %s
		SET share_info = (
			SELECT COALESCE(jsonb_agg(
				CASE WHEN elem->>'uid' = $2::text
					THEN jsonb_set(elem, '{acceptedAt}', to_jsonb($3::timestamptz))
					ELSE elem
				END), '[]'::jsonb)
			FROM jsonb_array_elements(share_info) AS elem
		), updated_at = now()
		WHERE id = $1 AND share_with @> ARRAY[$2]::uuid[]`, table)

	tag, err := q.Exec(ctx, sql, entityID, uid, acceptedAt)
	if err != nil {
		return MapError(err, table, entityID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", table, entityID, domain.ErrNotFound)
	}
	return nil
}

// OwnerOf returns the owning user id of the entity row.
func OwnerOf(ctx context.Context, q Querier, table string, entityID uuid.UUID) (uuid.UUID, error) {
	sql := fmt.Sprintf(`SELECT user_id FROM %s WHERE id = $1`, table)

	var owner uuid.UUID
	if err := q.QueryRow(ctx, sql, entityID).Scan(&owner); err != nil {
		return uuid.Nil, MapError(err, table, entityID)
	}
	return owner, nil
}

// RemoveShare deletes uid from both share columns of the entity, keeping
// them in lockstep. Returns domain.ErrNotFound if the entity does not exist.
func RemoveShare(ctx context.Context, q Querier, table string, entityID, uid uuid.UUID) error {
	sql := fmt.Sprintf(`
		UPDATE %s
		SET share_with = array_remove(share_with, $2::uuid),
			share_info = (
				SELECT COALESCE(jsonb_agg(elem), '[]'::jsonb)
				FROM jsonb_array_elements(share_info) AS elem
				WHERE elem->>'uid' <> $2::text
			),
			updated_at = now()
		WHERE id = $1`, table)

	tag, err := q.Exec(ctx, sql, entityID, uid)
	if err != nil {
		return MapError(err, table, entityID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", table, entityID, domain.ErrNotFound)
	}
	return nil
}
