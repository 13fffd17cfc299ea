package readstore

import (
	"context"
	"errors"
	"time"

	"rewardgate/internal/domain/entitlement"
	"rewardgate/internal/infra"
	"rewardgate/internal/infra/db"

	"github.com/jackc/pgx/v5"
)

type GrantReadStore struct {
	db db.DBTX
}

func NewGrantReadStore(dbtx db.DBTX) *GrantReadStore {
	return &GrantReadStore{db: dbtx}
}

// Find loads the grant for one (user, resource) key. Expired grants are
// returned as-is; staleness is the caller's read-time decision.
func (r *GrantReadStore) Find(ctx context.Context, userID, resourceID string) (*entitlement.Grant, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, resource_id, granted_at, expires_at, last_transaction_id
		FROM entitlement_grants
		WHERE key = $1`,
		entitlement.Key(userID, resourceID),
	)

	var (
		g                    entitlement.Grant
		grantedAt, expiresAt any
	)
	err := row.Scan(&g.UserID, &g.ResourceID, &grantedAt, &expiresAt, &g.LastTransactionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("grant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find entitlement grant", err)
	}

	if g.GrantedAt, err = normalizeInstant(grantedAt); err != nil {
		return nil, infra.WrapRepoErr("malformed granted_at", err)
	}
	if g.ExpiresAt, err = normalizeInstant(expiresAt); err != nil {
		return nil, infra.WrapRepoErr("malformed expires_at", err)
	}

	return &g, nil
}

// normalizeInstant converts whatever temporal representation the store hands
// back into a single time.Time at the read boundary, so comparison sites never
// branch on representation. Legacy rows serialized timestamps as strings.
func normalizeInstant(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, err
		}
		return parsed, nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	default:
		return time.Time{}, errors.New("unsupported timestamp representation")
	}
}
