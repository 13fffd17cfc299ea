package repository

import (
	"context"

	"rewardgate/internal/domain/entitlement"
	"rewardgate/internal/infra"
	"rewardgate/internal/infra/db"
)

type GrantRepository struct {
	db db.DBTX
}

func NewGrantRepository(dbtx db.DBTX) *GrantRepository {
	return &GrantRepository{db: dbtx}
}

// Upsert applies last-write-wins merge semantics: an existing record for the
// same (user, resource) key keeps its identity columns and gets its window and
// transaction id overwritten. Concurrent callbacks race and the last commit
// determines expires_at.
func (r *GrantRepository) Upsert(ctx context.Context, g entitlement.Grant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO entitlement_grants (key, user_id, resource_id, granted_at, expires_at, last_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			granted_at          = EXCLUDED.granted_at,
			expires_at          = EXCLUDED.expires_at,
			last_transaction_id = EXCLUDED.last_transaction_id`,
		g.Key(), g.UserID, g.ResourceID, g.GrantedAt, g.ExpiresAt, g.LastTransactionID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert entitlement grant", err)
	}

	return nil
}
