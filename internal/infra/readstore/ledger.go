package readstore

import (
	"context"

	"rewardgate/internal/infra"
	"rewardgate/internal/infra/db"
)

type LedgerReadStore struct {
	db db.DBTX
}

func NewLedgerReadStore(dbtx db.DBTX) *LedgerReadStore {
	return &LedgerReadStore{db: dbtx}
}

// Exists reports whether the transaction id was already processed. Existence
// alone is the signal; the record body is never consulted.
func (r *LedgerReadStore) Exists(ctx context.Context, transactionID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM processed_transactions WHERE transaction_id = $1)`,
		transactionID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check processed transaction", err)
	}

	return exists, nil
}
