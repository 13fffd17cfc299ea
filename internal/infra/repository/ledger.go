package repository

import (
	"context"
	"errors"

	"rewardgate/internal/infra"
	"rewardgate/internal/infra/db"
	"rewardgate/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type LedgerRepository struct {
	db db.DBTX
}

func NewLedgerRepository(dbtx db.DBTX) *LedgerRepository {
	return &LedgerRepository{db: dbtx}
}

// Insert records a processed transaction id. A duplicate id surfaces as
// KindDuplicateKey so callers can absorb concurrent replays.
func (r *LedgerRepository) Insert(ctx context.Context, rec shared.ProcessedTransaction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO processed_transactions (transaction_id, user_id, resource_id, received_at, raw_params)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.TransactionID, rec.UserID, rec.ResourceID, rec.ReceivedAt, rec.RawParams,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("transaction already recorded", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert processed transaction", err)
	}

	return nil
}
