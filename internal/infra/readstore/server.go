package readstore

import (
	"context"
	"errors"

	"rewardgate/internal/infra"
	"rewardgate/internal/infra/db"
	"rewardgate/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
)

type ServerReadStore struct {
	db db.DBTX
}

func NewServerReadStore(dbtx db.DBTX) *ServerReadStore {
	return &ServerReadStore{db: dbtx}
}

func (r *ServerReadStore) FindByID(ctx context.Context, id string) (*queries.ServerView, error) {
	var view queries.ServerView
	err := r.db.QueryRow(ctx, `
		SELECT id, name, region, premium_only, disabled FROM servers WHERE id = $1`,
		id,
	).Scan(&view.ID, &view.Name, &view.Region, &view.PremiumOnly, &view.Disabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("server not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find server by ID", err)
	}

	return &view, nil
}

// FetchPayload loads the opaque connection payload handed to clients. The
// payload is a blob to this service; an absent or empty one blocks issuance.
func (r *ServerReadStore) FetchPayload(ctx context.Context, id string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT connection_payload FROM servers WHERE id = $1`,
		id,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("server not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to fetch connection payload", err)
	}
	if len(payload) == 0 {
		return nil, infra.WrapRepoErr("connection payload unavailable", nil, infra.KindNotFound)
	}

	return payload, nil
}
