package repository

import (
	"context"

	"rewardgate/internal/domain/session"
	"rewardgate/internal/infra"
	"rewardgate/internal/infra/db"

	"github.com/google/uuid"
)

type SessionRepository struct {
	db db.DBTX
}

func NewSessionRepository(dbtx db.DBTX) *SessionRepository {
	return &SessionRepository{db: dbtx}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, user_id, resource_id, username, password, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, s.ResourceID, s.Username, s.Password, s.ExpiresAt, s.Revoked, s.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert session", err)
	}

	return nil
}

// Revoke flips the revoked flag on the caller's own session.
func (r *SessionRepository) Revoke(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sessions SET revoked = true
		WHERE id = $1 AND user_id = $2 AND NOT revoked`,
		id, userID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to revoke session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}

	return nil
}
