// Package shared holds the write-side ports the unit of work hands to command
// usecases. Read-side ports are declared where they are consumed.
package shared

import (
	"context"
	"time"

	"rewardgate/internal/domain/entitlement"
	"rewardgate/internal/domain/session"

	"github.com/google/uuid"
)

// ProcessedTransaction is the idempotency-ledger record: existence alone marks
// the transaction id as already handled.
type ProcessedTransaction struct {
	TransactionID string
	UserID        string
	ResourceID    string
	ReceivedAt    time.Time
	RawParams     string
}

type LedgerRepository interface {
	Insert(ctx context.Context, rec ProcessedTransaction) error
}

type GrantRepository interface {
	Upsert(ctx context.Context, g entitlement.Grant) error
}

type SessionRepository interface {
	Create(ctx context.Context, s *session.Session) error
	Revoke(ctx context.Context, id, userID uuid.UUID) error
}

// Tx exposes transaction-bound repositories. Everything called through one Tx
// commits or rolls back as a unit.
type Tx interface {
	Ledger() LedgerRepository
	Grants() GrantRepository
	Sessions() SessionRepository
}

type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
