package commands

import (
	"context"
	"time"

	"rewardgate/internal/domain/session"
	"rewardgate/internal/infra"
	"rewardgate/internal/pkg/clock"
	"rewardgate/internal/pkg/creds"
	"rewardgate/internal/pkg/errs"
	"rewardgate/internal/usecase/queries"
	"rewardgate/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errs.New("user not found")
	ErrServerNotFound     = errs.New("server not found")
	ErrServerDisabled     = errs.New("server disabled")
	ErrPremiumRequired    = errs.New("premium required")
	ErrPayloadUnavailable = errs.New("connection payload unavailable")
	ErrSessionWriteFailed = errs.New("session write failed")
	ErrSessionNotFound    = errs.New("session not found")
)

type IssueSessionResult struct {
	SessionID         uuid.UUID
	ConnectionPayload []byte
	Username          string
	Password          string
	ExpiresAt         time.Time
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error)
}

type ServerReadStore interface {
	FindByID(ctx context.Context, id string) (*queries.ServerView, error)
	FetchPayload(ctx context.Context, id string) ([]byte, error)
}

type SessionCommands interface {
	IssueSession(ctx context.Context, userID uuid.UUID, resourceID string) (*IssueSessionResult, error)
	RevokeSession(ctx context.Context, sessionID, userID uuid.UUID) error
}

type sessionUseCaseImpl struct {
	userReads    UserReadStore
	serverReads  ServerReadStore
	entitlements queries.EntitlementQueries
	sessionRepo  shared.SessionRepository
	clock        clock.Clock
}

func NewSessionUseCase(
	userReads UserReadStore,
	serverReads ServerReadStore,
	entitlements queries.EntitlementQueries,
	sessionRepo shared.SessionRepository,
	clk clock.Clock,
) SessionCommands {
	return &sessionUseCaseImpl{
		userReads:    userReads,
		serverReads:  serverReads,
		entitlements: entitlements,
		sessionRepo:  sessionRepo,
		clock:        clk,
	}
}

// IssueSession walks the issuance state machine. Steps up to the final mint
// perform no writes; a failure anywhere is terminal for the request and leaves
// no partial session behind.
func (u *sessionUseCaseImpl) IssueSession(ctx context.Context, userID uuid.UUID, resourceID string) (*IssueSessionResult, error) {
	userView, err := u.userReads.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Mark(err, ErrSessionWriteFailed)
	}

	serverView, err := u.serverReads.FindByID(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServerNotFound
		}
		return nil, errs.Mark(err, ErrSessionWriteFailed)
	}
	if serverView.Disabled {
		return nil, ErrServerDisabled
	}

	// The entitlement resolver is consulted only when the tier gate would
	// otherwise reject; paid users never touch grant storage.
	if serverView.PremiumOnly && !userView.Tier.IsPaid() {
		granted, err := u.entitlements.HasAccess(ctx, userID.String(), resourceID, u.clock.Now())
		if err != nil {
			return nil, errs.Mark(err, ErrSessionWriteFailed)
		}
		if !granted {
			return nil, ErrPremiumRequired
		}
	}

	payload, err := u.serverReads.FetchPayload(ctx, resourceID)
	if err != nil {
		return nil, errs.Mark(err, ErrPayloadUnavailable)
	}

	return u.mintSession(ctx, userID, resourceID, payload)
}

func (u *sessionUseCaseImpl) mintSession(ctx context.Context, userID uuid.UUID, resourceID string, payload []byte) (*IssueSessionResult, error) {
	username, err := creds.NewUsername()
	if err != nil {
		return nil, errs.Mark(err, ErrSessionWriteFailed)
	}
	passwd, err := creds.NewPassword()
	if err != nil {
		return nil, errs.Mark(err, ErrSessionWriteFailed)
	}

	sess, err := session.NewSession(userID, resourceID, username, passwd, u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrSessionWriteFailed)
	}

	if err := u.sessionRepo.Create(ctx, sess); err != nil {
		return nil, errs.Mark(err, ErrSessionWriteFailed)
	}

	return &IssueSessionResult{
		SessionID:         sess.ID,
		ConnectionPayload: payload,
		Username:          sess.Username,
		Password:          sess.Password,
		ExpiresAt:         sess.ExpiresAt,
	}, nil
}

func (u *sessionUseCaseImpl) RevokeSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	err := u.sessionRepo.Revoke(ctx, sessionID, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrSessionNotFound
		}
		return errs.Mark(err, ErrSessionWriteFailed)
	}
	return nil
}
