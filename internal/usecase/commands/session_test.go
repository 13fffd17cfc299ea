//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rewardgate/internal/domain/session"
	"rewardgate/internal/domain/user"
	"rewardgate/internal/infra"
	"rewardgate/internal/pkg/clock"
	"rewardgate/internal/usecase/commands"
	"rewardgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserReads struct {
	users map[uuid.UUID]*queries.AuthorizedUserView
}

func (f *fakeUserReads) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return u, nil
}

type fakeServerReads struct {
	servers  map[string]*queries.ServerView
	payloads map[string][]byte
}

func (f *fakeServerReads) FindByID(_ context.Context, id string) (*queries.ServerView, error) {
	s, ok := f.servers[id]
	if !ok {
		return nil, infra.WrapRepoErr("server not found", nil, infra.KindNotFound)
	}
	return s, nil
}

func (f *fakeServerReads) FetchPayload(_ context.Context, id string) ([]byte, error) {
	p, ok := f.payloads[id]
	if !ok {
		return nil, infra.WrapRepoErr("connection payload missing", nil, infra.KindNotFound)
	}
	return p, nil
}

type fakeEntitlements struct {
	granted bool
	err     error
	calls   int
}

func (f *fakeEntitlements) HasAccess(_ context.Context, _, _ string, _ time.Time) (bool, error) {
	f.calls++
	return f.granted, f.err
}

type fakeSessionWrites struct {
	created []*session.Session
	revoked []uuid.UUID
	err     error
}

func (f *fakeSessionWrites) Create(_ context.Context, s *session.Session) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSessionWrites) Revoke(_ context.Context, id, _ uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.revoked = append(f.revoked, id)
	return nil
}

type sessionFixture struct {
	userID       uuid.UUID
	userReads    *fakeUserReads
	serverReads  *fakeServerReads
	entitlements *fakeEntitlements
	sessionRepo  *fakeSessionWrites
	uc           commands.SessionCommands
	now          time.Time
}

func newSessionFixture(tier user.Tier) *sessionFixture {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	f := &sessionFixture{
		userID: userID,
		userReads: &fakeUserReads{users: map[uuid.UUID]*queries.AuthorizedUserView{
			userID: {ID: userID, Email: "user@example.com", Tier: tier, IsActive: true},
		}},
		serverReads: &fakeServerReads{
			servers: map[string]*queries.ServerView{
				"srv-free":     {ID: "srv-free", Name: "Tokyo 1", Region: "ap-northeast", PremiumOnly: false},
				"srv-premium":  {ID: "srv-premium", Name: "Tokyo 2", Region: "ap-northeast", PremiumOnly: true},
				"srv-disabled": {ID: "srv-disabled", Name: "Osaka 1", Region: "ap-west", Disabled: true},
			},
			payloads: map[string][]byte{
				"srv-free":    []byte("free-config"),
				"srv-premium": []byte("premium-config"),
			},
		},
		entitlements: &fakeEntitlements{},
		sessionRepo:  &fakeSessionWrites{},
		now:          now,
	}
	f.uc = commands.NewSessionUseCase(f.userReads, f.serverReads, f.entitlements, f.sessionRepo, clock.NewMockClock(now))
	return f
}

func TestIssueSession_FreeServer(t *testing.T) {
	f := newSessionFixture(user.TierFree)

	result, err := f.uc.IssueSession(context.Background(), f.userID, "srv-free")
	require.NoError(t, err)

	assert.Equal(t, []byte("free-config"), result.ConnectionPayload)
	assert.NotEmpty(t, result.Username)
	assert.NotEmpty(t, result.Password)
	assert.Equal(t, f.now.Add(session.Lifetime), result.ExpiresAt)
	require.Len(t, f.sessionRepo.created, 1)
	assert.Equal(t, 0, f.entitlements.calls, "free servers never consult the entitlement resolver")
}

func TestIssueSession_PremiumServerWithPaidTier(t *testing.T) {
	f := newSessionFixture(user.TierPremium)

	result, err := f.uc.IssueSession(context.Background(), f.userID, "srv-premium")
	require.NoError(t, err)

	assert.Equal(t, []byte("premium-config"), result.ConnectionPayload)
	assert.Equal(t, 0, f.entitlements.calls, "paid users never touch grant storage")
}

func TestIssueSession_PremiumServerWithGrant(t *testing.T) {
	f := newSessionFixture(user.TierFree)
	f.entitlements.granted = true

	result, err := f.uc.IssueSession(context.Background(), f.userID, "srv-premium")
	require.NoError(t, err)

	assert.NotNil(t, result)
	assert.Equal(t, 1, f.entitlements.calls)
}

func TestIssueSession_PremiumServerWithoutGrant(t *testing.T) {
	f := newSessionFixture(user.TierFree)

	_, err := f.uc.IssueSession(context.Background(), f.userID, "srv-premium")
	require.ErrorIs(t, err, commands.ErrPremiumRequired)
	assert.Empty(t, f.sessionRepo.created)
}

func TestIssueSession_UnknownUser(t *testing.T) {
	f := newSessionFixture(user.TierFree)

	_, err := f.uc.IssueSession(context.Background(), uuid.New(), "srv-free")
	require.ErrorIs(t, err, commands.ErrUserNotFound)
}

func TestIssueSession_UnknownServer(t *testing.T) {
	f := newSessionFixture(user.TierFree)

	_, err := f.uc.IssueSession(context.Background(), f.userID, "srv-nope")
	require.ErrorIs(t, err, commands.ErrServerNotFound)
}

func TestIssueSession_DisabledServer(t *testing.T) {
	f := newSessionFixture(user.TierPremium)

	_, err := f.uc.IssueSession(context.Background(), f.userID, "srv-disabled")
	require.ErrorIs(t, err, commands.ErrServerDisabled)
}

func TestIssueSession_DisabledWinsOverTierGate(t *testing.T) {
	f := newSessionFixture(user.TierFree)
	f.serverReads.servers["srv-disabled"].PremiumOnly = true

	_, err := f.uc.IssueSession(context.Background(), f.userID, "srv-disabled")
	require.ErrorIs(t, err, commands.ErrServerDisabled)
	assert.Equal(t, 0, f.entitlements.calls)
}

func TestIssueSession_MissingPayload(t *testing.T) {
	f := newSessionFixture(user.TierFree)
	delete(f.serverReads.payloads, "srv-free")

	_, err := f.uc.IssueSession(context.Background(), f.userID, "srv-free")
	require.ErrorIs(t, err, commands.ErrPayloadUnavailable)
	assert.Empty(t, f.sessionRepo.created)
}

func TestIssueSession_EntitlementQueryFailure(t *testing.T) {
	f := newSessionFixture(user.TierFree)
	f.entitlements.err = errors.New("grant store down")

	_, err := f.uc.IssueSession(context.Background(), f.userID, "srv-premium")
	require.Error(t, err)
	assert.NotErrorIs(t, err, commands.ErrPremiumRequired)
}

func TestIssueSession_SessionWriteFailure(t *testing.T) {
	f := newSessionFixture(user.TierFree)
	f.sessionRepo.err = infra.WrapRepoErr("insert failed", errors.New("timeout"))

	_, err := f.uc.IssueSession(context.Background(), f.userID, "srv-free")
	require.ErrorIs(t, err, commands.ErrSessionWriteFailed)
}

func TestRevokeSession(t *testing.T) {
	f := newSessionFixture(user.TierFree)
	sessionID := uuid.New()

	require.NoError(t, f.uc.RevokeSession(context.Background(), sessionID, f.userID))
	assert.Equal(t, []uuid.UUID{sessionID}, f.sessionRepo.revoked)
}

func TestRevokeSession_NotFound(t *testing.T) {
	f := newSessionFixture(user.TierFree)
	f.sessionRepo.err = infra.WrapRepoErr("session not found", nil, infra.KindNotFound)

	err := f.uc.RevokeSession(context.Background(), uuid.New(), f.userID)
	require.ErrorIs(t, err, commands.ErrSessionNotFound)
}
