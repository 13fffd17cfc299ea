//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rewardgate/internal/domain/entitlement"
	"rewardgate/internal/infra"
	"rewardgate/internal/pkg/clock"
	"rewardgate/internal/ssv"
	"rewardgate/internal/usecase/commands"
	"rewardgate/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	valid bool
	err   error
}

func (f *fakeVerifier) Verify(_ context.Context, _ []byte, _ string, _ int64) (bool, error) {
	return f.valid, f.err
}

type fakeLedgerReads struct {
	processed map[string]bool
	err       error
}

func (f *fakeLedgerReads) Exists(_ context.Context, transactionID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.processed[transactionID], nil
}

type fakeGrantRepo struct {
	upserts []entitlement.Grant
	err     error
}

func (f *fakeGrantRepo) Upsert(_ context.Context, g entitlement.Grant) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, g)
	return nil
}

type fakeLedgerRepo struct {
	inserts []shared.ProcessedTransaction
	err     error
}

func (f *fakeLedgerRepo) Insert(_ context.Context, rec shared.ProcessedTransaction) error {
	if f.err != nil {
		return f.err
	}
	f.inserts = append(f.inserts, rec)
	return nil
}

type fakeTx struct {
	ledger *fakeLedgerRepo
	grants *fakeGrantRepo
}

func (f *fakeTx) Ledger() shared.LedgerRepository    { return f.ledger }
func (f *fakeTx) Grants() shared.GrantRepository     { return f.grants }
func (f *fakeTx) Sessions() shared.SessionRepository { return nil }

// fakeUoW runs the function directly; a returned error stands for a rollback.
type fakeUoW struct {
	tx *fakeTx
}

func (f *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, f.tx)
}

type callbackFixture struct {
	verifier    *fakeVerifier
	ledgerReads *fakeLedgerReads
	txLedger    *fakeLedgerRepo
	txGrants    *fakeGrantRepo
	directRepo  *fakeGrantRepo
	uc          commands.CallbackCommands
	now         time.Time
}

func newCallbackFixture() *callbackFixture {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &callbackFixture{
		verifier:    &fakeVerifier{valid: true},
		ledgerReads: &fakeLedgerReads{processed: map[string]bool{}},
		txLedger:    &fakeLedgerRepo{},
		txGrants:    &fakeGrantRepo{},
		directRepo:  &fakeGrantRepo{},
		now:         now,
	}
	uow := &fakeUoW{tx: &fakeTx{ledger: f.txLedger, grants: f.txGrants}}
	f.uc = commands.NewCallbackUseCase(f.verifier, f.ledgerReads, f.directRepo, uow, clock.NewMockClock(now))
	return f
}

const validQuery = "transaction_id=txn-1&user_id=u1&reward_amount=1&signature=c2ln&key_id=3335741209"

func TestProcessCallback_FreshDelivery(t *testing.T) {
	f := newCallbackFixture()

	result, err := f.uc.ProcessCallback(context.Background(), validQuery)
	require.NoError(t, err)

	assert.False(t, result.Replayed)
	assert.Equal(t, "u1", result.Grant.UserID)
	assert.Equal(t, entitlement.ResourceAll, result.Grant.ResourceID)
	assert.Equal(t, f.now.Add(entitlement.GrantDuration), result.Grant.ExpiresAt)

	require.Len(t, f.txLedger.inserts, 1)
	assert.Equal(t, "txn-1", f.txLedger.inserts[0].TransactionID)
	assert.Equal(t, validQuery, f.txLedger.inserts[0].RawParams)
	require.Len(t, f.txGrants.upserts, 1)
	assert.Empty(t, f.directRepo.upserts, "ledgered path must write through the transaction")
}

func TestProcessCallback_CustomDataIdentifiesUserAndServer(t *testing.T) {
	f := newCallbackFixture()
	query := "transaction_id=txn-2&custom_data=%7B%22uid%22%3A%22u9%22%2C%22sid%22%3A%22srv-7%22%7D&signature=c2ln&key_id=1"

	result, err := f.uc.ProcessCallback(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, "u9", result.Grant.UserID)
	assert.Equal(t, "srv-7", result.Grant.ResourceID)
	assert.False(t, result.Grant.IsUniversal())
}

func TestProcessCallback_ReplayedTransaction(t *testing.T) {
	f := newCallbackFixture()
	f.ledgerReads.processed["txn-1"] = true

	result, err := f.uc.ProcessCallback(context.Background(), validQuery)
	require.NoError(t, err)

	assert.True(t, result.Replayed)
	assert.Empty(t, f.txLedger.inserts)
	assert.Empty(t, f.txGrants.upserts)
}

func TestProcessCallback_ConcurrentDuplicateAbsorbed(t *testing.T) {
	f := newCallbackFixture()
	f.txLedger.err = infra.WrapRepoErr("transaction already recorded", errors.New("23505"), infra.KindDuplicateKey)

	result, err := f.uc.ProcessCallback(context.Background(), validQuery)
	require.NoError(t, err)

	assert.True(t, result.Replayed)
	assert.Empty(t, f.txGrants.upserts)
}

func TestProcessCallback_InvalidSignature(t *testing.T) {
	f := newCallbackFixture()
	f.verifier.valid = false

	_, err := f.uc.ProcessCallback(context.Background(), validQuery)
	require.ErrorIs(t, err, commands.ErrSignatureInvalid)

	assert.Empty(t, f.txLedger.inserts, "nothing may be written before verification passes")
	assert.Empty(t, f.txGrants.upserts)
	assert.Empty(t, f.directRepo.upserts)
}

func TestProcessCallback_UnknownKeyPassesThrough(t *testing.T) {
	f := newCallbackFixture()
	f.verifier.err = ssv.ErrKeyNotFound

	_, err := f.uc.ProcessCallback(context.Background(), validQuery)
	require.ErrorIs(t, err, ssv.ErrKeyNotFound)
}

func TestProcessCallback_KeyFetchFailure(t *testing.T) {
	f := newCallbackFixture()
	f.verifier.err = errors.New("keys endpoint unreachable")

	_, err := f.uc.ProcessCallback(context.Background(), validQuery)
	require.ErrorIs(t, err, commands.ErrKeySetUnavailable)
}

func TestProcessCallback_MissingTransactionIDSkipsLedger(t *testing.T) {
	f := newCallbackFixture()
	query := "user_id=u1&signature=c2ln&key_id=1"

	first, err := f.uc.ProcessCallback(context.Background(), query)
	require.NoError(t, err)
	second, err := f.uc.ProcessCallback(context.Background(), query)
	require.NoError(t, err)

	assert.False(t, first.Replayed)
	assert.False(t, second.Replayed)
	assert.Len(t, f.directRepo.upserts, 2, "unledgered deliveries apply every time")
	assert.Empty(t, f.txLedger.inserts)
}

func TestProcessCallback_ParseFailures(t *testing.T) {
	f := newCallbackFixture()

	tests := []struct {
		name    string
		query   string
		wantErr error
	}{
		{"no signature", "transaction_id=txn-1&user_id=u1&key_id=1", ssv.ErrMissingSignature},
		{"no key_id", "transaction_id=txn-1&user_id=u1&signature=c2ln", ssv.ErrMissingKeyID},
		{"no user", "transaction_id=txn-1&signature=c2ln&key_id=1", ssv.ErrNoUserIdentified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.ProcessCallback(context.Background(), tt.query)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.txLedger.inserts)
	assert.Empty(t, f.txGrants.upserts)
}

func TestProcessCallback_LedgerCheckFailure(t *testing.T) {
	f := newCallbackFixture()
	f.ledgerReads.err = infra.WrapRepoErr("ledger query failed", errors.New("timeout"))

	_, err := f.uc.ProcessCallback(context.Background(), validQuery)
	require.ErrorIs(t, err, commands.ErrGrantWriteFailed)
}
