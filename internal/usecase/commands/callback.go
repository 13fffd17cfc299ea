package commands

import (
	"context"
	"errors"
	"log/slog"

	"rewardgate/internal/domain/entitlement"
	"rewardgate/internal/infra"
	"rewardgate/internal/pkg/clock"
	"rewardgate/internal/pkg/errs"
	"rewardgate/internal/ssv"
	"rewardgate/internal/usecase/shared"
)

var (
	ErrSignatureInvalid  = errs.New("callback signature invalid")
	ErrKeySetUnavailable = errs.New("verification key set unavailable")
	ErrGrantWriteFailed  = errs.New("grant write failed")
)

type ProcessCallbackResult struct {
	Grant    entitlement.Grant
	Replayed bool
}

type LedgerReadStore interface {
	Exists(ctx context.Context, transactionID string) (bool, error)
}

// CallbackVerifier is the signature check over the canonical message.
type CallbackVerifier interface {
	Verify(ctx context.Context, message []byte, signature string, keyID int64) (bool, error)
}

type CallbackCommands interface {
	ProcessCallback(ctx context.Context, rawQuery string) (*ProcessCallbackResult, error)
}

type callbackUseCaseImpl struct {
	verifier    CallbackVerifier
	ledgerReads LedgerReadStore
	grantRepo   shared.GrantRepository
	uow         shared.UnitOfWork
	clock       clock.Clock
}

func NewCallbackUseCase(
	verifier CallbackVerifier,
	ledgerReads LedgerReadStore,
	grantRepo shared.GrantRepository,
	uow shared.UnitOfWork,
	clk clock.Clock,
) CallbackCommands {
	return &callbackUseCaseImpl{
		verifier:    verifier,
		ledgerReads: ledgerReads,
		grantRepo:   grantRepo,
		uow:         uow,
		clock:       clk,
	}
}

// ProcessCallback runs the whole write path for one delivery: parse, verify
// the detached signature, absorb replays, then apply the grant. Nothing is
// written before the signature check passes.
func (u *callbackUseCaseImpl) ProcessCallback(ctx context.Context, rawQuery string) (*ProcessCallbackResult, error) {
	params, err := ssv.ParseCallback(rawQuery)
	if err != nil {
		return nil, err
	}

	message := ssv.CanonicalMessage(rawQuery)
	valid, err := u.verifier.Verify(ctx, message, params.Signature, params.KeyID)
	if err != nil {
		if errors.Is(err, ssv.ErrKeyNotFound) {
			return nil, err
		}
		return nil, errs.Mark(err, ErrKeySetUnavailable)
	}
	if !valid {
		return nil, ErrSignatureInvalid
	}

	// Without a transaction id there is nothing to dedupe against: the grant
	// is applied unconditionally and repeats land again. Known gap, upstream's
	// to close.
	if params.TransactionID == "" {
		return u.applyUnledgered(ctx, params)
	}

	processed, err := u.ledgerReads.Exists(ctx, params.TransactionID)
	if err != nil {
		return nil, errs.Mark(err, ErrGrantWriteFailed)
	}
	if processed {
		return &ProcessCallbackResult{Replayed: true}, nil
	}

	return u.applyLedgered(ctx, params)
}

// applyLedgered writes the idempotency record and the grant in one
// transaction: a crash can leave both or neither, never a grant without its
// ledger entry.
func (u *callbackUseCaseImpl) applyLedgered(ctx context.Context, params ssv.CallbackParams) (*ProcessCallbackResult, error) {
	grant, err := entitlement.NewGrant(params.UserID, params.ResourceID, params.TransactionID, u.clock.Now())
	if err != nil {
		return nil, err
	}

	rec := shared.ProcessedTransaction{
		TransactionID: params.TransactionID,
		UserID:        params.UserID,
		ResourceID:    grant.ResourceID,
		ReceivedAt:    grant.GrantedAt,
		RawParams:     params.RawQuery,
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Ledger().Insert(ctx, rec); err != nil {
			return err
		}
		return tx.Grants().Upsert(ctx, grant)
	})
	if err != nil {
		// A concurrent delivery won the ledger insert: absorb as a replay.
		if infra.IsKind(err, infra.KindDuplicateKey) {
			slog.Info("duplicate callback absorbed",
				"transaction_id", params.TransactionID, "user_id", params.UserID)
			return &ProcessCallbackResult{Replayed: true}, nil
		}
		return nil, errs.Mark(err, ErrGrantWriteFailed)
	}

	return &ProcessCallbackResult{Grant: grant}, nil
}

func (u *callbackUseCaseImpl) applyUnledgered(ctx context.Context, params ssv.CallbackParams) (*ProcessCallbackResult, error) {
	grant, err := entitlement.NewGrant(params.UserID, params.ResourceID, "", u.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := u.grantRepo.Upsert(ctx, grant); err != nil {
		return nil, errs.Mark(err, ErrGrantWriteFailed)
	}

	return &ProcessCallbackResult{Grant: grant}, nil
}
