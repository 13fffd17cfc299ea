package queries

import (
	"context"
	"time"

	"rewardgate/internal/domain/entitlement"
	"rewardgate/internal/infra"
	"rewardgate/internal/pkg/errs"
)

var ErrEntitlementQueryFailed = errs.New("entitlement query failed")

type GrantReadStore interface {
	Find(ctx context.Context, userID, resourceID string) (*entitlement.Grant, error)
}

// EntitlementQueries decides whether a user currently holds a live reward
// grant for a resource.
type EntitlementQueries interface {
	HasAccess(ctx context.Context, userID, resourceID string, now time.Time) (bool, error)
}

type entitlementQueriesImpl struct {
	grants GrantReadStore
}

func NewEntitlementQueries(grants GrantReadStore) EntitlementQueries {
	return &entitlementQueriesImpl{grants: grants}
}

// HasAccess checks the resource-specific grant first, then the universal one;
// the first live grant wins. Read-only: expired grants are left in place, the
// strict expiry comparison at read time is what retires them.
func (q *entitlementQueriesImpl) HasAccess(ctx context.Context, userID, resourceID string, now time.Time) (bool, error) {
	ok, err := q.activeGrant(ctx, userID, resourceID, now)
	if err != nil || ok {
		return ok, err
	}

	if resourceID == entitlement.ResourceAll {
		return false, nil
	}
	return q.activeGrant(ctx, userID, entitlement.ResourceAll, now)
}

func (q *entitlementQueriesImpl) activeGrant(ctx context.Context, userID, resourceID string, now time.Time) (bool, error) {
	grant, err := q.grants.Find(ctx, userID, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil
		}
		return false, errs.Mark(err, ErrEntitlementQueryFailed)
	}

	return grant.ActiveAt(now), nil
}
