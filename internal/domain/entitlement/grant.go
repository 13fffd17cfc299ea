// Package entitlement models time-boxed access grants earned through rewarded
// ads. A grant authorizes one user to open one server (or every server, via the
// ALL sentinel) without holding the server's required tier.
package entitlement

import (
	"errors"
	"time"
)

// ResourceAll is the universal-grant sentinel: the grant applies to every
// server for the user.
const ResourceAll = "ALL"

// GrantDuration is the fixed window a single rewarded view buys. A repeat view
// resets the window (now + GrantDuration), it does not extend it.
const GrantDuration = time.Hour

var ErrMissingUserID = errors.New("grant requires a user id")

type Grant struct {
	UserID            string
	ResourceID        string
	GrantedAt         time.Time
	ExpiresAt         time.Time
	LastTransactionID string
}

// NewGrant builds the grant a verified callback produces. An empty resourceID
// collapses to the universal sentinel.
func NewGrant(userID, resourceID, transactionID string, now time.Time) (Grant, error) {
	if userID == "" {
		return Grant{}, ErrMissingUserID
	}
	if resourceID == "" {
		resourceID = ResourceAll
	}
	return Grant{
		UserID:            userID,
		ResourceID:        resourceID,
		GrantedAt:         now,
		ExpiresAt:         now.Add(GrantDuration),
		LastTransactionID: transactionID,
	}, nil
}

// Key is the storage key for the (user, resource) pair. At most one live
// record exists per key; a new grant overwrites the previous window.
func (g Grant) Key() string {
	return Key(g.UserID, g.ResourceID)
}

func Key(userID, resourceID string) string {
	return userID + "_" + resourceID
}

// ActiveAt reports whether the grant still authorizes access at the given
// instant. The comparison is strict: a grant expiring exactly now is dead.
func (g Grant) ActiveAt(now time.Time) bool {
	return g.ExpiresAt.After(now)
}

func (g Grant) IsUniversal() bool {
	return g.ResourceID == ResourceAll
}
