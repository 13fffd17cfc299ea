//go:build unit

package entitlement_test

import (
	"testing"
	"time"

	"rewardgate/internal/domain/entitlement"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrant(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("builds a server-scoped grant", func(t *testing.T) {
		g, err := entitlement.NewGrant("user-1", "srv-tokyo-1", "txn-42", now)
		require.NoError(t, err)

		expected := entitlement.Grant{
			UserID:            "user-1",
			ResourceID:        "srv-tokyo-1",
			GrantedAt:         now,
			ExpiresAt:         now.Add(time.Hour),
			LastTransactionID: "txn-42",
		}
		if diff := cmp.Diff(expected, g); diff != "" {
			t.Errorf("Grant mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, "user-1_srv-tokyo-1", g.Key())
		assert.False(t, g.IsUniversal())
	})

	t.Run("empty resource collapses to the ALL sentinel", func(t *testing.T) {
		g, err := entitlement.NewGrant("user-1", "", "", now)
		require.NoError(t, err)
		assert.Equal(t, entitlement.ResourceAll, g.ResourceID)
		assert.Equal(t, "user-1_ALL", g.Key())
		assert.True(t, g.IsUniversal())
	})

	t.Run("missing user id is rejected", func(t *testing.T) {
		_, err := entitlement.NewGrant("", "srv-tokyo-1", "txn-1", now)
		assert.ErrorIs(t, err, entitlement.ErrMissingUserID)
	})
}

func TestGrantActiveAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g, err := entitlement.NewGrant("user-1", "srv-1", "txn-1", now)
	require.NoError(t, err)

	assert.True(t, g.ActiveAt(now), "freshly granted")
	assert.True(t, g.ActiveAt(now.Add(time.Hour-time.Nanosecond)), "just inside the window")
	assert.False(t, g.ActiveAt(now.Add(time.Hour)), "exact expiry instant is not valid")
	assert.False(t, g.ActiveAt(now.Add(2*time.Hour)), "past expiry")
}
