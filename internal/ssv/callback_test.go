//go:build unit

package ssv_test

import (
	"net/url"
	"testing"

	"rewardgate/internal/ssv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	t.Run("custom_data identifies user and server", func(t *testing.T) {
		cd := url.QueryEscape(`{"uid":"user-1","sid":"srv-tokyo-1"}`)
		raw := "custom_data=" + cd + "&transaction_id=txn-1&signature=c2ln&key_id=5"

		p, err := ssv.ParseCallback(raw)
		require.NoError(t, err)
		assert.Equal(t, "user-1", p.UserID)
		assert.Equal(t, "srv-tokyo-1", p.ResourceID)
		assert.Equal(t, "txn-1", p.TransactionID)
		assert.Equal(t, "c2ln", p.Signature)
		assert.Equal(t, int64(5), p.KeyID)
		assert.Equal(t, raw, p.RawQuery)
	})

	t.Run("custom_data without sid leaves resource empty", func(t *testing.T) {
		cd := url.QueryEscape(`{"uid":"user-1"}`)
		p, err := ssv.ParseCallback("custom_data=" + cd + "&signature=c2ln&key_id=5")
		require.NoError(t, err)
		assert.Equal(t, "user-1", p.UserID)
		assert.Empty(t, p.ResourceID)
	})

	t.Run("falls back to user_id when custom_data is unparsable", func(t *testing.T) {
		p, err := ssv.ParseCallback("custom_data=notjson&user_id=user-2&signature=c2ln&key_id=5")
		require.NoError(t, err)
		assert.Equal(t, "user-2", p.UserID)
		assert.Empty(t, p.ResourceID)
	})

	t.Run("falls back to user_id when custom_data is absent", func(t *testing.T) {
		p, err := ssv.ParseCallback("user_id=user-3&signature=c2ln&key_id=5")
		require.NoError(t, err)
		assert.Equal(t, "user-3", p.UserID)
	})

	t.Run("no user from either source", func(t *testing.T) {
		_, err := ssv.ParseCallback("signature=c2ln&key_id=5&reward_amount=1")
		assert.ErrorIs(t, err, ssv.ErrNoUserIdentified)
	})

	t.Run("broken percent-escape is malformed, not missing-signature", func(t *testing.T) {
		_, err := ssv.ParseCallback("user_id=%zz&signature=c2ln&key_id=5")
		assert.ErrorIs(t, err, ssv.ErrMalformedQuery)
	})

	t.Run("key_id beyond 32 bits parses", func(t *testing.T) {
		p, err := ssv.ParseCallback("user_id=user-1&signature=c2ln&key_id=3335741209")
		require.NoError(t, err)
		assert.Equal(t, int64(3335741209), p.KeyID)
	})

	t.Run("missing signature", func(t *testing.T) {
		_, err := ssv.ParseCallback("user_id=user-1&key_id=5")
		assert.ErrorIs(t, err, ssv.ErrMissingSignature)
	})

	t.Run("missing key_id", func(t *testing.T) {
		_, err := ssv.ParseCallback("user_id=user-1&signature=c2ln")
		assert.ErrorIs(t, err, ssv.ErrMissingKeyID)
	})

	t.Run("non-integer key_id", func(t *testing.T) {
		_, err := ssv.ParseCallback("user_id=user-1&signature=c2ln&key_id=abc")
		assert.ErrorIs(t, err, ssv.ErrMissingKeyID)
	})

	t.Run("missing transaction_id is tolerated", func(t *testing.T) {
		p, err := ssv.ParseCallback("user_id=user-1&signature=c2ln&key_id=5")
		require.NoError(t, err)
		assert.Empty(t, p.TransactionID)
	})
}
