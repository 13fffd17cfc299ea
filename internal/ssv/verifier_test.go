//go:build unit

package ssv_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rewardgate/internal/pkg/clock"
	"rewardgate/internal/ssv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signingFixture is an in-test stand-in for the ad network: a generated ECDSA
// key pair, a key endpoint serving the public half, and a signer.
type signingFixture struct {
	priv    *ecdsa.PrivateKey
	keyID   int64
	srv     *httptest.Server
	cache   *ssv.KeyCache
	verif   *ssv.Verifier
	clockMk *clock.MockClock
}

func newSigningFixture(t *testing.T, ttl time.Duration) *signingFixture {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pemText := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	const keyID = 3335741209
	doc := map[string]any{
		"keys": []map[string]any{
			{"keyId": keyID, "pem": pemText, "base64": base64.StdEncoding.EncodeToString(der)},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)

	mk := clock.NewMockClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	cache := ssv.NewKeyCache(srv.Client(), srv.URL, ttl, mk)

	return &signingFixture{
		priv:    priv,
		keyID:   keyID,
		srv:     srv,
		cache:   cache,
		verif:   ssv.NewVerifier(cache),
		clockMk: mk,
	}
}

// sign produces a web-safe base64 signature the way the network delivers it.
func (f *signingFixture) sign(t *testing.T, message []byte) string {
	t.Helper()
	digest := sha256.Sum256(message)
	sig, err := ecdsa.SignASN1(rand.Reader, f.priv, digest[:])
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(sig)
}

func TestVerifierVerify(t *testing.T) {
	ctx := context.Background()
	f := newSigningFixture(t, 0)
	message := ssv.CanonicalMessage("ad_network=1&reward_amount=1&signature=placeholder&key_id=1")

	t.Run("valid signature", func(t *testing.T) {
		sig := f.sign(t, message)
		ok, err := f.verif.Verify(ctx, message, sig, f.keyID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("tampered signature is invalid, not an error", func(t *testing.T) {
		sig := f.sign(t, message)
		tampered := []byte(sig)
		if tampered[0] == 'A' {
			tampered[0] = 'B'
		} else {
			tampered[0] = 'A'
		}
		ok, err := f.verif.Verify(ctx, message, string(tampered), f.keyID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("signature over a different message is invalid", func(t *testing.T) {
		sig := f.sign(t, []byte("something=else"))
		ok, err := f.verif.Verify(ctx, message, sig, f.keyID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed base64 is invalid, not an error", func(t *testing.T) {
		ok, err := f.verif.Verify(ctx, message, "!!!not-base64!!!", f.keyID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown key id is a distinguishable error", func(t *testing.T) {
		sig := f.sign(t, message)
		ok, err := f.verif.Verify(ctx, message, sig, 42)
		assert.ErrorIs(t, err, ssv.ErrKeyNotFound)
		assert.False(t, ok)
	})

	t.Run("padded std-alphabet signature also decodes", func(t *testing.T) {
		digest := sha256.Sum256(message)
		raw, err := ecdsa.SignASN1(rand.Reader, f.priv, digest[:])
		require.NoError(t, err)
		sig := base64.StdEncoding.EncodeToString(raw)

		ok, err := f.verif.Verify(ctx, message, sig, f.keyID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestVerifierKeyFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	cache := ssv.NewKeyCache(srv.Client(), srv.URL, 0, clock.NewRealClock())
	verif := ssv.NewVerifier(cache)

	ok, err := verif.Verify(context.Background(), []byte("a=1"), "c2ln", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ssv.ErrKeyNotFound)
	assert.False(t, ok)
}
