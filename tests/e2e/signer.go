//go:build e2e

package e2e

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// SSVSigner plays the ad network: it publishes a verification key document
// and signs callback queries the way the network's delivery agent does.
type SSVSigner struct {
	KeyID int64
	key   *ecdsa.PrivateKey
}

func NewSSVSigner(t *testing.T) *SSVSigner {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	return &SSVSigner{KeyID: 3335741209, key: key}
}

// KeyServer serves the JSON key document for this signer's key.
func (s *SSVSigner) KeyServer(t *testing.T) *httptest.Server {
	t.Helper()

	der, err := x509.MarshalPKIXPublicKey(&s.key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	doc := map[string]any{
		"keys": []map[string]any{
			{
				"keyId":  s.KeyID,
				"pem":    string(pemBytes),
				"base64": base64.StdEncoding.EncodeToString(der),
			},
		},
	}
	body, err := json.Marshal(doc)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Sign appends signature and key_id to a callback query. The signature covers
// the content exactly as passed, so callers control parameter order.
func (s *SSVSigner) Sign(t *testing.T, content string) string {
	t.Helper()

	digest := sha256.Sum256([]byte(content))
	sig, err := ecdsa.SignASN1(rand.Reader, s.key, digest[:])
	require.NoError(t, err)

	return fmt.Sprintf("%s&signature=%s&key_id=%d",
		content, base64.RawURLEncoding.EncodeToString(sig), s.KeyID)
}
