package ssv

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"rewardgate/internal/pkg/clock"
	"rewardgate/internal/pkg/errs"
)

var (
	errKeyFetchFailed = errs.New("failed to fetch verification keys")
	errKeyParseFailed = errs.New("failed to parse verification key")
)

// keyDocument is the network's published key format:
// {"keys":[{"keyId":number,"pem":string,"base64":string}]}.
type keyDocument struct {
	Keys []struct {
		KeyID  int64  `json:"keyId"`
		Pem    string `json:"pem"`
		Base64 string `json:"base64"`
	} `json:"keys"`
}

// KeyCache lazily fetches and memoizes the ad network's public verification
// keys by key id. With a zero TTL the first successful fetch is served for the
// process lifetime; Invalidate forces a refetch either way.
type KeyCache struct {
	client *http.Client
	url    string
	ttl    time.Duration
	clock  clock.Clock

	mu        sync.Mutex
	keys      map[int64]crypto.PublicKey
	fetchedAt time.Time
}

func NewKeyCache(client *http.Client, url string, ttl time.Duration, clk clock.Clock) *KeyCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &KeyCache{
		client: client,
		url:    url,
		ttl:    ttl,
		clock:  clk,
	}
}

// FetchKeys returns the current key set, fetching synchronously when the cache
// is empty or stale. A fetch failure is a hard error for the caller; no stale
// fallback is served.
func (c *KeyCache) FetchKeys(ctx context.Context) (map[int64]crypto.PublicKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.keys != nil && !c.stale() {
		return c.keys, nil
	}

	keys, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.keys = keys
	c.fetchedAt = c.clock.Now()
	return keys, nil
}

// Invalidate drops the cached key set; the next FetchKeys refetches.
func (c *KeyCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = nil
	c.fetchedAt = time.Time{}
}

func (c *KeyCache) stale() bool {
	if c.ttl <= 0 {
		return false
	}
	return c.clock.Now().Sub(c.fetchedAt) >= c.ttl
}

func (c *KeyCache) fetch(ctx context.Context) (map[int64]crypto.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errs.Mark(err, errKeyFetchFailed)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errs.Mark(err, errKeyFetchFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.Mark(
			errs.New(fmt.Sprintf("key endpoint returned status %d", resp.StatusCode)),
			errKeyFetchFailed,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errs.Mark(err, errKeyFetchFailed)
	}

	var doc keyDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errs.Mark(err, errKeyFetchFailed)
	}

	keys := make(map[int64]crypto.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		pub, err := parsePublicKey(k.Pem, k.Base64)
		if err != nil {
			return nil, errs.Wrap(errs.Mark(err, errKeyParseFailed), fmt.Sprintf("keyId %d", k.KeyID))
		}
		keys[k.KeyID] = pub
	}
	return keys, nil
}

// parsePublicKey prefers the PEM credential and falls back to the raw base64
// DER the document also carries.
func parsePublicKey(pemText, b64 string) (crypto.PublicKey, error) {
	var der []byte
	if pemText != "" {
		block, _ := pem.Decode([]byte(pemText))
		if block == nil {
			return nil, errs.New("no PEM block found")
		}
		der = block.Bytes
	} else {
		decoded, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, errs.Wrap(err, "invalid base64 key material")
		}
		der = decoded
	}

	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, errs.Wrap(err, "invalid public key DER")
	}

	switch pub.(type) {
	case *ecdsa.PublicKey, *rsa.PublicKey:
		return pub, nil
	default:
		return nil, errs.New("unsupported public key algorithm")
	}
}
