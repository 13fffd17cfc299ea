package ssv

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrKeyNotFound means the callback named a key id the network's published set
// does not contain. Callers must keep this distinguishable from an invalid
// signature (client error vs authorization error).
var ErrKeyNotFound = errors.New("verification key not found")

var webSafeReplacer = strings.NewReplacer("-", "+", "_", "/")

// Verifier validates a callback's detached signature against the cached key
// set using the canonical message.
type Verifier struct {
	keys *KeyCache
}

func NewVerifier(keys *KeyCache) *Verifier {
	return &Verifier{keys: keys}
}

// Verify reports whether signature is a valid signature over message by the
// key named keyID. A merely-invalid or malformed signature returns (false,
// nil); errors are reserved for key lookup and transport failures.
func (v *Verifier) Verify(ctx context.Context, message []byte, signature string, keyID int64) (bool, error) {
	keys, err := v.keys.FetchKeys(ctx)
	if err != nil {
		return false, err
	}

	key, ok := keys[keyID]
	if !ok {
		return false, ErrKeyNotFound
	}

	sig, err := decodeWebSafeBase64(signature)
	if err != nil {
		return false, nil
	}

	digest := sha256.Sum256(message)

	switch k := key.(type) {
	case *ecdsa.PublicKey:
		return ecdsa.VerifyASN1(k, digest[:], sig), nil
	case *rsa.PublicKey:
		return rsa.VerifyPKCS1v15(k, crypto.SHA256, digest[:], sig) == nil, nil
	default:
		return false, nil
	}
}

// decodeWebSafeBase64 translates the network's web-safe alphabet back to the
// standard one and decodes. Padding is taken as delivered; nothing is repaired.
func decodeWebSafeBase64(s string) ([]byte, error) {
	translated := webSafeReplacer.Replace(s)
	if strings.HasSuffix(translated, "=") {
		return base64.StdEncoding.DecodeString(translated)
	}
	return base64.RawStdEncoding.DecodeString(translated)
}
