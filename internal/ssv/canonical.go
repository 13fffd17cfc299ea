// Package ssv implements server-side verification of rewarded-ad callbacks:
// reconstructing the signed message from the callback's own query parameters,
// caching the ad network's published verification keys, and checking the
// detached signature.
package ssv

import (
	"net/url"
	"strings"
)

// Reserved query parameters. They authenticate the callback and are excluded
// from the signed message.
const (
	ParamSignature = "signature"
	ParamKeyID     = "key_id"
)

// CanonicalMessage rebuilds the exact byte sequence the ad network signed: the
// callback's query parameters, in the order they arrived, minus the two
// reserved parameters, re-joined as key=value&key=value.
//
// Pairs are kept byte-for-byte as received. Re-encoding through url.Values
// would both lose ordering and risk normalizing percent-escapes differently
// from the signer; either silently fails verification.
func CanonicalMessage(rawQuery string) []byte {
	if rawQuery == "" {
		return nil
	}

	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		// Identify reserved keys with the same decoding the parameter parser
		// applies when reading them.
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if key == ParamSignature || key == ParamKeyID {
			continue
		}
		kept = append(kept, pair)
	}

	if len(kept) == 0 {
		return nil
	}
	return []byte(strings.Join(kept, "&"))
}
