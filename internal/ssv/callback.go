package ssv

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
)

var (
	ErrMalformedQuery   = errors.New("malformed query string")
	ErrMissingSignature = errors.New("missing signature")
	ErrMissingKeyID     = errors.New("missing or malformed key_id")
	ErrNoUserIdentified = errors.New("no user identified")
)

// CallbackParams is everything the write path needs from a verified-reward
// callback: the authentication material plus the identification fields.
type CallbackParams struct {
	Signature     string
	KeyID         int64
	TransactionID string
	UserID        string
	ResourceID    string
	RawQuery      string
}

// customData is the URL-encoded JSON the client app attaches when requesting
// the ad: the user watching and, optionally, the server being unlocked.
type customData struct {
	UID string `json:"uid"`
	SID string `json:"sid"`
}

// ParseCallback extracts and validates callback parameters. The user is
// identified from custom_data first; when that is absent or unparsable the
// user_id parameter is the fallback. No user from either source is a client
// error, not a verification failure.
func ParseCallback(rawQuery string) (CallbackParams, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return CallbackParams{}, ErrMalformedQuery
	}

	p := CallbackParams{
		Signature:     values.Get(ParamSignature),
		TransactionID: values.Get("transaction_id"),
		RawQuery:      rawQuery,
	}
	if p.Signature == "" {
		return CallbackParams{}, ErrMissingSignature
	}

	// Published key ids exceed 32 bits.
	keyID, err := strconv.ParseInt(values.Get(ParamKeyID), 10, 64)
	if err != nil {
		return CallbackParams{}, ErrMissingKeyID
	}
	p.KeyID = keyID

	p.UserID, p.ResourceID = identifyUser(values)
	if p.UserID == "" {
		return CallbackParams{}, ErrNoUserIdentified
	}

	return p, nil
}

func identifyUser(values url.Values) (userID, resourceID string) {
	// values.Get already URL-decoded the parameter once; the payload inside is
	// plain JSON.
	if raw := values.Get("custom_data"); raw != "" {
		var cd customData
		if err := json.Unmarshal([]byte(raw), &cd); err == nil && cd.UID != "" {
			return cd.UID, cd.SID
		}
	}
	return values.Get("user_id"), ""
}
