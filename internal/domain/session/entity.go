package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lifetime is the fixed validity window of an issued session credential.
const Lifetime = time.Hour

var ErrMissingResource = errors.New("session requires a server id")

// Session is the ephemeral credential handed to a client after the tier and
// entitlement checks pass. It is written once at issue time; only an external
// revoke flips Revoked afterwards.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ResourceID string
	Username   string
	Password   string
	ExpiresAt  time.Time
	Revoked    bool
	CreatedAt  time.Time
}

func NewSession(userID uuid.UUID, resourceID, username, passwd string, now time.Time) (*Session, error) {
	if resourceID == "" {
		return nil, ErrMissingResource
	}
	return &Session{
		ID:         uuid.New(),
		UserID:     userID,
		ResourceID: resourceID,
		Username:   username,
		Password:   passwd,
		ExpiresAt:  now.Add(Lifetime),
		CreatedAt:  now,
	}, nil
}
