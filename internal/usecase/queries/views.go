package queries

import (
	"rewardgate/internal/domain/user"

	"github.com/google/uuid"
)

// AuthorizedUserView is the source-of-truth user record the session and auth
// paths read.
type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Tier     user.Tier `json:"tier"`
	IsActive bool      `json:"isActive"`
}

// ServerView is the source-of-truth server record consulted before issuing a
// session. The connection payload is fetched separately; it never rides along
// on tier checks.
type ServerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Region      string `json:"region"`
	PremiumOnly bool   `json:"premiumOnly"`
	Disabled    bool   `json:"disabled"`
}
