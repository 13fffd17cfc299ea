package response

import (
	"encoding/base64"

	"rewardgate/internal/usecase/commands"
)

type SessionResponse struct {
	SessionID         string `json:"session_id"`
	ConnectionPayload string `json:"connection_payload"`
	Username          string `json:"username"`
	Password          string `json:"password"`
	// Absolute expiry in epoch seconds, matching what VPN clients consume.
	ExpiresAt int64 `json:"expires_at"`
}

func FromIssueSessionResult(r *commands.IssueSessionResult) SessionResponse {
	return SessionResponse{
		SessionID:         r.SessionID.String(),
		ConnectionPayload: base64.StdEncoding.EncodeToString(r.ConnectionPayload),
		Username:          r.Username,
		Password:          r.Password,
		ExpiresAt:         r.ExpiresAt.Unix(),
	}
}
