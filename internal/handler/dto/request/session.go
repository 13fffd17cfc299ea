package request

type CreateSessionRequest struct {
	ServerID string `json:"server_id" binding:"required"`
}
