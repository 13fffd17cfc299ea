package api

import (
	"errors"
	"net/http"

	reqdto "rewardgate/internal/handler/dto/request"
	resdto "rewardgate/internal/handler/dto/response"
	"rewardgate/internal/handler/middleware"
	"rewardgate/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessions commands.SessionCommands
}

func NewSessionHandler(sessions commands.SessionCommands) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

// @Summary Issue session
// @Description Issue connection credentials for a server
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSessionRequest true "Session request"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.sessions.IssueSession(c.Request.Context(), userID, req.ServerID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		case errors.Is(err, commands.ErrServerNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Server not found",
			})
		case errors.Is(err, commands.ErrServerDisabled):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Server is disabled",
			})
		case errors.Is(err, commands.ErrPremiumRequired):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Premium subscription or active reward required",
			})
		case errors.Is(err, commands.ErrPayloadUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Server configuration unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromIssueSessionResult(result))
}

// @Summary Revoke session
// @Description Revoke one of the caller's active sessions
// @Tags sessions
// @Security BearerAuth
// @Param id path string true "Session id"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [delete]
func (h *SessionHandler) RevokeSession(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session id",
		})
		return
	}

	if err := h.sessions.RevokeSession(c.Request.Context(), sessionID, userID); err != nil {
		switch {
		case errors.Is(err, commands.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
