package api

import (
	"errors"
	"log/slog"
	"net/http"

	resdto "rewardgate/internal/handler/dto/response"
	"rewardgate/internal/pkg/errs"
	"rewardgate/internal/ssv"
	"rewardgate/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CallbackHandler struct {
	callbacks commands.CallbackCommands
}

func NewCallbackHandler(callbacks commands.CallbackCommands) *CallbackHandler {
	return &CallbackHandler{
		callbacks: callbacks,
	}
}

// @Summary Reward callback
// @Description Server-side verification callback from the ad network
// @Tags ssv
// @Produce json
// @Param signature query string true "Web-safe base64 detached signature"
// @Param key_id query int true "Verification key id"
// @Success 200 {object} resdto.CallbackSuccess
// @Failure 400 {object} resdto.CallbackError
// @Failure 403 {object} resdto.CallbackError
// @Failure 500 {object} resdto.CallbackError
// @Router /ssv/callback [get]
func (h *CallbackHandler) HandleCallback(c *gin.Context) {
	result, err := h.callbacks.ProcessCallback(c.Request.Context(), c.Request.URL.RawQuery)
	if err != nil {
		switch {
		case errors.Is(err, ssv.ErrMalformedQuery):
			c.JSON(http.StatusBadRequest, resdto.CallbackError{Error: "Malformed query string"})
		case errors.Is(err, ssv.ErrMissingSignature):
			c.JSON(http.StatusBadRequest, resdto.CallbackError{Error: "Missing signature"})
		case errors.Is(err, ssv.ErrMissingKeyID):
			c.JSON(http.StatusBadRequest, resdto.CallbackError{Error: "Missing or malformed key_id"})
		case errors.Is(err, ssv.ErrNoUserIdentified):
			c.JSON(http.StatusBadRequest, resdto.CallbackError{Error: "No user identified"})
		case errors.Is(err, ssv.ErrKeyNotFound):
			c.JSON(http.StatusBadRequest, resdto.CallbackError{Error: "Unknown key_id"})
		case errors.Is(err, commands.ErrSignatureInvalid):
			c.JSON(http.StatusForbidden, resdto.CallbackError{Error: "Invalid signature"})
		default:
			slog.Error("callback processing failed",
				"error", err.Error(),
				"stack", errs.ExtractStackLines(err, 5))
			c.JSON(http.StatusInternalServerError, resdto.CallbackError{Error: "Internal server error"})
		}
		return
	}

	if result.Replayed {
		c.JSON(http.StatusOK, resdto.CallbackReplay{Message: "Transaction already processed"})
		return
	}
	c.JSON(http.StatusOK, resdto.CallbackSuccess{Success: true})
}
