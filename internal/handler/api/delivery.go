package api

import (
	"errors"
	"net/http"

	reqdto "ticket-gate/internal/handler/dto/request"
	"ticket-gate/internal/handler/httperr"
	resdto "ticket-gate/internal/handler/dto/response"
	"ticket-gate/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	delivery commands.DeliveryCommands
}

func NewDeliveryHandler(delivery commands.DeliveryCommands) *DeliveryHandler {
	return &DeliveryHandler{
		delivery: delivery,
	}
}

// @Summary Dispatch pending notifications
// @Description Send the notification for every pending ticket of a recipient
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body reqdto.DispatchRequest true "Recipient"
// @Success 200 {object} resdto.DispatchResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /tickets/dispatch [post]
func (h *DeliveryHandler) Dispatch(c *gin.Context) {
	var req reqdto.DispatchRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	sent, err := h.delivery.DispatchPending(c.Request.Context(), req.GetEmail())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDispatchInProgress):
			httperr.AbortWithError(c, http.StatusConflict, err, "Dispatch already in progress for this recipient", nil)
		case errors.Is(err, commands.ErrDeliveryFailure):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "Notification delivery failed", nil)
		case errors.Is(err, commands.ErrStoreUnavailable):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Ticket store unavailable", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.DispatchResponse{Sent: sent})
}
