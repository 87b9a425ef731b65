package api

import (
	"context"
	"errors"
	"net/http"

	reqdto "ticket-gate/internal/handler/dto/request"
	"ticket-gate/internal/handler/httperr"
	resdto "ticket-gate/internal/handler/dto/response"
	"ticket-gate/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	issuance  commands.IssuanceCommands
	scheduler *commands.DispatchScheduler
}

func NewPaymentHandler(issuance commands.IssuanceCommands, scheduler *commands.DispatchScheduler) *PaymentHandler {
	return &PaymentHandler{
		issuance:  issuance,
		scheduler: scheduler,
	}
}

// @Summary Payment approved webhook
// @Description Issue tickets for an approved payment and schedule their notification
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentApprovedRequest true "Approved payment"
// @Success 201 {object} resdto.IssuedResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /payments/approved [post]
func (h *PaymentHandler) Approved(c *gin.Context) {
	var req reqdto.PaymentApprovedRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	issued, err := h.issuance.Issue(c.Request.Context(), commands.IssueParams{
		HolderName:  req.GetHolderName(),
		HolderEmail: req.GetHolderEmail(),
		Category:    req.Category,
		Quantity:    req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnknownCategory):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown category", nil)
		case errors.Is(err, commands.ErrInvalidQuantity):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid quantity", nil)
		case errors.Is(err, commands.ErrCapacityExceeded):
			httperr.AbortWithError(c, http.StatusConflict, err, "Lot capacity exceeded", nil)
		case errors.Is(err, commands.ErrIDSpaceExhausted):
			httperr.AbortWithError(c, http.StatusConflict, err, "Ticket id space exhausted", nil)
		case errors.Is(err, commands.ErrStoreUnavailable):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Ticket store unavailable", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	// The request context dies with the response; dispatch outlives it.
	h.scheduler.Schedule(context.Background(), req.GetHolderEmail())

	c.JSON(http.StatusCreated, resdto.FromIssuedTickets(issued))
}
