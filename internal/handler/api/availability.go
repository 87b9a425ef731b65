package api

import (
	"errors"
	"net/http"
	"strconv"

	"ticket-gate/internal/handler/httperr"
	resdto "ticket-gate/internal/handler/dto/response"
	"ticket-gate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
	}
}

// @Summary Check ticket availability
// @Description Check whether the requested quantity can still be issued for a category
// @Tags tickets
// @Produce json
// @Param category query string true "Ticket category"
// @Param quantity query int false "Requested quantity (default 1)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Router /tickets/availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	category := c.Query("category")

	quantity := 1
	if raw := c.Query("quantity"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid quantity", nil)
			return
		}
		quantity = parsed
	}

	view, err := h.availability.Check(c.Request.Context(), category, quantity)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrUnknownCategory):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown category", nil)
		case errors.Is(err, queries.ErrInvalidQuantity):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid quantity", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
