package api

import (
	"errors"
	"net/http"
	"strings"

	"ticket-gate/internal/handler/httperr"
	resdto "ticket-gate/internal/handler/dto/response"
	"ticket-gate/internal/pkg/errs"
	"ticket-gate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	tickets queries.TicketQueries
}

func NewTicketHandler(tickets queries.TicketQueries) *TicketHandler {
	return &TicketHandler{
		tickets: tickets,
	}
}

// @Summary List tickets by holder email
// @Description List every ticket issued to a holder
// @Tags tickets
// @Produce json
// @Param email query string true "Holder email"
// @Success 200 {array} resdto.TicketResponse
// @Failure 400 {object} map[string]string
// @Router /tickets [get]
func (h *TicketHandler) ListByEmail(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("missing email parameter"), "Email is required", nil)
		return
	}

	views, err := h.tickets.ListByEmail(c.Request.Context(), email)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromTicketViews(views))
}

// @Summary Get ticket by code
// @Description Look up a single ticket by its scannable code
// @Tags tickets
// @Produce json
// @Param code path string true "Ticket code"
// @Success 200 {object} resdto.TicketResponse
// @Failure 404 {object} map[string]string
// @Router /tickets/{code} [get]
func (h *TicketHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")

	view, err := h.tickets.GetByCode(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrTicketNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Ticket not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromTicketView(view))
}
