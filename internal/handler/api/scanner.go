package api

import (
	"errors"
	"log/slog"
	"net/http"

	"ticket-gate/internal/domain/event"
	reqdto "ticket-gate/internal/handler/dto/request"
	"ticket-gate/internal/handler/httperr"
	resdto "ticket-gate/internal/handler/dto/response"
	"ticket-gate/internal/pkg/jwt"
	"ticket-gate/internal/pkg/pin"
	"ticket-gate/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ScannerHandler struct {
	redemption commands.RedemptionCommands
	jwtService *jwt.Service
	eventCfg   event.Config
}

func NewScannerHandler(redemption commands.RedemptionCommands, jwtService *jwt.Service, eventCfg event.Config) *ScannerHandler {
	return &ScannerHandler{
		redemption: redemption,
		jwtService: jwtService,
		eventCfg:   eventCfg,
	}
}

// @Summary Verify scanner PIN
// @Description Exchange the door PIN for a short-lived scanner token
// @Tags scanner
// @Accept json
// @Produce json
// @Param request body reqdto.VerifyPinRequest true "PIN"
// @Success 200 {object} resdto.ScannerTokenResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /scanner/verify-pin [post]
func (h *ScannerHandler) VerifyPin(c *gin.Context) {
	var req reqdto.VerifyPinRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	if err := pin.Compare(h.eventCfg.ScannerPinHash, req.Pin); err != nil {
		slog.Warn("Scanner PIN rejected", "client_ip", c.ClientIP())
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid PIN", nil)
		return
	}

	token, err := h.jwtService.GenerateToken(uuid.New())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.ScannerTokenResponse{Token: token})
}

// @Summary Redeem a ticket
// @Description Admit the holder of a scanned code; replays are rejected
// @Tags scanner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RedeemRequest true "Scanned code"
// @Success 200 {object} resdto.RedeemResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /scanner/redeem [post]
func (h *ScannerHandler) Redeem(c *gin.Context) {
	var req reqdto.RedeemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.redemption.Redeem(c.Request.Context(), req.GetCode())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrStoreUnavailable):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Ticket store unavailable", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromRedeemResult(result))
}
