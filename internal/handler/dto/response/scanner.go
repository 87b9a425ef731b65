package response

import (
	"time"

	"ticket-gate/internal/usecase/commands"
)

type ScannerTokenResponse struct {
	Token string `json:"token"`
}

type RedeemDetailsResponse struct {
	TicketID   string     `json:"ticketId"`
	HolderName string     `json:"holderName"`
	Category   string     `json:"category"`
	RedeemedAt *time.Time `json:"redeemedAt,omitempty"`
}

type RedeemResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Details *RedeemDetailsResponse `json:"details,omitempty"`
}

type DispatchResponse struct {
	Sent int `json:"sent"`
}

func FromRedeemResult(r *commands.RedeemResult) RedeemResponse {
	resp := RedeemResponse{
		Success: r.Success,
		Message: r.Message,
	}
	if r.Details != nil {
		resp.Details = &RedeemDetailsResponse{
			TicketID:   r.Details.TicketID,
			HolderName: r.Details.HolderName,
			Category:   r.Details.Category,
			RedeemedAt: r.Details.RedeemedAt,
		}
	}
	return resp
}
