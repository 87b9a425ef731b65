package response

import (
	"time"

	"ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/usecase/queries"
)

type TicketResponse struct {
	ID               string     `json:"id"`
	HolderName       string     `json:"holderName"`
	HolderEmail      string     `json:"holderEmail"`
	Category         string     `json:"category"`
	Code             string     `json:"code"`
	IssuedAt         time.Time  `json:"issuedAt"`
	DeliveryStatus   string     `json:"deliveryStatus"`
	RedemptionStatus string     `json:"redemptionStatus"`
	RedeemedAt       *time.Time `json:"redeemedAt,omitempty"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
	Remaining int  `json:"remaining"`
}

type IssuedResponse struct {
	Issued  int              `json:"issued"`
	Tickets []TicketResponse `json:"tickets"`
}

func FromTicketView(v *queries.TicketView) TicketResponse {
	return TicketResponse{
		ID:               v.ID,
		HolderName:       v.HolderName,
		HolderEmail:      v.HolderEmail,
		Category:         v.Category,
		Code:             v.Code,
		IssuedAt:         v.IssuedAt,
		DeliveryStatus:   v.DeliveryStatus,
		RedemptionStatus: v.RedemptionStatus,
		RedeemedAt:       v.RedeemedAt,
	}
}

func FromTicketViews(views []*queries.TicketView) []TicketResponse {
	out := make([]TicketResponse, len(views))
	for i, v := range views {
		out[i] = FromTicketView(v)
	}
	return out
}

func FromIssuedTickets(tickets []*ticket.Ticket) IssuedResponse {
	out := make([]TicketResponse, len(tickets))
	for i, t := range tickets {
		out[i] = TicketResponse{
			ID:               t.ID().String(),
			HolderName:       t.HolderName(),
			HolderEmail:      t.HolderEmail(),
			Category:         t.Category(),
			Code:             t.Code().String(),
			IssuedAt:         t.IssuedAt(),
			DeliveryStatus:   string(t.DeliveryStatus()),
			RedemptionStatus: string(t.RedemptionStatus()),
			RedeemedAt:       t.RedeemedAt(),
		}
	}
	return IssuedResponse{Issued: len(out), Tickets: out}
}

func FromAvailabilityView(v *queries.AvailabilityView) AvailabilityResponse {
	return AvailabilityResponse{
		Available: v.Available,
		Remaining: v.Remaining,
	}
}
