package queries

import "time"

// Read models (DTO for read side)
type TicketView struct {
	ID               string     `json:"id"`
	HolderName       string     `json:"holder_name"`
	HolderEmail      string     `json:"holder_email"`
	Category         string     `json:"category"`
	Code             string     `json:"code"`
	IssuedAt         time.Time  `json:"issued_at"`
	DeliveryStatus   string     `json:"delivery_status"`
	RedemptionStatus string     `json:"redemption_status"`
	RedeemedAt       *time.Time `json:"redeemed_at,omitempty"`
}

type AvailabilityView struct {
	Available bool `json:"available"`
	Remaining int  `json:"remaining"`
}
