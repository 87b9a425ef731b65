//go:build unit || e2e

package builder

import (
	"time"

	domticket "ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/usecase/queries"
)

type TicketBuilder struct {
	ID          string
	HolderName  string
	HolderEmail string
	Category    string
	IssuedAt    time.Time
}

func NewTicketBuilder() *TicketBuilder {
	return &TicketBuilder{
		ID:          "12345",
		HolderName:  "Ada Lovelace",
		HolderEmail: "ada@example.com",
		Category:    "Regular",
		IssuedAt:    time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC),
	}
}

func (b *TicketBuilder) With(mutate func(*TicketBuilder)) *TicketBuilder {
	mutate(b)
	return b
}

func (b *TicketBuilder) WithID(id string) *TicketBuilder {
	b.ID = id
	return b
}

func (b *TicketBuilder) WithHolder(name, email string) *TicketBuilder {
	b.HolderName = name
	b.HolderEmail = email
	return b
}

func (b *TicketBuilder) WithCategory(category string) *TicketBuilder {
	b.Category = category
	return b
}

// Build methods
func (b *TicketBuilder) BuildDomain() (*domticket.Ticket, error) {
	id, err := domticket.NewID(b.ID)
	if err != nil {
		return nil, err
	}
	return domticket.NewTicket(id, b.HolderName, b.HolderEmail, b.Category, b.IssuedAt)
}

func (b *TicketBuilder) BuildView() *queries.TicketView {
	id := domticket.ID(b.ID)
	return &queries.TicketView{
		ID:               b.ID,
		HolderName:       b.HolderName,
		HolderEmail:      b.HolderEmail,
		Category:         b.Category,
		Code:             domticket.DeriveCode(id, b.HolderName).String(),
		IssuedAt:         b.IssuedAt,
		DeliveryStatus:   string(domticket.DeliveryPending),
		RedemptionStatus: string(domticket.RedemptionUnused),
	}
}
