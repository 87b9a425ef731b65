package ticket

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrEmptyHolderName = errors.New("holder name is empty")
	ErrInvalidEmail    = errors.New("invalid holder email")
	ErrEmptyCategory   = errors.New("category is empty")
	ErrAlreadySent     = errors.New("ticket already marked as sent")
	ErrAlreadyRedeemed = errors.New("ticket already redeemed")
)

// Ticket is one row of the ledger: created once by issuance, mutated only by
// delivery (deliveryStatus) and redemption (redemptionStatus), never deleted.
type Ticket struct {
	id               ID
	holderName       string
	holderEmail      string
	category         string
	code             Code
	issuedAt         time.Time
	deliveryStatus   DeliveryStatus
	redemptionStatus RedemptionStatus
	redeemedAt       *time.Time
}

func NewTicket(id ID, holderName, holderEmail, category string, issuedAt time.Time) (*Ticket, error) {
	holderName = strings.TrimSpace(holderName)
	if holderName == "" {
		return nil, ErrEmptyHolderName
	}

	holderEmail = strings.TrimSpace(holderEmail)
	if _, err := mail.ParseAddress(holderEmail); err != nil {
		return nil, ErrInvalidEmail
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrEmptyCategory
	}

	return &Ticket{
		id:               id,
		holderName:       holderName,
		holderEmail:      holderEmail,
		category:         category,
		code:             DeriveCode(id, holderName),
		issuedAt:         issuedAt,
		deliveryStatus:   DeliveryPending,
		redemptionStatus: RedemptionUnused,
	}, nil
}

func Reconstruct(
	id ID,
	holderName, holderEmail, category string,
	code Code,
	issuedAt time.Time,
	deliveryStatus DeliveryStatus,
	redemptionStatus RedemptionStatus,
	redeemedAt *time.Time,
) *Ticket {
	return &Ticket{
		id:               id,
		holderName:       holderName,
		holderEmail:      holderEmail,
		category:         category,
		code:             code,
		issuedAt:         issuedAt,
		deliveryStatus:   deliveryStatus,
		redemptionStatus: redemptionStatus,
		redeemedAt:       redeemedAt,
	}
}

// MarkSent transitions pending -> sent. A ticket that already went out is
// never "un-sent", so a second call is a hard error rather than a no-op.
func (t *Ticket) MarkSent() error {
	if t.deliveryStatus == DeliverySent {
		return ErrAlreadySent
	}
	t.deliveryStatus = DeliverySent
	return nil
}

// Redeem transitions unused -> used and stamps the redemption time.
func (t *Ticket) Redeem(now time.Time) error {
	if t.redemptionStatus == RedemptionUsed {
		return ErrAlreadyRedeemed
	}
	t.redemptionStatus = RedemptionUsed
	t.redeemedAt = &now
	return nil
}

func (t *Ticket) IsPendingDelivery() bool {
	return t.deliveryStatus == DeliveryPending
}

func (t *Ticket) IsRedeemed() bool {
	return t.redemptionStatus == RedemptionUsed
}

func (t *Ticket) ID() ID                             { return t.id }
func (t *Ticket) HolderName() string                 { return t.holderName }
func (t *Ticket) HolderEmail() string                { return t.holderEmail }
func (t *Ticket) Category() string                   { return t.category }
func (t *Ticket) Code() Code                         { return t.code }
func (t *Ticket) IssuedAt() time.Time                { return t.issuedAt }
func (t *Ticket) DeliveryStatus() DeliveryStatus     { return t.deliveryStatus }
func (t *Ticket) RedemptionStatus() RedemptionStatus { return t.redemptionStatus }
func (t *Ticket) RedeemedAt() *time.Time             { return t.redeemedAt }
