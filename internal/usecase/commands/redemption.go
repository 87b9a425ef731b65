package commands

import (
	"context"
	"time"

	"ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/infra"
	"ticket-gate/internal/pkg/clock"
	"ticket-gate/internal/pkg/errs"
	"ticket-gate/internal/usecase/queries"
)

// Staff-facing scan outcomes.
const (
	MessageNotFound    = "not found"
	MessageAlreadyUsed = "already used"
	MessageAdmitted    = "admitted"
)

type RedemptionDetails struct {
	TicketID   string     `json:"ticket_id"`
	HolderName string     `json:"holder_name"`
	Category   string     `json:"category"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
}

// RedeemResult is a staff-facing outcome, not an error: a replayed or forged
// code is an expected event at the door.
type RedeemResult struct {
	Success bool
	Message string
	Details *RedemptionDetails
}

type RedemptionCommands interface {
	Redeem(ctx context.Context, code string) (*RedeemResult, error)
}

type redemptionImpl struct {
	repo   LedgerRepository
	reader LedgerReader
	clock  clock.Clock
}

func NewRedemptionCommands(repo LedgerRepository, reader LedgerReader, clock clock.Clock) RedemptionCommands {
	return &redemptionImpl{
		repo:   repo,
		reader: reader,
		clock:  clock,
	}
}

func (r *redemptionImpl) Redeem(ctx context.Context, rawCode string) (*RedeemResult, error) {
	code, err := ticket.NewCode(rawCode)
	if err != nil {
		return &RedeemResult{Success: false, Message: MessageNotFound}, nil
	}

	view, err := r.reader.FindByCode(ctx, code.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &RedeemResult{Success: false, Message: MessageNotFound}, nil
		}
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}

	if view.RedemptionStatus == string(ticket.RedemptionUsed) {
		return alreadyUsedResult(view), nil
	}

	now := r.clock.Now()
	transitioned, err := r.repo.Redeem(ctx, code, now)
	if err != nil {
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}

	// The conditional update found no unused row: a near-simultaneous scan of
	// the same code won. Re-read so staff see who already entered.
	if !transitioned {
		view, err = r.reader.FindByCode(ctx, code.String())
		if err != nil {
			return nil, errs.Mark(err, ErrStoreUnavailable)
		}
		return alreadyUsedResult(view), nil
	}

	return &RedeemResult{
		Success: true,
		Message: MessageAdmitted,
		Details: &RedemptionDetails{
			TicketID:   view.ID,
			HolderName: view.HolderName,
			Category:   view.Category,
			RedeemedAt: &now,
		},
	}, nil
}

func alreadyUsedResult(view *queries.TicketView) *RedeemResult {
	return &RedeemResult{
		Success: false,
		Message: MessageAlreadyUsed,
		Details: &RedemptionDetails{
			TicketID:   view.ID,
			HolderName: view.HolderName,
			Category:   view.Category,
			RedeemedAt: view.RedeemedAt,
		},
	}
}
