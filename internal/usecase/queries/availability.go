package queries

import (
	"context"

	"ticket-gate/internal/domain/lot"
	"ticket-gate/internal/pkg/errs"
)

var (
	ErrUnknownCategory = errs.New("unknown ticket category")
	ErrInvalidQuantity = errs.New("requested quantity must be at least 1")
)

// AvailabilityQueries answers "can I still buy?" for the storefront. The
// answer is advisory: it reads then decides without holding the issuance lock,
// so the authoritative check happens again inside issuance.
type AvailabilityQueries interface {
	Check(ctx context.Context, category string, requestedQty int) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	store  LedgerReadStore
	lotCfg lot.Config
}

func NewAvailabilityQueries(store LedgerReadStore, lotCfg lot.Config) AvailabilityQueries {
	return &availabilityQueriesImpl{
		store:  store,
		lotCfg: lotCfg,
	}
}

func (q *availabilityQueriesImpl) Check(ctx context.Context, category string, requestedQty int) (*AvailabilityView, error) {
	if requestedQty < 1 {
		return nil, ErrInvalidQuantity
	}
	if !q.lotCfg.KnownCategory(category) {
		return nil, ErrUnknownCategory
	}

	// Unlimited lots need no store round trip.
	if !q.lotCfg.Enabled || q.lotCfg.OverallCapacity == 0 {
		return &AvailabilityView{Available: true, Remaining: lot.RemainingUnlimited}, nil
	}

	counts, err := q.store.CountIssued(ctx)
	if err != nil {
		return nil, err
	}

	avail := q.lotCfg.Check(counts, category, requestedQty)
	return &AvailabilityView{Available: avail.Available, Remaining: avail.Remaining}, nil
}
