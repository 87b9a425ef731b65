package queries

import (
	"context"

	"ticket-gate/internal/domain/lot"
	"ticket-gate/internal/infra"
	"ticket-gate/internal/pkg/errs"
)

var ErrTicketNotFound = errs.New("ticket not found")

// LedgerReadStore is the read side of the ticket ledger. Every call re-reads
// current store state; counts are never cached across requests.
type LedgerReadStore interface {
	CountIssued(ctx context.Context) (lot.Counts, error)
	ListIDs(ctx context.Context) (map[string]struct{}, error)
	FindByCode(ctx context.Context, code string) (*TicketView, error)
	FindPendingByEmail(ctx context.Context, email string) ([]*TicketView, error)
	FindByEmail(ctx context.Context, email string) ([]*TicketView, error)
}

type TicketQueries interface {
	GetByCode(ctx context.Context, code string) (*TicketView, error)
	ListByEmail(ctx context.Context, email string) ([]*TicketView, error)
}

type ticketQueriesImpl struct {
	store LedgerReadStore
}

func NewTicketQueries(store LedgerReadStore) TicketQueries {
	return &ticketQueriesImpl{store: store}
}

func (q *ticketQueriesImpl) GetByCode(ctx context.Context, code string) (*TicketView, error) {
	view, err := q.store.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *ticketQueriesImpl) ListByEmail(ctx context.Context, email string) ([]*TicketView, error) {
	return q.store.FindByEmail(ctx, email)
}
