package commands

import (
	"context"
	"sync"

	"ticket-gate/internal/domain/lot"
	"ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/pkg/clock"
	"ticket-gate/internal/pkg/errs"
)

var (
	ErrUnknownCategory  = errs.New("unknown ticket category")
	ErrInvalidQuantity  = errs.New("quantity must be at least 1")
	ErrCapacityExceeded = errs.New("lot capacity exceeded")
	ErrIDSpaceExhausted = errs.New("ticket id space exhausted")
	ErrStoreUnavailable = errs.New("ledger store unavailable")
)

type IssueParams struct {
	HolderName  string
	HolderEmail string
	Category    string
	Quantity    int
}

type IssuanceCommands interface {
	Issue(ctx context.Context, params IssueParams) ([]*ticket.Ticket, error)
}

type issuanceImpl struct {
	repo          LedgerRepository
	reader        LedgerReader
	lotCfg        lot.Config
	idSource      ticket.IDSource
	idMaxAttempts int
	clock         clock.Clock

	// Admission is read-then-decide over a non-transactional store, so all
	// issuance decisions funnel through one arbiter. The lock is lot-wide
	// rather than per-category because overallCapacity spans categories.
	mu sync.Mutex
}

func NewIssuanceCommands(
	repo LedgerRepository,
	reader LedgerReader,
	lotCfg lot.Config,
	idSource ticket.IDSource,
	idMaxAttempts int,
	clock clock.Clock,
) IssuanceCommands {
	return &issuanceImpl{
		repo:          repo,
		reader:        reader,
		lotCfg:        lotCfg,
		idSource:      idSource,
		idMaxAttempts: idMaxAttempts,
		clock:         clock,
	}
}

func (i *issuanceImpl) Issue(ctx context.Context, params IssueParams) ([]*ticket.Ticket, error) {
	if params.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if !i.lotCfg.KnownCategory(params.Category) {
		return nil, ErrUnknownCategory
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	counts, err := i.reader.CountIssued(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}

	if avail := i.lotCfg.Check(counts, params.Category, params.Quantity); !avail.Available {
		return nil, ErrCapacityExceeded
	}

	tickets, err := i.buildBatch(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := i.repo.InsertBatch(ctx, tickets); err != nil {
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}

	return tickets, nil
}

func (i *issuanceImpl) buildBatch(ctx context.Context, params IssueParams) ([]*ticket.Ticket, error) {
	existing, err := i.reader.ListIDs(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrStoreUnavailable)
	}

	// Ids allocated within this batch count as taken too.
	taken := func(id ticket.ID) bool {
		_, ok := existing[id.String()]
		return ok
	}

	tickets := make([]*ticket.Ticket, 0, params.Quantity)
	for n := 0; n < params.Quantity; n++ {
		id, err := ticket.GenerateID(i.idSource, taken, i.idMaxAttempts)
		if err != nil {
			return nil, errs.Mark(err, ErrIDSpaceExhausted)
		}
		existing[id.String()] = struct{}{}

		t, err := ticket.NewTicket(id, params.HolderName, params.HolderEmail, params.Category, i.clock.Now())
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, nil
}
