package commands

import (
	"context"
	"time"

	"ticket-gate/internal/domain/lot"
	"ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/usecase/queries"
)

// LedgerRepository is the write side of the ticket ledger.
type LedgerRepository interface {
	// InsertBatch appends all tickets in one transaction: a multi-ticket
	// purchase commits all-or-nothing.
	InsertBatch(ctx context.Context, tickets []*ticket.Ticket) error
	// MarkSent flips the delivery status of the given tickets to sent in one
	// batched update. Already-sent rows are left untouched.
	MarkSent(ctx context.Context, ids []ticket.ID) error
	// Redeem conditionally transitions the ticket with the given code from
	// unused to used. It reports false when no unused row matched, either
	// because the code is unknown or because another scan won the race.
	Redeem(ctx context.Context, code ticket.Code, redeemedAt time.Time) (bool, error)
}

// LedgerReader is the narrow read surface the write side needs: capacity
// counts and the id set for collision checking, plus row lookups for
// redemption details and pending deliveries.
type LedgerReader interface {
	CountIssued(ctx context.Context) (lot.Counts, error)
	ListIDs(ctx context.Context) (map[string]struct{}, error)
	FindByCode(ctx context.Context, code string) (*queries.TicketView, error)
	FindPendingByEmail(ctx context.Context, email string) ([]*queries.TicketView, error)
}

// Mail is the payload handed to the notification channel.
type Mail struct {
	To      string
	Subject string
	HTML    string
}

// MailSender dispatches one notification and reports acceptance synchronously.
type MailSender interface {
	Send(ctx context.Context, mail Mail) error
}

// DispatchLocker serializes delivery dispatch per recipient. Acquire returns
// ErrDispatchInProgress when another dispatch currently holds the key.
type DispatchLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
