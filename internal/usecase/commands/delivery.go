package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ticket-gate/internal/domain/event"
	"ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/pkg/errs"
	"ticket-gate/internal/usecase/queries"
)

var (
	ErrDispatchInProgress = errs.New("dispatch already in progress for recipient")
	ErrDeliveryFailure    = errs.New("notification dispatch failed")
)

type DeliveryCommands interface {
	// DispatchPending sends one notification containing every pending ticket
	// for the recipient and marks them sent. It returns 0 when nothing is
	// pending; callers treat that as "not ready yet", not an error.
	DispatchPending(ctx context.Context, holderEmail string) (int, error)
}

type deliveryImpl struct {
	repo     LedgerRepository
	reader   LedgerReader
	sender   MailSender
	locker   DispatchLocker
	eventCfg event.Config
}

func NewDeliveryCommands(
	repo LedgerRepository,
	reader LedgerReader,
	sender MailSender,
	locker DispatchLocker,
	eventCfg event.Config,
) DeliveryCommands {
	return &deliveryImpl{
		repo:     repo,
		reader:   reader,
		sender:   sender,
		locker:   locker,
		eventCfg: eventCfg,
	}
}

func (d *deliveryImpl) DispatchPending(ctx context.Context, holderEmail string) (int, error) {
	// Overlapping dispatches for one recipient would both read the same
	// pending set and both send. The lock makes "find pending -> send ->
	// mark sent" mutually exclusive per recipient.
	release, err := d.locker.Acquire(ctx, "dispatch:"+holderEmail)
	if err != nil {
		return 0, err
	}
	defer release()

	pending, err := d.reader.FindPendingByEmail(ctx, holderEmail)
	if err != nil {
		return 0, errs.Mark(err, ErrStoreUnavailable)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	mail := d.buildMail(holderEmail, pending)
	if err := d.sender.Send(ctx, mail); err != nil {
		// Records stay pending; the caller owns the retry.
		return 0, errs.Mark(err, ErrDeliveryFailure)
	}

	ids := make([]ticket.ID, len(pending))
	for i, view := range pending {
		ids[i] = ticket.ID(view.ID)
	}
	if err := d.repo.MarkSent(ctx, ids); err != nil {
		return 0, errs.Mark(err, ErrStoreUnavailable)
	}

	return len(pending), nil
}

// buildMail renders one notification covering all pending tickets, grouped by
// category so a mixed purchase reads naturally.
func (d *deliveryImpl) buildMail(holderEmail string, pending []*queries.TicketView) Mail {
	byCategory := make(map[string][]*queries.TicketView)
	for _, view := range pending {
		byCategory[view.Category] = append(byCategory[view.Category], view)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>", d.eventCfg.EventName)
	fmt.Fprintf(&b, "<p>Hi %s, here are your tickets:</p>", pending[0].HolderName)
	for _, category := range categories {
		fmt.Fprintf(&b, "<h2>%s</h2><ul>", category)
		for _, view := range byCategory[category] {
			fmt.Fprintf(&b, "<li>Ticket %s &mdash; code <strong>%s</strong></li>", view.ID, view.Code)
		}
		b.WriteString("</ul>")
	}
	if d.eventCfg.OrganizerContact != "" {
		fmt.Fprintf(&b, "<p>Questions? Contact %s</p>", d.eventCfg.OrganizerContact)
	}

	return Mail{
		To:      holderEmail,
		Subject: fmt.Sprintf("Your tickets for %s", d.eventCfg.EventName),
		HTML:    b.String(),
	}
}
