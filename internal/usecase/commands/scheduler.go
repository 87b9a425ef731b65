package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ticket-gate/internal/pkg/errs"
	"ticket-gate/internal/pkg/retry"
)

// DispatchScheduler runs notification dispatch out of band. Issuance paths
// (webhook and queue) hand it a recipient and return immediately; the
// scheduler waits out the store propagation window and then works through the
// bounded retry schedule.
type DispatchScheduler struct {
	delivery    DeliveryCommands
	policy      retry.Policy
	propagation time.Duration
	logger      *slog.Logger
}

func NewDispatchScheduler(
	delivery DeliveryCommands,
	policy retry.Policy,
	propagation time.Duration,
	logger *slog.Logger,
) *DispatchScheduler {
	return &DispatchScheduler{
		delivery:    delivery,
		policy:      policy,
		propagation: propagation,
		logger:      logger,
	}
}

// Schedule fires a background dispatch for the recipient. It never blocks the
// caller; failures end up in the log after the retry budget is spent, with the
// tickets still pending for a later manual dispatch.
func (s *DispatchScheduler) Schedule(ctx context.Context, holderEmail string) {
	go s.run(ctx, holderEmail)
}

func (s *DispatchScheduler) run(ctx context.Context, holderEmail string) {
	if s.propagation > 0 {
		select {
		case <-time.After(s.propagation):
		case <-ctx.Done():
			return
		}
	}

	err := s.policy.Do(ctx, func(ctx context.Context) error {
		sent, err := s.delivery.DispatchPending(ctx, holderEmail)
		// Another dispatcher holds the recipient lock; it owns the send.
		if errors.Is(err, ErrDispatchInProgress) {
			return nil
		}
		if err != nil {
			return err
		}
		if sent == 0 {
			return errs.New("no pending tickets visible yet")
		}
		s.logger.Info("notification dispatched", "email", holderEmail, "tickets", sent)
		return nil
	})
	if err != nil {
		s.logger.Error("notification dispatch abandoned",
			"email", holderEmail,
			"error", err,
			"stack", errs.ExtractStackLines(err, 8),
		)
	}
}
