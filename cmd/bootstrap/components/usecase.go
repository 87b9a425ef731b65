package components

import (
	"log/slog"

	"ticket-gate/internal/domain/lot"
	"ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/pkg/clock"
	"ticket-gate/internal/pkg/config"
	"ticket-gate/internal/pkg/retry"
	"ticket-gate/internal/usecase/commands"
	"ticket-gate/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewTicketQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewIssuanceCommands,
		commands.NewDeliveryCommands,
		commands.NewRedemptionCommands,
		NewDispatchScheduler,
	),
)

func NewIssuanceCommands(
	repo commands.LedgerRepository,
	reader commands.LedgerReader,
	lotCfg lot.Config,
	clk clock.Clock,
	cfg config.Config,
) commands.IssuanceCommands {
	return commands.NewIssuanceCommands(
		repo,
		reader,
		lotCfg,
		ticket.RandomIDSource(),
		cfg.Tickets.IDMaxAttempts,
		clk,
	)
}

func NewDispatchScheduler(
	delivery commands.DeliveryCommands,
	cfg config.Config,
	logger *slog.Logger,
) *commands.DispatchScheduler {
	policy := retry.Policy{
		MaxAttempts: cfg.Delivery.MaxAttempts,
		Delay:       cfg.Delivery.RetryDelay,
	}
	return commands.NewDispatchScheduler(delivery, policy, cfg.Delivery.PropagationDelay, logger)
}
