package components

import (
	"ticket-gate/internal/infra/mailer"
	"ticket-gate/internal/infra/readstore"
	"ticket-gate/internal/infra/redislock"
	repo_impl "ticket-gate/internal/infra/repository"
	"ticket-gate/internal/usecase/commands"
	"ticket-gate/internal/usecase/queries"

	"ticket-gate/internal/domain/event"
	"ticket-gate/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewLedgerRepository,
			fx.As(new(commands.LedgerRepository)),
		),
		// The read store serves both the query side and the write side's
		// admission checks.
		fx.Annotate(
			readstore.NewLedgerReadStore,
			fx.As(new(queries.LedgerReadStore)),
			fx.As(new(commands.LedgerReader)),
		),
		fx.Annotate(
			NewMailer,
			fx.As(new(commands.MailSender)),
		),
		fx.Annotate(
			NewLocker,
			fx.As(new(commands.DispatchLocker)),
		),
	),
)

func NewMailer(cfg config.Config, eventCfg event.Config) *mailer.Client {
	return mailer.NewClient(cfg.Mailer, eventCfg.NotificationToken)
}

func NewLocker(cfg config.Config, client *redis.Client) *redislock.Locker {
	return redislock.NewLocker(client, cfg.Delivery.LockTTL)
}
