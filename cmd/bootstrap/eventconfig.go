package bootstrap

import (
	"context"
	"time"

	"ticket-gate/internal/domain/event"
	"ticket-gate/internal/infra/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var EventConfigModule = fx.Module("eventconfig",
	fx.Provide(
		NewEventConfig,
	),
)

// NewEventConfig loads the event row once at startup. A broken or missing row
// fails the boot instead of surfacing mid-event at the door.
func NewEventConfig(pool *pgxpool.Pool) (event.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return repository.NewEventConfigRepository(pool).Load(ctx)
}
