package components

import (
	"context"
	"log/slog"

	"ticket-gate/internal/infra/queue"
	"ticket-gate/internal/pkg/config"
	"ticket-gate/internal/usecase/commands"

	"github.com/streadway/amqp"
	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(StartPaymentConsumer),
)

// StartPaymentConsumer dials the broker and runs the payment.approved consumer
// for the life of the app. The queue path is optional; webhook-only deployments
// leave it disabled.
func StartPaymentConsumer(
	lc fx.Lifecycle,
	cfg config.Config,
	issuance commands.IssuanceCommands,
	scheduler *commands.DispatchScheduler,
	logger *slog.Logger,
) {
	if !cfg.AMQP.Enabled {
		logger.Info("payment queue disabled, webhook intake only")
		return
	}

	var (
		conn   *amqp.Connection
		cancel context.CancelFunc
	)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var err error
			conn, err = amqp.Dial(cfg.AMQP.URL)
			if err != nil {
				return err
			}

			consumer := queue.NewPaymentConsumer(conn, cfg.AMQP, issuance, scheduler, logger)

			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			go func() {
				if err := consumer.Run(runCtx); err != nil && runCtx.Err() == nil {
					logger.Error("payment consumer stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			if cancel != nil {
				cancel()
			}
			if conn != nil {
				return conn.Close()
			}
			return nil
		},
	})
}
