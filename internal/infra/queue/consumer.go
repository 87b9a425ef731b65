package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"ticket-gate/internal/pkg/config"
	"ticket-gate/internal/pkg/errs"
	"ticket-gate/internal/usecase/commands"

	"github.com/lucsky/cuid"
	"github.com/streadway/amqp"
)

// paymentApproved is the message published by the payment processor once a
// purchase clears. One message may cover several tickets of one category.
type paymentApproved struct {
	HolderName  string `json:"holder_name"`
	HolderEmail string `json:"holder_email"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`
}

func (p paymentApproved) holderName() string {
	return strings.TrimSpace(p.HolderName)
}

// holderEmail normalizes the same way the webhook DTO does, so both intake
// paths store the address the dispatch and listing queries will match on.
func (p paymentApproved) holderEmail() string {
	return strings.ToLower(strings.TrimSpace(p.HolderEmail))
}

// PaymentConsumer drains the payment.approved queue: each message is turned
// into an issuance, then a delayed notification dispatch for the recipient.
type PaymentConsumer struct {
	conn      *amqp.Connection
	queue     string
	issuance  commands.IssuanceCommands
	scheduler *commands.DispatchScheduler
	logger    *slog.Logger
}

func NewPaymentConsumer(
	conn *amqp.Connection,
	cfg config.AMQPConfig,
	issuance commands.IssuanceCommands,
	scheduler *commands.DispatchScheduler,
	logger *slog.Logger,
) *PaymentConsumer {
	return &PaymentConsumer{
		conn:      conn,
		queue:     cfg.Queue,
		issuance:  issuance,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Run consumes until ctx is canceled or the channel closes.
func (c *PaymentConsumer) Run(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return errs.Wrap(err, "failed to open channel")
	}
	defer func() { _ = ch.Close() }()

	q, err := ch.QueueDeclare(
		c.queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return errs.Wrap(err, "failed to declare queue")
	}

	msgs, err := ch.Consume(
		q.Name,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return errs.Wrap(err, "failed to start consuming")
	}

	c.logger.Info("payment consumer started", "queue", q.Name)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return errs.New("payment queue channel closed")
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *PaymentConsumer) handle(ctx context.Context, msg amqp.Delivery) {
	ref := cuid.New()
	log := c.logger.With("ref", ref)

	var payment paymentApproved
	if err := json.Unmarshal(msg.Body, &payment); err != nil {
		log.Error("dropping malformed payment message", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	holderEmail := payment.holderEmail()
	issued, err := c.issuance.Issue(ctx, commands.IssueParams{
		HolderName:  payment.holderName(),
		HolderEmail: holderEmail,
		Category:    payment.Category,
		Quantity:    payment.Quantity,
	})
	if err != nil {
		// Capacity and validation failures are terminal for the message;
		// store outages are worth a redelivery.
		if errors.Is(err, commands.ErrStoreUnavailable) {
			log.Error("issuance failed, requeueing", "error", err)
			_ = msg.Nack(false, true)
			return
		}
		log.Warn("payment rejected", "email", holderEmail, "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log.Info("tickets issued",
		"email", holderEmail,
		"category", payment.Category,
		"count", len(issued),
	)
	_ = msg.Ack(false)

	c.scheduler.Schedule(ctx, holderEmail)
}
