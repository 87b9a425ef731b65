package repository

import (
	"context"

	"ticket-gate/internal/domain/event"
	"ticket-gate/internal/infra"
	"ticket-gate/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventConfigRepository loads the single event configuration row that holds
// the event name, organizer contact, mail credentials and scanner PIN hash.
type EventConfigRepository struct {
	pool *pgxpool.Pool
}

func NewEventConfigRepository(pool *pgxpool.Pool) *EventConfigRepository {
	return &EventConfigRepository{pool: pool}
}

func (r *EventConfigRepository) Load(ctx context.Context) (event.Config, error) {
	const loadConfig = `
		SELECT event_name, organizer_contact, notification_token, scanner_pin_hash
		FROM event_config
		LIMIT 1`

	var cfg event.Config
	row := r.pool.QueryRow(ctx, loadConfig)
	err := row.Scan(&cfg.EventName, &cfg.OrganizerContact, &cfg.NotificationToken, &cfg.ScannerPinHash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return event.Config{}, infra.WrapRepoErr("event config row missing", err, infra.KindNotFound)
		}
		return event.Config{}, infra.WrapRepoErr("failed to load event config", err)
	}

	if err := cfg.Validate(); err != nil {
		return event.Config{}, infra.WrapRepoErr("event config incomplete", err, infra.KindConflict)
	}
	return cfg, nil
}
