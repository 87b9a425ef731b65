package repository

import (
	"context"
	"errors"
	"time"

	"ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/infra"
	"ticket-gate/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// LedgerRepository owns all writes to the ticket ledger.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// InsertBatch persists every ticket in a single transaction. Either the whole
// batch lands or none of it does.
func (r *LedgerRepository) InsertBatch(ctx context.Context, tickets []*ticket.Ticket) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertTicket = `
		INSERT INTO tickets (
			id, holder_name, holder_email, category, code,
			issued_at, delivery_status, redemption_status, redeemed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, t := range tickets {
		_, err := tx.Exec(ctx, insertTicket,
			t.ID().String(),
			t.HolderName(),
			t.HolderEmail(),
			t.Category(),
			t.Code().String(),
			pgconv.TimeToPgtype(t.IssuedAt()),
			string(t.DeliveryStatus()),
			string(t.RedemptionStatus()),
			pgconv.TimePtrToPgtype(t.RedeemedAt()),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return infra.WrapRepoErr("ticket id or code already exists", err, infra.KindDuplicateKey)
			}
			return infra.WrapRepoErr("failed to insert ticket", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit ticket batch", err)
	}
	return nil
}

// MarkSent flips the given tickets from pending to sent. Already-sent rows are
// skipped by the WHERE clause, so re-running after a partial dispatch is safe.
func (r *LedgerRepository) MarkSent(ctx context.Context, ids []ticket.ID) error {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	const markSent = `
		UPDATE tickets
		SET delivery_status = 'sent'
		WHERE id = ANY($1) AND delivery_status = 'pending'`

	if _, err := r.pool.Exec(ctx, markSent, raw); err != nil {
		return infra.WrapRepoErr("failed to mark tickets sent", err)
	}
	return nil
}

// Redeem transitions the ticket with the given code from unused to used.
// The status guard in the WHERE clause makes the transition atomic: of two
// concurrent scans, exactly one observes a transition.
func (r *LedgerRepository) Redeem(ctx context.Context, code ticket.Code, redeemedAt time.Time) (bool, error) {
	const redeem = `
		UPDATE tickets
		SET redemption_status = 'used', redeemed_at = $2
		WHERE code = $1 AND redemption_status = 'unused'`

	tag, err := r.pool.Exec(ctx, redeem, code.String(), pgconv.TimeToPgtype(redeemedAt))
	if err != nil {
		return false, infra.WrapRepoErr("failed to redeem ticket", err)
	}
	return tag.RowsAffected() == 1, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
