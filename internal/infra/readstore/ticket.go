package readstore

import (
	"context"

	"ticket-gate/internal/domain/lot"
	"ticket-gate/internal/infra"
	"ticket-gate/internal/pkg/pgconv"
	"ticket-gate/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ticketColumns = `id, holder_name, holder_email, category, code, issued_at, delivery_status, redemption_status, redeemed_at`

// LedgerReadStore reads the ticket ledger. It backs both the client-facing
// availability query and the write side's admission and collision checks.
type LedgerReadStore struct {
	pool *pgxpool.Pool
}

func NewLedgerReadStore(pool *pgxpool.Pool) *LedgerReadStore {
	return &LedgerReadStore{pool: pool}
}

func (s *LedgerReadStore) CountIssued(ctx context.Context) (lot.Counts, error) {
	rows, err := s.pool.Query(ctx, `SELECT category, COUNT(*) FROM tickets GROUP BY category`)
	if err != nil {
		return lot.Counts{}, infra.WrapRepoErr("failed to count issued tickets", err)
	}
	defer rows.Close()

	counts := lot.Counts{ByCategory: make(map[string]int)}
	for rows.Next() {
		var category string
		var n int64
		if err := rows.Scan(&category, &n); err != nil {
			return lot.Counts{}, infra.WrapRepoErr("failed to scan ticket counts", err)
		}
		counts.ByCategory[category] = int(n)
		counts.Total += int(n)
	}
	if err := rows.Err(); err != nil {
		return lot.Counts{}, infra.WrapRepoErr("failed to read ticket counts", err)
	}

	return counts, nil
}

func (s *LedgerReadStore) ListIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM tickets`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ticket ids", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan ticket id", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read ticket ids", err)
	}

	return ids, nil
}

func (s *LedgerReadStore) FindByCode(ctx context.Context, code string) (*queries.TicketView, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE code = $1`, code)

	view, err := scanTicketView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("ticket not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ticket by code", err)
	}

	return view, nil
}

func (s *LedgerReadStore) FindPendingByEmail(ctx context.Context, email string) ([]*queries.TicketView, error) {
	return s.findByEmail(ctx, email, true)
}

func (s *LedgerReadStore) FindByEmail(ctx context.Context, email string) ([]*queries.TicketView, error) {
	return s.findByEmail(ctx, email, false)
}

func (s *LedgerReadStore) findByEmail(ctx context.Context, email string, pendingOnly bool) ([]*queries.TicketView, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE holder_email = $1`
	if pendingOnly {
		query += ` AND delivery_status = 'pending'`
	}
	query += ` ORDER BY issued_at, id`

	rows, err := s.pool.Query(ctx, query, email)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find tickets by email", err)
	}
	defer rows.Close()

	var views []*queries.TicketView
	for rows.Next() {
		view, err := scanTicketView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan ticket row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read ticket rows", err)
	}

	return views, nil
}

func scanTicketView(row pgx.Row) (*queries.TicketView, error) {
	var view queries.TicketView
	var issuedAt, redeemedAt pgtype.Timestamptz

	err := row.Scan(
		&view.ID,
		&view.HolderName,
		&view.HolderEmail,
		&view.Category,
		&view.Code,
		&issuedAt,
		&view.DeliveryStatus,
		&view.RedemptionStatus,
		&redeemedAt,
	)
	if err != nil {
		return nil, err
	}

	view.IssuedAt = pgconv.TimeFromPgtype(issuedAt)
	view.RedeemedAt = pgconv.TimePtrFromPgtype(redeemedAt)
	return &view, nil
}
