//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ticket-gate/internal/pkg/pin"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Credentials every e2e suite can rely on after SeedReferenceData.
const (
	TestEventName         = "Open Air 2026"
	TestOrganizerContact  = "organizer@example.com"
	TestNotificationToken = "test-notification-token"
	TestScannerPIN        = "493817"
)

var (
	pinHashOnce sync.Once
	pinHash     string
	pinHashErr  error
)

// testScannerPinHash hashes the fixture PIN once per process; bcrypt is too
// slow to run per test.
func testScannerPinHash() (string, error) {
	pinHashOnce.Do(func() {
		pinHash, pinHashErr = pin.Hash(TestScannerPIN)
	})
	return pinHash, pinHashErr
}

// CreateTestTicket inserts a ticket row directly, bypassing the issuance path.
func CreateTestTicket(t *testing.T, db DBLike, id, code, holderEmail, category string) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO tickets (id, code, holder_name, holder_email, category, issued_at, delivery_status, redemption_status)
		VALUES ($1, $2, 'Seeded Holder', $3, $4, now(), 'pending', 'unused')
		ON CONFLICT (id) DO NOTHING`,
		id, code, holderEmail, category)
	require.NoError(t, err)
}

// inserts the singleton event row every component reads at startup
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	hash, err := testScannerPinHash()
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO event_config (id, event_name, organizer_contact, notification_token, scanner_pin_hash)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
		    event_name = EXCLUDED.event_name,
		    organizer_contact = EXCLUDED.organizer_contact,
		    notification_token = EXCLUDED.notification_token,
		    scanner_pin_hash = EXCLUDED.scanner_pin_hash`,
		TestEventName, TestOrganizerContact, TestNotificationToken, hash)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
