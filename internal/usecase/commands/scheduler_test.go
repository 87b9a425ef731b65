//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"ticket-gate/internal/pkg/errs"
	"ticket-gate/internal/pkg/retry"
	"ticket-gate/internal/usecase/commands"
	commandsmock "ticket-gate/tests/mock/commands"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestScheduler(delivery commands.DeliveryCommands, maxAttempts int, propagation time.Duration) *commands.DispatchScheduler {
	return commands.NewDispatchScheduler(
		delivery,
		retry.Policy{MaxAttempts: maxAttempts, Delay: time.Millisecond},
		propagation,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestDispatchScheduler_DispatchesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	delivery := commandsmock.NewMockDeliveryCommands(ctrl)

	done := make(chan struct{})
	delivery.EXPECT().DispatchPending(gomock.Any(), "ada@example.com").
		DoAndReturn(func(context.Context, string) (int, error) {
			close(done)
			return 2, nil
		})

	newTestScheduler(delivery, 3, 0).Schedule(context.Background(), "ada@example.com")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch never ran")
	}
}

func TestDispatchScheduler_RetriesUntilTicketsVisible(t *testing.T) {
	ctrl := gomock.NewController(t)
	delivery := commandsmock.NewMockDeliveryCommands(ctrl)

	done := make(chan struct{})
	gomock.InOrder(
		delivery.EXPECT().DispatchPending(gomock.Any(), "ada@example.com").Return(0, nil),
		delivery.EXPECT().DispatchPending(gomock.Any(), "ada@example.com").
			DoAndReturn(func(context.Context, string) (int, error) {
				close(done)
				return 1, nil
			}),
	)

	newTestScheduler(delivery, 3, 0).Schedule(context.Background(), "ada@example.com")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch never saw the tickets")
	}
}

func TestDispatchScheduler_InProgressEndsTheSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	delivery := commandsmock.NewMockDeliveryCommands(ctrl)

	calls := make(chan struct{}, 3)
	delivery.EXPECT().DispatchPending(gomock.Any(), "ada@example.com").
		DoAndReturn(func(context.Context, string) (int, error) {
			calls <- struct{}{}
			return 0, commands.ErrDispatchInProgress
		})

	newTestScheduler(delivery, 3, 0).Schedule(context.Background(), "ada@example.com")

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch never ran")
	}

	// The lock holder owns the send; no retry should follow.
	select {
	case <-calls:
		t.Fatal("scheduler retried a dispatch another holder owns")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatchScheduler_GivesUpAfterBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	delivery := commandsmock.NewMockDeliveryCommands(ctrl)

	calls := make(chan struct{}, 4)
	delivery.EXPECT().DispatchPending(gomock.Any(), "ada@example.com").
		DoAndReturn(func(context.Context, string) (int, error) {
			calls <- struct{}{}
			return 0, errs.New("mail api down")
		}).Times(2)

	newTestScheduler(delivery, 2, 0).Schedule(context.Background(), "ada@example.com")

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("attempt %d never ran", i+1)
		}
	}
	select {
	case <-calls:
		t.Fatal("scheduler exceeded its retry budget")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatchScheduler_CanceledContextSkipsDispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	delivery := commandsmock.NewMockDeliveryCommands(ctrl)
	// No DispatchPending expectation: the propagation wait must observe the
	// canceled context and bail out.

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	newTestScheduler(delivery, 3, time.Hour).Schedule(ctx, "ada@example.com")

	time.Sleep(100 * time.Millisecond)
	require.True(t, ctrl.Satisfied())
}
