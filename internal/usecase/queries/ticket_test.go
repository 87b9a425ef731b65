//go:build unit

package queries_test

import (
	"context"
	"testing"

	"ticket-gate/internal/infra"
	"ticket-gate/internal/usecase/queries"
	"ticket-gate/tests/common/builder"
	queriesmock "ticket-gate/tests/mock/queries"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTicketQueries_GetByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the view for a known code", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockLedgerReadStore(ctrl)
		q := queries.NewTicketQueries(store)

		view := builder.NewTicketBuilder().BuildView()
		store.EXPECT().FindByCode(gomock.Any(), view.Code).Return(view, nil)

		got, err := q.GetByCode(ctx, view.Code)
		require.NoError(t, err)
		assert.Equal(t, view, got)
	})

	t.Run("maps a missing row to ErrTicketNotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockLedgerReadStore(ctrl)
		q := queries.NewTicketQueries(store)

		store.EXPECT().FindByCode(gomock.Any(), "00000XXXXXXXXXX").
			Return(nil, infra.WrapRepoErr("ticket not found", errors.New("no rows"), infra.KindNotFound))

		got, err := q.GetByCode(ctx, "00000XXXXXXXXXX")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, queries.ErrTicketNotFound)
	})

	t.Run("passes store failures through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockLedgerReadStore(ctrl)
		q := queries.NewTicketQueries(store)

		storeErr := infra.WrapRepoErr("query failed", errors.New("connection refused"))
		store.EXPECT().FindByCode(gomock.Any(), "12345ABCDEFGHIJ").Return(nil, storeErr)

		_, err := q.GetByCode(ctx, "12345ABCDEFGHIJ")
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, queries.ErrTicketNotFound)
	})
}

func TestTicketQueries_ListByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("returns every ticket for the holder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockLedgerReadStore(ctrl)
		q := queries.NewTicketQueries(store)

		views := []*queries.TicketView{
			builder.NewTicketBuilder().WithID("11111").BuildView(),
			builder.NewTicketBuilder().WithID("22222").BuildView(),
		}
		store.EXPECT().FindByEmail(gomock.Any(), "ada@example.com").Return(views, nil)

		got, err := q.ListByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, views, got)
	})

	t.Run("an unknown holder yields an empty list, not an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockLedgerReadStore(ctrl)
		q := queries.NewTicketQueries(store)

		store.EXPECT().FindByEmail(gomock.Any(), "nobody@example.com").Return(nil, nil)

		got, err := q.ListByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
