//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/infra"
	"ticket-gate/internal/pkg/clock"
	"ticket-gate/internal/usecase/commands"
	"ticket-gate/internal/usecase/queries"
	"ticket-gate/tests/common/builder"
	commandsmock "ticket-gate/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RedemptionTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockRepo   *commandsmock.MockLedgerRepository
	mockReader *commandsmock.MockLedgerReader
	clock      *clock.MockClock
	redemption commands.RedemptionCommands
}

func (s *RedemptionTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = commandsmock.NewMockLedgerRepository(s.mockCtrl)
	s.mockReader = commandsmock.NewMockLedgerReader(s.mockCtrl)
	s.clock = clock.NewMockClock(time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC))
	s.redemption = commands.NewRedemptionCommands(s.mockRepo, s.mockReader, s.clock)
}

func (s *RedemptionTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *RedemptionTestSuite) TestRedeemSuccess() {
	view := builder.NewTicketBuilder().BuildView()
	now := s.clock.Now()

	s.mockReader.EXPECT().FindByCode(gomock.Any(), view.Code).Return(view, nil)
	s.mockRepo.EXPECT().Redeem(gomock.Any(), ticket.Code(view.Code), now).Return(true, nil)

	result, err := s.redemption.Redeem(context.Background(), view.Code)
	require.NoError(s.T(), err)

	assert.True(s.T(), result.Success)
	assert.Equal(s.T(), commands.MessageAdmitted, result.Message)
	require.NotNil(s.T(), result.Details)
	assert.Equal(s.T(), view.ID, result.Details.TicketID)
	assert.Equal(s.T(), view.HolderName, result.Details.HolderName)
	assert.Equal(s.T(), view.Category, result.Details.Category)
	require.NotNil(s.T(), result.Details.RedeemedAt)
	assert.Equal(s.T(), now, *result.Details.RedeemedAt)
}

func (s *RedemptionTestSuite) TestRedeemUnknownCode() {
	s.mockReader.EXPECT().FindByCode(gomock.Any(), "99999-deadbeef00").
		Return(nil, infra.WrapRepoErr("ticket not found", errors.New("no rows"), infra.KindNotFound))

	result, err := s.redemption.Redeem(context.Background(), "99999-deadbeef00")
	require.NoError(s.T(), err)

	assert.False(s.T(), result.Success)
	assert.Equal(s.T(), commands.MessageNotFound, result.Message)
	assert.Nil(s.T(), result.Details)
}

func (s *RedemptionTestSuite) TestRedeemBlankCode() {
	result, err := s.redemption.Redeem(context.Background(), "   ")
	require.NoError(s.T(), err)

	assert.False(s.T(), result.Success)
	assert.Equal(s.T(), commands.MessageNotFound, result.Message)
}

func (s *RedemptionTestSuite) TestRedeemReplay() {
	usedAt := time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
	view := builder.NewTicketBuilder().BuildView()
	view.RedemptionStatus = string(ticket.RedemptionUsed)
	view.RedeemedAt = &usedAt

	s.mockReader.EXPECT().FindByCode(gomock.Any(), view.Code).Return(view, nil)

	result, err := s.redemption.Redeem(context.Background(), view.Code)
	require.NoError(s.T(), err)

	assert.False(s.T(), result.Success)
	assert.Equal(s.T(), commands.MessageAlreadyUsed, result.Message)
	require.NotNil(s.T(), result.Details)
	assert.Equal(s.T(), usedAt, *result.Details.RedeemedAt)
}

func (s *RedemptionTestSuite) TestRedeemLostRace() {
	// The read sees unused, but the conditional update finds nothing to
	// transition: another terminal admitted the holder in between.
	view := builder.NewTicketBuilder().BuildView()
	raceWinner := time.Date(2026, 3, 14, 19, 59, 59, 0, time.UTC)

	usedView := *view
	usedView.RedemptionStatus = string(ticket.RedemptionUsed)
	usedView.RedeemedAt = &raceWinner

	s.mockReader.EXPECT().FindByCode(gomock.Any(), view.Code).Return(view, nil)
	s.mockRepo.EXPECT().Redeem(gomock.Any(), ticket.Code(view.Code), s.clock.Now()).Return(false, nil)
	s.mockReader.EXPECT().FindByCode(gomock.Any(), view.Code).Return(&usedView, nil)

	result, err := s.redemption.Redeem(context.Background(), view.Code)
	require.NoError(s.T(), err)

	assert.False(s.T(), result.Success)
	assert.Equal(s.T(), commands.MessageAlreadyUsed, result.Message)
	require.NotNil(s.T(), result.Details)
	assert.Equal(s.T(), raceWinner, *result.Details.RedeemedAt)
}

func (s *RedemptionTestSuite) TestRedeemStoreFailure() {
	var nilView *queries.TicketView
	s.mockReader.EXPECT().FindByCode(gomock.Any(), "12345-abc").Return(nilView, errors.New("connection refused"))

	_, err := s.redemption.Redeem(context.Background(), "12345-abc")
	assert.ErrorIs(s.T(), err, commands.ErrStoreUnavailable)
}

func TestRedemptionTestSuite(t *testing.T) {
	suite.Run(t, new(RedemptionTestSuite))
}
