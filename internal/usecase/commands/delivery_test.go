//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"ticket-gate/internal/domain/event"
	"ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/usecase/commands"
	"ticket-gate/internal/usecase/queries"
	"ticket-gate/tests/common/builder"
	commandsmock "ticket-gate/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DeliveryTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockRepo   *commandsmock.MockLedgerRepository
	mockReader *commandsmock.MockLedgerReader
	mockSender *commandsmock.MockMailSender
	mockLocker *commandsmock.MockDispatchLocker
	delivery   commands.DeliveryCommands
	released   bool
}

func (s *DeliveryTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = commandsmock.NewMockLedgerRepository(s.mockCtrl)
	s.mockReader = commandsmock.NewMockLedgerReader(s.mockCtrl)
	s.mockSender = commandsmock.NewMockMailSender(s.mockCtrl)
	s.mockLocker = commandsmock.NewMockDispatchLocker(s.mockCtrl)
	s.released = false

	s.delivery = commands.NewDeliveryCommands(
		s.mockRepo,
		s.mockReader,
		s.mockSender,
		s.mockLocker,
		event.Config{
			EventName:         "Open Air 2026",
			OrganizerContact:  "organizer@example.com",
			NotificationToken: "token",
			ScannerPinHash:    "hash",
		},
	)
}

func (s *DeliveryTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *DeliveryTestSuite) expectLock(email string) {
	s.mockLocker.EXPECT().
		Acquire(gomock.Any(), "dispatch:"+email).
		Return(func() { s.released = true }, nil)
}

func (s *DeliveryTestSuite) TestDispatchSendsAndMarks() {
	email := "ada@example.com"
	pending := []*queries.TicketView{
		builder.NewTicketBuilder().WithID("11111").BuildView(),
		builder.NewTicketBuilder().WithID("22222").WithCategory("VIP").BuildView(),
	}

	s.expectLock(email)
	s.mockReader.EXPECT().FindPendingByEmail(gomock.Any(), email).Return(pending, nil)

	var sentMail commands.Mail
	s.mockSender.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, mail commands.Mail) error {
			sentMail = mail
			return nil
		})
	s.mockRepo.EXPECT().MarkSent(gomock.Any(), []ticket.ID{"11111", "22222"}).Return(nil)

	sent, err := s.delivery.DispatchPending(context.Background(), email)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, sent)
	assert.True(s.T(), s.released)

	assert.Equal(s.T(), email, sentMail.To)
	assert.Equal(s.T(), "Your tickets for Open Air 2026", sentMail.Subject)
	// One mail covers both tickets, grouped by category.
	assert.Contains(s.T(), sentMail.HTML, pending[0].Code)
	assert.Contains(s.T(), sentMail.HTML, pending[1].Code)
	assert.Contains(s.T(), sentMail.HTML, "<h2>Regular</h2>")
	assert.Contains(s.T(), sentMail.HTML, "<h2>VIP</h2>")
	assert.Contains(s.T(), sentMail.HTML, "organizer@example.com")
}

func (s *DeliveryTestSuite) TestDispatchNothingPending() {
	email := "ada@example.com"

	s.expectLock(email)
	s.mockReader.EXPECT().FindPendingByEmail(gomock.Any(), email).Return(nil, nil)

	sent, err := s.delivery.DispatchPending(context.Background(), email)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, sent)
	assert.True(s.T(), s.released)
}

func (s *DeliveryTestSuite) TestDispatchSendFailureKeepsPending() {
	email := "ada@example.com"
	pending := []*queries.TicketView{builder.NewTicketBuilder().BuildView()}

	s.expectLock(email)
	s.mockReader.EXPECT().FindPendingByEmail(gomock.Any(), email).Return(pending, nil)
	s.mockSender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("mail API returned 500"))
	// MarkSent must not run: the tickets stay pending for the retry.

	sent, err := s.delivery.DispatchPending(context.Background(), email)
	assert.ErrorIs(s.T(), err, commands.ErrDeliveryFailure)
	assert.Equal(s.T(), 0, sent)
	assert.True(s.T(), s.released)
}

func (s *DeliveryTestSuite) TestDispatchLockBusy() {
	email := "ada@example.com"

	s.mockLocker.EXPECT().
		Acquire(gomock.Any(), "dispatch:"+email).
		Return(nil, commands.ErrDispatchInProgress)

	sent, err := s.delivery.DispatchPending(context.Background(), email)
	assert.ErrorIs(s.T(), err, commands.ErrDispatchInProgress)
	assert.Equal(s.T(), 0, sent)
}

func (s *DeliveryTestSuite) TestDispatchMarkSentFailure() {
	email := "ada@example.com"
	pending := []*queries.TicketView{builder.NewTicketBuilder().BuildView()}

	s.expectLock(email)
	s.mockReader.EXPECT().FindPendingByEmail(gomock.Any(), email).Return(pending, nil)
	s.mockSender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
	s.mockRepo.EXPECT().MarkSent(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	// The mail went out but the bookkeeping failed: surfaced as a store
	// error, and the pending rows make the next dispatch re-send.
	sent, err := s.delivery.DispatchPending(context.Background(), email)
	assert.ErrorIs(s.T(), err, commands.ErrStoreUnavailable)
	assert.Equal(s.T(), 0, sent)
}

func TestDeliveryTestSuite(t *testing.T) {
	suite.Run(t, new(DeliveryTestSuite))
}
