//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ticket-gate/internal/domain/lot"
	"ticket-gate/internal/domain/ticket"
	"ticket-gate/internal/pkg/clock"
	"ticket-gate/internal/usecase/commands"
	"ticket-gate/internal/usecase/queries"
	commandsmock "ticket-gate/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type IssuanceTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockRepo   *commandsmock.MockLedgerRepository
	mockReader *commandsmock.MockLedgerReader
	clock      *clock.MockClock
}

func (s *IssuanceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = commandsmock.NewMockLedgerRepository(s.mockCtrl)
	s.mockReader = commandsmock.NewMockLedgerReader(s.mockCtrl)
	s.clock = clock.NewMockClock(time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC))
}

func (s *IssuanceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *IssuanceTestSuite) newIssuance(cfg lot.Config, src ticket.IDSource) commands.IssuanceCommands {
	return commands.NewIssuanceCommands(s.mockRepo, s.mockReader, cfg, src, 10, s.clock)
}

func sequenceSource(ids ...string) ticket.IDSource {
	i := 0
	return func() ticket.ID {
		id := ticket.ID(ids[i%len(ids)])
		i++
		return id
	}
}

func boundedLot() lot.Config {
	return lot.Config{
		Enabled:         true,
		OverallCapacity: 100,
		MaxPerCategory:  map[string]int{"Regular": 0, "VIP": 10},
	}
}

func validParams() commands.IssueParams {
	return commands.IssueParams{
		HolderName:  "Ada Lovelace",
		HolderEmail: "ada@example.com",
		Category:    "Regular",
		Quantity:    2,
	}
}

func (s *IssuanceTestSuite) TestIssueSuccess() {
	issuance := s.newIssuance(boundedLot(), sequenceSource("11111", "22222"))

	s.mockReader.EXPECT().CountIssued(gomock.Any()).Return(lot.Counts{Total: 10}, nil)
	s.mockReader.EXPECT().ListIDs(gomock.Any()).Return(map[string]struct{}{}, nil)

	var inserted []*ticket.Ticket
	s.mockRepo.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tickets []*ticket.Ticket) error {
			inserted = tickets
			return nil
		})

	issued, err := issuance.Issue(context.Background(), validParams())
	require.NoError(s.T(), err)
	require.Len(s.T(), issued, 2)
	assert.Equal(s.T(), inserted, issued)

	assert.Equal(s.T(), "11111", issued[0].ID().String())
	assert.Equal(s.T(), "22222", issued[1].ID().String())
	for _, tk := range issued {
		assert.Equal(s.T(), "Ada Lovelace", tk.HolderName())
		assert.Equal(s.T(), s.clock.Now(), tk.IssuedAt())
		assert.True(s.T(), tk.IsPendingDelivery())
	}
}

func (s *IssuanceTestSuite) TestIssueRejectsBadParams() {
	issuance := s.newIssuance(boundedLot(), sequenceSource("11111"))

	params := validParams()
	params.Quantity = 0
	_, err := issuance.Issue(context.Background(), params)
	assert.ErrorIs(s.T(), err, commands.ErrInvalidQuantity)

	params = validParams()
	params.Category = "Backstage"
	_, err = issuance.Issue(context.Background(), params)
	assert.ErrorIs(s.T(), err, commands.ErrUnknownCategory)
}

func (s *IssuanceTestSuite) TestIssueCapacityExceeded() {
	issuance := s.newIssuance(boundedLot(), sequenceSource("11111"))

	s.mockReader.EXPECT().CountIssued(gomock.Any()).Return(lot.Counts{Total: 99}, nil)

	_, err := issuance.Issue(context.Background(), validParams())
	assert.ErrorIs(s.T(), err, commands.ErrCapacityExceeded)
}

func (s *IssuanceTestSuite) TestIssueSkipsTakenIDs() {
	issuance := s.newIssuance(boundedLot(), sequenceSource("11111", "22222", "33333"))

	s.mockReader.EXPECT().CountIssued(gomock.Any()).Return(lot.Counts{}, nil)
	s.mockReader.EXPECT().ListIDs(gomock.Any()).Return(map[string]struct{}{"11111": {}}, nil)
	s.mockRepo.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)

	issued, err := issuance.Issue(context.Background(), validParams())
	require.NoError(s.T(), err)
	require.Len(s.T(), issued, 2)
	assert.Equal(s.T(), "22222", issued[0].ID().String())
	assert.Equal(s.T(), "33333", issued[1].ID().String())
}

func (s *IssuanceTestSuite) TestIssueBatchIDsDistinct() {
	// The source repeats one id; the second ticket must not reuse it.
	issuance := s.newIssuance(boundedLot(), sequenceSource("11111", "11111", "22222"))

	s.mockReader.EXPECT().CountIssued(gomock.Any()).Return(lot.Counts{}, nil)
	s.mockReader.EXPECT().ListIDs(gomock.Any()).Return(map[string]struct{}{}, nil)
	s.mockRepo.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)

	issued, err := issuance.Issue(context.Background(), validParams())
	require.NoError(s.T(), err)
	require.Len(s.T(), issued, 2)
	assert.NotEqual(s.T(), issued[0].ID(), issued[1].ID())
}

func (s *IssuanceTestSuite) TestIssueIDSpaceExhausted() {
	issuance := s.newIssuance(boundedLot(), sequenceSource("11111"))

	s.mockReader.EXPECT().CountIssued(gomock.Any()).Return(lot.Counts{}, nil)
	s.mockReader.EXPECT().ListIDs(gomock.Any()).Return(map[string]struct{}{"11111": {}}, nil)

	_, err := issuance.Issue(context.Background(), validParams())
	assert.ErrorIs(s.T(), err, commands.ErrIDSpaceExhausted)
}

func (s *IssuanceTestSuite) TestIssueStoreFailures() {
	issuance := s.newIssuance(boundedLot(), sequenceSource("11111", "22222"))

	s.mockReader.EXPECT().CountIssued(gomock.Any()).Return(lot.Counts{}, errors.New("connection refused"))
	_, err := issuance.Issue(context.Background(), validParams())
	assert.ErrorIs(s.T(), err, commands.ErrStoreUnavailable)

	s.mockReader.EXPECT().CountIssued(gomock.Any()).Return(lot.Counts{}, nil)
	s.mockReader.EXPECT().ListIDs(gomock.Any()).Return(map[string]struct{}{}, nil)
	s.mockRepo.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(errors.New("unique violation"))
	_, err = issuance.Issue(context.Background(), validParams())
	assert.ErrorIs(s.T(), err, commands.ErrStoreUnavailable)
}

func (s *IssuanceTestSuite) TestIssueUnlimitedLotSkipsNothing() {
	cfg := lot.Config{Enabled: false, MaxPerCategory: map[string]int{"Regular": 0}}
	issuance := s.newIssuance(cfg, sequenceSource("11111", "22222"))

	// Capacity check still reads counts; unlimited just always admits.
	s.mockReader.EXPECT().CountIssued(gomock.Any()).Return(lot.Counts{Total: 1_000_000}, nil)
	s.mockReader.EXPECT().ListIDs(gomock.Any()).Return(map[string]struct{}{}, nil)
	s.mockRepo.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)

	issued, err := issuance.Issue(context.Background(), validParams())
	require.NoError(s.T(), err)
	assert.Len(s.T(), issued, 2)
}

func TestIssuanceTestSuite(t *testing.T) {
	suite.Run(t, new(IssuanceTestSuite))
}

// memoryLedger backs the parallel-issuance test: counts always reflect what
// has actually been inserted, so any hole in the arbiter shows up as an
// oversell.
type memoryLedger struct {
	mu   sync.Mutex
	rows []*ticket.Ticket
}

func (m *memoryLedger) InsertBatch(_ context.Context, tickets []*ticket.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, tickets...)
	return nil
}

func (m *memoryLedger) MarkSent(context.Context, []ticket.ID) error { return nil }

func (m *memoryLedger) Redeem(context.Context, ticket.Code, time.Time) (bool, error) {
	return false, nil
}

func (m *memoryLedger) CountIssued(context.Context) (lot.Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := lot.Counts{ByCategory: make(map[string]int)}
	for _, t := range m.rows {
		counts.Total++
		counts.ByCategory[t.Category()]++
	}
	return counts, nil
}

func (m *memoryLedger) ListIDs(context.Context) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]struct{}, len(m.rows))
	for _, t := range m.rows {
		ids[t.ID().String()] = struct{}{}
	}
	return ids, nil
}

func (m *memoryLedger) FindByCode(context.Context, string) (*queries.TicketView, error) {
	return nil, nil
}

func (m *memoryLedger) FindPendingByEmail(context.Context, string) ([]*queries.TicketView, error) {
	return nil, nil
}

func TestIssue_ParallelIssuanceHoldsCapacity(t *testing.T) {
	const (
		capacity = 10
		buyers   = 20
	)

	ledger := &memoryLedger{}
	cfg := lot.Config{
		Enabled:         true,
		OverallCapacity: capacity,
		MaxPerCategory:  map[string]int{"Regular": 0, "VIP": 0},
	}
	issuance := commands.NewIssuanceCommands(
		ledger,
		ledger,
		cfg,
		ticket.RandomIDSource(),
		50,
		clock.NewMockClock(time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)),
	)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for n := 0; n < buyers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := issuance.Issue(context.Background(), commands.IssueParams{
				HolderName:  "Ada Lovelace",
				HolderEmail: "ada@example.com",
				Category:    []string{"Regular", "VIP"}[n%2],
				Quantity:    1,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, commands.ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected issuance error: %v", err)
			}
		}(n)
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, buyers-capacity, rejected)
	require.Len(t, ledger.rows, capacity)

	seen := make(map[string]struct{}, capacity)
	for _, tk := range ledger.rows {
		seen[tk.ID().String()] = struct{}{}
	}
	assert.Len(t, seen, capacity)
}
