//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"ticket-gate/internal/handler/api"
	reqdto "ticket-gate/internal/handler/dto/request"
	resdto "ticket-gate/internal/handler/dto/response"
	"ticket-gate/internal/pkg/errs"
	"ticket-gate/internal/usecase/commands"
	httptesthelper "ticket-gate/tests/common/httptest"
	commandsmock "ticket-gate/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DeliveryHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockDelivery *commandsmock.MockDeliveryCommands
}

func (s *DeliveryHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockDelivery = commandsmock.NewMockDeliveryCommands(s.mockCtrl)
	handler := api.NewDeliveryHandler(s.mockDelivery)

	s.router.POST("/api/tickets/dispatch", handler.Dispatch)
}

func (s *DeliveryHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *DeliveryHandlerTestSuite) TestDispatchReportsSentCount() {
	s.mockDelivery.EXPECT().DispatchPending(gomock.Any(), "ada@example.com").Return(2, nil)

	w := httptesthelper.PerformRequest(s.T(), s.router, http.MethodPost, "/api/tickets/dispatch",
		reqdto.DispatchRequest{Email: "Ada@Example.com"}, "")

	var resp resdto.DispatchResponse
	httptesthelper.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	require.Equal(s.T(), 2, resp.Sent)
}

func (s *DeliveryHandlerTestSuite) TestDispatchErrorMapping() {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"dispatch already running", commands.ErrDispatchInProgress, http.StatusConflict, "already in progress"},
		{"mail channel failure", commands.ErrDeliveryFailure, http.StatusBadGateway, "delivery failed"},
		{"ledger store down", commands.ErrStoreUnavailable, http.StatusServiceUnavailable, "store unavailable"},
		{"unclassified failure", errs.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.mockDelivery.EXPECT().DispatchPending(gomock.Any(), "ada@example.com").Return(0, tc.err)

			w := httptesthelper.PerformRequest(s.T(), s.router, http.MethodPost, "/api/tickets/dispatch",
				reqdto.DispatchRequest{Email: "ada@example.com"}, "")
			httptesthelper.AssertErrorResponse(s.T(), w, tc.wantStatus, tc.wantMsg)
		})
	}
}

func (s *DeliveryHandlerTestSuite) TestDispatchRejectsInvalidEmail() {
	w := httptesthelper.PerformRequest(s.T(), s.router, http.MethodPost, "/api/tickets/dispatch",
		reqdto.DispatchRequest{Email: "not-an-email"}, "")
	httptesthelper.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request format")
}

func TestDeliveryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(DeliveryHandlerTestSuite))
}
