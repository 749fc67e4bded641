//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"tutorbook/internal/handler/api"
	resdto "tutorbook/internal/handler/dto/response"
	"tutorbook/internal/usecase/queries"
	"tutorbook/tests/common/httptest"
	queriesmock "tutorbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SlotHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockSlotQueries
	handler     *api.SlotHandler
}

func (s *SlotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockSlotQueries(s.mockCtrl)
	s.handler = api.NewSlotHandler(s.mockQueries)

	s.router.GET("/teachers/:id/slots", s.handler.ListAvailableSlots)
}

func (s *SlotHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSlotHandlerSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}

func (s *SlotHandlerTestSuite) TestListAvailableSlots() {
	teacherID := uuid.New()
	url := "/teachers/" + teacherID.String() + "/slots"

	views := []queries.SlotView{
		{Date: "2026-09-07", Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
		{Date: "2026-09-07", Day: "Monday", StartTime: "14:00", EndTime: "15:00"},
	}

	s.Run("success: returns 200 OK with open slots", func() {
		s.mockQueries.EXPECT().ListOpenSlots(gomock.Any(), teacherID).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("09:00", response[0].StartTime)
	})

	s.Run("success: teacher without availability gets an empty list", func() {
		s.mockQueries.EXPECT().ListOpenSlots(gomock.Any(), teacherID).
			Return([]queries.SlotView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("error: 400 Bad Request for invalid teacher UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/teachers/invalid-uuid/slots", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid teacher ID")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().ListOpenSlots(gomock.Any(), teacherID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
