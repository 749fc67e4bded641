//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"tutorbook/internal/domain/identity"
	"tutorbook/internal/handler/api"
	reqdto "tutorbook/internal/handler/dto/request"
	resdto "tutorbook/internal/handler/dto/response"
	"tutorbook/internal/pkg/errs"
	"tutorbook/internal/usecase/commands"
	"tutorbook/internal/usecase/queries"
	"tutorbook/tests/common/builder"
	"tutorbook/tests/common/httptest"
	"tutorbook/tests/common/testutil"
	commandsmock "tutorbook/tests/mock/commands"
	queriesmock "tutorbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.PaymentHandler
	subjectID    uuid.UUID
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockCommands, s.mockQueries)
	s.subjectID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("subject_id", s.subjectID)
		c.Set("subject_role", identity.RoleStudent)
		c.Next()
	}

	s.router.POST("/payments/initiate", authMiddleware, s.handler.InitiatePayment)
	s.router.POST("/payments/verify", authMiddleware, s.handler.VerifyPayment)
	s.router.GET("/wallet", authMiddleware, s.handler.GetWallet)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

// ================================================================================
// TestInitiatePayment
// ================================================================================

func (s *PaymentHandlerTestSuite) TestInitiatePayment() {
	url := "/payments/initiate"
	bookingID := uuid.New()

	reqBody := reqdto.InitiatePaymentRequest{BookingID: bookingID, Amount: 10000}
	returnView := builder.NewBookingBuilder().
		WithID(bookingID).
		WithStatus("approved").
		WithPaymentOrder("order_G7k2p", 10000).
		BuildView()
	expectedResult := &commands.InitiatePaymentResult{
		GatewayOrderID: "order_G7k2p",
		Booking:        returnView,
	}

	s.Run("success: returns 200 OK with gateway order", func() {
		s.mockCommands.EXPECT().InitiatePayment(gomock.Any(), reqBody, s.subjectID).
			Return(expectedResult, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.InitiatePaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("order_G7k2p", response.GatewayOrderID)
		s.Equal("approved", response.Booking.Status)
		s.Equal(int64(10000), response.Booking.Amount)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: booking_id (required)", mutate: testutil.Field("booking_id", nil)},
			{name: "missing field: amount (required)", mutate: testutil.Field("amount", nil)},
			{name: "zero amount", mutate: testutil.Field("amount", 0)},
			{name: "negative amount", mutate: testutil.Field("amount", -500)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "booking not found",
				commandsError:  errs.ErrBookingNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Booking not found",
			},
			{
				name:           "not the booking's student",
				commandsError:  errs.ErrForbidden,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Not a party",
			},
			{
				name:           "booking not approved yet",
				commandsError:  errs.ErrInvalidTransition,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "not payable",
			},
			{
				name:           "gateway down",
				commandsError:  errs.ErrGatewayUnavailable,
				expectedStatus: http.StatusServiceUnavailable,
				expectedMsg:    "Payment gateway unavailable",
			},
			{
				name:           "storage temporarily failing",
				commandsError:  errs.ErrDatabaseOperationFailed,
				expectedStatus: http.StatusServiceUnavailable,
				expectedMsg:    "Service temporarily unavailable",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().InitiatePayment(gomock.Any(), reqBody, s.subjectID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestVerifyPayment
// ================================================================================

func (s *PaymentHandlerTestSuite) TestVerifyPayment() {
	url := "/payments/verify"

	reqBody := reqdto.VerifyPaymentRequest{
		GatewayOrderID:   "order_G7k2p",
		GatewayPaymentID: "pay_H8m3q",
		GatewaySignature: "a3f1c9",
	}
	paidView := builder.NewBookingBuilder().
		WithStatus("paid").
		WithPaymentOrder("order_G7k2p", 10000).
		BuildView()

	s.Run("success: first verification settles the booking", func() {
		s.mockCommands.EXPECT().VerifyPayment(gomock.Any(), reqBody).
			Return(&commands.VerifyPaymentResult{Booking: paidView, IsReplayed: false}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.VerifyPaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("paid", response.Booking.Status)
		s.False(response.IsReplayed)
	})

	s.Run("success: redelivery reports a replay without new writes", func() {
		s.mockCommands.EXPECT().VerifyPayment(gomock.Any(), reqBody).
			Return(&commands.VerifyPaymentResult{Booking: paidView, IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.VerifyPaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.IsReplayed)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: gateway_order_id (required)", mutate: testutil.Field("gateway_order_id", nil)},
			{name: "missing field: gateway_payment_id (required)", mutate: testutil.Field("gateway_payment_id", nil)},
			{name: "missing field: gateway_signature (required)", mutate: testutil.Field("gateway_signature", nil)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "tampered signature",
				commandsError:  errs.ErrPaymentVerificationFailed,
				expectedStatus: http.StatusPaymentRequired,
				expectedMsg:    "verification failed",
			},
			{
				name:           "unknown gateway order",
				commandsError:  errs.ErrPaymentOrderNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Payment order not found",
			},
			{
				name:           "booking left the payable state",
				commandsError:  errs.ErrInvalidTransition,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "not payable",
			},
			{
				name:           "storage temporarily failing",
				commandsError:  errs.ErrDatabaseOperationFailed,
				expectedStatus: http.StatusServiceUnavailable,
				expectedMsg:    "Service temporarily unavailable",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().VerifyPayment(gomock.Any(), reqBody).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGetWallet
// ================================================================================

func (s *PaymentHandlerTestSuite) TestGetWallet() {
	url := "/wallet"

	s.Run("success: returns 200 OK with the caller's balance", func() {
		view := &queries.WalletView{
			TeacherID: s.subjectID,
			Balance:   48000,
			UpdatedAt: time.Now().UTC(),
		}
		s.mockQueries.EXPECT().GetWallet(gomock.Any(), s.subjectID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.WalletResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(s.subjectID, response.TeacherID)
		s.Equal(int64(48000), response.Balance)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().GetWallet(gomock.Any(), s.subjectID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
