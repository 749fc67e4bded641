package api

import (
	"errors"
	"net/http"

	reqdto "tutorbook/internal/handler/dto/request"
	resdto "tutorbook/internal/handler/dto/response"
	"tutorbook/internal/handler/middleware"
	"tutorbook/internal/pkg/errs"
	"tutorbook/internal/usecase/commands"
	"tutorbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	bookingQueries  queries.BookingQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, bookingQueries queries.BookingQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Initiate payment
// @Description Create a gateway order for an approved booking
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.InitiatePaymentRequest true "Payment initiation"
// @Success 200 {object} resdto.InitiatePaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /payments/initiate [post]
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	studentID, ok := middleware.GetSubjectID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.InitiatePaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	res, err := h.paymentCommands.InitiatePayment(c.Request.Context(), req, studentID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, errs.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a party to this booking"})
		case errors.Is(err, errs.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		case errors.Is(err, errs.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Booking is not payable"})
		case errors.Is(err, errs.ErrGatewayUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway unavailable"})
		case errors.Is(err, errs.ErrDatabaseOperationFailed):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromInitiatePaymentResult(res))
}

// @Summary Verify payment
// @Description Verify a gateway completion signature and settle the booking
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.VerifyPaymentRequest true "Gateway confirmation triple"
// @Success 200 {object} resdto.VerifyPaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /payments/verify [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req reqdto.VerifyPaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	res, err := h.paymentCommands.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrPaymentVerificationFailed):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment signature verification failed"})
		case errors.Is(err, errs.ErrPaymentOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment order not found"})
		case errors.Is(err, errs.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Booking is not payable"})
		case errors.Is(err, errs.ErrDatabaseOperationFailed):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromVerifyPaymentResult(res))
}

// @Summary Wallet balance
// @Description Current payable balance of the calling teacher
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.WalletResponse
// @Failure 401 {object} map[string]string
// @Router /wallet [get]
func (h *PaymentHandler) GetWallet(c *gin.Context) {
	teacherID, ok := middleware.GetSubjectID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.bookingQueries.GetWallet(c.Request.Context(), teacherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromWalletView(view))
}
