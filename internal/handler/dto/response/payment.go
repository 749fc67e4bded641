package response

import (
	"time"

	"tutorbook/internal/usecase/commands"
	"tutorbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type InitiatePaymentResponse struct {
	GatewayOrderID string           `json:"gatewayOrderId"`
	Booking        *BookingResponse `json:"booking"`
}

type VerifyPaymentResponse struct {
	Booking    *BookingResponse `json:"booking"`
	IsReplayed bool             `json:"isReplayed"`
}

type WalletResponse struct {
	TeacherID uuid.UUID `json:"teacherId"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromInitiatePaymentResult(res *commands.InitiatePaymentResult) *InitiatePaymentResponse {
	return &InitiatePaymentResponse{
		GatewayOrderID: res.GatewayOrderID,
		Booking:        FromBookingView(res.Booking),
	}
}

func FromVerifyPaymentResult(res *commands.VerifyPaymentResult) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		Booking:    FromBookingView(res.Booking),
		IsReplayed: res.IsReplayed,
	}
}

func FromWalletView(view *queries.WalletView) *WalletResponse {
	var resp WalletResponse
	_ = copier.Copy(&resp, view)
	return &resp
}
