package response

import (
	"time"

	"tutorbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                 uuid.UUID `json:"id"`
	StudentID          uuid.UUID `json:"studentId"`
	TeacherID          uuid.UUID `json:"teacherId"`
	CourseID           uuid.UUID `json:"courseId"`
	Date               string    `json:"date"`
	Day                string    `json:"day"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	Status             string    `json:"status"`
	Note               string    `json:"note,omitempty"`
	RejectionReason    string    `json:"rejectionReason,omitempty"`
	CancellationReason string    `json:"cancellationReason,omitempty"`
	RescheduleReason   string    `json:"rescheduleReason,omitempty"`
	ProposedDate       string    `json:"proposedDate,omitempty"`
	ProposedStart      string    `json:"proposedStart,omitempty"`
	ProposedEnd        string    `json:"proposedEnd,omitempty"`
	PaymentOrderID     string    `json:"paymentOrderId,omitempty"`
	Amount             int64     `json:"amount,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type TransactionResponse struct {
	ID            uuid.UUID `json:"id"`
	BookingID     uuid.UUID `json:"bookingId"`
	Type          string    `json:"type"`
	Nature        string    `json:"nature"`
	Amount        int64     `json:"amount"`
	GrossAmount   int64     `json:"grossAmount"`
	TeacherShare  int64     `json:"teacherShare"`
	PlatformFee   int64     `json:"platformFee"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

type SlotResponse struct {
	Date      string `json:"date"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	// Field names line up one to one; copier keeps the mapping in sync.
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromTransactionViews(views []queries.TransactionView) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(views))
	_ = copier.Copy(&out, views)
	return out
}

func FromSlotViews(views []queries.SlotView) []SlotResponse {
	out := make([]SlotResponse, 0, len(views))
	_ = copier.Copy(&out, views)
	return out
}
