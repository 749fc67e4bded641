package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID                 uuid.UUID `json:"id"`
	StudentID          uuid.UUID `json:"student_id"`
	TeacherID          uuid.UUID `json:"teacher_id"`
	CourseID           uuid.UUID `json:"course_id"`
	Date               string    `json:"date"`
	Day                string    `json:"day"`
	StartTime          string    `json:"start_time"`
	EndTime            string    `json:"end_time"`
	Status             string    `json:"status"`
	Note               string    `json:"note,omitempty"`
	RejectionReason    string    `json:"rejection_reason,omitempty"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	RescheduleReason   string    `json:"reschedule_reason,omitempty"`
	ProposedDate       string    `json:"proposed_date,omitempty"`
	ProposedStart      string    `json:"proposed_start,omitempty"`
	ProposedEnd        string    `json:"proposed_end,omitempty"`
	PaymentOrderID     string    `json:"payment_order_id,omitempty"`
	Amount             int64     `json:"amount,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type SlotView struct {
	Date      string `json:"date"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type WalletView struct {
	TeacherID uuid.UUID `json:"teacher_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TransactionView struct {
	ID            uuid.UUID `json:"id"`
	BookingID     uuid.UUID `json:"booking_id"`
	Type          string    `json:"type"`
	Nature        string    `json:"nature"`
	Amount        int64     `json:"amount"`
	GrossAmount   int64     `json:"gross_amount"`
	TeacherShare  int64     `json:"teacher_share"`
	PlatformFee   int64     `json:"platform_fee"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}
