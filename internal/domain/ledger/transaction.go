// Package ledger holds the immutable financial records written when a
// booking is paid: one transaction for the student's gross payment, one
// for the teacher's net share, and the teacher wallet they credit.
// Amounts are integers in the smallest currency unit throughout.
package ledger

import (
	"time"

	"github.com/google/uuid"
)

type TxnType string

const (
	TxnMeetingBooking TxnType = "MEETING_BOOKING"
	TxnTeacherEarning TxnType = "TEACHER_EARNING"
)

type TxnNature string

const (
	NatureCredit TxnNature = "CREDIT"
	NatureDebit  TxnNature = "DEBIT"
)

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
	PaymentPending PaymentStatus = "PENDING"
)

// Transaction is one ledger line. Write-once; never updated or deleted.
type Transaction struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	PartyID       uuid.UUID
	Type          TxnType
	Nature        TxnNature
	Amount        int64
	GrossAmount   int64
	TeacherShare  int64
	PlatformFee   int64
	PaymentMethod string
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}

// NewBookingPair builds the two transactions a paid booking produces:
// the student's gross CREDIT and the teacher's net-share CREDIT.
func NewBookingPair(bookingID, studentID, teacherID uuid.UUID, split Split, paymentMethod string) (student, teacher Transaction) {
	student = Transaction{
		ID:            uuid.New(),
		BookingID:     bookingID,
		PartyID:       studentID,
		Type:          TxnMeetingBooking,
		Nature:        NatureCredit,
		Amount:        split.Gross,
		GrossAmount:   split.Gross,
		TeacherShare:  split.TeacherShare,
		PlatformFee:   split.PlatformFee,
		PaymentMethod: paymentMethod,
		PaymentStatus: PaymentSuccess,
	}
	teacher = Transaction{
		ID:            uuid.New(),
		BookingID:     bookingID,
		PartyID:       teacherID,
		Type:          TxnTeacherEarning,
		Nature:        NatureCredit,
		Amount:        split.TeacherShare,
		GrossAmount:   split.Gross,
		TeacherShare:  split.TeacherShare,
		PlatformFee:   split.PlatformFee,
		PaymentMethod: paymentMethod,
		PaymentStatus: PaymentSuccess,
	}
	return student, teacher
}

// Wallet is one running payable balance per teacher. Mutated only by
// ledger posting, only additively, idempotent per transaction id.
type Wallet struct {
	TeacherID uuid.UUID
	Balance   int64
	UpdatedAt time.Time
}
