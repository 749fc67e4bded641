package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNoProposedSlot    = errors.New("no proposed slot to approve")
)

// Booking is one requested or realized reservation of a teacher slot.
// Transitions validate the current status and leave the entity
// unchanged on failure; the repository re-checks the same source
// statuses with a conditional update so concurrent transitions are
// totally ordered by the store.
type Booking struct {
	id                 uuid.UUID
	studentID          uuid.UUID
	teacherID          uuid.UUID
	courseID           uuid.UUID
	slot               Slot
	day                string
	status             Status
	note               Note
	rejectionReason    string
	cancellationReason string
	rescheduleReason   string
	proposedSlot       Slot
	paymentOrderID     string
	amount             int64
	createdAt          time.Time
	updatedAt          time.Time
}

func NewBooking(studentID, teacherID, courseID uuid.UUID, slot Slot, day string, note Note) (*Booking, error) {
	if !slot.MatchesDay(day) {
		return nil, ErrDayMismatch
	}
	return &Booking{
		id:        uuid.New(),
		studentID: studentID,
		teacherID: teacherID,
		courseID:  courseID,
		slot:      slot,
		day:       slot.Weekday().String(),
		status:    StatusPending,
		note:      note,
	}, nil
}

func Reconstruct(
	id, studentID, teacherID, courseID uuid.UUID,
	slot Slot,
	day string,
	status Status,
	note Note,
	rejectionReason, cancellationReason, rescheduleReason string,
	proposedSlot Slot,
	paymentOrderID string,
	amount int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                 id,
		studentID:          studentID,
		teacherID:          teacherID,
		courseID:           courseID,
		slot:               slot,
		day:                day,
		status:             status,
		note:               note,
		rejectionReason:    rejectionReason,
		cancellationReason: cancellationReason,
		rescheduleReason:   rescheduleReason,
		proposedSlot:       proposedSlot,
		paymentOrderID:     paymentOrderID,
		amount:             amount,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// Approve moves pending/reschedule_requested to approved. Approving a
// reschedule adopts the proposed slot; the caller must re-run the
// conflict guard against it before persisting.
func (b *Booking) Approve() error {
	if !statusIn(b.status, ApprovableFrom) {
		return ErrInvalidTransition
	}
	if b.status == StatusRescheduleRequested {
		if b.proposedSlot.IsZero() {
			return ErrNoProposedSlot
		}
		b.slot = b.proposedSlot
		b.day = b.proposedSlot.Weekday().String()
		b.proposedSlot = Slot{}
	}
	b.status = StatusApproved
	return nil
}

func (b *Booking) Reject(reason Reason) error {
	if !statusIn(b.status, RejectableFrom) {
		return ErrInvalidTransition
	}
	b.status = StatusRejected
	b.rejectionReason = reason.String()
	return nil
}

func (b *Booking) Cancel(reason Reason) error {
	if !statusIn(b.status, CancellableFrom) {
		return ErrInvalidTransition
	}
	b.status = StatusCancelled
	b.cancellationReason = reason.String()
	return nil
}

// RequestReschedule stores the teacher's proposal without changing the
// occupied slot; the slot only moves when the proposal is approved.
func (b *Booking) RequestReschedule(reason Reason, proposed Slot) error {
	if !statusIn(b.status, ReschedulableFrom) {
		return ErrInvalidTransition
	}
	b.status = StatusRescheduleRequested
	b.rescheduleReason = reason.String()
	b.proposedSlot = proposed
	return nil
}

// MarkPaid is driven only by payment verification, never a user action.
func (b *Booking) MarkPaid() error {
	if !statusIn(b.status, PayableFrom) {
		return ErrInvalidTransition
	}
	b.status = StatusPaid
	return nil
}

func (b *Booking) Complete() error {
	if !statusIn(b.status, CompletableFrom) {
		return ErrInvalidTransition
	}
	b.status = StatusCompleted
	return nil
}

func (b *Booking) AttachPaymentOrder(orderID string, amount int64) {
	b.paymentOrderID = orderID
	b.amount = amount
}

func (b *Booking) IsStudent(id uuid.UUID) bool { return b.studentID == id }
func (b *Booking) IsTeacher(id uuid.UUID) bool { return b.teacherID == id }
func (b *Booking) IsParty(id uuid.UUID) bool   { return b.IsStudent(id) || b.IsTeacher(id) }

func (b *Booking) ID() uuid.UUID              { return b.id }
func (b *Booking) StudentID() uuid.UUID       { return b.studentID }
func (b *Booking) TeacherID() uuid.UUID       { return b.teacherID }
func (b *Booking) CourseID() uuid.UUID        { return b.courseID }
func (b *Booking) Slot() Slot                 { return b.slot }
func (b *Booking) Day() string                { return b.day }
func (b *Booking) Status() Status             { return b.status }
func (b *Booking) Note() Note                 { return b.note }
func (b *Booking) RejectionReason() string    { return b.rejectionReason }
func (b *Booking) CancellationReason() string { return b.cancellationReason }
func (b *Booking) RescheduleReason() string   { return b.rescheduleReason }
func (b *Booking) ProposedSlot() Slot         { return b.proposedSlot }
func (b *Booking) PaymentOrderID() string     { return b.paymentOrderID }
func (b *Booking) Amount() int64              { return b.amount }
func (b *Booking) CreatedAt() time.Time       { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time       { return b.updatedAt }
