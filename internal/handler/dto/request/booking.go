package request

import (
	"strings"

	"tutorbook/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	TeacherID uuid.UUID `json:"teacher_id" binding:"required"`
	CourseID  uuid.UUID `json:"course_id" binding:"required"`
	Date      string    `json:"date" binding:"required"`
	Day       string    `json:"day" binding:"required"`
	StartTime string    `json:"start_time" binding:"required"`
	EndTime   string    `json:"end_time" binding:"required"`
	Note      *string   `json:"note,omitempty"`
}

func (r CreateBookingRequest) ToDomain(studentID uuid.UUID) (*booking.Booking, error) {
	slot, err := booking.NewSlot(r.Date, r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}

	note := booking.NewNote("")
	if r.Note != nil {
		note = booking.NewNote(strings.TrimSpace(*r.Note))
	}

	return booking.NewBooking(studentID, r.TeacherID, r.CourseID, slot, r.Day, note)
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type RescheduleRequest struct {
	Reason    string `json:"reason" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

func (r RescheduleRequest) ProposedSlot() (booking.Slot, error) {
	return booking.NewSlot(r.Date, r.StartTime, r.EndTime)
}
