//go:build unit

package builder

import (
	"time"

	reqdto "tutorbook/internal/handler/dto/request"
	"tutorbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	view queries.BookingView
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now().UTC()
	return &BookingBuilder{
		view: queries.BookingView{
			ID:        uuid.New(),
			StudentID: uuid.New(),
			TeacherID: uuid.New(),
			CourseID:  uuid.New(),
			Date:      "2026-09-07",
			Day:       "Monday",
			StartTime: "09:00",
			EndTime:   "10:00",
			Status:    "pending",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.view.ID = id
	return b
}

func (b *BookingBuilder) WithStudentID(id uuid.UUID) *BookingBuilder {
	b.view.StudentID = id
	return b
}

func (b *BookingBuilder) WithTeacherID(id uuid.UUID) *BookingBuilder {
	b.view.TeacherID = id
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.view.Status = status
	return b
}

func (b *BookingBuilder) WithPaymentOrder(orderID string, amount int64) *BookingBuilder {
	b.view.PaymentOrderID = orderID
	b.view.Amount = amount
	return b
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	v := b.view
	return &v
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		TeacherID: b.view.TeacherID,
		CourseID:  b.view.CourseID,
		Date:      b.view.Date,
		Day:       b.view.Day,
		StartTime: b.view.StartTime,
		EndTime:   b.view.EndTime,
	}
}
