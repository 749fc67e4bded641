package commands

import (
	"context"

	"tutorbook/internal/domain/booking"
	"tutorbook/internal/domain/identity"
	reqdto "tutorbook/internal/handler/dto/request"
	"tutorbook/internal/infra"
	"tutorbook/internal/infra/db"
	"tutorbook/internal/infra/notify"
	"tutorbook/internal/pkg/clock"
	"tutorbook/internal/pkg/errs"
	"tutorbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingCommands interface {
	CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, studentID uuid.UUID) (*queries.BookingView, error)
	Approve(ctx context.Context, bookingID, teacherID uuid.UUID) (*queries.BookingView, error)
	Reject(ctx context.Context, bookingID, teacherID uuid.UUID, reason string) (*queries.BookingView, error)
	Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, reason string) (*queries.BookingView, error)
	RequestReschedule(ctx context.Context, bookingID, teacherID uuid.UUID, req reqdto.RescheduleRequest) (*queries.BookingView, error)
	Complete(ctx context.Context, bookingID, requesterID uuid.UUID, role identity.Role) (*queries.BookingView, error)
}

type bookingUseCaseImpl struct {
	bookingRepo BookingRepository
	dispatcher  NotificationDispatcher
	db          db.Pool
	clock       clock.Clock
}

func NewBookingUseCase(
	bookingRepo BookingRepository,
	dispatcher NotificationDispatcher,
	pool db.Pool,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		bookingRepo: bookingRepo,
		dispatcher:  dispatcher,
		db:          pool,
		clock:       clk,
	}
}

// CreateBooking inserts the pending booking in one statement; the
// live-slot unique index is the conflict guard, so two students racing
// for the same slot cannot both succeed.
func (c *bookingUseCaseImpl) CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, studentID uuid.UUID) (*queries.BookingView, error) {
	b, err := req.ToDomain(studentID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidSlot)
	}

	if err := c.bookingRepo.Create(ctx, c.db, b); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrSlotConflict)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.notify(ctx, b, notify.EventBookingRequested)
	return queries.NewBookingView(b), nil
}

// Approve moves pending/reschedule_requested to approved. Approving a
// reschedule adopts the proposed slot, and the adoption re-enters the
// conflict guard: the persisted update trips the live-slot index when
// the proposed slot was taken in the meantime.
func (c *bookingUseCaseImpl) Approve(ctx context.Context, bookingID, teacherID uuid.UUID) (*queries.BookingView, error) {
	b, err := c.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsTeacher(teacherID) {
		return nil, errs.ErrForbidden
	}

	if err := b.Approve(); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTransition)
	}

	if err := c.bookingRepo.Approve(ctx, c.db, b); err != nil {
		switch {
		case infra.IsKind(err, infra.KindConflict):
			return nil, errs.Mark(err, errs.ErrSlotConflict)
		case infra.IsKind(err, infra.KindNotFound):
			// Raced with another transition since the read.
			return nil, errs.Mark(err, errs.ErrInvalidTransition)
		default:
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	c.notify(ctx, b, notify.EventBookingApproved)
	return queries.NewBookingView(b), nil
}

func (c *bookingUseCaseImpl) Reject(ctx context.Context, bookingID, teacherID uuid.UUID, reason string) (*queries.BookingView, error) {
	parsedReason, err := booking.NewReason(reason)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrReasonRequired)
	}

	b, err := c.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsTeacher(teacherID) {
		return nil, errs.ErrForbidden
	}

	if err := b.Reject(parsedReason); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTransition)
	}

	if err := c.bookingRepo.Reject(ctx, c.db, bookingID, parsedReason.String()); err != nil {
		return nil, c.mapTransitionErr(err)
	}

	c.notify(ctx, b, notify.EventBookingRejected)
	return queries.NewBookingView(b), nil
}

// Cancel is available to either party of the booking. Cancelling frees
// the slot: the live-slot index no longer counts the row.
func (c *bookingUseCaseImpl) Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, reason string) (*queries.BookingView, error) {
	parsedReason, err := booking.NewReason(reason)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrReasonRequired)
	}

	b, err := c.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(requesterID) {
		return nil, errs.ErrForbidden
	}

	if err := b.Cancel(parsedReason); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTransition)
	}

	if err := c.bookingRepo.Cancel(ctx, c.db, bookingID, parsedReason.String()); err != nil {
		return nil, c.mapTransitionErr(err)
	}

	c.notify(ctx, b, notify.EventBookingCancelled)
	return queries.NewBookingView(b), nil
}

// RequestReschedule stores the teacher's proposal; the booking keeps
// occupying its current slot until the proposal is approved.
func (c *bookingUseCaseImpl) RequestReschedule(ctx context.Context, bookingID, teacherID uuid.UUID, req reqdto.RescheduleRequest) (*queries.BookingView, error) {
	parsedReason, err := booking.NewReason(req.Reason)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrReasonRequired)
	}
	proposed, err := req.ProposedSlot()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidSlot)
	}

	b, err := c.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsTeacher(teacherID) {
		return nil, errs.ErrForbidden
	}

	if err := b.RequestReschedule(parsedReason, proposed); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTransition)
	}

	if err := c.bookingRepo.RequestReschedule(ctx, c.db, bookingID, parsedReason.String(), proposed); err != nil {
		return nil, c.mapTransitionErr(err)
	}

	c.notify(ctx, b, notify.EventBookingRescheduled)
	return queries.NewBookingView(b), nil
}

// Complete is idempotent: completing an already-completed booking
// returns it unchanged instead of failing.
func (c *bookingUseCaseImpl) Complete(ctx context.Context, bookingID, requesterID uuid.UUID, role identity.Role) (*queries.BookingView, error) {
	b, err := c.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsTeacher(requesterID) && role != identity.RoleAdmin {
		return nil, errs.ErrForbidden
	}

	if b.Status() == booking.StatusCompleted {
		return queries.NewBookingView(b), nil
	}

	if err := b.Complete(); err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTransition)
	}

	if err := c.bookingRepo.Complete(ctx, c.db, bookingID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// The guarded update moved zero rows: another request may
			// have completed the booking between our read and write.
			// Re-read so the losing side still answers with the
			// completed booking instead of a transition error.
			current, readErr := c.loadBooking(ctx, bookingID)
			if readErr != nil {
				return nil, readErr
			}
			if current.Status() == booking.StatusCompleted {
				return queries.NewBookingView(current), nil
			}
			return nil, errs.Mark(err, errs.ErrInvalidTransition)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.notify(ctx, b, notify.EventBookingCompleted)
	return queries.NewBookingView(b), nil
}

func (c *bookingUseCaseImpl) loadBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := c.bookingRepo.FindByID(ctx, c.db, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, nil
}

// mapTransitionErr translates repository outcomes of conditional
// updates: zero rows means the status moved under us.
func (c *bookingUseCaseImpl) mapTransitionErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

func (c *bookingUseCaseImpl) notify(ctx context.Context, b *booking.Booking, kind string) {
	c.dispatcher.Dispatch(ctx, notify.Event{
		BookingID:  b.ID(),
		StudentID:  b.StudentID(),
		TeacherID:  b.TeacherID(),
		Kind:       kind,
		OccurredAt: c.clock.Now(),
	})
}
