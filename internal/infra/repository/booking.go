package repository

import (
	"context"
	"errors"
	"time"

	"tutorbook/internal/domain/booking"
	"tutorbook/internal/infra"
	"tutorbook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

const bookingColumns = `
	id, student_id, teacher_id, course_id, date, day, start_time, end_time,
	status, note, rejection_reason, cancellation_reason, reschedule_reason,
	proposed_date, proposed_start, proposed_end, payment_order_id, amount,
	created_at, updated_at`

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

// Create inserts a pending booking. The bookings_live_slot_uniq partial
// index rejects a second live booking for the same teacher slot; that
// constraint violation surfaces as KindConflict.
func (r *BookingRepository) Create(ctx context.Context, q db.Querier, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (id, student_id, teacher_id, course_id, date, day, start_time, end_time, status, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		b.ID(),
		b.StudentID(),
		b.TeacherID(),
		b.CourseID(),
		b.Slot().Date(),
		b.Day(),
		b.Slot().Start(),
		b.Slot().End(),
		b.Status().String(),
		b.Note().String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("slot already occupied by a live booking", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}

	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(q.QueryRow(ctx, query, id), "booking not found")
}

func (r *BookingRepository) FindByPaymentOrder(ctx context.Context, q db.Querier, orderID string) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_order_id = $1`
	return r.scanOne(q.QueryRow(ctx, query, orderID), "payment order not found")
}

// Approve persists an approval. Source statuses are re-checked in the
// UPDATE predicate; adopting a proposed slot can trip the live-slot
// index, which surfaces as KindConflict.
func (r *BookingRepository) Approve(ctx context.Context, q db.Querier, b *booking.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, date = $3, day = $4, start_time = $5, end_time = $6,
		    proposed_date = NULL, proposed_start = NULL, proposed_end = NULL,
		    updated_at = now()
		WHERE id = $1 AND status = ANY($7)
	`

	tag, err := q.Exec(ctx, query,
		b.ID(),
		booking.StatusApproved.String(),
		b.Slot().Date(),
		b.Day(),
		b.Slot().Start(),
		b.Slot().End(),
		booking.StatusStrings(booking.ApprovableFrom),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("proposed slot already occupied", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to approve booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not approvable", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) Reject(ctx context.Context, q db.Querier, id uuid.UUID, reason string) error {
	query := `
		UPDATE bookings
		SET status = $2, rejection_reason = $3, updated_at = now()
		WHERE id = $1 AND status = ANY($4)
	`
	return r.execTransition(ctx, q, query, "failed to reject booking",
		id, booking.StatusRejected.String(), reason, booking.StatusStrings(booking.RejectableFrom))
}

func (r *BookingRepository) Cancel(ctx context.Context, q db.Querier, id uuid.UUID, reason string) error {
	query := `
		UPDATE bookings
		SET status = $2, cancellation_reason = $3, updated_at = now()
		WHERE id = $1 AND status = ANY($4)
	`
	return r.execTransition(ctx, q, query, "failed to cancel booking",
		id, booking.StatusCancelled.String(), reason, booking.StatusStrings(booking.CancellableFrom))
}

func (r *BookingRepository) RequestReschedule(ctx context.Context, q db.Querier, id uuid.UUID, reason string, proposed booking.Slot) error {
	query := `
		UPDATE bookings
		SET status = $2, reschedule_reason = $3,
		    proposed_date = $4, proposed_start = $5, proposed_end = $6,
		    updated_at = now()
		WHERE id = $1 AND status = ANY($7)
	`
	tag, err := q.Exec(ctx, query,
		id,
		booking.StatusRescheduleRequested.String(),
		reason,
		proposed.Date(),
		proposed.Start(),
		proposed.End(),
		booking.StatusStrings(booking.ReschedulableFrom),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to request reschedule", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not reschedulable", nil, infra.KindNotFound)
	}
	return nil
}

// MarkPaid is the compare-and-swap gate of payment reconciliation: only
// the first delivery for an approved booking flips it to paid.
func (r *BookingRepository) MarkPaid(ctx context.Context, q db.Querier, id uuid.UUID) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)
	`
	tag, err := q.Exec(ctx, query,
		id, booking.StatusPaid.String(), booking.StatusStrings(booking.PayableFrom))
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark booking paid", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) Complete(ctx context.Context, q db.Querier, id uuid.UUID) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)
	`
	tag, err := q.Exec(ctx, query,
		id, booking.StatusCompleted.String(), booking.StatusStrings(booking.CompletableFrom))
	if err != nil {
		return infra.WrapRepoErr("failed to complete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not completable", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) SetPaymentOrder(ctx context.Context, q db.Querier, id uuid.UUID, orderID string, amount int64) error {
	query := `
		UPDATE bookings
		SET payment_order_id = $2, amount = $3, updated_at = now()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id, orderID, amount)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("payment order already attached to another booking", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to set payment order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// LiveSlotKeys returns the occupied slot keys (date|start|end) of a
// teacher's live bookings inside the window.
func (r *BookingRepository) LiveSlotKeys(ctx context.Context, q db.Querier, teacherID uuid.UUID, from, to time.Time) (map[string]struct{}, error) {
	query := `
		SELECT date, start_time, end_time
		FROM bookings
		WHERE teacher_id = $1 AND date >= $2 AND date < $3 AND status = ANY($4)
	`
	rows, err := q.Query(ctx, query, teacherID, from, to, booking.StatusStrings(booking.LiveStatuses))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list live bookings", err)
	}
	defer rows.Close()

	occupied := make(map[string]struct{})
	for rows.Next() {
		var date time.Time
		var start, end string
		if err := rows.Scan(&date, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan live booking slot", err)
		}
		occupied[booking.ReconstructSlot(date, start, end).Key()] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate live bookings", err)
	}
	return occupied, nil
}

// ListByParty lists bookings in which the party is either the student
// or the teacher, newest first, with an optional status filter.
func (r *BookingRepository) ListByParty(ctx context.Context, q db.Querier, partyID uuid.UUID, status string, limit, offset int32) ([]*booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE (student_id = $1 OR teacher_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := q.Query(ctx, query, partyID, status, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return out, nil
}

func (r *BookingRepository) execTransition(ctx context.Context, q db.Querier, query, failMsg string, args ...any) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(failMsg, err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not in a permitted status", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) scanOne(row pgx.Row, notFoundMsg string) (*booking.Booking, error) {
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(notFoundMsg, err, infra.KindNotFound)
		}
		return nil, err
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, studentID, teacherID, courseID uuid.UUID
		date                               time.Time
		day, start, end, status, note      string
		rejectionReason                    string
		cancellationReason                 string
		rescheduleReason                   string
		proposedDate                       *time.Time
		proposedStart, proposedEnd         *string
		paymentOrderID                     *string
		amount                             int64
		createdAt, updatedAt               time.Time
	)

	err := row.Scan(
		&id, &studentID, &teacherID, &courseID, &date, &day, &start, &end,
		&status, &note, &rejectionReason, &cancellationReason, &rescheduleReason,
		&proposedDate, &proposedStart, &proposedEnd, &paymentOrderID, &amount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, infra.WrapRepoErr("failed to scan booking", err)
	}

	var proposed booking.Slot
	if proposedDate != nil && proposedStart != nil && proposedEnd != nil {
		proposed = booking.ReconstructSlot(*proposedDate, *proposedStart, *proposedEnd)
	}
	orderID := ""
	if paymentOrderID != nil {
		orderID = *paymentOrderID
	}

	return booking.Reconstruct(
		id, studentID, teacherID, courseID,
		booking.ReconstructSlot(date, start, end),
		day,
		booking.Status(status),
		booking.NewNote(note),
		rejectionReason, cancellationReason, rescheduleReason,
		proposed,
		orderID,
		amount,
		createdAt, updatedAt,
	), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeForeignKeyViolation
}
