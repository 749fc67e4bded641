//go:build unit

package commands

import (
	"context"
	"testing"
	"time"

	"tutorbook/internal/domain/booking"
	"tutorbook/internal/domain/identity"
	"tutorbook/internal/domain/ledger"
	reqdto "tutorbook/internal/handler/dto/request"
	"tutorbook/internal/infra"
	"tutorbook/internal/infra/db"
	"tutorbook/internal/infra/notify"
	"tutorbook/internal/pkg/clock"
	"tutorbook/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, q db.Querier, b *booking.Booking) error {
	return m.Called(ctx, q, b).Error(0)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, q db.Querier, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindByPaymentOrder(ctx context.Context, q db.Querier, orderID string) (*booking.Booking, error) {
	args := m.Called(ctx, q, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *mockBookingRepo) Approve(ctx context.Context, q db.Querier, b *booking.Booking) error {
	return m.Called(ctx, q, b).Error(0)
}

func (m *mockBookingRepo) Reject(ctx context.Context, q db.Querier, id uuid.UUID, reason string) error {
	return m.Called(ctx, q, id, reason).Error(0)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, q db.Querier, id uuid.UUID, reason string) error {
	return m.Called(ctx, q, id, reason).Error(0)
}

func (m *mockBookingRepo) RequestReschedule(ctx context.Context, q db.Querier, id uuid.UUID, reason string, proposed booking.Slot) error {
	return m.Called(ctx, q, id, reason, proposed).Error(0)
}

func (m *mockBookingRepo) MarkPaid(ctx context.Context, q db.Querier, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, q, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) Complete(ctx context.Context, q db.Querier, id uuid.UUID) error {
	return m.Called(ctx, q, id).Error(0)
}

func (m *mockBookingRepo) SetPaymentOrder(ctx context.Context, q db.Querier, id uuid.UUID, orderID string, amount int64) error {
	return m.Called(ctx, q, id, orderID, amount).Error(0)
}

func (m *mockBookingRepo) LiveSlotKeys(ctx context.Context, q db.Querier, teacherID uuid.UUID, from, to time.Time) (map[string]struct{}, error) {
	args := m.Called(ctx, q, teacherID, from, to)
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) InsertTransaction(ctx context.Context, q db.Querier, txn ledger.Transaction) (bool, error) {
	args := m.Called(ctx, q, txn)
	return args.Bool(0), args.Error(1)
}

type mockWalletRepo struct {
	mock.Mock
}

func (m *mockWalletRepo) CreditOnce(ctx context.Context, q db.Querier, teacherID, transactionID uuid.UUID, amount int64) (bool, error) {
	args := m.Called(ctx, q, teacherID, transactionID, amount)
	return args.Bool(0), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, bookingID uuid.UUID, amount int64) (string, error) {
	args := m.Called(ctx, bookingID, amount)
	return args.String(0), args.Error(1)
}

type recordingDispatcher struct {
	events []notify.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev notify.Event) {
	d.events = append(d.events, ev)
}

func newTestPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func conflictErr() error {
	return infra.WrapRepoErr("slot already occupied", nil, infra.KindConflict)
}

func notFoundErr() error {
	return infra.WrapRepoErr("not found", nil, infra.KindNotFound)
}

func bookingInStatus(t *testing.T, status booking.Status) *booking.Booking {
	t.Helper()
	slot, err := booking.NewSlot("2026-09-07", "09:00", "10:00")
	require.NoError(t, err)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return booking.Reconstruct(
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		slot, "Monday", status, booking.NewNote(""),
		"", "", "", booking.Slot{}, "", 0, now, now,
	)
}

func TestBookingCommands_CreateBooking(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	req := reqdto.CreateBookingRequest{
		TeacherID: uuid.New(),
		CourseID:  uuid.New(),
		Date:      "2026-09-07",
		Day:       "Monday",
		StartTime: "09:00",
		EndTime:   "10:00",
	}

	t.Run("creates a pending booking and notifies", func(t *testing.T) {
		repo := new(mockBookingRepo)
		dispatcher := &recordingDispatcher{}
		uc := NewBookingUseCase(repo, dispatcher, newTestPool(t), clk)

		repo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil)

		studentID := uuid.New()
		view, err := uc.CreateBooking(ctx, req, studentID)
		require.NoError(t, err)
		assert.Equal(t, "pending", view.Status)
		assert.Equal(t, studentID, view.StudentID)
		assert.Equal(t, "Monday", view.Day)

		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, notify.EventBookingRequested, dispatcher.events[0].Kind)
		repo.AssertExpectations(t)
	})

	t.Run("occupied slot surfaces as slot conflict", func(t *testing.T) {
		repo := new(mockBookingRepo)
		dispatcher := &recordingDispatcher{}
		uc := NewBookingUseCase(repo, dispatcher, newTestPool(t), clk)

		repo.On("Create", ctx, mock.Anything, mock.Anything).Return(conflictErr())

		_, err := uc.CreateBooking(ctx, req, uuid.New())
		assert.ErrorIs(t, err, errs.ErrSlotConflict)
		assert.Empty(t, dispatcher.events)
	})

	t.Run("day not matching the date is rejected before any write", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		badReq := req
		badReq.Day = "Tuesday"
		_, err := uc.CreateBooking(ctx, badReq, uuid.New())
		assert.ErrorIs(t, err, errs.ErrInvalidSlot)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookingCommands_Approve(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	t.Run("teacher approves a pending booking", func(t *testing.T) {
		repo := new(mockBookingRepo)
		dispatcher := &recordingDispatcher{}
		uc := NewBookingUseCase(repo, dispatcher, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusPending)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)
		repo.On("Approve", ctx, mock.Anything, b).Return(nil)

		view, err := uc.Approve(ctx, b.ID(), b.TeacherID())
		require.NoError(t, err)
		assert.Equal(t, "approved", view.Status)
		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, notify.EventBookingApproved, dispatcher.events[0].Kind)
	})

	t.Run("someone else's booking is forbidden", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusPending)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)

		_, err := uc.Approve(ctx, b.ID(), uuid.New())
		assert.ErrorIs(t, err, errs.ErrForbidden)
		repo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejected booking cannot be approved", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusRejected)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)

		_, err := uc.Approve(ctx, b.ID(), b.TeacherID())
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("adopting a taken proposed slot is a conflict", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		proposed, err := booking.NewSlot("2026-09-08", "11:00", "12:00")
		require.NoError(t, err)
		b := bookingInStatus(t, booking.StatusApproved)
		reason, err := booking.NewReason("teacher unavailable")
		require.NoError(t, err)
		require.NoError(t, b.RequestReschedule(reason, proposed))

		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)
		repo.On("Approve", ctx, mock.Anything, b).Return(conflictErr())

		_, err = uc.Approve(ctx, b.ID(), b.TeacherID())
		assert.ErrorIs(t, err, errs.ErrSlotConflict)
	})
}

func TestBookingCommands_Reject(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	t.Run("reason is mandatory", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusPending)
		_, err := uc.Reject(ctx, b.ID(), b.TeacherID(), "   ")
		assert.ErrorIs(t, err, errs.ErrReasonRequired)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("teacher rejects with a stored reason", func(t *testing.T) {
		repo := new(mockBookingRepo)
		dispatcher := &recordingDispatcher{}
		uc := NewBookingUseCase(repo, dispatcher, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusPending)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)
		repo.On("Reject", ctx, mock.Anything, b.ID(), "slot no longer offered").Return(nil)

		view, err := uc.Reject(ctx, b.ID(), b.TeacherID(), "slot no longer offered")
		require.NoError(t, err)
		assert.Equal(t, "rejected", view.Status)
		assert.Equal(t, "slot no longer offered", view.RejectionReason)
		require.Len(t, dispatcher.events, 1)
		assert.Equal(t, notify.EventBookingRejected, dispatcher.events[0].Kind)
	})
}

func TestBookingCommands_Cancel(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	t.Run("student cancels an approved booking", func(t *testing.T) {
		repo := new(mockBookingRepo)
		dispatcher := &recordingDispatcher{}
		uc := NewBookingUseCase(repo, dispatcher, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusApproved)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)
		repo.On("Cancel", ctx, mock.Anything, b.ID(), "schedule clash").Return(nil)

		view, err := uc.Cancel(ctx, b.ID(), b.StudentID(), "schedule clash")
		require.NoError(t, err)
		assert.Equal(t, "cancelled", view.Status)
	})

	t.Run("third parties cannot cancel", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusApproved)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)

		_, err := uc.Cancel(ctx, b.ID(), uuid.New(), "nope")
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("pending booking cannot be cancelled", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusPending)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)

		_, err := uc.Cancel(ctx, b.ID(), b.StudentID(), "changed my mind")
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestBookingCommands_RequestReschedule(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	repo := new(mockBookingRepo)
	dispatcher := &recordingDispatcher{}
	uc := NewBookingUseCase(repo, dispatcher, newTestPool(t), clk)

	b := bookingInStatus(t, booking.StatusApproved)
	repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)
	repo.On("RequestReschedule", ctx, mock.Anything, b.ID(), "family emergency", mock.Anything).Return(nil)

	req := reqdto.RescheduleRequest{
		Reason:    "family emergency",
		Date:      "2026-09-08",
		StartTime: "11:00",
		EndTime:   "12:00",
	}
	view, err := uc.RequestReschedule(ctx, b.ID(), b.TeacherID(), req)
	require.NoError(t, err)
	assert.Equal(t, "reschedule_requested", view.Status)
	assert.Equal(t, "2026-09-08", view.ProposedDate)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, notify.EventBookingRescheduled, dispatcher.events[0].Kind)
}

func TestBookingCommands_Complete(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	t.Run("teacher completes a paid booking", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusPaid)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)
		repo.On("Complete", ctx, mock.Anything, b.ID()).Return(nil)

		view, err := uc.Complete(ctx, b.ID(), b.TeacherID(), identity.RoleTeacher)
		require.NoError(t, err)
		assert.Equal(t, "completed", view.Status)
	})

	t.Run("admin may complete any paid booking", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusPaid)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)
		repo.On("Complete", ctx, mock.Anything, b.ID()).Return(nil)

		_, err := uc.Complete(ctx, b.ID(), uuid.New(), identity.RoleAdmin)
		require.NoError(t, err)
	})

	t.Run("losing a concurrent completion still returns the completed booking", func(t *testing.T) {
		repo := new(mockBookingRepo)
		dispatcher := &recordingDispatcher{}
		uc := NewBookingUseCase(repo, dispatcher, newTestPool(t), clk)

		paid := bookingInStatus(t, booking.StatusPaid)
		now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		completed := booking.Reconstruct(
			paid.ID(), paid.StudentID(), paid.TeacherID(), paid.CourseID(),
			paid.Slot(), "Monday", booking.StatusCompleted, booking.NewNote(""),
			"", "", "", booking.Slot{}, "", 0, now, now,
		)

		repo.On("FindByID", ctx, mock.Anything, paid.ID()).Return(paid, nil).Once()
		repo.On("Complete", ctx, mock.Anything, paid.ID()).Return(notFoundErr()).Once()
		repo.On("FindByID", ctx, mock.Anything, paid.ID()).Return(completed, nil).Once()

		view, err := uc.Complete(ctx, paid.ID(), paid.TeacherID(), identity.RoleTeacher)
		require.NoError(t, err)
		assert.Equal(t, "completed", view.Status)
		assert.Empty(t, dispatcher.events)
		repo.AssertExpectations(t)
	})

	t.Run("repeat completion is a no-op", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusCompleted)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)

		view, err := uc.Complete(ctx, b.ID(), b.TeacherID(), identity.RoleTeacher)
		require.NoError(t, err)
		assert.Equal(t, "completed", view.Status)
		repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("approved booking cannot be completed", func(t *testing.T) {
		repo := new(mockBookingRepo)
		uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

		b := bookingInStatus(t, booking.StatusApproved)
		repo.On("FindByID", ctx, mock.Anything, b.ID()).Return(b, nil)

		_, err := uc.Complete(ctx, b.ID(), b.TeacherID(), identity.RoleTeacher)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestBookingCommands_NotFound(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	repo := new(mockBookingRepo)
	uc := NewBookingUseCase(repo, &recordingDispatcher{}, newTestPool(t), clk)

	id := uuid.New()
	repo.On("FindByID", ctx, mock.Anything, id).Return(nil, notFoundErr())

	_, err := uc.Approve(ctx, id, uuid.New())
	assert.ErrorIs(t, err, errs.ErrBookingNotFound)
}
