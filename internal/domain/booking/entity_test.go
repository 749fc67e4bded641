//go:build unit

package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlot(t *testing.T, date, start, end string) Slot {
	t.Helper()
	s, err := NewSlot(date, start, end)
	require.NoError(t, err)
	return s
}

func mustReason(t *testing.T, v string) Reason {
	t.Helper()
	r, err := NewReason(v)
	require.NoError(t, err)
	return r
}

// 2026-09-07 is a Monday.
func newTestBooking(t *testing.T, status Status) *Booking {
	t.Helper()
	b, err := NewBooking(uuid.New(), uuid.New(), uuid.New(), mustSlot(t, "2026-09-07", "09:00", "10:00"), "Monday", NewNote(""))
	require.NoError(t, err)
	b.status = status
	return b
}

func TestNewBooking(t *testing.T) {
	slot := mustSlot(t, "2026-09-07", "09:00", "10:00")

	b, err := NewBooking(uuid.New(), uuid.New(), uuid.New(), slot, "monday", NewNote("  first lesson "))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status())
	assert.Equal(t, "Monday", b.Day())
	assert.Equal(t, "first lesson", b.Note().String())

	_, err = NewBooking(uuid.New(), uuid.New(), uuid.New(), slot, "Tuesday", NewNote(""))
	assert.ErrorIs(t, err, ErrDayMismatch)
}

func TestSlotValidation(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		start   string
		end     string
		wantErr error
	}{
		{"valid", "2026-09-07", "09:00", "10:00", nil},
		{"bad date", "07-09-2026", "09:00", "10:00", ErrInvalidDate},
		{"bad start", "2026-09-07", "9am", "10:00", ErrInvalidTime},
		{"bad end", "2026-09-07", "09:00", "25:00", ErrInvalidTime},
		{"inverted", "2026-09-07", "10:00", "09:00", ErrSlotOrder},
		{"zero length", "2026-09-07", "09:00", "09:00", ErrSlotOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSlot(tt.date, tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransitionLegality(t *testing.T) {
	allStatuses := []Status{
		StatusPending, StatusApproved, StatusRejected, StatusPaid,
		StatusCancelled, StatusCompleted, StatusRescheduleRequested,
	}

	type action struct {
		name    string
		apply   func(t *testing.T, b *Booking) error
		allowed map[Status]bool
	}

	actions := []action{
		{
			name:    "approve",
			apply:   func(t *testing.T, b *Booking) error { return b.Approve() },
			allowed: map[Status]bool{StatusPending: true, StatusRescheduleRequested: true},
		},
		{
			name: "reject",
			apply: func(t *testing.T, b *Booking) error {
				return b.Reject(mustReason(t, "not available"))
			},
			allowed: map[Status]bool{StatusPending: true, StatusRescheduleRequested: true},
		},
		{
			name: "cancel",
			apply: func(t *testing.T, b *Booking) error {
				return b.Cancel(mustReason(t, "changed plans"))
			},
			allowed: map[Status]bool{StatusApproved: true, StatusPaid: true},
		},
		{
			name: "request reschedule",
			apply: func(t *testing.T, b *Booking) error {
				return b.RequestReschedule(mustReason(t, "clash"), mustSlot(t, "2026-09-08", "11:00", "12:00"))
			},
			allowed: map[Status]bool{StatusApproved: true},
		},
		{
			name:    "mark paid",
			apply:   func(t *testing.T, b *Booking) error { return b.MarkPaid() },
			allowed: map[Status]bool{StatusApproved: true},
		},
		{
			name:    "complete",
			apply:   func(t *testing.T, b *Booking) error { return b.Complete() },
			allowed: map[Status]bool{StatusPaid: true},
		},
	}

	for _, ac := range actions {
		for _, from := range allStatuses {
			t.Run(ac.name+" from "+string(from), func(t *testing.T) {
				b := newTestBooking(t, from)
				if from == StatusRescheduleRequested {
					b.proposedSlot = mustSlot(t, "2026-09-08", "11:00", "12:00")
				}
				err := ac.apply(t, b)
				if ac.allowed[from] {
					assert.NoError(t, err)
					assert.NotEqual(t, from, b.Status())
				} else {
					assert.ErrorIs(t, err, ErrInvalidTransition)
					assert.Equal(t, from, b.Status(), "status must be unchanged on refused transition")
				}
			})
		}
	}
}

func TestApproveAdoptsProposedSlot(t *testing.T) {
	b := newTestBooking(t, StatusApproved)
	proposed := mustSlot(t, "2026-09-09", "14:00", "15:00")

	require.NoError(t, b.RequestReschedule(mustReason(t, "clash"), proposed))
	assert.Equal(t, StatusRescheduleRequested, b.Status())
	// The occupied slot does not move until approval.
	assert.Equal(t, "2026-09-07", b.Slot().DateString())

	require.NoError(t, b.Approve())
	assert.Equal(t, StatusApproved, b.Status())
	assert.Equal(t, "2026-09-09", b.Slot().DateString())
	assert.Equal(t, "Wednesday", b.Day())
	assert.True(t, b.ProposedSlot().IsZero())
}

func TestApproveRescheduleWithoutProposalFails(t *testing.T) {
	b := newTestBooking(t, StatusRescheduleRequested)
	err := b.Approve()
	assert.ErrorIs(t, err, ErrNoProposedSlot)
	assert.Equal(t, StatusRescheduleRequested, b.Status())
}

func TestRejectStoresReason(t *testing.T) {
	b := newTestBooking(t, StatusPending)
	require.NoError(t, b.Reject(mustReason(t, "slot no longer offered")))
	assert.Equal(t, StatusRejected, b.Status())
	assert.Equal(t, "slot no longer offered", b.RejectionReason())

	_, err := NewReason("   ")
	assert.ErrorIs(t, err, ErrEmptyReason)
}

func TestCancelledBookingFreesSlotStatus(t *testing.T) {
	b := newTestBooking(t, StatusPaid)
	require.NoError(t, b.Cancel(mustReason(t, "refund agreed")))
	assert.False(t, b.Status().IsLive())
}

func TestStatusSets(t *testing.T) {
	assert.True(t, StatusPending.IsLive())
	assert.True(t, StatusCompleted.IsLive())
	assert.False(t, StatusRejected.IsLive())
	assert.False(t, StatusCancelled.IsLive())

	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusPaid.IsTerminal())
}
