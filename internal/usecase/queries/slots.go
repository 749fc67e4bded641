package queries

import (
	"context"
	"time"

	"tutorbook/internal/domain/availability"
	"tutorbook/internal/domain/booking"
	"tutorbook/internal/infra/db"
	"tutorbook/internal/pkg/clock"

	"github.com/google/uuid"
)

type SlotQueries interface {
	ListOpenSlots(ctx context.Context, teacherID uuid.UUID) ([]SlotView, error)
}

type AvailabilityReadStore interface {
	FindTemplate(ctx context.Context, q db.Querier, teacherID uuid.UUID) (*availability.Template, error)
}

type OccupiedSlotReadStore interface {
	LiveSlotKeys(ctx context.Context, q db.Querier, teacherID uuid.UUID, from, to time.Time) (map[string]struct{}, error)
}

type slotQueriesImpl struct {
	availabilityStore AvailabilityReadStore
	occupiedStore     OccupiedSlotReadStore
	db                db.Pool
	clock             clock.Clock
	windowDays        int
}

func NewSlotQueries(
	availabilityStore AvailabilityReadStore,
	occupiedStore OccupiedSlotReadStore,
	pool db.Pool,
	clk clock.Clock,
	windowDays int,
) SlotQueries {
	return &slotQueriesImpl{
		availabilityStore: availabilityStore,
		occupiedStore:     occupiedStore,
		db:                pool,
		clock:             clk,
		windowDays:        windowDays,
	}
}

// ListOpenSlots expands the teacher's weekly template over the rolling
// window starting today and subtracts slots held by live bookings. The
// result is what a student can actually request right now. A teacher
// with no availability rules yields an empty list, not an error.
func (q *slotQueriesImpl) ListOpenSlots(ctx context.Context, teacherID uuid.UUID) ([]SlotView, error) {
	template, err := q.availabilityStore.FindTemplate(ctx, q.db, teacherID)
	if err != nil {
		return nil, err
	}
	if template.IsEmpty() {
		return []SlotView{}, nil
	}

	windowStart := q.clock.Now().UTC().Truncate(24 * time.Hour)
	windowEnd := windowStart.AddDate(0, 0, q.windowDays)

	occupied, err := q.occupiedStore.LiveSlotKeys(ctx, q.db, teacherID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	candidates := template.Expand(windowStart, q.windowDays)
	open := make([]SlotView, 0, len(candidates))
	for _, slot := range candidates {
		if _, taken := occupied[slot.Key()]; taken {
			continue
		}
		open = append(open, SlotView{
			Date:      slot.Date().Format(booking.DateLayout),
			Day:       slot.Weekday().String(),
			StartTime: slot.Start(),
			EndTime:   slot.End(),
		})
	}
	return open, nil
}
