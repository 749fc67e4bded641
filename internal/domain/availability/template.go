// Package availability expands a teacher's recurring weekly open-hours
// template into concrete dated slots for a rolling window. The template
// itself belongs to the external availability store; this package only
// reads it.
package availability

import (
	"sort"
	"time"

	"tutorbook/internal/domain/booking"
)

// WeekdayRule is one enabled/disabled weekday entry of a template.
type WeekdayRule struct {
	Day     time.Weekday
	Enabled bool
	Slots   []HourRange
}

type HourRange struct {
	Start string
	End   string
}

// Template is the full weekly open-hours template of one teacher.
type Template struct {
	rules map[time.Weekday]WeekdayRule
}

func NewTemplate(rules []WeekdayRule) *Template {
	byDay := make(map[time.Weekday]WeekdayRule, len(rules))
	for _, r := range rules {
		existing, ok := byDay[r.Day]
		if !ok {
			byDay[r.Day] = r
			continue
		}
		// Multiple entries for a weekday merge; any disabled entry wins.
		existing.Enabled = existing.Enabled && r.Enabled
		existing.Slots = append(existing.Slots, r.Slots...)
		byDay[r.Day] = existing
	}
	return &Template{rules: byDay}
}

func (t *Template) IsEmpty() bool {
	return len(t.rules) == 0
}

// Expand produces one candidate slot per (date, hour range) pair over
// windowDays calendar dates starting at windowStart, in chronological
// order. Dates whose weekday is absent or disabled contribute nothing.
// Coinciding entries are de-duplicated by (date, start, end). Pure
// function of its inputs.
func (t *Template) Expand(windowStart time.Time, windowDays int) []booking.Slot {
	var out []booking.Slot
	seen := make(map[string]struct{})

	day := time.Date(windowStart.Year(), windowStart.Month(), windowStart.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < windowDays; i++ {
		date := day.AddDate(0, 0, i)
		rule, ok := t.rules[date.Weekday()]
		if !ok || !rule.Enabled {
			continue
		}
		for _, hr := range rule.Slots {
			slot, err := booking.NewSlot(date.Format(booking.DateLayout), hr.Start, hr.End)
			if err != nil {
				continue
			}
			if _, dup := seen[slot.Key()]; dup {
				continue
			}
			seen[slot.Key()] = struct{}{}
			out = append(out, slot)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date().Equal(out[j].Date()) {
			return out[i].Date().Before(out[j].Date())
		}
		return out[i].Start() < out[j].Start()
	})
	return out
}
