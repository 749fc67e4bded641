package booking

import (
	"errors"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime = errors.New("time must be HH:MM")
	ErrSlotOrder   = errors.New("start time must be before end time")
	ErrDayMismatch = errors.New("day does not match the weekday of date")
	ErrEmptyReason = errors.New("reason cannot be empty")
)

// Slot is one bookable unit of teacher time: a calendar date plus
// wall-clock start/end encoded as HH:MM strings. Slots are fixed-size
// atoms; equality is exact string/date match, never interval overlap.
type Slot struct {
	date  time.Time
	start string
	end   string
}

func NewSlot(date, start, end string) (Slot, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return Slot{}, ErrInvalidDate
	}
	st, err := time.Parse(TimeLayout, start)
	if err != nil {
		return Slot{}, ErrInvalidTime
	}
	en, err := time.Parse(TimeLayout, end)
	if err != nil {
		return Slot{}, ErrInvalidTime
	}
	if !st.Before(en) {
		return Slot{}, ErrSlotOrder
	}
	return Slot{date: d, start: start, end: end}, nil
}

func ReconstructSlot(date time.Time, start, end string) Slot {
	return Slot{date: date, start: start, end: end}
}

func (s Slot) Date() time.Time    { return s.date }
func (s Slot) DateString() string { return s.date.Format(DateLayout) }
func (s Slot) Start() string      { return s.start }
func (s Slot) End() string        { return s.end }

// Key identifies the slot for conflict and de-duplication purposes.
func (s Slot) Key() string {
	return s.DateString() + "|" + s.start + "|" + s.end
}

func (s Slot) Weekday() time.Weekday {
	return s.date.Weekday()
}

// MatchesDay checks the denormalized weekday name against the date.
func (s Slot) MatchesDay(day string) bool {
	return strings.EqualFold(day, s.date.Weekday().String())
}

func (s Slot) IsZero() bool {
	return s.date.IsZero()
}

type Reason struct {
	value string
}

func NewReason(value string) (Reason, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Reason{}, ErrEmptyReason
	}
	return Reason{value: trimmed}, nil
}

func (r Reason) String() string {
	return r.value
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: strings.TrimSpace(value)}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
