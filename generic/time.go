package generic

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - A calendar day (all comparisons are by day, never by instant)
// =============================================================================

// DateLayout is the textual form of every date crossing the engine boundary.
const DateLayout = "2006-01-02"

type TimePoint struct {
	Time time.Time
}

// RestDay is the weekly rest day. It is never charged and working it earns recovery credit.
const RestDay = time.Sunday

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime keeps only the calendar day of t as seen in t's own location.
func FromTime(t time.Time) TimePoint {
	if t.IsZero() {
		return TimePoint{}
	}
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate accepts "YYYY-MM-DD" and RFC 3339 timestamps (the date part wins).
func ParseDate(s string) (TimePoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimePoint{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return FromTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FromTime(t), nil
	}
	if len(s) > len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return FromTime(t), nil
		}
	}
	return TimePoint{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseDateOrZero degrades an unparseable value to the zero TimePoint,
// which every engine function treats as "no contribution".
func ParseDateOrZero(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		return TimePoint{}
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.normalize().AddDate(0, 0, n)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsRestDay() bool       { return tp.Weekday() == RestDay }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format(DateLayout)
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a calendar exception: a day that is never charged as leave.
type Holiday struct {
	ID        string
	Date      TimePoint
	Name      string
	Active    bool // inactive holidays are kept for history but ignored
	Recurring bool // true = same month/day every year
}

// OnYear projects a recurring holiday onto year. Non-recurring holidays are
// returned only for their own year. A Feb 29 holiday does not exist in
// non-leap years.
func (h Holiday) OnYear(year int) (Holiday, bool) {
	if h.Date.IsZero() {
		return Holiday{}, false
	}
	if !h.Recurring {
		return h, h.Date.Year() == year
	}
	moved := NewTimePoint(year, h.Date.Month(), h.Date.Day())
	if moved.Month() != h.Date.Month() {
		return Holiday{}, false
	}
	h.Date = moved
	return h, true
}

// HolidayCalendar supplies the holidays of a calendar year.
type HolidayCalendar interface {
	GetHolidays(ctx context.Context, year int) ([]Holiday, error)
}

// StaticCalendar is a fixed list of holidays, used for tests and presets.
type StaticCalendar []Holiday

func (c StaticCalendar) GetHolidays(_ context.Context, year int) ([]Holiday, error) {
	return HolidaysForYear(c, year), nil
}

// HolidaysForYear keeps the holidays that fall in year, projecting recurring ones.
func HolidaysForYear(holidays []Holiday, year int) []Holiday {
	var out []Holiday
	for _, h := range holidays {
		if projected, ok := h.OnYear(year); ok {
			out = append(out, projected)
		}
	}
	return out
}

// =============================================================================
// HOLIDAY SET - Day lookup built once per year
// =============================================================================

// HolidaySet is keyed by calendar day. Only active holidays are members.
// A nil set is valid and empty.
type HolidaySet map[string]Holiday

func NewHolidaySet(holidays []Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		if !h.Active || h.Date.IsZero() {
			continue
		}
		set[h.Date.String()] = h
	}
	return set
}

func (s HolidaySet) Contains(tp TimePoint) bool {
	if tp.IsZero() {
		return false
	}
	_, ok := s[tp.String()]
	return ok
}

// Merge returns a new set holding the days of both sets.
func (s HolidaySet) Merge(other HolidaySet) HolidaySet {
	out := make(HolidaySet, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// IsChargeable reports whether a day costs leave: not the rest day and not a holiday.
func (s HolidaySet) IsChargeable(tp TimePoint) bool {
	return !tp.IsRestDay() && !s.Contains(tp)
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
func StartOfYear(year int) TimePoint { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint   { return NewTimePoint(year, time.December, 31) }
