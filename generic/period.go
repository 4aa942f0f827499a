package generic

// =============================================================================
// PERIOD - Inclusive range of calendar days
// =============================================================================

// Period is an inclusive [Start, End] range of calendar days.
//
// Examples:
//   - Calendar year 2025: Jan 1 - Dec 31
//   - A leave request: first day off - last day off
type Period struct {
	Start TimePoint
	End   TimePoint
}

// YearPeriod returns [Jan 1, Dec 31] of year.
func YearPeriod(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

// IsValid is false for missing bounds or End before Start.
func (p Period) IsValid() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && p.Start.BeforeOrEqual(p.End)
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether two valid periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	if !p.IsValid() || !other.IsValid() {
		return false
	}
	return p.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(p.End)
}

// Intersect returns the shared days of both periods.
func (p Period) Intersect(other Period) (Period, bool) {
	if !p.Overlaps(other) {
		return Period{}, false
	}
	out := p
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	return out, true
}

// SpanDays is the raw inclusive calendar length: End - Start + 1.
// Invalid periods span 0 days.
func (p Period) SpanDays() int {
	if !p.IsValid() {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	if !p.IsValid() {
		return nil
	}
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
