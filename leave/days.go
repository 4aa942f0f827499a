package leave

import "github.com/warp/leave-engine/generic"

// EffectiveLeaveDays counts the chargeable days of [start, end]: every day
// that is neither the rest day nor an active holiday. Each day is tested
// once, so a holiday falling on the rest day is excluded only once.
//
// A positive year clips the range to that calendar year first; a range
// outside the year costs nothing. This is the only place leave cost is
// computed.
func EffectiveLeaveDays(start, end generic.TimePoint, holidays generic.HolidaySet, year int) int {
	span := generic.Period{Start: start, End: end}
	if !span.IsValid() {
		return 0
	}
	if year > 0 {
		clipped, ok := span.Intersect(generic.YearPeriod(year))
		if !ok {
			return 0
		}
		span = clipped
	}

	count := 0
	for day := span.Start; day.BeforeOrEqual(span.End); day = day.AddDays(1) {
		if holidays.IsChargeable(day) {
			count++
		}
	}
	return count
}

// ReturnDate is the first chargeable day after end: the employee's first
// working day back.
func ReturnDate(end generic.TimePoint, holidays generic.HolidaySet) generic.TimePoint {
	if end.IsZero() {
		return generic.TimePoint{}
	}
	day := end.AddDays(1)
	for !holidays.IsChargeable(day) {
		day = day.AddDays(1)
	}
	return day
}
