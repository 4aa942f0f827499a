package leave

import "github.com/warp/leave-engine/generic"

// ConsumedDays sums the effective days of one employee's approved annual
// leave in year, clipping each request to the year. A non-positive year
// means the current calendar year.
func ConsumedDays(requests []LeaveRequest, employeeID generic.EntityID, year int, holidays generic.HolidaySet) int {
	if year <= 0 {
		year = generic.Today().Year()
	}
	bounds := generic.YearPeriod(year)

	total := 0
	for _, req := range requests {
		if req.EmployeeID != employeeID || !req.Consumes() {
			continue
		}
		if !req.Period().Overlaps(bounds) {
			continue
		}
		total += EffectiveLeaveDays(req.Start, req.End, holidays, year)
	}
	return total
}
