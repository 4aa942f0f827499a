package leave

import "github.com/warp/leave-engine/generic"

// Recovery is the credit earned for working rest days and holidays.
type Recovery struct {
	Total        int
	SundayDates  []generic.TimePoint
	HolidayDates []generic.TimePoint
}

// RecoveryCredit tallies worked (present or late) attendance of one employee.
//
// The rest-day tally and the holiday tally are independent: a worked date
// that is both a Sunday and a holiday is credited twice.
func RecoveryCredit(employeeID generic.EntityID, attendance []AttendanceRecord, holidays generic.HolidaySet) Recovery {
	var r Recovery
	for _, rec := range attendance {
		if rec.EmployeeID != employeeID || !rec.Status.Worked() || rec.Date.IsZero() {
			continue
		}
		if rec.Date.IsRestDay() {
			r.SundayDates = append(r.SundayDates, rec.Date)
		}
		if holidays.Contains(rec.Date) {
			r.HolidayDates = append(r.HolidayDates, rec.Date)
		}
	}
	r.Total = len(r.SundayDates) + len(r.HolidayDates)
	return r
}

func attendanceInYear(records []AttendanceRecord, year int) []AttendanceRecord {
	var out []AttendanceRecord
	for _, rec := range records {
		if !rec.Date.IsZero() && rec.Date.Year() == year {
			out = append(out, rec)
		}
	}
	return out
}
