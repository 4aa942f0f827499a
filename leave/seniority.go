package leave

import "github.com/warp/leave-engine/generic"

// Seniority is the whole-year / whole-month tenure at an evaluation date.
// Non-positive TotalMonths means the employee is not yet accruing.
type Seniority struct {
	Years       int
	Months      int
	TotalMonths int
}

// ComputeSeniority counts calendar months between hire and asOf, ignoring
// the day of month. A missing hire or evaluation date yields zero tenure.
func ComputeSeniority(hire, asOf generic.TimePoint) Seniority {
	if hire.IsZero() || asOf.IsZero() {
		return Seniority{}
	}
	years := asOf.Year() - hire.Year()
	months := int(asOf.Month()) - int(hire.Month())
	if months < 0 {
		years--
		months += 12
	}
	return Seniority{Years: years, Months: months, TotalMonths: years*12 + months}
}
