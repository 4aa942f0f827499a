package leave

import (
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// Acquisition breaks the acquired balance down into its parts.
type Acquisition struct {
	Year          int
	Entitlement   decimal.Decimal
	MonthsElapsed int
	Prorated      decimal.Decimal
	CarryOver     decimal.Decimal
	Recovery      Recovery
	Total         decimal.Decimal
}

// AcquiredBalance computes what the employee has earned in asOf's year:
//
//	floor1(entitlement × monthsElapsed / 12 + carryOver + recovery)
//
// Months run from January, or from the hire month for this year's hires.
// This year's hires always get at least one month of entitlement. The
// total is never below carryOver + recovery.
func (e *Engine) AcquiredBalance(emp Employee, snap Snapshot, asOf generic.TimePoint) Acquisition {
	year := asOf.Year()
	acq := Acquisition{
		Year:        year,
		Entitlement: e.EntitlementForYear(emp.HireDate, emp.Role, year, asOf),
		Prorated:    decimal.Zero,
	}

	if !emp.HireDate.IsZero() {
		acq.MonthsElapsed = generic.MonthsElapsedInYear(emp.HireDate, asOf)
		acq.Prorated = generic.ProrateMonths(acq.Entitlement, acq.MonthsElapsed)
		if emp.HireDate.Year() == year {
			acq.Prorated = generic.MaxDecimal(acq.Prorated, generic.MonthlyShare(acq.Entitlement))
		}
	}

	acq.CarryOver = e.CarryOver(emp, snap.Requests, snap.Holidays, asOf)
	acq.Recovery = RecoveryCredit(emp.ID, attendanceInYear(snap.Attendance, year), snap.Holidays)

	earned := acq.CarryOver.Add(decimal.NewFromInt(int64(acq.Recovery.Total)))
	acq.Total = generic.MaxDecimal(generic.Floor1(acq.Prorated.Add(earned)), earned)
	return acq
}
