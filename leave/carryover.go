package leave

import (
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// CarryOver forwards the previous year's unused entitlement into asOf's
// year: max(0, entitlement(prev) - consumed(prev)). Only the immediately
// preceding year contributes. Employees hired after that year carry
// nothing. A blackout year neither receives carry-over nor forwards any.
func (e *Engine) CarryOver(emp Employee, requests []LeaveRequest, holidays generic.HolidaySet, asOf generic.TimePoint) decimal.Decimal {
	if emp.HireDate.IsZero() || asOf.IsZero() {
		return decimal.Zero
	}
	prev := asOf.Year() - 1
	if emp.HireDate.Year() > prev {
		return decimal.Zero
	}
	if e.policy.IsBlackout(asOf.Year()) || e.policy.IsBlackout(prev) {
		return decimal.Zero
	}

	entitlement := e.EntitlementForYear(emp.HireDate, emp.Role, prev, asOf)
	consumed := decimal.NewFromInt(int64(ConsumedDays(requests, emp.ID, prev, holidays)))
	return generic.MaxDecimal(decimal.Zero, entitlement.Sub(consumed))
}
