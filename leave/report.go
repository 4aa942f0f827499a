package leave

import (
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// WarningLevel grades how much of the acquired balance has been used.
type WarningLevel string

const (
	WarningLow    WarningLevel = "low"
	WarningMedium WarningLevel = "medium"
	WarningHigh   WarningLevel = "high"
)

// Report is the leave position of one employee. It is a value: rebuilt on
// every call and never updated in place.
type Report struct {
	Employee  Employee
	AsOf      generic.TimePoint
	Year      int
	Seniority Seniority

	Entitlement decimal.Decimal
	Acquired    decimal.Decimal
	Prorated    decimal.Decimal
	CarryOver   decimal.Decimal
	Recovery    Recovery
	Consumed    decimal.Decimal
	Remaining   decimal.Decimal

	// UsagePercent is consumed / acquired × 100, rounded to one decimal.
	UsagePercent decimal.Decimal
	IsOverused   bool
	CanTakeLeave bool
	WarningLevel WarningLevel
}

// BuildReport returns nil for employees whose contract does not accrue leave.
func (e *Engine) BuildReport(emp Employee, snap Snapshot, asOf generic.TimePoint) *Report {
	if !emp.Contract.AccruesLeave() {
		return nil
	}

	bal, acq := e.Balance(emp, snap, asOf)
	usage := bal.UsagePercent()
	remaining := bal.Remaining()

	return &Report{
		Employee:     emp,
		AsOf:         asOf,
		Year:         asOf.Year(),
		Seniority:    ComputeSeniority(emp.HireDate, asOf),
		Entitlement:  acq.Entitlement,
		Acquired:     bal.Acquired.Value,
		Prorated:     generic.Round1(acq.Prorated),
		CarryOver:    acq.CarryOver,
		Recovery:     acq.Recovery,
		Consumed:     bal.Consumed.Value,
		Remaining:    remaining.Value,
		UsagePercent: generic.Round1(usage),
		IsOverused:   bal.IsOverused(),
		CanTakeLeave: remaining.IsPositive(),
		WarningLevel: e.warningLevel(usage),
	}
}

func (e *Engine) warningLevel(usage decimal.Decimal) WarningLevel {
	switch {
	case usage.GreaterThan(e.policy.WarningHigh):
		return WarningHigh
	case usage.GreaterThan(e.policy.WarningMedium):
		return WarningMedium
	default:
		return WarningLow
	}
}
