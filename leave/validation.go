package leave

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// Balance assembles acquired and consumed days for asOf's year.
func (e *Engine) Balance(emp Employee, snap Snapshot, asOf generic.TimePoint) (generic.Balance, Acquisition) {
	acq := e.AcquiredBalance(emp, snap, asOf)
	consumed := ConsumedDays(snap.Requests, emp.ID, asOf.Year(), snap.Holidays)
	return generic.Balance{
		EntityID: emp.ID,
		PolicyID: e.policy.ID,
		Period:   generic.YearPeriod(asOf.Year()),
		Acquired: generic.NewAmountFromDecimal(acq.Total, generic.UnitDays),
		Consumed: generic.NewAmountFromInt(consumed, generic.UnitDays),
	}, acq
}

// RemainingBalance is max(0, acquired - consumed).
func (e *Engine) RemainingBalance(emp Employee, snap Snapshot, asOf generic.TimePoint) decimal.Decimal {
	bal, _ := e.Balance(emp, snap, asOf)
	return bal.Remaining().Value
}

// ValidationResult is the outcome of checking a prospective request.
type ValidationResult struct {
	Valid   bool
	Message string
	Err     error // nil when Valid

	// RequestedDays is the raw calendar span end - start + 1.
	RequestedDays int
	// EffectiveDays is what the request would consume once approved.
	EffectiveDays int
	ReturnDate    generic.TimePoint

	Remaining             decimal.Decimal
	RemainingAfterRequest decimal.Decimal // set when Valid
	Shortfall             decimal.Decimal // set when not Valid
}

// ValidateRequest checks [start, end] against the remaining balance at asOf.
//
// The requested amount is the raw calendar span, not the effective-day
// count, so rest days and holidays inside the range still count here.
func (e *Engine) ValidateRequest(emp Employee, snap Snapshot, start, end, asOf generic.TimePoint) ValidationResult {
	res := ValidationResult{
		Remaining:             decimal.Zero,
		RemainingAfterRequest: decimal.Zero,
		Shortfall:             decimal.Zero,
	}

	span := generic.Period{Start: start, End: end}
	switch {
	case start.IsZero() || end.IsZero():
		return res.reject(fmt.Errorf("%w: start and end dates are required", generic.ErrInvalidDate))
	case end.Before(start):
		return res.reject(fmt.Errorf("%w (%s)", generic.ErrInvalidPeriod, span))
	case !emp.Contract.AccruesLeave():
		return res.reject(fmt.Errorf("%w: %s contract", generic.ErrNotEligible, emp.Contract))
	}

	res.RequestedDays = span.SpanDays()
	res.EffectiveDays = EffectiveLeaveDays(start, end, snap.Holidays, 0)
	res.ReturnDate = ReturnDate(end, snap.Holidays)

	bal, _ := e.Balance(emp, snap, asOf)
	requested := generic.NewAmountFromInt(res.RequestedDays, generic.UnitDays)
	res.Remaining = bal.Remaining().Value

	if err := bal.Check(requested); err != nil {
		res.Shortfall = bal.Shortfall(requested).Value
		return res.reject(err)
	}

	res.Valid = true
	res.RemainingAfterRequest = res.Remaining.Sub(requested.Value)
	res.Message = fmt.Sprintf("request of %d day(s) fits the remaining balance of %s day(s); %s day(s) left afterwards",
		res.RequestedDays, res.Remaining.String(), res.RemainingAfterRequest.String())
	return res
}

func (r ValidationResult) reject(err error) ValidationResult {
	r.Valid = false
	r.Err = err
	r.Message = err.Error()
	return r
}
