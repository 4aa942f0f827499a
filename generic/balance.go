/*
balance.go - Acquired, consumed and remaining days

PURPOSE:
  Holds the two figures the engine produces for an employee and year
  (what has been acquired, what has been consumed) and derives every
  published number from them. This is the central calculation that
  answers "how many days can this employee still take?"

BALANCE COMPONENTS:
  Acquired: prorated entitlement + carry-over + recovery credit
  Consumed: effective days of approved leave in the year

AVAILABILITY CALCULATION:
  Remaining = max(0, Acquired - Consumed)

  Remaining is clamped: an employee who took more than was acquired is
  reported as overused, never as having a negative balance.

USAGE RATIO:
  Usage% = Consumed / Acquired × 100   (0 when nothing was acquired)

EXAMPLE:
  Acquired 10.5, consumed 12:
    Remaining()    = 0
    IsOverused()   = true
    UsagePercent() = 114.28...

SEE ALSO:
  - leave/report.go: Turns a Balance into a report with warning levels
  - leave/validation.go: Checks a request against Remaining()
*/
package generic

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Balance is the leave position of one entity for one period.
type Balance struct {
	EntityID EntityID
	PolicyID PolicyID
	Period   Period

	Acquired Amount
	Consumed Amount
}

// Remaining returns max(0, acquired - consumed).
func (b Balance) Remaining() Amount {
	return b.Acquired.Sub(b.Consumed).NonNegative()
}

// IsOverused is true when more was consumed than acquired.
func (b Balance) IsOverused() bool {
	return b.Consumed.GreaterThan(b.Acquired)
}

// CanConsume checks whether requested fits in the remaining balance.
func (b Balance) CanConsume(requested Amount) bool {
	return !requested.GreaterThan(b.Remaining())
}

// Shortfall is how much of requested the remaining balance cannot cover.
func (b Balance) Shortfall(requested Amount) Amount {
	return requested.Sub(b.Remaining()).NonNegative()
}

// UsagePercent is consumed / acquired × 100, or 0 when nothing was acquired.
func (b Balance) UsagePercent() decimal.Decimal {
	if !b.Acquired.IsPositive() {
		return decimal.Zero
	}
	return b.Consumed.Value.Div(b.Acquired.Value).Mul(hundred)
}

// Check returns an *InsufficientBalanceError when requested does not fit.
func (b Balance) Check(requested Amount) error {
	if b.CanConsume(requested) {
		return nil
	}
	return &InsufficientBalanceError{
		EntityID:  b.EntityID,
		PolicyID:  b.PolicyID,
		Available: b.Remaining(),
		Requested: requested,
		Shortfall: b.Shortfall(requested),
	}
}
