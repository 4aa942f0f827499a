/*
engine.go - The leave accrual engine

PURPOSE:
  Engine binds a generic.Policy to the leave rules. Every method is pure:
  it reads the employee and snapshot it is given, never performs I/O and
  never mutates its inputs. Identical inputs and evaluation date always
  produce identical outputs, so results may be cached by callers.

COMPOSITION (leaf-first):
  ComputeSeniority      hire date → years / months / total months
  EffectiveLeaveDays    date range + holidays → chargeable days
  AnnualEntitlement     tenure + role → annual allotment
  RecoveryCredit        worked rest days / holidays → bonus days
  CarryOver             previous year's unused entitlement
  AcquiredBalance       prorated entitlement + carry-over + recovery
  ConsumedDays          approved annual leave in the year
  RemainingBalance      max(0, acquired - consumed)
  ValidateRequest       does a new request fit?
  BuildReport           everything above, for one employee
  TeamStats             BuildReport over a roster

EVALUATION DATE:
  Every method takes an explicit asOf date instead of reading the clock.
  Callers at the edge pass generic.Today().

SEE ALSO:
  - generic/policy.go: The numbers behind the rules
  - service.go: Loads snapshots from a Store and calls the engine
*/
package leave

import (
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// Engine evaluates leave balances under one policy.
type Engine struct {
	policy generic.Policy
}

func NewEngine(policy generic.Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() generic.Policy { return e.policy }

// =============================================================================
// ENTITLEMENT
// =============================================================================

// AnnualEntitlement resolves the yearly allotment at asOf. A role with a
// fixed entitlement ignores tenure; everyone else gets the tenure-stepped
// amount.
func (e *Engine) AnnualEntitlement(hire generic.TimePoint, role Role, asOf generic.TimePoint) decimal.Decimal {
	if fixed, ok := e.policy.RoleOverride(string(role)); ok {
		return generic.Round1(fixed)
	}
	return e.policy.TenureEntitlement(ComputeSeniority(hire, asOf).TotalMonths)
}

// EntitlementForYear is AnnualEntitlement with the blackout switch applied.
// Within year, tenure is measured at asOf; for past years at Dec 31.
func (e *Engine) EntitlementForYear(hire generic.TimePoint, role Role, year int, asOf generic.TimePoint) decimal.Decimal {
	if e.policy.IsBlackout(year) {
		return decimal.Zero
	}
	at := asOf
	if year < asOf.Year() {
		at = generic.EndOfYear(year)
	}
	return e.AnnualEntitlement(hire, role, at)
}
