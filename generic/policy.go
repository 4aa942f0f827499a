/*
policy.go - Entitlement policy

PURPOSE:
  Defines the parameters that turn tenure and role into an annual day
  allotment, plus the switches that alter accrual for specific years.
  A Policy is the contract between the organization and employees about
  their leave entitlements; the engine never embeds these numbers.

KEY CONCEPTS:
  - BaseEntitlement: days per year before any tenure step
  - TenureStep / TenureThresholdYears: +step once per threshold reached
  - RoleEntitlements: fixed allotments that ignore tenure entirely
  - BlackoutYears: years whose entitlement and carry-over are forced to 0
  - Warning thresholds: usage percentages that raise the warning level

TENURE STEPS:
  With base 18, step 1.5 and thresholds 5/10/15/20 years:
    < 5 years   → 18
    5-9 years   → 19.5
    10-14 years → 21
    15-19 years → 22.5
    20+ years   → 24

  A threshold is reached when the elapsed total months is at least
  threshold × 12. The sum is rounded to one decimal place.

EXAMPLE:
  policy := Policy{
      Name:                 "Annual Leave",
      Unit:                 UnitDays,
      BaseEntitlement:      decimal.NewFromInt(18),
      TenureStep:           decimal.RequireFromString("1.5"),
      TenureThresholdYears: []int{5, 10, 15, 20},
      RoleEntitlements:     map[string]decimal.Decimal{"department_head": decimal.NewFromInt(26)},
  }
*/
package generic

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// =============================================================================
// POLICY - Rules governing annual leave entitlement
// =============================================================================

// Policy defines how leave is earned for a group of employees.
type Policy struct {
	ID   PolicyID
	Name string
	Unit Unit

	// Tenure-stepped entitlement
	BaseEntitlement      decimal.Decimal
	TenureStep           decimal.Decimal
	TenureThresholdYears []int

	// Fixed entitlement overrides keyed by role identifier
	RoleEntitlements map[string]decimal.Decimal

	// Years whose entitlement and carry-over are forced to zero
	BlackoutYears []int

	// Usage percentages above which the warning level rises
	WarningHigh   decimal.Decimal
	WarningMedium decimal.Decimal
}

// TenureEntitlement returns base + step × thresholds reached, rounded to 1 dp.
// Non-positive totalMonths reach no threshold.
func (p Policy) TenureEntitlement(totalMonths int) decimal.Decimal {
	total := p.BaseEntitlement
	for _, years := range p.TenureThresholdYears {
		if years > 0 && totalMonths >= years*12 {
			total = total.Add(p.TenureStep)
		}
	}
	return Round1(total)
}

// RoleOverride returns the fixed entitlement for role, if any.
func (p Policy) RoleOverride(role string) (decimal.Decimal, bool) {
	d, ok := p.RoleEntitlements[role]
	return d, ok
}

// IsBlackout reports whether year is excluded from accrual.
func (p Policy) IsBlackout(year int) bool {
	return slices.Contains(p.BlackoutYears, year)
}

// Validate checks the policy parameters are usable.
func (p Policy) Validate() error {
	if p.BaseEntitlement.IsNegative() {
		return fmt.Errorf("%w: base entitlement is negative", ErrInvalidPolicy)
	}
	if p.TenureStep.IsNegative() {
		return fmt.Errorf("%w: tenure step is negative", ErrInvalidPolicy)
	}
	for _, years := range p.TenureThresholdYears {
		if years <= 0 {
			return fmt.Errorf("%w: tenure threshold %d must be positive", ErrInvalidPolicy, years)
		}
	}
	for role, d := range p.RoleEntitlements {
		if d.IsNegative() {
			return fmt.Errorf("%w: entitlement for role %q is negative", ErrInvalidPolicy, role)
		}
	}
	if p.WarningMedium.GreaterThan(p.WarningHigh) {
		return fmt.Errorf("%w: medium warning threshold above high threshold", ErrInvalidPolicy)
	}
	return nil
}
