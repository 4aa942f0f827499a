/*
policies.go - Pre-built leave policy configurations

PURPOSE:
  Provides ready-to-use policies for the annual leave engine, both as Go
  values and as JSON documents for the policy factory. They construct JSON
  directly to avoid an import cycle with the factory package.

AVAILABLE POLICIES:
  DefaultPolicy:      18 days, +1.5 per 5/10/15/20 years, 26 for department heads
  FlatPolicy:         Fixed days for everyone, no tenure steps, no overrides

WARNING LEVELS:
  Both presets raise the warning level above 60% usage (medium) and above
  80% usage (high).

EXAMPLE:
  engine := leave.NewEngine(leave.DefaultPolicy())

  // Or through the factory, with a blackout year
  policy, err := factory.NewPolicyFactory().ParsePolicy(
      leave.DefaultPolicyJSON("annual", "Annual Leave", 2020))

SEE ALSO:
  - factory/policy.go: JSON-based policy creation
  - generic/policy.go: Policy type definition
*/
package leave

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

const (
	DefaultPolicyID      generic.PolicyID = "annual-leave"
	defaultBase                           = 18
	defaultStep                           = 1.5
	defaultDeptHeadDays                   = 26
	defaultWarningHigh                    = 80
	defaultWarningMedium                  = 60
)

var defaultThresholds = []int{5, 10, 15, 20}

// DefaultPolicy returns the standard tenure-stepped annual leave policy.
func DefaultPolicy(blackoutYears ...int) generic.Policy {
	return generic.Policy{
		ID:                   DefaultPolicyID,
		Name:                 "Annual Leave",
		Unit:                 generic.UnitDays,
		BaseEntitlement:      decimal.NewFromInt(defaultBase),
		TenureStep:           decimal.NewFromFloat(defaultStep),
		TenureThresholdYears: append([]int(nil), defaultThresholds...),
		RoleEntitlements: map[string]decimal.Decimal{
			string(RoleDepartmentHead): decimal.NewFromInt(defaultDeptHeadDays),
		},
		BlackoutYears: append([]int(nil), blackoutYears...),
		WarningHigh:   decimal.NewFromInt(defaultWarningHigh),
		WarningMedium: decimal.NewFromInt(defaultWarningMedium),
	}
}

// FlatPolicy grants the same number of days to everyone.
func FlatPolicy(id generic.PolicyID, annualDays float64) generic.Policy {
	return generic.Policy{
		ID:              id,
		Name:            "Flat Leave",
		Unit:            generic.UnitDays,
		BaseEntitlement: decimal.NewFromFloat(annualDays),
		TenureStep:      decimal.Zero,
		WarningHigh:     decimal.NewFromInt(defaultWarningHigh),
		WarningMedium:   decimal.NewFromInt(defaultWarningMedium),
	}
}

// DefaultPolicyJSON returns JSON for the standard policy.
func DefaultPolicyJSON(id, name string, blackoutYears ...int) string {
	if blackoutYears == nil {
		blackoutYears = []int{}
	}
	pj := map[string]interface{}{
		"id":                     id,
		"name":                   name,
		"unit":                   "days",
		"base_entitlement":       defaultBase,
		"tenure_step":            defaultStep,
		"tenure_threshold_years": defaultThresholds,
		"role_entitlements": map[string]interface{}{
			string(RoleDepartmentHead): defaultDeptHeadDays,
		},
		"blackout_years": blackoutYears,
		"warning": map[string]interface{}{
			"high":   defaultWarningHigh,
			"medium": defaultWarningMedium,
		},
	}
	b, _ := json.MarshalIndent(pj, "", "  ")
	return string(b)
}

// FlatPolicyJSON returns JSON for a flat policy.
func FlatPolicyJSON(id, name string, annualDays float64) string {
	pj := map[string]interface{}{
		"id":               id,
		"name":             name,
		"unit":             "days",
		"base_entitlement": annualDays,
	}
	b, _ := json.MarshalIndent(pj, "", "  ")
	return string(b)
}
