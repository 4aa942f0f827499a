/*
Package factory provides JSON to Go policy conversion.

PURPOSE:
  Converts JSON policy definitions into generic.Policy values. This enables
  policy configuration without code changes - HR can change the base
  allotment, the tenure steps or declare a blackout year in a JSON file,
  and the factory creates the proper Go struct for the engine.

WHY JSON?
  - Non-developers can modify policies
  - Easy integration with admin UI
  - Version control for policy definitions
  - Loaded at startup from LEAVE_POLICY_FILE

JSON SCHEMA:
  {
    "id": "annual-leave",
    "name": "Annual Leave",
    "unit": "days",
    "base_entitlement": 18,
    "tenure_step": 1.5,
    "tenure_threshold_years": [5, 10, 15, 20],
    "role_entitlements": {"department_head": 26},
    "blackout_years": [2020],
    "warning": {"high": 80, "medium": 60}
  }

KEY FEATURES:
  - Validates JSON structure and numeric ranges
  - Rejects role keys the leave package does not know
  - Sets sensible defaults (unit, warning thresholds)
  - Round-trips through ToJSON for the admin UI

USAGE:
  factory := NewPolicyFactory()

  // From JSON string
  policy, err := factory.ParsePolicy(jsonString)

  // From domain preset
  policy, err := factory.ParsePolicy(leave.DefaultPolicyJSON("annual", "Annual Leave"))

  // From a file
  policy, err := factory.LoadFile("./policies/annual.json")

SEE ALSO:
  - generic/policy.go: Policy type definition
  - leave/policies.go: Go-based policy configurations
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

const (
	defaultWarningHigh   = 80
	defaultWarningMedium = 60
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of a policy.
type PolicyJSON struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Unit                 string             `json:"unit,omitempty"`
	BaseEntitlement      float64            `json:"base_entitlement"`
	TenureStep           float64            `json:"tenure_step,omitempty"`
	TenureThresholdYears []int              `json:"tenure_threshold_years,omitempty"`
	RoleEntitlements     map[string]float64 `json:"role_entitlements,omitempty"`
	BlackoutYears        []int              `json:"blackout_years,omitempty"`
	Warning              *WarningJSON       `json:"warning,omitempty"`
}

// WarningJSON holds the usage percentages that raise the warning level.
type WarningJSON struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON policies to Go structs.
type PolicyFactory struct{}

// NewPolicyFactory creates a new policy factory.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// ParsePolicy parses a JSON string into a Policy.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (generic.Policy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return generic.Policy{}, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// LoadFile reads and parses a policy file.
func (f *PolicyFactory) LoadFile(path string) (generic.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return generic.Policy{}, fmt.Errorf("failed to read policy file: %w", err)
	}
	return f.ParsePolicy(string(data))
}

// FromJSON converts PolicyJSON to generic.Policy.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (generic.Policy, error) {
	if pj.ID == "" {
		return generic.Policy{}, fmt.Errorf("%w: id is required", generic.ErrInvalidPolicy)
	}

	unit, err := parseUnit(pj.Unit)
	if err != nil {
		return generic.Policy{}, err
	}

	policy := generic.Policy{
		ID:                   generic.PolicyID(pj.ID),
		Name:                 pj.Name,
		Unit:                 unit,
		BaseEntitlement:      decimal.NewFromFloat(pj.BaseEntitlement),
		TenureStep:           decimal.NewFromFloat(pj.TenureStep),
		TenureThresholdYears: slices.Clone(pj.TenureThresholdYears),
		BlackoutYears:        slices.Clone(pj.BlackoutYears),
		WarningHigh:          decimal.NewFromInt(defaultWarningHigh),
		WarningMedium:        decimal.NewFromInt(defaultWarningMedium),
	}
	if policy.Name == "" {
		policy.Name = pj.ID
	}
	slices.Sort(policy.TenureThresholdYears)

	if len(pj.RoleEntitlements) > 0 {
		policy.RoleEntitlements = make(map[string]decimal.Decimal, len(pj.RoleEntitlements))
		for key, days := range pj.RoleEntitlements {
			role := leave.Role(key)
			if !role.Valid() {
				return generic.Policy{}, fmt.Errorf("%w: unknown role %q", generic.ErrInvalidPolicy, key)
			}
			policy.RoleEntitlements[string(role)] = decimal.NewFromFloat(days)
		}
	}

	if pj.Warning != nil {
		policy.WarningHigh = decimal.NewFromFloat(pj.Warning.High)
		policy.WarningMedium = decimal.NewFromFloat(pj.Warning.Medium)
	}

	if err := policy.Validate(); err != nil {
		return generic.Policy{}, err
	}
	return policy, nil
}

// ToJSON converts a Policy to PolicyJSON.
func (f *PolicyFactory) ToJSON(policy generic.Policy) PolicyJSON {
	pj := PolicyJSON{
		ID:                   string(policy.ID),
		Name:                 policy.Name,
		Unit:                 string(policy.Unit),
		BaseEntitlement:      policy.BaseEntitlement.InexactFloat64(),
		TenureStep:           policy.TenureStep.InexactFloat64(),
		TenureThresholdYears: slices.Clone(policy.TenureThresholdYears),
		BlackoutYears:        slices.Clone(policy.BlackoutYears),
		Warning: &WarningJSON{
			High:   policy.WarningHigh.InexactFloat64(),
			Medium: policy.WarningMedium.InexactFloat64(),
		},
	}

	if len(policy.RoleEntitlements) > 0 {
		pj.RoleEntitlements = make(map[string]float64, len(policy.RoleEntitlements))
		for role, days := range policy.RoleEntitlements {
			pj.RoleEntitlements[role] = days.InexactFloat64()
		}
	}

	return pj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseUnit(s string) (generic.Unit, error) {
	switch s {
	case "", "days":
		return generic.UnitDays, nil
	case "hours":
		return generic.UnitHours, nil
	default:
		return "", fmt.Errorf("%w: unknown unit %q", generic.ErrInvalidPolicy, s)
	}
}
