/*
Package generic provides the domain-agnostic building blocks of the leave engine.

PURPOSE:
  This package contains the value types and small algorithms that do not
  know anything about employees, roles or leave requests: day amounts,
  calendar days, periods, holiday sets, balances and the entitlement
  policy. The leave package composes them into the accrual engine.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 18 days)
  - Entity/Policy IDs: Type-safe identifiers
  - Rounding helpers: one-decimal rounding used by every published figure

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Type Safety: Strong typing for IDs prevents mixing entity/policy IDs
  3. Purity: Nothing in this package performs I/O except the calendar interface

USAGE:
  acquired := generic.NewAmountFromDecimal(total, generic.UnitDays)
  left := acquired.Sub(consumed).NonNegative()

SEE ALSO:
  - policy.go: Entitlement policy (base, tenure steps, blackout years)
  - balance.go: Acquired / consumed / remaining arithmetic
  - time.go: Calendar days and holiday sets
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays  Unit = "days"
	UnitHours Unit = "hours"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount              { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsPositive() bool          { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }

// NonNegative clamps the amount at zero.
func (a Amount) NonNegative() Amount {
	if a.IsNegative() {
		return a.Zero()
	}
	return a
}

// =============================================================================
// ROUNDING
// =============================================================================

// Round1 rounds half away from zero to one decimal place.
func Round1(d decimal.Decimal) decimal.Decimal { return d.Round(1) }

// Floor1 truncates towards negative infinity at one decimal place.
func Floor1(d decimal.Decimal) decimal.Decimal { return d.RoundFloor(1) }

// MaxDecimal returns the larger of two decimals.
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EntityID string
type PolicyID string
