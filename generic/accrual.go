package generic

import "github.com/shopspring/decimal"

// =============================================================================
// PRORATION - Scaling an annual allotment by elapsed months
// =============================================================================

var twelve = decimal.NewFromInt(12)

// MonthlyShare is one twelfth of an annual amount.
func MonthlyShare(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(twelve)
}

// ProrateMonths returns annual × months / 12. Negative months count as zero
// and more than twelve months never exceed the annual amount.
func ProrateMonths(annual decimal.Decimal, months int) decimal.Decimal {
	switch {
	case months <= 0:
		return decimal.Zero
	case months >= 12:
		return annual
	}
	return annual.Mul(decimal.NewFromInt(int64(months))).Div(twelve)
}

// MonthsElapsedInYear counts the months of asOf's year that have started by
// asOf, beginning at start. start in an earlier year counts from January;
// start later than asOf yields 0.
func MonthsElapsedInYear(start, asOf TimePoint) int {
	if start.IsZero() || asOf.IsZero() {
		return 0
	}
	if start.Year() < asOf.Year() {
		return int(asOf.Month())
	}
	if start.Year() > asOf.Year() {
		return 0
	}
	months := int(asOf.Month()) - int(start.Month()) + 1
	if months < 0 {
		return 0
	}
	return months
}
