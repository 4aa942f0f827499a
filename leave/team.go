package leave

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// TeamStats summarises the reports of a roster.
type TeamStats struct {
	AsOf generic.TimePoint

	// Employees counts reports; Excluded counts roster members without one.
	Employees int
	Excluded  int

	TotalAcquired  decimal.Decimal
	TotalConsumed  decimal.Decimal
	TotalRemaining decimal.Decimal

	AverageAcquired  decimal.Decimal
	AverageConsumed  decimal.Decimal
	AverageRemaining decimal.Decimal
	AverageUsage     decimal.Decimal

	OverusedCount  int
	HighUsageCount int

	Alerts  []Alert
	Reports []Report
}

// Alert flags an employee who has overused leave or is in the high band.
type Alert struct {
	EmployeeID generic.EntityID
	Name       string
	Level      WarningLevel
	Overused   bool
	Message    string
}

// TeamStats maps BuildReport over the roster, drops employees without a
// report and folds the rest. It returns nil when no report remains.
func (e *Engine) TeamStats(employees []Employee, snap Snapshot, asOf generic.TimePoint) *TeamStats {
	var reports []Report
	for _, emp := range employees {
		if r := e.BuildReport(emp, snap, asOf); r != nil {
			reports = append(reports, *r)
		}
	}
	if len(reports) == 0 {
		return nil
	}

	stats := &TeamStats{
		AsOf:           asOf,
		Employees:      len(reports),
		Excluded:       len(employees) - len(reports),
		TotalAcquired:  decimal.Zero,
		TotalConsumed:  decimal.Zero,
		TotalRemaining: decimal.Zero,
		Reports:        reports,
	}

	usageSum := decimal.Zero
	for _, r := range reports {
		stats.TotalAcquired = stats.TotalAcquired.Add(r.Acquired)
		stats.TotalConsumed = stats.TotalConsumed.Add(r.Consumed)
		stats.TotalRemaining = stats.TotalRemaining.Add(r.Remaining)
		usageSum = usageSum.Add(r.UsagePercent)

		if r.IsOverused {
			stats.OverusedCount++
		}
		if r.WarningLevel == WarningHigh {
			stats.HighUsageCount++
		}
		if r.IsOverused || r.WarningLevel == WarningHigh {
			stats.Alerts = append(stats.Alerts, alertFor(r))
		}
	}

	n := decimal.NewFromInt(int64(len(reports)))
	stats.AverageAcquired = generic.Round1(stats.TotalAcquired.Div(n))
	stats.AverageConsumed = generic.Round1(stats.TotalConsumed.Div(n))
	stats.AverageRemaining = generic.Round1(stats.TotalRemaining.Div(n))
	stats.AverageUsage = generic.Round1(usageSum.Div(n))
	return stats
}

func alertFor(r Report) Alert {
	a := Alert{
		EmployeeID: r.Employee.ID,
		Name:       r.Employee.Name,
		Level:      r.WarningLevel,
		Overused:   r.IsOverused,
	}
	if r.IsOverused {
		a.Message = fmt.Sprintf("%s consumed %s of %s acquired day(s)", r.Employee.Name, r.Consumed, r.Acquired)
	} else {
		a.Message = fmt.Sprintf("%s has used %s%% of acquired leave", r.Employee.Name, r.UsagePercent)
	}
	return a
}
