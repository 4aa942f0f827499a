package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func assertDays(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s days, got %s", want, got)
}

func holidays(active ...generic.TimePoint) generic.HolidaySet {
	list := make([]generic.Holiday, 0, len(active))
	for _, d := range active {
		list = append(list, generic.Holiday{ID: "h-" + d.String(), Date: d, Name: "Holiday", Active: true})
	}
	return generic.NewHolidaySet(list)
}

func permanent(id string, hire generic.TimePoint) leave.Employee {
	return leave.Employee{
		ID:       generic.EntityID(id),
		Name:     id,
		HireDate: hire,
		Role:     leave.RoleEmployee,
		Contract: leave.ContractPermanent,
	}
}

func approved(id, emp string, start, end generic.TimePoint) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:         id,
		EmployeeID: generic.EntityID(emp),
		Type:       leave.LeaveTypeAnnual,
		Start:      start,
		End:        end,
		Status:     leave.StatusApproved,
	}
}

func worked(emp string, d generic.TimePoint, status leave.AttendanceStatus) leave.AttendanceRecord {
	return leave.AttendanceRecord{ID: "att-" + d.String(), EmployeeID: generic.EntityID(emp), Date: d, Status: status}
}

func defaultEngine() *leave.Engine {
	return leave.NewEngine(leave.DefaultPolicy())
}

// =============================================================================
// SENIORITY
// =============================================================================

func TestSeniority(t *testing.T) {
	tests := []struct {
		name string
		hire generic.TimePoint
		asOf generic.TimePoint
		want leave.Seniority
	}{
		{"same month", date(2023, 7, 1), date(2023, 7, 20), leave.Seniority{Years: 0, Months: 0, TotalMonths: 0}},
		{"two and a half years", date(2021, 1, 1), date(2023, 7, 15), leave.Seniority{Years: 2, Months: 6, TotalMonths: 30}},
		{"month borrow", date(2019, 11, 10), date(2023, 3, 1), leave.Seniority{Years: 3, Months: 4, TotalMonths: 40}},
		{"future hire", date(2024, 3, 1), date(2023, 7, 15), leave.Seniority{Years: -1, Months: 4, TotalMonths: -8}},
		{"missing hire date", generic.TimePoint{}, date(2023, 7, 15), leave.Seniority{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leave.ComputeSeniority(tt.hire, tt.asOf))
		})
	}
}

// =============================================================================
// EFFECTIVE DAYS
// =============================================================================

func TestEffectiveLeaveDays_WeekExcludesSunday(t *testing.T) {
	// GIVEN: Monday 2023-07-03 to Sunday 2023-07-09, no holidays
	// WHEN: Counting effective days
	// THEN: Six days, the Sunday is free

	got := leave.EffectiveLeaveDays(date(2023, 7, 3), date(2023, 7, 9), nil, 0)
	assert.Equal(t, 6, got)
}

func TestEffectiveLeaveDays_SingleHoliday(t *testing.T) {
	// GIVEN: A one-day request on an active holiday
	// WHEN: Counting effective days
	// THEN: It costs nothing

	h := holidays(date(2023, 5, 1))
	assert.Equal(t, 0, leave.EffectiveLeaveDays(date(2023, 5, 1), date(2023, 5, 1), h, 0))
}

func TestEffectiveLeaveDays_InactiveHolidayIsCharged(t *testing.T) {
	h := generic.NewHolidaySet([]generic.Holiday{{ID: "h1", Date: date(2023, 5, 1), Active: false}})
	assert.Equal(t, 1, leave.EffectiveLeaveDays(date(2023, 5, 1), date(2023, 5, 1), h, 0))
}

func TestEffectiveLeaveDays_HolidayOnSundayExcludedOnce(t *testing.T) {
	// GIVEN: 2023-01-01 is both a Sunday and a holiday
	// WHEN: Counting Sunday 01-01 to Tuesday 01-03
	// THEN: Only Monday and Tuesday count; no double subtraction

	h := holidays(date(2023, 1, 1))
	assert.Equal(t, 2, leave.EffectiveLeaveDays(date(2023, 1, 1), date(2023, 1, 3), h, 0))
}

func TestEffectiveLeaveDays_EndBeforeStart(t *testing.T) {
	for offset := 1; offset <= 10; offset++ {
		start := date(2023, 7, 15)
		assert.Equal(t, 0, leave.EffectiveLeaveDays(start, start.AddDays(-offset), nil, 0))
	}
}

func TestEffectiveLeaveDays_MissingDates(t *testing.T) {
	assert.Equal(t, 0, leave.EffectiveLeaveDays(generic.TimePoint{}, date(2023, 7, 15), nil, 0))
	assert.Equal(t, 0, leave.EffectiveLeaveDays(date(2023, 7, 15), generic.TimePoint{}, nil, 0))
}

func TestEffectiveLeaveDays_PlainWeekdaysEqualSpan(t *testing.T) {
	// GIVEN: Ranges inside one month with no Sunday and no holiday
	// THEN: Effective days equal the raw span

	tests := []struct{ start, end generic.TimePoint }{
		{date(2023, 7, 3), date(2023, 7, 3)},
		{date(2023, 7, 3), date(2023, 7, 8)},
		{date(2023, 7, 11), date(2023, 7, 14)},
	}
	for _, tt := range tests {
		span := generic.Period{Start: tt.start, End: tt.end}.SpanDays()
		assert.Equal(t, span, leave.EffectiveLeaveDays(tt.start, tt.end, nil, 0), "range %s..%s", tt.start, tt.end)
	}
}

func TestEffectiveLeaveDays_Monotonic(t *testing.T) {
	// GIVEN: A calendar with several holidays
	// WHEN: Widening the range one day at a time
	// THEN: The count never decreases

	h := holidays(date(2023, 5, 1), date(2023, 5, 2), date(2023, 5, 14), date(2023, 6, 1))
	start := date(2023, 4, 25)
	prev := 0
	for end := start; end.Before(date(2023, 7, 1)); end = end.AddDays(1) {
		got := leave.EffectiveLeaveDays(start, end, h, 0)
		require.GreaterOrEqual(t, got, prev, "range ending %s", end)
		prev = got
	}
}

func TestEffectiveLeaveDays_YearClip(t *testing.T) {
	// GIVEN: A request from Wed 2022-12-28 to Tue 2023-01-03
	start, end := date(2022, 12, 28), date(2023, 1, 3)

	// THEN: 2022 part is Wed..Sat, 2023 part skips Sunday Jan 1
	assert.Equal(t, 4, leave.EffectiveLeaveDays(start, end, nil, 2022))
	assert.Equal(t, 2, leave.EffectiveLeaveDays(start, end, nil, 2023))
	assert.Equal(t, 0, leave.EffectiveLeaveDays(start, end, nil, 2021))
	assert.Equal(t, 6, leave.EffectiveLeaveDays(start, end, nil, 0))
}

// =============================================================================
// RETURN DATE
// =============================================================================

func TestReturnDate_SkipsSundayAndHolidays(t *testing.T) {
	// GIVEN: Leave ends Saturday 2023-07-08, Monday 07-10 is a holiday
	// WHEN: Computing the return date
	// THEN: Back on Tuesday 07-11

	h := holidays(date(2023, 7, 10))
	assert.Equal(t, date(2023, 7, 11), leave.ReturnDate(date(2023, 7, 8), h))
	assert.Equal(t, date(2023, 7, 10), leave.ReturnDate(date(2023, 7, 8), nil))
}

func TestReturnDate_NeverRestDayOrHoliday(t *testing.T) {
	h := holidays(date(2023, 12, 25), date(2023, 12, 26), date(2024, 1, 1), date(2024, 1, 2))
	for end := date(2023, 12, 1); end.Before(date(2024, 1, 31)); end = end.AddDays(1) {
		ret := leave.ReturnDate(end, h)
		assert.True(t, ret.After(end))
		assert.False(t, ret.IsRestDay(), "return %s after %s", ret, end)
		assert.False(t, h.Contains(ret), "return %s after %s", ret, end)
	}
}

func TestReturnDate_MissingEnd(t *testing.T) {
	assert.True(t, leave.ReturnDate(generic.TimePoint{}, nil).IsZero())
}

// =============================================================================
// RECOVERY CREDIT
// =============================================================================

func TestRecoveryCredit_SundayHolidayCountsTwice(t *testing.T) {
	// GIVEN: Present on 2023-01-01, a Sunday that is also an active holiday
	// WHEN: Computing recovery credit
	// THEN: +1 for the Sunday and +1 for the holiday

	h := holidays(date(2023, 1, 1))
	att := []leave.AttendanceRecord{worked("emp-1", date(2023, 1, 1), leave.AttendancePresent)}

	r := leave.RecoveryCredit("emp-1", att, h)
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, []generic.TimePoint{date(2023, 1, 1)}, r.SundayDates)
	assert.Equal(t, []generic.TimePoint{date(2023, 1, 1)}, r.HolidayDates)
}

func TestRecoveryCredit_StatusesAndOwnership(t *testing.T) {
	// GIVEN: A mix of worked and absent days, and another employee's record
	h := holidays(date(2023, 5, 1))
	att := []leave.AttendanceRecord{
		worked("emp-1", date(2023, 1, 8), leave.AttendanceLate),    // Sunday
		worked("emp-1", date(2023, 1, 15), leave.AttendanceAbsent), // Sunday, absent
		worked("emp-1", date(2023, 5, 1), leave.AttendancePresent), // Monday holiday
		worked("emp-1", date(2023, 5, 2), leave.AttendancePresent), // ordinary day
		worked("emp-2", date(2023, 1, 22), leave.AttendancePresent),
	}

	// WHEN: Computing emp-1's credit
	r := leave.RecoveryCredit("emp-1", att, h)

	// THEN: One Sunday (late counts) and one holiday
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, []generic.TimePoint{date(2023, 1, 8)}, r.SundayDates)
	assert.Equal(t, []generic.TimePoint{date(2023, 5, 1)}, r.HolidayDates)
}

// =============================================================================
// ENTITLEMENT
// =============================================================================

func TestAnnualEntitlement_TenureSteps(t *testing.T) {
	engine := defaultEngine()
	asOf := date(2023, 7, 15)

	tests := []struct {
		name string
		hire generic.TimePoint
		want string
	}{
		{"new hire", date(2023, 7, 1), "18"},
		{"59 months", date(2018, 8, 1), "18"},
		{"60 months", date(2018, 7, 1), "19.5"},
		{"10 years", date(2013, 7, 1), "21"},
		{"15 years", date(2008, 1, 1), "22.5"},
		{"20 years", date(2003, 7, 1), "24"},
		{"35 years", date(1988, 1, 1), "24"},
		{"future hire", date(2025, 1, 1), "18"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDays(t, tt.want, engine.AnnualEntitlement(tt.hire, leave.RoleEmployee, asOf))
		})
	}
}

func TestAnnualEntitlement_DepartmentHeadFixed(t *testing.T) {
	engine := defaultEngine()
	asOf := date(2023, 7, 15)
	for _, hire := range []generic.TimePoint{date(2023, 7, 1), date(2015, 1, 1), date(1990, 1, 1)} {
		assertDays(t, "26", engine.AnnualEntitlement(hire, leave.RoleDepartmentHead, asOf))
	}
}

func TestAnnualEntitlement_ManagerGetsNoOverride(t *testing.T) {
	engine := defaultEngine()
	assertDays(t, "18", engine.AnnualEntitlement(date(2022, 1, 1), leave.RoleManager, date(2023, 7, 15)))
}

func TestEntitlementForYear_Blackout(t *testing.T) {
	engine := leave.NewEngine(leave.DefaultPolicy(2022))
	hire := date(2010, 1, 1)

	assertDays(t, "0", engine.EntitlementForYear(hire, leave.RoleEmployee, 2022, date(2023, 3, 1)))
	assertDays(t, "21", engine.EntitlementForYear(hire, leave.RoleEmployee, 2023, date(2023, 3, 1)))
}

// =============================================================================
// CONSUMPTION
// =============================================================================

func TestConsumedDays_Filters(t *testing.T) {
	// GIVEN: Requests of every kind for emp-1 plus one for emp-2
	h := holidays(date(2023, 5, 1))
	requests := []leave.LeaveRequest{
		approved("r1", "emp-1", date(2023, 7, 3), date(2023, 7, 9)), // 6 days
		approved("r2", "emp-1", date(2023, 5, 1), date(2023, 5, 2)), // holiday + 1
		approved("r3", "emp-2", date(2023, 7, 3), date(2023, 7, 7)),
		approved("r4", "emp-1", date(2022, 3, 1), date(2022, 3, 3)), // other year
		{ID: "r5", EmployeeID: "emp-1", Type: leave.LeaveTypeAnnual, Start: date(2023, 8, 1), End: date(2023, 8, 3), Status: leave.StatusPending},
		{ID: "r6", EmployeeID: "emp-1", Type: leave.LeaveTypeAnnual, Start: date(2023, 8, 7), End: date(2023, 8, 9), Status: leave.StatusRejected},
		{ID: "r7", EmployeeID: "emp-1", Type: leave.LeaveTypeSick, Start: date(2023, 9, 4), End: date(2023, 9, 6), Status: leave.StatusApproved},
		approved("r8", "emp-1", date(2023, 10, 5), date(2023, 10, 1)), // inverted
	}

	// WHEN: Summing emp-1's 2023 consumption
	// THEN: Only r1 and r2 count
	assert.Equal(t, 7, leave.ConsumedDays(requests, "emp-1", 2023, h))
	assert.Equal(t, 3, leave.ConsumedDays(requests, "emp-1", 2022, h))
}

func TestConsumedDays_ClipsToYear(t *testing.T) {
	requests := []leave.LeaveRequest{approved("r1", "emp-1", date(2022, 12, 28), date(2023, 1, 3))}
	assert.Equal(t, 4, leave.ConsumedDays(requests, "emp-1", 2022, nil))
	assert.Equal(t, 2, leave.ConsumedDays(requests, "emp-1", 2023, nil))
}

func TestParseRequestStatus_ValidatedIsApproved(t *testing.T) {
	assert.Equal(t, leave.StatusApproved, leave.ParseRequestStatus("validé"))
	assert.Equal(t, leave.StatusApproved, leave.ParseRequestStatus("Validated"))
	assert.Equal(t, leave.StatusRejected, leave.ParseRequestStatus("rejected"))
	assert.Equal(t, leave.StatusPending, leave.ParseRequestStatus("whatever"))
	assert.Equal(t, leave.LeaveTypeAnnual, leave.ParseLeaveType("Congé"))
	assert.Equal(t, leave.LeaveTypeOther, leave.ParseLeaveType("training"))
}

// =============================================================================
// CARRY-OVER
// =============================================================================

func TestCarryOver(t *testing.T) {
	asOf := date(2023, 7, 15)

	t.Run("hired after previous year", func(t *testing.T) {
		emp := permanent("emp-1", date(2023, 2, 1))
		assertDays(t, "0", defaultEngine().CarryOver(emp, nil, nil, asOf))
	})

	t.Run("unused previous entitlement", func(t *testing.T) {
		emp := permanent("emp-1", date(2021, 1, 1))
		requests := []leave.LeaveRequest{
			approved("r1", "emp-1", date(2022, 7, 4), date(2022, 7, 9)),   // 6 days in 2022
			approved("r2", "emp-1", date(2021, 7, 5), date(2021, 7, 10)),  // older year ignored
			approved("r3", "emp-1", date(2023, 7, 3), date(2023, 7, 8)),   // current year ignored
		}
		assertDays(t, "12", defaultEngine().CarryOver(emp, requests, nil, asOf))
	})

	t.Run("overconsumed clamps to zero", func(t *testing.T) {
		emp := permanent("emp-1", date(2021, 1, 1))
		requests := []leave.LeaveRequest{approved("r1", "emp-1", date(2022, 6, 1), date(2022, 7, 31))}
		assertDays(t, "0", defaultEngine().CarryOver(emp, requests, nil, asOf))
	})

	t.Run("previous year blackout", func(t *testing.T) {
		emp := permanent("emp-1", date(2015, 1, 1))
		engine := leave.NewEngine(leave.DefaultPolicy(2022))
		assertDays(t, "0", engine.CarryOver(emp, nil, nil, asOf))
	})

	t.Run("blackout year receives no carry-over", func(t *testing.T) {
		// 2023 leaves 19.5 unused days, but 2024 is under blackout
		emp := permanent("emp-1", date(2015, 1, 1))
		engine := leave.NewEngine(leave.DefaultPolicy(2024))
		assertDays(t, "0", engine.CarryOver(emp, nil, nil, date(2024, 6, 15)))
		assertDays(t, "0", engine.CarryOver(emp, nil, nil, date(2025, 1, 15)))
		assertDays(t, "21", engine.CarryOver(emp, nil, nil, date(2026, 1, 15)))
	})

	t.Run("tenure measured at end of previous year", func(t *testing.T) {
		// 59 months on 2022-12-31, 64 months on 2023-05-10
		emp := permanent("emp-1", date(2018, 1, 1))
		assertDays(t, "18", defaultEngine().CarryOver(emp, nil, nil, date(2023, 5, 10)))
	})
}

// =============================================================================
// ACQUIRED BALANCE
// =============================================================================

func TestAcquiredBalance_TwoYearVeteran(t *testing.T) {
	// GIVEN: Hired 2021-01-01, ordinary role, no requests, no holidays
	// WHEN: Evaluated on 2023-07-15
	// THEN: 18 × 7/12 = 10.5 plus 18 carried over from 2022

	emp := permanent("emp-1", date(2021, 1, 1))
	acq := defaultEngine().AcquiredBalance(emp, leave.Snapshot{}, date(2023, 7, 15))

	assert.Equal(t, 7, acq.MonthsElapsed)
	assertDays(t, "18", acq.Entitlement)
	assertDays(t, "10.5", acq.Prorated)
	assertDays(t, "18", acq.CarryOver)
	assertDays(t, "28.5", acq.Total)
}

func TestAcquiredBalance_FloorsToOneDecimal(t *testing.T) {
	// GIVEN: 19.5 days/year (64 months tenure), five months elapsed
	// THEN: 19.5 × 5/12 = 8.125 floors to 8.1, plus 18 carried over

	emp := permanent("emp-1", date(2018, 1, 1))
	acq := defaultEngine().AcquiredBalance(emp, leave.Snapshot{}, date(2023, 5, 10))

	assertDays(t, "19.5", acq.Entitlement)
	assertDays(t, "26.1", acq.Total)
}

func TestAcquiredBalance_NewHires(t *testing.T) {
	asOf := date(2023, 7, 15)
	tests := []struct {
		name   string
		hire   generic.TimePoint
		months int
		want   string
	}{
		{"hired in March", date(2023, 3, 15), 5, "7.5"},
		{"hired this month", date(2023, 7, 1), 1, "1.5"},
		{"hired later this year gets one month floor", date(2023, 9, 1), 0, "1.5"},
		{"hired next year", date(2024, 2, 1), 0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acq := defaultEngine().AcquiredBalance(permanent("emp-1", tt.hire), leave.Snapshot{}, asOf)
			assert.Equal(t, tt.months, acq.MonthsElapsed)
			assertDays(t, tt.want, acq.Total)
		})
	}
}

func TestAcquiredBalance_IncludesRecovery(t *testing.T) {
	// GIVEN: A new hire who worked the Sunday holiday of 2023-01-01 and last year's attendance
	h := holidays(date(2023, 1, 1))
	snap := leave.Snapshot{
		Holidays: h,
		Attendance: []leave.AttendanceRecord{
			worked("emp-1", date(2023, 1, 1), leave.AttendancePresent),
			worked("emp-1", date(2022, 12, 25), leave.AttendancePresent), // previous year, ignored
		},
	}
	emp := permanent("emp-1", date(2023, 1, 1))

	// WHEN: Evaluated on 2023-02-10
	acq := defaultEngine().AcquiredBalance(emp, snap, date(2023, 2, 10))

	// THEN: 18 × 2/12 = 3 plus 2 recovery days
	assert.Equal(t, 2, acq.Recovery.Total)
	assertDays(t, "5", acq.Total)
}

func TestAcquiredBalance_BlackoutYearKeepsOnlyRecovery(t *testing.T) {
	// GIVEN: Blackout current year and a worked Sunday
	engine := leave.NewEngine(leave.DefaultPolicy(2023))
	emp := permanent("emp-1", date(2020, 1, 1))
	snap := leave.Snapshot{Attendance: []leave.AttendanceRecord{worked("emp-1", date(2023, 1, 8), leave.AttendancePresent)}}

	// WHEN: Evaluated inside the blackout year
	acq := engine.AcquiredBalance(emp, snap, date(2023, 7, 15))

	// THEN: Neither entitlement nor last year's leftover count, recovery still does
	assertDays(t, "0", acq.Entitlement)
	assertDays(t, "0", acq.Prorated)
	assertDays(t, "0", acq.CarryOver)
	assertDays(t, "1", acq.Total)
}

func TestAcquiredBalance_BlackoutYearDropsCarryOver(t *testing.T) {
	engine := leave.NewEngine(leave.DefaultPolicy(2024))
	emp := permanent("emp-1", date(2015, 1, 1))

	acq := engine.AcquiredBalance(emp, leave.Snapshot{}, date(2024, 6, 15))

	assertDays(t, "0", acq.Entitlement)
	assertDays(t, "0", acq.CarryOver)
	assertDays(t, "0", acq.Total)
}

func TestAcquiredBalance_NeverBelowEarnedCredit(t *testing.T) {
	emp := permanent("emp-1", date(2020, 1, 1))
	snap := leave.Snapshot{Attendance: []leave.AttendanceRecord{worked("emp-1", date(2023, 1, 8), leave.AttendancePresent)}}

	acq := defaultEngine().AcquiredBalance(emp, snap, date(2023, 7, 15))

	assertDays(t, "29.5", acq.Total) // 10.5 prorated + 18 carried + 1 recovery
	assert.True(t, acq.Total.GreaterThanOrEqual(acq.CarryOver.Add(decimal.NewFromInt(int64(acq.Recovery.Total)))))
}

// =============================================================================
// BALANCE & VALIDATION
// =============================================================================

func TestRemainingBalance_NeverNegative(t *testing.T) {
	emp := permanent("emp-1", date(2023, 1, 1))
	snap := leave.Snapshot{Requests: []leave.LeaveRequest{
		approved("r1", "emp-1", date(2023, 3, 1), date(2023, 3, 31)),
	}}
	engine := defaultEngine()
	asOf := date(2023, 4, 10)

	acquired := engine.AcquiredBalance(emp, snap, asOf).Total
	consumed := decimal.NewFromInt(int64(leave.ConsumedDays(snap.Requests, emp.ID, 2023, nil)))
	want := generic.MaxDecimal(decimal.Zero, acquired.Sub(consumed))

	assertDays(t, want.String(), engine.RemainingBalance(emp, snap, asOf))
	assertDays(t, "0", engine.RemainingBalance(emp, snap, asOf))
}

func TestValidateRequest_Shortfall(t *testing.T) {
	// GIVEN: Remaining balance of 3 days (hired 2023-01-01, evaluated in February)
	emp := permanent("emp-1", date(2023, 1, 1))
	engine := defaultEngine()
	asOf := date(2023, 2, 10)
	assertDays(t, "3", engine.RemainingBalance(emp, leave.Snapshot{}, asOf))

	// WHEN: Requesting Wednesday 03-01 to Sunday 03-05 (5 calendar days)
	res := engine.ValidateRequest(emp, leave.Snapshot{}, date(2023, 3, 1), date(2023, 3, 5), asOf)

	// THEN: Invalid, short by 2, even though only 4 days would be consumed
	assert.False(t, res.Valid)
	assert.Equal(t, 5, res.RequestedDays)
	assert.Equal(t, 4, res.EffectiveDays)
	assertDays(t, "2", res.Shortfall)
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, generic.ErrInsufficientBalance)

	var insufficient *generic.InsufficientBalanceError
	require.ErrorAs(t, res.Err, &insufficient)
	assertDays(t, "3", insufficient.Available.Value)
}

func TestValidateRequest_Fits(t *testing.T) {
	emp := permanent("emp-1", date(2021, 1, 1))
	engine := defaultEngine()

	res := engine.ValidateRequest(emp, leave.Snapshot{}, date(2023, 8, 7), date(2023, 8, 11), date(2023, 7, 15))

	assert.True(t, res.Valid)
	assert.NoError(t, res.Err)
	assert.Equal(t, 5, res.RequestedDays)
	assertDays(t, "28.5", res.Remaining)
	assertDays(t, "23.5", res.RemainingAfterRequest)
	assertDays(t, "0", res.Shortfall)
	assert.Equal(t, date(2023, 8, 12), res.ReturnDate)
	assert.NotEmpty(t, res.Message)
}

func TestValidateRequest_Rejections(t *testing.T) {
	engine := defaultEngine()
	asOf := date(2023, 7, 15)

	t.Run("end before start", func(t *testing.T) {
		res := engine.ValidateRequest(permanent("emp-1", date(2021, 1, 1)), leave.Snapshot{}, date(2023, 8, 11), date(2023, 8, 7), asOf)
		assert.False(t, res.Valid)
		assert.ErrorIs(t, res.Err, generic.ErrInvalidPeriod)
	})

	t.Run("missing date", func(t *testing.T) {
		res := engine.ValidateRequest(permanent("emp-1", date(2021, 1, 1)), leave.Snapshot{}, generic.TimePoint{}, date(2023, 8, 7), asOf)
		assert.False(t, res.Valid)
		assert.ErrorIs(t, res.Err, generic.ErrInvalidDate)
	})

	t.Run("temporary contract", func(t *testing.T) {
		emp := permanent("emp-1", date(2021, 1, 1))
		emp.Contract = leave.ContractTemporary
		res := engine.ValidateRequest(emp, leave.Snapshot{}, date(2023, 8, 7), date(2023, 8, 7), asOf)
		assert.False(t, res.Valid)
		assert.ErrorIs(t, res.Err, generic.ErrNotEligible)
	})
}

// =============================================================================
// REPORTS
// =============================================================================

func TestBuildReport_TemporaryContractHasNoReport(t *testing.T) {
	// GIVEN: A temporary employee with a valid hire date and attendance
	emp := permanent("emp-1", date(2020, 1, 1))
	emp.Contract = leave.ContractTemporary
	snap := leave.Snapshot{Attendance: []leave.AttendanceRecord{worked("emp-1", date(2023, 1, 8), leave.AttendancePresent)}}

	// THEN: No report at all
	assert.Nil(t, defaultEngine().BuildReport(emp, snap, date(2023, 7, 15)))
}

func TestBuildReport_Idempotent(t *testing.T) {
	emp := permanent("emp-1", date(2019, 4, 1))
	snap := leave.Snapshot{
		Holidays:   holidays(date(2023, 5, 1), date(2022, 11, 18)),
		Requests:   []leave.LeaveRequest{approved("r1", "emp-1", date(2023, 4, 24), date(2023, 5, 3))},
		Attendance: []leave.AttendanceRecord{worked("emp-1", date(2023, 5, 1), leave.AttendanceLate)},
	}
	engine := defaultEngine()

	first := engine.BuildReport(emp, snap, date(2023, 7, 15))
	second := engine.BuildReport(emp, snap, date(2023, 7, 15))

	require.NotNil(t, first)
	assert.Equal(t, first, second)
}

func TestBuildReport_WarningLevels(t *testing.T) {
	// GIVEN: 10 flat days acquired by December for a January hire
	engine := leave.NewEngine(leave.FlatPolicy("flat", 10))
	emp := permanent("emp-1", date(2023, 1, 1))
	asOf := date(2023, 12, 15)

	tests := []struct {
		name      string
		end       generic.TimePoint
		consumed  string
		usage     string
		level     leave.WarningLevel
		overused  bool
		canTake   bool
		remaining string
	}{
		{"half used", date(2023, 6, 9), "5", "50", leave.WarningLow, false, true, "5"},
		{"exactly eighty", date(2023, 6, 13), "8", "80", leave.WarningMedium, false, true, "2"},
		{"ninety", date(2023, 6, 14), "9", "90", leave.WarningHigh, false, true, "1"},
		{"overused", date(2023, 6, 18), "12", "120", leave.WarningHigh, true, false, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := leave.Snapshot{Requests: []leave.LeaveRequest{approved("r1", "emp-1", date(2023, 6, 5), tt.end)}}

			r := engine.BuildReport(emp, snap, asOf)

			require.NotNil(t, r)
			assertDays(t, "10", r.Acquired)
			assertDays(t, tt.consumed, r.Consumed)
			assertDays(t, tt.usage, r.UsagePercent)
			assertDays(t, tt.remaining, r.Remaining)
			assert.Equal(t, tt.level, r.WarningLevel)
			assert.Equal(t, tt.overused, r.IsOverused)
			assert.Equal(t, tt.canTake, r.CanTakeLeave)
		})
	}
}

func TestBuildReport_ZeroAcquiredHasZeroUsage(t *testing.T) {
	engine := leave.NewEngine(leave.DefaultPolicy(2023))
	emp := permanent("emp-1", date(2023, 1, 1))

	r := engine.BuildReport(emp, leave.Snapshot{}, date(2023, 7, 15))

	require.NotNil(t, r)
	assertDays(t, "0", r.Acquired)
	assertDays(t, "0", r.UsagePercent)
	assert.False(t, r.CanTakeLeave)
	assert.Equal(t, leave.WarningLow, r.WarningLevel)
}

// =============================================================================
// TEAM STATS
// =============================================================================

func TestTeamStats(t *testing.T) {
	// GIVEN: Two permanent employees (90% and 50% usage) and one temporary
	engine := leave.NewEngine(leave.FlatPolicy("flat", 10))
	heavy := permanent("heavy", date(2023, 1, 1))
	light := permanent("light", date(2023, 1, 1))
	temp := permanent("temp", date(2023, 1, 1))
	temp.Contract = leave.ContractTemporary

	snap := leave.Snapshot{Requests: []leave.LeaveRequest{
		approved("r1", "heavy", date(2023, 6, 5), date(2023, 6, 14)),
		approved("r2", "light", date(2023, 6, 5), date(2023, 6, 9)),
	}}

	// WHEN: Aggregating the roster
	stats := engine.TeamStats([]leave.Employee{heavy, light, temp}, snap, date(2023, 12, 15))

	// THEN: The temporary employee is excluded and the heavy user raises an alert
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.Employees)
	assert.Equal(t, 1, stats.Excluded)
	assertDays(t, "20", stats.TotalAcquired)
	assertDays(t, "14", stats.TotalConsumed)
	assertDays(t, "6", stats.TotalRemaining)
	assertDays(t, "10", stats.AverageAcquired)
	assertDays(t, "7", stats.AverageConsumed)
	assertDays(t, "70", stats.AverageUsage)
	assert.Equal(t, 0, stats.OverusedCount)
	assert.Equal(t, 1, stats.HighUsageCount)
	require.Len(t, stats.Alerts, 1)
	assert.Equal(t, generic.EntityID("heavy"), stats.Alerts[0].EmployeeID)
}

func TestTeamStats_NoEligibleEmployees(t *testing.T) {
	temp := permanent("temp", date(2023, 1, 1))
	temp.Contract = leave.ContractInternship

	assert.Nil(t, defaultEngine().TeamStats([]leave.Employee{temp}, leave.Snapshot{}, date(2023, 7, 15)))
	assert.Nil(t, defaultEngine().TeamStats(nil, leave.Snapshot{}, date(2023, 7, 15)))
}
