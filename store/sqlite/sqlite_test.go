package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(year int, month time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(year, month, d)
}

func seedEmployee(t *testing.T, s *Store, id string) leave.Employee {
	t.Helper()
	e := leave.Employee{
		ID:         generic.EntityID(id),
		Name:       "Employee " + id,
		Email:      id + "@example.com",
		Department: "Engineering",
		HireDate:   day(2020, 3, 15),
		Role:       leave.RoleManager,
		Contract:   leave.ContractPermanent,
	}
	require.NoError(t, s.CreateEmployee(context.Background(), e))
	return e
}

func TestStore_Employees(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// GIVEN: Two employees
	want := seedEmployee(t, s, "e1")
	seedEmployee(t, s, "e2")

	// WHEN: Reading one back
	got, err := s.GetEmployee(ctx, "e1")

	// THEN: Every field survives the round trip
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Email, got.Email)
	assert.True(t, want.HireDate.Equal(got.HireDate))
	assert.Equal(t, leave.RoleManager, got.Role)
	assert.Equal(t, leave.ContractPermanent, got.Contract)

	all, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Duplicates and unknown IDs map to sentinels
	err = s.CreateEmployee(ctx, want)
	assert.ErrorIs(t, err, generic.ErrDuplicate)

	_, err = s.GetEmployee(ctx, "ghost")
	assert.ErrorIs(t, err, generic.ErrEntityNotFound)
}

func TestStore_LeaveRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedEmployee(t, s, "e1")

	// GIVEN: A pending request
	req := leave.LeaveRequest{
		ID:         "r1",
		EmployeeID: "e1",
		Type:       leave.LeaveTypeAnnual,
		Start:      day(2023, 8, 7),
		End:        day(2023, 8, 11),
		Status:     leave.StatusPending,
		Reason:     "summer",
	}
	require.NoError(t, s.SaveLeaveRequest(ctx, req))

	// WHEN: Approving it
	require.NoError(t, s.UpdateLeaveRequestStatus(ctx, "r1", leave.StatusApproved))

	// THEN: The stored request carries the new status
	got, err := s.GetLeaveRequest(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, got.Status)
	assert.Equal(t, "summer", got.Reason)
	assert.True(t, req.Start.Equal(got.Start))
	assert.True(t, req.End.Equal(got.End))

	mine, err := s.ListLeaveRequests(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	everyone, err := s.ListLeaveRequests(ctx, "")
	require.NoError(t, err)
	assert.Len(t, everyone, 1)

	none, err := s.ListLeaveRequests(ctx, "e2")
	require.NoError(t, err)
	assert.Empty(t, none)

	err = s.UpdateLeaveRequestStatus(ctx, "missing", leave.StatusApproved)
	assert.ErrorIs(t, err, generic.ErrRequestNotFound)

	_, err = s.GetLeaveRequest(ctx, "missing")
	assert.ErrorIs(t, err, generic.ErrRequestNotFound)
}

func TestStore_RequestForUnknownEmployee(t *testing.T) {
	s := newTestStore(t)

	err := s.SaveLeaveRequest(context.Background(), leave.LeaveRequest{
		ID: "r1", EmployeeID: "ghost", Type: leave.LeaveTypeAnnual,
		Start: day(2023, 8, 7), End: day(2023, 8, 8), Status: leave.StatusPending,
	})

	assert.ErrorIs(t, err, generic.ErrEntityNotFound)
}

func TestStore_AttendanceUpsertAndYearFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedEmployee(t, s, "e1")

	// GIVEN: Two records on the same day and one the year before
	first, created, err := s.SaveAttendance(ctx, leave.AttendanceRecord{ID: "a1", EmployeeID: "e1", Date: day(2023, 7, 2), Status: leave.AttendanceAbsent})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "a1", first.ID)

	second, created, err := s.SaveAttendance(ctx, leave.AttendanceRecord{ID: "a2", EmployeeID: "e1", Date: day(2023, 7, 2), Status: leave.AttendancePresent})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "a1", second.ID, "an update keeps the stored id")
	assert.Equal(t, leave.AttendancePresent, second.Status)

	_, _, err = s.SaveAttendance(ctx, leave.AttendanceRecord{ID: "a3", EmployeeID: "e1", Date: day(2022, 12, 25), Status: leave.AttendanceLate})
	require.NoError(t, err)

	// WHEN: Listing 2023
	records, err := s.ListAttendance(ctx, "e1", 2023)

	// THEN: The later write wins and 2022 is filtered out
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, leave.AttendancePresent, records[0].Status)
	assert.Equal(t, "a1", records[0].ID)

	all, err := s.ListAttendance(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_HolidaysRecurringProjection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// GIVEN: A recurring holiday stored in 2000 and a one-off in 2023
	require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{ID: "h1", Date: day(2000, 5, 1), Name: "Labour Day", Active: true, Recurring: true}))
	require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{ID: "h2", Date: day(2023, 7, 10), Name: "Bridge", Active: true}))

	// WHEN: Asking for 2023 and 2024
	h2023, err := s.GetHolidays(ctx, 2023)
	require.NoError(t, err)
	h2024, err := s.GetHolidays(ctx, 2024)
	require.NoError(t, err)

	// THEN: The recurring holiday lands on each year, the one-off only on 2023
	require.Len(t, h2023, 2)
	assert.True(t, h2023[0].Date.Equal(day(2023, 5, 1)))
	require.Len(t, h2024, 1)
	assert.True(t, h2024[0].Date.Equal(day(2024, 5, 1)))

	// Saving the same ID updates it
	require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{ID: "h2", Date: day(2023, 7, 10), Name: "Bridge", Active: false}))
	all, err := s.ListAllHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[1].Active)

	require.NoError(t, s.DeleteHoliday(ctx, "h2"))
	assert.ErrorIs(t, s.DeleteHoliday(ctx, "h2"), generic.ErrHolidayNotFound)
}

func TestStore_UnparseableDateDegradesToZero(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedEmployee(t, s, "e1")

	// GIVEN: A row written by another tool with a broken date
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, status, created_at, updated_at)
		 VALUES ('r1', 'e1', 'annual', 'not-a-date', '2023-08-11', 'approved', '', '')`)
	require.NoError(t, err)

	// WHEN: Reading it
	got, err := s.GetLeaveRequest(ctx, "r1")

	// THEN: The start is zero and the rest is intact
	require.NoError(t, err)
	assert.True(t, got.Start.IsZero())
	assert.True(t, got.End.Equal(day(2023, 8, 11)))
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedEmployee(t, s, "e1")
	require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{ID: "h1", Date: day(2023, 1, 1), Name: "New Year", Active: true}))

	require.NoError(t, s.Reset(ctx))

	employees, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
	holidays, err := s.ListAllHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, holidays)
}
