// Package memory provides an in-memory leave.Repository (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	employees  map[generic.EntityID]leave.Employee
	requests   map[string]leave.LeaveRequest
	attendance map[attendanceKey]leave.AttendanceRecord
	holidays   map[string]generic.Holiday
}

type attendanceKey struct {
	EmployeeID generic.EntityID
	Date       string
}

var _ leave.Repository = (*Memory)(nil)

func New() *Memory {
	m := &Memory{}
	m.init()
	return m
}

func (m *Memory) init() {
	m.employees = make(map[generic.EntityID]leave.Employee)
	m.requests = make(map[string]leave.LeaveRequest)
	m.attendance = make(map[attendanceKey]leave.AttendanceRecord)
	m.holidays = make(map[string]generic.Holiday)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) CreateEmployee(_ context.Context, e leave.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[e.ID]; ok {
		return fmt.Errorf("%w: employee %s", generic.ErrDuplicate, e.ID)
	}
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id generic.EntityID) (leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return leave.Employee{}, fmt.Errorf("%w: %s", generic.ErrEntityNotFound, id)
	}
	return e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]leave.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func (m *Memory) SaveLeaveRequest(_ context.Context, r leave.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[r.EmployeeID]; !ok {
		return fmt.Errorf("%w: %s", generic.ErrEntityNotFound, r.EmployeeID)
	}
	m.requests[r.ID] = r
	return nil
}

func (m *Memory) GetLeaveRequest(_ context.Context, id string) (leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.requests[id]
	if !ok {
		return leave.LeaveRequest{}, fmt.Errorf("%w: %s", generic.ErrRequestNotFound, id)
	}
	return r, nil
}

func (m *Memory) UpdateLeaveRequestStatus(_ context.Context, id string, status leave.RequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("%w: %s", generic.ErrRequestNotFound, id)
	}
	r.Status = status
	m.requests[id] = r
	return nil
}

func (m *Memory) ListLeaveRequests(_ context.Context, employeeID generic.EntityID) ([]leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []leave.LeaveRequest
	for _, r := range m.requests {
		if employeeID == "" || r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (m *Memory) SaveAttendance(_ context.Context, a leave.AttendanceRecord) (leave.AttendanceRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[a.EmployeeID]; !ok {
		return leave.AttendanceRecord{}, false, fmt.Errorf("%w: %s", generic.ErrEntityNotFound, a.EmployeeID)
	}
	key := attendanceKey{EmployeeID: a.EmployeeID, Date: a.Date.String()}
	existing, found := m.attendance[key]
	if found {
		a.ID = existing.ID
	}
	m.attendance[key] = a
	return a, !found, nil
}

func (m *Memory) ListAttendance(_ context.Context, employeeID generic.EntityID, year int) ([]leave.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []leave.AttendanceRecord
	for _, a := range m.attendance {
		if employeeID != "" && a.EmployeeID != employeeID {
			continue
		}
		if year > 0 && a.Date.Year() != year {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

func (m *Memory) SaveHoliday(_ context.Context, h generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.holidays[id]; !ok {
		return fmt.Errorf("%w: %s", generic.ErrHolidayNotFound, id)
	}
	delete(m.holidays, id)
	return nil
}

func (m *Memory) ListAllHolidays(_ context.Context) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]generic.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// GetHolidays implements generic.HolidayCalendar.
func (m *Memory) GetHolidays(ctx context.Context, year int) ([]generic.Holiday, error) {
	all, err := m.ListAllHolidays(ctx)
	if err != nil {
		return nil, err
	}
	return generic.HolidaysForYear(all, year), nil
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	return nil
}

func (m *Memory) Close() error { return nil }
