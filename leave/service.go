/*
service.go - Store-backed orchestration of the engine

PURPOSE:
  The engine is pure and takes materialized collections. Service is the
  collaborator that fetches those collections (employee, leave requests,
  attendance, holidays) through context-aware interfaces and hands them
  to the engine.

HOLIDAY CACHE:
  Building a HolidaySet means a calendar round-trip per year. Service
  memoizes the set per year behind a mutex; InvalidateHolidays must be
  called after the calendar changes. The cache only saves work: a miss
  always rebuilds the same set.

SNAPSHOT SCOPE:
  For an evaluation at asOf the snapshot carries:
  - every leave request of the employee (consumption and carry-over
    filter by year themselves)
  - attendance of asOf's year
  - holidays of asOf's year and the year before

SEE ALSO:
  - engine.go: The computations
  - store/sqlite/sqlite.go, store/memory/memory.go: Store implementations
*/
package leave

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/warp/leave-engine/generic"
)

// maxRangeYears bounds the calendar years a single request may touch,
// counting both the start and the end year.
const maxRangeYears = 2

func spannedYears(start, end generic.TimePoint) int {
	return end.Year() - start.Year() + 1
}

// Store is the read side the service needs.
type Store interface {
	GetEmployee(ctx context.Context, id generic.EntityID) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	// ListLeaveRequests returns the requests of employeeID, or all when empty.
	ListLeaveRequests(ctx context.Context, employeeID generic.EntityID) ([]LeaveRequest, error)

	// ListAttendance returns attendance of employeeID in year, or of everyone when empty.
	ListAttendance(ctx context.Context, employeeID generic.EntityID, year int) ([]AttendanceRecord, error)
}

type Service struct {
	engine   *Engine
	store    Store
	calendar generic.HolidayCalendar
	logger   *slog.Logger

	mu       sync.Mutex
	holidays map[int]generic.HolidaySet
}

func NewService(engine *Engine, store Store, calendar generic.HolidayCalendar, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:   engine,
		store:    store,
		calendar: calendar,
		logger:   logger,
		holidays: make(map[int]generic.HolidaySet),
	}
}

func (s *Service) Engine() *Engine { return s.engine }

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidaySet returns the active holidays of the given years, merged.
func (s *Service) HolidaySet(ctx context.Context, years ...int) (generic.HolidaySet, error) {
	merged := generic.HolidaySet{}
	for _, year := range years {
		set, err := s.yearHolidays(ctx, year)
		if err != nil {
			return nil, err
		}
		merged = merged.Merge(set)
	}
	return merged, nil
}

func (s *Service) yearHolidays(ctx context.Context, year int) (generic.HolidaySet, error) {
	s.mu.Lock()
	set, ok := s.holidays[year]
	s.mu.Unlock()
	if ok {
		return set, nil
	}

	var list []generic.Holiday
	if s.calendar != nil {
		var err error
		list, err = s.calendar.GetHolidays(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to load holidays for %d: %w", year, err)
		}
	}
	set = generic.NewHolidaySet(list)

	s.mu.Lock()
	s.holidays[year] = set
	s.mu.Unlock()
	return set, nil
}

// InvalidateHolidays drops every memoized holiday set.
func (s *Service) InvalidateHolidays() {
	s.mu.Lock()
	s.holidays = make(map[int]generic.HolidaySet)
	s.mu.Unlock()
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Snapshot loads the inputs needed to evaluate employeeID at asOf.
// An empty employeeID loads the whole organisation.
func (s *Service) Snapshot(ctx context.Context, employeeID generic.EntityID, asOf generic.TimePoint) (Snapshot, error) {
	requests, err := s.store.ListLeaveRequests(ctx, employeeID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load leave requests: %w", err)
	}
	attendance, err := s.store.ListAttendance(ctx, employeeID, asOf.Year())
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	holidays, err := s.HolidaySet(ctx, asOf.Year()-1, asOf.Year())
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Requests: requests, Attendance: attendance, Holidays: holidays}, nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Report builds the leave report of one employee. A nil report with a nil
// error means the employee's contract does not accrue leave.
func (s *Service) Report(ctx context.Context, id generic.EntityID, asOf generic.TimePoint) (*Report, error) {
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, id, asOf)
	if err != nil {
		return nil, err
	}
	report := s.engine.BuildReport(emp, snap, asOf)
	if report == nil {
		s.logger.Debug("no leave report for employee", "employee_id", id, "contract", emp.Contract)
	}
	return report, nil
}

// Validate checks a prospective request for one employee.
func (s *Service) Validate(ctx context.Context, id generic.EntityID, start, end, asOf generic.TimePoint) (ValidationResult, error) {
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return ValidationResult{}, err
	}
	snap, err := s.Snapshot(ctx, id, asOf)
	if err != nil {
		return ValidationResult{}, err
	}
	if !start.IsZero() && !end.IsZero() && !end.Before(start) {
		if spannedYears(start, end) > maxRangeYears {
			return ValidationResult{}, fmt.Errorf("%w: range spans more than %d calendar years", generic.ErrInvalidPeriod, maxRangeYears)
		}
		// effective days and the return date may fall outside the evaluated years
		extra, err := s.HolidaySet(ctx, yearRange(start.Year(), end.Year()+1)...)
		if err != nil {
			return ValidationResult{}, err
		}
		snap.Holidays = snap.Holidays.Merge(extra)
	}

	res := s.engine.ValidateRequest(emp, snap, start, end, asOf)
	s.logger.Info("leave request validated",
		"employee_id", id,
		"start", start.String(),
		"end", end.String(),
		"requested_days", res.RequestedDays,
		"valid", res.Valid,
	)
	return res, nil
}

// TeamStats aggregates reports over every employee.
func (s *Service) TeamStats(ctx context.Context, asOf generic.TimePoint) (*TeamStats, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	snap, err := s.Snapshot(ctx, "", asOf)
	if err != nil {
		return nil, err
	}
	return s.engine.TeamStats(employees, snap, asOf), nil
}

// EffectiveDays prices [start, end] against the calendar and returns the
// first working day after it.
func (s *Service) EffectiveDays(ctx context.Context, start, end generic.TimePoint) (int, generic.TimePoint, error) {
	if start.IsZero() || end.IsZero() {
		return 0, generic.TimePoint{}, fmt.Errorf("%w: start and end dates are required", generic.ErrInvalidDate)
	}
	if end.Before(start) {
		return 0, generic.TimePoint{}, generic.ErrInvalidPeriod
	}

	if spannedYears(start, end) > maxRangeYears {
		return 0, generic.TimePoint{}, fmt.Errorf("%w: range spans more than %d calendar years", generic.ErrInvalidPeriod, maxRangeYears)
	}

	holidays, err := s.HolidaySet(ctx, yearRange(start.Year(), end.Year()+1)...)
	if err != nil {
		return 0, generic.TimePoint{}, err
	}
	return EffectiveLeaveDays(start, end, holidays, 0), ReturnDate(end, holidays), nil
}

func yearRange(from, to int) []int {
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}
