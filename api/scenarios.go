/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	rosters for demos. Each scenario creates employees, holidays, attendance
	and leave requests that exercise one part of the leave engine.

AVAILABLE SCENARIOS:

	new-hire:        Joined this year, one month floor and monthly proration
	veteran:         Twelve years of tenure, carry-over and recovery credit
	department-head: Fixed entitlement regardless of tenure
	mixed-team:      Team statistics with an overused employee and a temporary contract

HOW SCENARIOS WORK:
 1. Reset store (clear all data, drop the holiday cache)
 2. Seed the configured holiday preset for last year and this year
 3. Create employees
 4. Add attendance and leave requests dated relative to today

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "veteran"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, year)
 3. Add it to the 'loaders' map

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler and helpers
  - calendar/calendar.go: Holiday presets
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/leave-engine/calendar"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "new-hire",
		Name:        "New Hire",
		Description: "Employee hired in March of the current year: monthly proration, no carry-over",
	},
	{
		ID:          "veteran",
		Name:        "Veteran",
		Description: "Twelve years of tenure (21 days/year), last year's leftover carried, Sunday work credited",
	},
	{
		ID:          "department-head",
		Name:        "Department Head",
		Description: "Two years of tenure but the fixed 26-day department head entitlement",
	},
	{
		ID:          "mixed-team",
		Name:        "Mixed Team",
		Description: "Four employees: one overused, one near the limit, one fresh, one temporary contract",
	},
}

type scenarioLoader func(h *Handler, ctx context.Context, year int) error

var loaders = map[string]scenarioLoader{
	"new-hire":        (*Handler).loadNewHireScenario,
	"veteran":         (*Handler).loadVeteranScenario,
	"department-head": (*Handler).loadDepartmentHeadScenario,
	"mixed-team":      (*Handler).loadMixedTeamScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	load, ok := loaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	if err := h.reset(ctx); err != nil {
		h.writeDomainError(w, "Failed to reset store", err)
		return
	}

	if err := load(h, ctx, h.Today().Year()); err != nil {
		h.writeDomainError(w, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	h.logger.Info("scenario loaded", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		h.writeDomainError(w, "Failed to reset store", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) reset(ctx context.Context) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	h.Service.InvalidateHolidays()

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
	return nil
}

// SeedHolidays saves the holidays of preset for year and returns how many were written.
func SeedHolidays(ctx context.Context, store leave.Repository, preset calendar.Preset, year int) (int, error) {
	holidays := preset.Holidays(year)
	for _, hol := range holidays {
		if err := store.SaveHoliday(ctx, hol); err != nil {
			return 0, fmt.Errorf("failed to save holiday %s: %w", hol.Name, err)
		}
	}
	return len(holidays), nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) seedScenarioHolidays(ctx context.Context, year int) error {
	preset, err := calendar.Lookup(h.HolidayPreset)
	if err != nil {
		return err
	}
	for _, y := range []int{year - 1, year} {
		if _, err := SeedHolidays(ctx, h.Store, preset, y); err != nil {
			return err
		}
	}
	h.Service.InvalidateHolidays()
	return nil
}

func (h *Handler) loadNewHireScenario(ctx context.Context, year int) error {
	if err := h.seedScenarioHolidays(ctx, year); err != nil {
		return err
	}
	emp := leave.Employee{
		ID:         "emp-new",
		Name:       "Yasmine Alaoui",
		Email:      "yasmine@example.com",
		Department: "Engineering",
		HireDate:   generic.NewTimePoint(year, time.March, 1),
		Role:       leave.RoleEmployee,
		Contract:   leave.ContractPermanent,
	}
	return h.Store.CreateEmployee(ctx, emp)
}

func (h *Handler) loadVeteranScenario(ctx context.Context, year int) error {
	if err := h.seedScenarioHolidays(ctx, year); err != nil {
		return err
	}
	emp := leave.Employee{
		ID:         "emp-veteran",
		Name:       "Karim Benjelloun",
		Email:      "karim@example.com",
		Department: "Operations",
		HireDate:   generic.NewTimePoint(year-12, time.January, 10),
		Role:       leave.RoleManager,
		Contract:   leave.ContractPermanent,
	}
	if err := h.Store.CreateEmployee(ctx, emp); err != nil {
		return err
	}

	// Last year: two weeks taken, the rest carries over
	requests := []leave.LeaveRequest{
		scenarioRequest("req-vet-1", emp.ID, leave.LeaveTypeAnnual, generic.NewTimePoint(year-1, time.August, 4), 12, leave.StatusApproved),
		scenarioRequest("req-vet-2", emp.ID, leave.LeaveTypeAnnual, generic.NewTimePoint(year, time.January, 15), 5, leave.StatusApproved),
		scenarioRequest("req-vet-3", emp.ID, leave.LeaveTypeSick, generic.NewTimePoint(year, time.February, 2), 2, leave.StatusApproved),
		scenarioRequest("req-vet-4", emp.ID, leave.LeaveTypeAnnual, generic.NewTimePoint(year, time.December, 21), 6, leave.StatusPending),
	}
	if err := h.saveRequests(ctx, requests); err != nil {
		return err
	}

	// Worked the first two Sundays of the year
	var records []leave.AttendanceRecord
	for d := generic.StartOfYear(year); len(records) < 2; d = d.AddDays(1) {
		if d.IsRestDay() {
			records = append(records, leave.AttendanceRecord{
				ID:         fmt.Sprintf("att-vet-%s", d.String()),
				EmployeeID: emp.ID,
				Date:       d,
				Status:     leave.AttendancePresent,
			})
		}
	}
	return h.saveAttendance(ctx, records)
}

func (h *Handler) loadDepartmentHeadScenario(ctx context.Context, year int) error {
	if err := h.seedScenarioHolidays(ctx, year); err != nil {
		return err
	}
	emp := leave.Employee{
		ID:         "emp-head",
		Name:       "Salma Idrissi",
		Email:      "salma@example.com",
		Department: "Finance",
		HireDate:   generic.NewTimePoint(year-2, time.June, 1),
		Role:       leave.RoleDepartmentHead,
		Contract:   leave.ContractPermanent,
	}
	if err := h.Store.CreateEmployee(ctx, emp); err != nil {
		return err
	}
	return h.saveRequests(ctx, []leave.LeaveRequest{
		scenarioRequest("req-head-1", emp.ID, leave.LeaveTypeAnnual, generic.NewTimePoint(year, time.April, 7), 6, leave.StatusApproved),
	})
}

func (h *Handler) loadMixedTeamScenario(ctx context.Context, year int) error {
	if err := h.seedScenarioHolidays(ctx, year); err != nil {
		return err
	}
	team := []leave.Employee{
		{ID: "emp-a", Name: "Amine Tazi", Department: "Sales", HireDate: generic.NewTimePoint(year-3, time.January, 1), Role: leave.RoleEmployee, Contract: leave.ContractPermanent},
		{ID: "emp-b", Name: "Bouchra Fassi", Department: "Sales", HireDate: generic.NewTimePoint(year-6, time.September, 1), Role: leave.RoleEmployee, Contract: leave.ContractPermanent},
		{ID: "emp-c", Name: "Chakib Naciri", Department: "Sales", HireDate: generic.NewTimePoint(year-1, time.November, 1), Role: leave.RoleEmployee, Contract: leave.ContractPermanent},
		{ID: "emp-d", Name: "Dounia Berrada", Department: "Sales", HireDate: generic.NewTimePoint(year-1, time.May, 1), Role: leave.RoleEmployee, Contract: leave.ContractTemporary},
	}
	for _, e := range team {
		if err := h.Store.CreateEmployee(ctx, e); err != nil {
			return err
		}
	}

	return h.saveRequests(ctx, []leave.LeaveRequest{
		// Amine took most of last year's days and a long break early this year
		scenarioRequest("req-a-1", "emp-a", leave.LeaveTypeAnnual, generic.NewTimePoint(year-1, time.July, 1), 18, leave.StatusApproved),
		scenarioRequest("req-a-2", "emp-a", leave.LeaveTypeAnnual, generic.NewTimePoint(year, time.January, 5), 21, leave.StatusApproved),
		// Bouchra is around two thirds of her balance
		scenarioRequest("req-b-1", "emp-b", leave.LeaveTypeAnnual, generic.NewTimePoint(year-1, time.August, 1), 19, leave.StatusApproved),
		scenarioRequest("req-b-2", "emp-b", leave.LeaveTypeAnnual, generic.NewTimePoint(year, time.February, 10), 7, leave.StatusApproved),
		// Chakib has only a pending request
		scenarioRequest("req-c-1", "emp-c", leave.LeaveTypeAnnual, generic.NewTimePoint(year, time.June, 2), 3, leave.StatusPending),
		// Dounia's request is on record but her contract earns nothing
		scenarioRequest("req-d-1", "emp-d", leave.LeaveTypeAnnual, generic.NewTimePoint(year, time.March, 3), 2, leave.StatusApproved),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func scenarioRequest(id string, emp generic.EntityID, typ leave.LeaveType, start generic.TimePoint, days int, status leave.RequestStatus) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:         id,
		EmployeeID: emp,
		Type:       typ,
		Start:      start,
		End:        start.AddDays(days - 1),
		Status:     status,
		Reason:     "demo",
	}
}

func (h *Handler) saveRequests(ctx context.Context, requests []leave.LeaveRequest) error {
	for _, r := range requests {
		if err := h.Store.SaveLeaveRequest(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) saveAttendance(ctx context.Context, records []leave.AttendanceRecord) error {
	for _, a := range records {
		if _, _, err := h.Store.SaveAttendance(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
