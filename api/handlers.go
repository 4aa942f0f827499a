/*
handlers.go - HTTP API handlers for the leave engine

PURPOSE:
  Exposes the leave balance and accrual engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to leave.Service for
  every computed figure. Handlers never do leave arithmetic themselves.

ENDPOINTS:
  Employees:
    GET    /api/employees                             List all employees
    POST   /api/employees                             Create employee
    GET    /api/employees/{id}                        Get employee details
    GET    /api/employees/{id}/leave-balance          Leave report (?as_of=)

  Leave requests:
    POST   /api/employees/{id}/leave-requests          Submit (pending)
    GET    /api/employees/{id}/leave-requests          List
    POST   /api/employees/{id}/leave-requests/validate Check against balance
    POST   /api/leave-requests/{id}/approve            Approve (re-validated)
    POST   /api/leave-requests/{id}/reject             Reject

  Attendance:
    POST   /api/employees/{id}/attendance             Upsert status of a day

  Holidays:
    GET    /api/holidays                              List (?year= projects)
    POST   /api/holidays                              Create
    POST   /api/holidays/defaults                     Seed a national preset
    DELETE /api/holidays/{id}                         Delete

  Reports:
    GET    /api/leave/effective-days                  Price a range (?start=&end=)
    GET    /api/team/leave-stats                      Team aggregate (?as_of=)

  Policy:
    GET    /api/policy                                Active entitlement policy

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Repository for writes and raw listings
  - Service: Snapshot loading, holiday cache, engine calls
  - validate: DTO validation (go-playground/validator)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, insufficient balance
  - 404: Employee, request or holiday not found
  - 409: Duplicate record, request already decided
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/warp/leave-engine/calendar"
	"github.com/warp/leave-engine/factory"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   leave.Repository
	Service *leave.Service

	// HolidayPreset is used by POST /api/holidays/defaults when the body names none.
	HolidayPreset string

	// Today supplies the default as-of date.
	Today func() generic.TimePoint

	validate *validator.Validate
	logger   *slog.Logger

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler over store and svc.
func NewHandler(store leave.Repository, svc *leave.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	// report field errors under their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		Store:         store,
		Service:       svc,
		HolidayPreset: calendar.DefaultPreset,
		Today:         generic.Today,
		validate:      v,
		logger:        logger,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := generic.EntityID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	hireDate, err := generic.ParseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}

	emp := leave.Employee{
		ID:         generic.EntityID(req.ID),
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		HireDate:   hireDate,
		Role:       leave.ParseRole(req.Role),
		Contract:   leave.ContractPermanent,
	}
	if emp.ID == "" {
		emp.ID = generic.EntityID(uuid.NewString())
	}
	if req.Contract != "" {
		emp.Contract = leave.ParseContract(req.Contract)
	}

	if err := h.Store.CreateEmployee(r.Context(), emp); err != nil {
		h.writeDomainError(w, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// LEAVE BALANCE
// =============================================================================

// GetLeaveBalance returns the leave report of an employee.
// GET /api/employees/{id}/leave-balance?as_of=YYYY-MM-DD
func (h *Handler) GetLeaveBalance(w http.ResponseWriter, r *http.Request) {
	id := generic.EntityID(chi.URLParam(r, "id"))

	asOf, err := h.asOfParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
		return
	}

	report, err := h.Service.Report(r.Context(), id, asOf)
	if err != nil {
		h.writeDomainError(w, "Failed to compute leave balance", err)
		return
	}

	if report == nil {
		writeJSON(w, http.StatusOK, LeaveBalanceResponse{Eligible: false})
		return
	}
	dto := toReportDTO(*report)
	writeJSON(w, http.StatusOK, LeaveBalanceResponse{Eligible: true, Report: &dto})
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// CreateLeaveRequest submits a pending leave request.
// POST /api/employees/{id}/leave-requests
func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id := generic.EntityID(chi.URLParam(r, "id"))

	var req CreateLeaveRequestRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	period, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	leaveType := leave.LeaveTypeAnnual
	if req.Type != "" {
		leaveType = leave.ParseLeaveType(req.Type)
	}

	lr := leave.LeaveRequest{
		ID:         uuid.NewString(),
		EmployeeID: id,
		Type:       leaveType,
		Start:      period.Start,
		End:        period.End,
		Status:     leave.StatusPending,
		Reason:     req.Reason,
	}

	if err := h.Store.SaveLeaveRequest(r.Context(), lr); err != nil {
		h.writeDomainError(w, "Failed to submit leave request", err)
		return
	}

	h.logger.Info("leave request submitted",
		"request_id", lr.ID,
		"employee_id", id,
		"type", lr.Type,
		"start", lr.Start.String(),
		"end", lr.End.String(),
	)
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(lr))
}

// ListLeaveRequests returns the requests of an employee.
// GET /api/employees/{id}/leave-requests
func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := generic.EntityID(chi.URLParam(r, "id"))

	if _, err := h.Store.GetEmployee(ctx, id); err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}

	requests, err := h.Store.ListLeaveRequests(ctx, id)
	if err != nil {
		h.writeDomainError(w, "Failed to list leave requests", err)
		return
	}

	dtos := make([]LeaveRequestDTO, 0, len(requests))
	for _, lr := range requests {
		dtos = append(dtos, toLeaveRequestDTO(lr))
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": dtos})
}

// ValidateLeave checks a prospective range against the remaining balance.
// An invalid outcome is still a 200: the body says why.
// POST /api/employees/{id}/leave-requests/validate
func (h *Handler) ValidateLeave(w http.ResponseWriter, r *http.Request) {
	id := generic.EntityID(chi.URLParam(r, "id"))

	var req ValidateLeaveRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	start, err := generic.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	end, err := generic.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return
	}
	asOf := h.Today()
	if req.AsOf != "" {
		if asOf, err = generic.ParseDate(req.AsOf); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of", err)
			return
		}
	}

	result, err := h.Service.Validate(r.Context(), id, start, end, asOf)
	if err != nil {
		h.writeDomainError(w, "Failed to validate leave request", err)
		return
	}

	writeJSON(w, http.StatusOK, toValidationDTO(result))
}

// ApproveRequest approves a pending request after re-validating annual
// leave against the balance on the request's start date.
// POST /api/leave-requests/{id}/approve
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	lr, err := h.Store.GetLeaveRequest(ctx, id)
	if err != nil {
		h.writeDomainError(w, "Failed to get leave request", err)
		return
	}
	if !lr.Status.CanTransitionTo(leave.StatusApproved) {
		h.writeDomainError(w, "Request cannot be approved",
			fmt.Errorf("%w: %s to %s", generic.ErrInvalidTransition, lr.Status, leave.StatusApproved))
		return
	}

	if lr.Type == leave.LeaveTypeAnnual {
		result, err := h.Service.Validate(ctx, lr.EmployeeID, lr.Start, lr.End, lr.Start)
		if err != nil {
			h.writeDomainError(w, "Failed to validate leave request", err)
			return
		}
		if !result.Valid {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "Leave request does not fit the balance",
				Details: result.Message,
			})
			return
		}
	}

	if err := h.Store.UpdateLeaveRequestStatus(ctx, id, leave.StatusApproved); err != nil {
		h.writeDomainError(w, "Failed to approve leave request", err)
		return
	}

	lr.Status = leave.StatusApproved
	h.logger.Info("leave request approved", "request_id", id, "employee_id", lr.EmployeeID)
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(lr))
}

// RejectRequest rejects a pending request.
// POST /api/leave-requests/{id}/reject
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	lr, err := h.Store.GetLeaveRequest(ctx, id)
	if err != nil {
		h.writeDomainError(w, "Failed to get leave request", err)
		return
	}
	if !lr.Status.CanTransitionTo(leave.StatusRejected) {
		h.writeDomainError(w, "Request cannot be rejected",
			fmt.Errorf("%w: %s to %s", generic.ErrInvalidTransition, lr.Status, leave.StatusRejected))
		return
	}

	if err := h.Store.UpdateLeaveRequestStatus(ctx, id, leave.StatusRejected); err != nil {
		h.writeDomainError(w, "Failed to reject leave request", err)
		return
	}

	lr.Status = leave.StatusRejected
	h.logger.Info("leave request rejected", "request_id", id, "employee_id", lr.EmployeeID)
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(lr))
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// RecordAttendance upserts the attendance status of a day: 201 for a new
// record, 200 when an existing one is updated.
// POST /api/employees/{id}/attendance
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	id := generic.EntityID(chi.URLParam(r, "id"))

	var req RecordAttendanceRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	day, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	rec := leave.AttendanceRecord{
		ID:         uuid.NewString(),
		EmployeeID: id,
		Date:       day,
		Status:     leave.ParseAttendanceStatus(req.Status),
	}
	stored, created, err := h.Store.SaveAttendance(r.Context(), rec)
	if err != nil {
		h.writeDomainError(w, "Failed to record attendance", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, AttendanceDTO{
		ID:         stored.ID,
		EmployeeID: string(stored.EmployeeID),
		Date:       stored.Date.String(),
		Status:     string(stored.Status),
	})
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns all stored holidays, or the holidays of one year
// (recurring ones projected onto it) when ?year= is given.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		holidays []generic.Holiday
		err      error
	)
	if y := r.URL.Query().Get("year"); y != "" {
		year, convErr := strconv.Atoi(y)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", convErr)
			return
		}
		holidays, err = h.Store.GetHolidays(ctx, year)
	} else {
		holidays, err = h.Store.ListAllHolidays(ctx)
	}
	if err != nil {
		h.writeDomainError(w, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}

	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday creates a new holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday := generic.Holiday{
		ID:        uuid.NewString(),
		Date:      date,
		Name:      req.Name,
		Active:    req.Active == nil || *req.Active,
		Recurring: req.Recurring,
	}

	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		h.writeDomainError(w, "Failed to create holiday", err)
		return
	}
	h.Service.InvalidateHolidays()

	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

// DeleteHoliday deletes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to delete holiday", err)
		return
	}
	h.Service.InvalidateHolidays()

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// AddDefaultHolidays seeds the public holidays of a national preset.
// POST /api/holidays/defaults
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	var req DefaultHolidaysRequest
	if r.ContentLength != 0 && !h.decodeAndValidate(w, r, &req) {
		return
	}

	code := req.Preset
	if code == "" {
		code = h.HolidayPreset
	}
	preset, err := calendar.Lookup(code)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown holiday preset", err)
		return
	}

	year := req.Year
	if year == 0 {
		year = h.Today().Year()
	}

	count, err := SeedHolidays(r.Context(), h.Store, preset, year)
	if err != nil {
		h.writeDomainError(w, "Failed to seed holidays", err)
		return
	}
	h.Service.InvalidateHolidays()

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "created",
		"preset": preset.Code,
		"year":   year,
		"count":  count,
	})
}

// =============================================================================
// REPORTS
// =============================================================================

// EffectiveDays prices a range against the calendar.
// GET /api/leave/effective-days?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) EffectiveDays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period, err := parseRange(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	days, returnDate, err := h.Service.EffectiveDays(r.Context(), period.Start, period.End)
	if err != nil {
		h.writeDomainError(w, "Failed to compute effective days", err)
		return
	}

	writeJSON(w, http.StatusOK, EffectiveDaysDTO{
		StartDate:     period.Start.String(),
		EndDate:       period.End.String(),
		RequestedDays: period.SpanDays(),
		EffectiveDays: days,
		ReturnDate:    returnDate.String(),
	})
}

// TeamLeaveStats aggregates the reports of every employee.
// GET /api/team/leave-stats?as_of=YYYY-MM-DD
func (h *Handler) TeamLeaveStats(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOfParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
		return
	}

	stats, err := h.Service.TeamStats(r.Context(), asOf)
	if err != nil {
		h.writeDomainError(w, "Failed to compute team statistics", err)
		return
	}
	if stats == nil {
		stats = &leave.TeamStats{AsOf: asOf}
	}

	writeJSON(w, http.StatusOK, toTeamStatsDTO(*stats))
}

// GetPolicy returns the policy the engine evaluates with, in the same JSON
// form LEAVE_POLICY_FILE accepts.
// GET /api/policy
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policy := h.Service.Engine().Policy()
	writeJSON(w, http.StatusOK, factory.NewPolicyFactory().ToJSON(policy))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine and store errors to a status code.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.logger.Error(message, "error", err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// decodeAndValidate decodes the body into dst and runs its validate tags.
// It writes a 400 and returns false on failure.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		resp := ErrorResponse{Error: "Validation failed", Details: err.Error()}
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			resp.Fields = make(map[string]string, len(ve))
			for _, fe := range ve {
				resp.Fields[fe.Field()] = fe.Tag()
			}
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return false
	}
	return true
}

// asOfParam reads ?as_of=, defaulting to today.
func (h *Handler) asOfParam(r *http.Request) (generic.TimePoint, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return h.Today(), nil
	}
	return generic.ParseDate(raw)
}

// parseRange parses an inclusive date range and rejects end before start.
func parseRange(start, end string) (generic.Period, error) {
	s, err := generic.ParseDate(start)
	if err != nil {
		return generic.Period{}, fmt.Errorf("start: %w", err)
	}
	e, err := generic.ParseDate(end)
	if err != nil {
		return generic.Period{}, fmt.Errorf("end: %w", err)
	}
	p := generic.Period{Start: s, End: e}
	if !p.IsValid() {
		return generic.Period{}, generic.ErrInvalidPeriod
	}
	return p, nil
}
