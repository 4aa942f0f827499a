/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the leave engine's model (decimal amounts, TimePoint dates) from the
  external API contract (JSON numbers, YYYY-MM-DD strings).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Employee:
    EmployeeDTO, CreateEmployeeRequest

  Leave:
    LeaveReportDTO, RecoveryDTO, ValidationDTO, EffectiveDaysDTO,
    LeaveRequestDTO, CreateLeaveRequestRequest, ValidateLeaveRequest

  Attendance:
    AttendanceDTO, RecordAttendanceRequest

  Holidays:
    HolidayDTO, CreateHolidayRequest, DefaultHolidaysRequest

  Team:
    TeamStatsDTO, AlertDTO

VALIDATION:
  Request types carry go-playground/validator tags. Handlers call
  decodeAndValidate, which rejects malformed JSON and failed tags with 400.

SEE ALSO:
  - handlers.go: Uses these types
  - leave/report.go: Report model
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	HireDate   string `json:"hire_date"`
	Role       string `json:"role"`
	Contract   string `json:"contract"`
}

// CreateEmployeeRequest is the request to create an employee.
// ID is generated when empty.
type CreateEmployeeRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Department string `json:"department"`
	HireDate   string `json:"hire_date" validate:"required,datetime=2006-01-02"`
	Role       string `json:"role" validate:"omitempty,oneof=employee manager department_head hr admin"`
	Contract   string `json:"contract" validate:"omitempty,oneof=permanent temporary internship"`
}

// =============================================================================
// LEAVE REPORT
// =============================================================================

// LeaveReportDTO is the leave position of one employee.
type LeaveReportDTO struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	AsOf       string `json:"as_of"`
	Year       int    `json:"year"`

	SeniorityYears  int `json:"seniority_years"`
	SeniorityMonths int `json:"seniority_months"`

	Entitlement  float64     `json:"entitlement"`
	Prorated     float64     `json:"prorated"`
	CarryOver    float64     `json:"carry_over"`
	Recovery     RecoveryDTO `json:"recovery"`
	Acquired     float64     `json:"acquired"`
	Consumed     float64     `json:"consumed"`
	Remaining    float64     `json:"remaining"`
	UsagePercent float64     `json:"usage_percent"`
	IsOverused   bool        `json:"is_overused"`
	CanTakeLeave bool        `json:"can_take_leave"`
	WarningLevel string      `json:"warning_level"`
}

// RecoveryDTO lists the worked rest days and holidays behind the credit.
type RecoveryDTO struct {
	Total        int      `json:"total"`
	SundayDates  []string `json:"sunday_dates"`
	HolidayDates []string `json:"holiday_dates"`
}

// LeaveBalanceResponse wraps a report. Report is null and Eligible false
// for contracts that do not accrue leave.
type LeaveBalanceResponse struct {
	Eligible bool            `json:"eligible"`
	Report   *LeaveReportDTO `json:"report"`
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// LeaveRequestDTO represents a leave request in API responses.
type LeaveRequestDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

// CreateLeaveRequestRequest submits a pending request.
type CreateLeaveRequestRequest struct {
	Type      string `json:"type" validate:"omitempty,oneof=annual sick unpaid other"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"max=500"`
}

// ValidateLeaveRequest checks a prospective range. AsOf defaults to today.
type ValidateLeaveRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	AsOf      string `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
}

// ValidationDTO is the outcome of validating a prospective request.
type ValidationDTO struct {
	Valid                 bool     `json:"valid"`
	Message               string   `json:"message"`
	RequestedDays         int      `json:"requested_days"`
	EffectiveDays         int      `json:"effective_days"`
	ReturnDate            string   `json:"return_date,omitempty"`
	Remaining             float64  `json:"remaining"`
	RemainingAfterRequest *float64 `json:"remaining_after_request,omitempty"`
	Shortfall             *float64 `json:"shortfall,omitempty"`
}

// EffectiveDaysDTO prices a range without an employee.
type EffectiveDaysDTO struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	RequestedDays int    `json:"requested_days"`
	EffectiveDays int    `json:"effective_days"`
	ReturnDate    string `json:"return_date"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceDTO represents one attendance record.
type AttendanceDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

// RecordAttendanceRequest upserts the status of a day.
type RecordAttendanceRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Status string `json:"status" validate:"required,oneof=present late absent"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest adds a holiday. Active defaults to true.
type CreateHolidayRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Name      string `json:"name" validate:"required"`
	Active    *bool  `json:"active"`
	Recurring bool   `json:"recurring"`
}

// DefaultHolidaysRequest seeds a preset for a year (default: current year).
type DefaultHolidaysRequest struct {
	Year   int    `json:"year" validate:"omitempty,min=1900,max=2200"`
	Preset string `json:"preset"`
}

// =============================================================================
// TEAM
// =============================================================================

// TeamStatsDTO aggregates the reports of every eligible employee.
type TeamStatsDTO struct {
	AsOf      string `json:"as_of"`
	Employees int    `json:"employees"`
	Excluded  int    `json:"excluded"`

	TotalAcquired    float64 `json:"total_acquired"`
	TotalConsumed    float64 `json:"total_consumed"`
	TotalRemaining   float64 `json:"total_remaining"`
	AverageAcquired  float64 `json:"average_acquired"`
	AverageConsumed  float64 `json:"average_consumed"`
	AverageRemaining float64 `json:"average_remaining"`
	AverageUsage     float64 `json:"average_usage"`

	OverusedCount  int `json:"overused_count"`
	HighUsageCount int `json:"high_usage_count"`

	Alerts  []AlertDTO       `json:"alerts"`
	Reports []LeaveReportDTO `json:"reports"`
}

// AlertDTO flags an employee needing attention.
type AlertDTO struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Level      string `json:"level"`
	Overused   bool   `json:"overused"`
	Message    string `json:"message"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is returned on errors.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(e leave.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:         string(e.ID),
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		HireDate:   e.HireDate.String(),
		Role:       string(e.Role),
		Contract:   string(e.Contract),
	}
}

func toReportDTO(r leave.Report) LeaveReportDTO {
	return LeaveReportDTO{
		EmployeeID:      string(r.Employee.ID),
		Name:            r.Employee.Name,
		AsOf:            r.AsOf.String(),
		Year:            r.Year,
		SeniorityYears:  r.Seniority.Years,
		SeniorityMonths: r.Seniority.Months,
		Entitlement:     num(r.Entitlement),
		Prorated:        num(r.Prorated),
		CarryOver:       num(r.CarryOver),
		Recovery: RecoveryDTO{
			Total:        r.Recovery.Total,
			SundayDates:  dateStrings(r.Recovery.SundayDates),
			HolidayDates: dateStrings(r.Recovery.HolidayDates),
		},
		Acquired:     num(r.Acquired),
		Consumed:     num(r.Consumed),
		Remaining:    num(r.Remaining),
		UsagePercent: num(r.UsagePercent),
		IsOverused:   r.IsOverused,
		CanTakeLeave: r.CanTakeLeave,
		WarningLevel: string(r.WarningLevel),
	}
}

func toValidationDTO(v leave.ValidationResult) ValidationDTO {
	dto := ValidationDTO{
		Valid:         v.Valid,
		Message:       v.Message,
		RequestedDays: v.RequestedDays,
		EffectiveDays: v.EffectiveDays,
		ReturnDate:    v.ReturnDate.String(),
		Remaining:     num(v.Remaining),
	}
	if v.Valid {
		after := num(v.RemainingAfterRequest)
		dto.RemainingAfterRequest = &after
	} else if v.Shortfall.IsPositive() {
		short := num(v.Shortfall)
		dto.Shortfall = &short
	}
	return dto
}

func toLeaveRequestDTO(r leave.LeaveRequest) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:         r.ID,
		EmployeeID: string(r.EmployeeID),
		Type:       string(r.Type),
		StartDate:  r.Start.String(),
		EndDate:    r.End.String(),
		Status:     string(r.Status),
		Reason:     r.Reason,
	}
}

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        h.ID,
		Date:      h.Date.String(),
		Name:      h.Name,
		Active:    h.Active,
		Recurring: h.Recurring,
	}
}

func toTeamStatsDTO(s leave.TeamStats) TeamStatsDTO {
	dto := TeamStatsDTO{
		AsOf:             s.AsOf.String(),
		Employees:        s.Employees,
		Excluded:         s.Excluded,
		TotalAcquired:    num(s.TotalAcquired),
		TotalConsumed:    num(s.TotalConsumed),
		TotalRemaining:   num(s.TotalRemaining),
		AverageAcquired:  num(s.AverageAcquired),
		AverageConsumed:  num(s.AverageConsumed),
		AverageRemaining: num(s.AverageRemaining),
		AverageUsage:     num(s.AverageUsage),
		OverusedCount:    s.OverusedCount,
		HighUsageCount:   s.HighUsageCount,
		Alerts:           make([]AlertDTO, 0, len(s.Alerts)),
		Reports:          make([]LeaveReportDTO, 0, len(s.Reports)),
	}
	for _, a := range s.Alerts {
		dto.Alerts = append(dto.Alerts, AlertDTO{
			EmployeeID: string(a.EmployeeID),
			Name:       a.Name,
			Level:      string(a.Level),
			Overused:   a.Overused,
			Message:    a.Message,
		})
	}
	for _, r := range s.Reports {
		dto.Reports = append(dto.Reports, toReportDTO(r))
	}
	return dto
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func dateStrings(days []generic.TimePoint) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	return out
}
