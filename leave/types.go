// Package leave implements the annual leave balance and accrual engine.
// It composes the generic building blocks with employee, attendance and
// leave-request records to produce one authoritative "days available" figure.
package leave

import (
	"strings"

	"github.com/warp/leave-engine/generic"
)

// =============================================================================
// ROLES
// =============================================================================

// Role is the closed set of job roles known to the engine.
type Role string

const (
	RoleEmployee       Role = "employee"
	RoleManager        Role = "manager"
	RoleDepartmentHead Role = "department_head"
	RoleHR             Role = "hr"
	RoleAdmin          Role = "admin"
)

var roles = []Role{RoleEmployee, RoleManager, RoleDepartmentHead, RoleHR, RoleAdmin}

// ParseRole maps free text to a Role. Unknown values fall back to RoleEmployee.
func ParseRole(s string) Role {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, r := range roles {
		if norm == string(r) {
			return r
		}
	}
	switch norm {
	case "head_of_department", "dept_head", "chef_de_departement", "chef_departement":
		return RoleDepartmentHead
	case "rh", "human_resources":
		return RoleHR
	}
	return RoleEmployee
}

func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

// =============================================================================
// CONTRACTS
// =============================================================================

// ContractKind decides accrual eligibility. Only permanent contracts accrue.
type ContractKind string

const (
	ContractPermanent  ContractKind = "permanent"
	ContractTemporary  ContractKind = "temporary"
	ContractInternship ContractKind = "internship"
)

// ParseContract maps free text to a ContractKind. Unknown values are temporary,
// so an unrecognised contract never accrues by accident.
func ParseContract(s string) ContractKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "permanent", "cdi":
		return ContractPermanent
	case "internship", "intern", "stage":
		return ContractInternship
	default:
		return ContractTemporary
	}
}

func (c ContractKind) AccruesLeave() bool { return c == ContractPermanent }

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID         generic.EntityID
	Name       string
	Email      string
	Department string
	HireDate   generic.TimePoint // zero when missing or unparseable
	Role       Role
	Contract   ContractKind
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
)

func ParseAttendanceStatus(s string) AttendanceStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "présent", "present_on_time":
		return AttendancePresent
	case "late", "retard", "en_retard":
		return AttendanceLate
	default:
		return AttendanceAbsent
	}
}

// Worked is true for the statuses that earn recovery credit.
func (s AttendanceStatus) Worked() bool {
	return s == AttendancePresent || s == AttendanceLate
}

type AttendanceRecord struct {
	ID         string
	EmployeeID generic.EntityID
	Date       generic.TimePoint
	Status     AttendanceStatus
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// LeaveType classifies requests. Only annual leave draws on the balance.
type LeaveType string

const (
	LeaveTypeAnnual LeaveType = "annual"
	LeaveTypeSick   LeaveType = "sick"
	LeaveTypeUnpaid LeaveType = "unpaid"
	LeaveTypeOther  LeaveType = "other"
)

func ParseLeaveType(s string) LeaveType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "annual", "congé", "conge", "congé annuel", "conge annuel", "leave", "vacation":
		return LeaveTypeAnnual
	case "sick", "maladie", "sick_leave":
		return LeaveTypeSick
	case "unpaid", "sans_solde", "sans solde":
		return LeaveTypeUnpaid
	default:
		return LeaveTypeOther
	}
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// ParseRequestStatus treats "validé"/"validated" as approved.
// Anything unrecognised stays pending and therefore consumes nothing.
func ParseRequestStatus(s string) RequestStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved", "validated", "validé", "valide", "validée":
		return StatusApproved
	case "rejected", "refused", "refusé", "rejeté":
		return StatusRejected
	default:
		return StatusPending
	}
}

type LeaveRequest struct {
	ID         string
	EmployeeID generic.EntityID
	Type       LeaveType
	Start      generic.TimePoint
	End        generic.TimePoint // inclusive
	Status     RequestStatus
	Reason     string
}

// Period returns the inclusive day range of the request.
func (r LeaveRequest) Period() generic.Period {
	return generic.Period{Start: r.Start, End: r.End}
}

// Consumes reports whether the request draws on the annual balance.
func (r LeaveRequest) Consumes() bool {
	return r.Type == LeaveTypeAnnual && r.Status == StatusApproved
}

// =============================================================================
// SNAPSHOT - The materialized inputs of one computation
// =============================================================================

// Snapshot holds the collections an evaluation reads. Holidays must cover
// the evaluated year and the year before it for carry-over to be exact.
type Snapshot struct {
	Requests   []LeaveRequest
	Attendance []AttendanceRecord
	Holidays   generic.HolidaySet
}
