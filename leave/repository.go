package leave

import (
	"context"

	"github.com/warp/leave-engine/generic"
)

// Repository is the full persistence surface: the read side the Service
// needs, the holiday calendar, and the writes that feed them.
type Repository interface {
	Store
	generic.HolidayCalendar

	CreateEmployee(ctx context.Context, e Employee) error

	SaveLeaveRequest(ctx context.Context, r LeaveRequest) error
	GetLeaveRequest(ctx context.Context, id string) (LeaveRequest, error)
	UpdateLeaveRequestStatus(ctx context.Context, id string, status RequestStatus) error

	// SaveAttendance replaces the status of any record of the same employee
	// and day, keeping that record's ID. It returns the stored record and
	// whether it was newly created.
	SaveAttendance(ctx context.Context, a AttendanceRecord) (AttendanceRecord, bool, error)

	SaveHoliday(ctx context.Context, h generic.Holiday) error
	DeleteHoliday(ctx context.Context, id string) error
	ListAllHolidays(ctx context.Context) ([]generic.Holiday, error)

	// Reset deletes every record.
	Reset(ctx context.Context) error
	Close() error
}

// CanTransitionTo allows pending → approved and pending → rejected only.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return s == StatusPending && (next == StatusApproved || next == StatusRejected)
}
