/*
Package sqlite provides a SQLite-backed implementation of leave.Repository.

PURPOSE:
  Persists the four collections the leave engine reads (employees,
  attendance, holidays, leave requests) using SQLite. In production, the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  leave.Store:             Read side used by leave.Service
  leave.Repository:        Writes used by the HTTP API and scenarios
  generic.HolidayCalendar: Holidays of a year, recurring ones projected

KEY TABLES:
  employees:      Hire date, role and contract of each employee
  attendance:     One status per employee and day (upserted)
  holidays:       Calendar exceptions, active flag, recurring flag
  leave_requests: Requested ranges with type and status

DATES:
  Dates are stored as TEXT in YYYY-MM-DD form. A stored date that can no
  longer be parsed is read back as the zero date (logged at warn level)
  so the engine treats it as "no contribution" instead of failing the
  whole computation.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := leave.NewService(engine, store, store, logger)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - leave/repository.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

// Store implements leave.Repository using SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *slog.Logger
}

var _ leave.Repository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report degraded rows.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		department TEXT,
		hire_date TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'employee',
		contract TEXT NOT NULL DEFAULT 'permanent',
		created_at TEXT NOT NULL
	);

	-- Attendance (one status per employee and day)
	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_employee_date
		ON attendance(employee_id, date);

	-- Holidays
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);

	-- Leave requests
	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_employee
		ON leave_requests(employee_id, start_date);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_status
		ON leave_requests(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// CreateEmployee inserts a new employee.
func (s *Store) CreateEmployee(ctx context.Context, e leave.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, email, department, hire_date, role, contract, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		string(e.ID), e.Name, nullString(e.Email), nullString(e.Department),
		e.HireDate.String(), string(e.Role), string(e.Contract), now(),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: employee %s", generic.ErrDuplicate, e.ID)
	}
	return err
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id generic.EntityID) (leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, email, department, hire_date, role, contract
		FROM employees WHERE id = ?
	`
	e, err := s.scanEmployee(s.db.QueryRowContext(ctx, query, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return leave.Employee{}, fmt.Errorf("%w: %s", generic.ErrEntityNotFound, id)
	}
	return e, err
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, email, department, hire_date, role, contract
		FROM employees ORDER BY name, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []leave.Employee
	for rows.Next() {
		e, err := s.scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanEmployee(row scanner) (leave.Employee, error) {
	var (
		e                 leave.Employee
		id, hire          string
		role, contract    string
		email, department sql.NullString
	)
	if err := row.Scan(&id, &e.Name, &email, &department, &hire, &role, &contract); err != nil {
		return leave.Employee{}, err
	}
	e.ID = generic.EntityID(id)
	e.Email = email.String
	e.Department = department.String
	e.HireDate = s.parseDate(hire, "employees.hire_date", id)
	e.Role = leave.ParseRole(role)
	e.Contract = leave.ParseContract(contract)
	return e, nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// SaveLeaveRequest inserts or replaces a leave request.
func (s *Store) SaveLeaveRequest(ctx context.Context, r leave.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, status, reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			leave_type = excluded.leave_type,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			reason = excluded.reason,
			updated_at = excluded.updated_at
	`
	ts := now()
	_, err := s.db.ExecContext(ctx, query,
		r.ID, string(r.EmployeeID), string(r.Type), r.Start.String(), r.End.String(),
		string(r.Status), nullString(r.Reason), ts, ts,
	)
	if isForeignKeyError(err) {
		return fmt.Errorf("%w: %s", generic.ErrEntityNotFound, r.EmployeeID)
	}
	return err
}

// GetLeaveRequest retrieves a leave request by ID.
func (s *Store) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, leave_type, start_date, end_date, status, reason
		FROM leave_requests WHERE id = ?
	`
	r, err := s.scanRequest(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return leave.LeaveRequest{}, fmt.Errorf("%w: %s", generic.ErrRequestNotFound, id)
	}
	return r, err
}

// UpdateLeaveRequestStatus changes the status of a leave request.
func (s *Store) UpdateLeaveRequestStatus(ctx context.Context, id string, status leave.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE leave_requests SET status = ?, updated_at = ? WHERE id = ?",
		string(status), now(), id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrRequestNotFound, id)
	}
	return nil
}

// ListLeaveRequests returns the requests of one employee, or all when employeeID is empty.
func (s *Store) ListLeaveRequests(ctx context.Context, employeeID generic.EntityID) ([]leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, leave_type, start_date, end_date, status, reason
		FROM leave_requests
		WHERE ? = '' OR employee_id = ?
		ORDER BY start_date, id
	`
	rows, err := s.db.QueryContext(ctx, query, string(employeeID), string(employeeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		r, err := s.scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *Store) scanRequest(row scanner) (leave.LeaveRequest, error) {
	var (
		r                     leave.LeaveRequest
		employeeID, leaveType string
		start, end, status    string
		reason                sql.NullString
	)
	if err := row.Scan(&r.ID, &employeeID, &leaveType, &start, &end, &status, &reason); err != nil {
		return leave.LeaveRequest{}, err
	}
	r.EmployeeID = generic.EntityID(employeeID)
	r.Type = leave.ParseLeaveType(leaveType)
	r.Start = s.parseDate(start, "leave_requests.start_date", r.ID)
	r.End = s.parseDate(end, "leave_requests.end_date", r.ID)
	r.Status = leave.ParseRequestStatus(status)
	r.Reason = reason.String
	return r, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// SaveAttendance upserts the status of an employee for a day. An existing
// row keeps its id; created reports whether a new row was inserted.
func (s *Store) SaveAttendance(ctx context.Context, a leave.AttendanceRecord) (leave.AttendanceRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance (id, employee_id, date, status, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			status = excluded.status
		RETURNING id
	`
	var id string
	err := s.db.QueryRowContext(ctx, query,
		a.ID, string(a.EmployeeID), a.Date.String(), string(a.Status), now(),
	).Scan(&id)
	if isForeignKeyError(err) {
		return leave.AttendanceRecord{}, false, fmt.Errorf("%w: %s", generic.ErrEntityNotFound, a.EmployeeID)
	}
	if err != nil {
		return leave.AttendanceRecord{}, false, err
	}

	created := id == a.ID
	a.ID = id
	return a, created, nil
}

// ListAttendance returns attendance in year for one employee, or everyone when employeeID is empty.
// A non-positive year returns every year.
func (s *Store) ListAttendance(ctx context.Context, employeeID generic.EntityID, year int) ([]leave.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, date, status
		FROM attendance
		WHERE (? = '' OR employee_id = ?)
		  AND (? <= 0 OR strftime('%Y', date) = printf('%04d', ?))
		ORDER BY date, employee_id
	`
	rows, err := s.db.QueryContext(ctx, query, string(employeeID), string(employeeID), year, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []leave.AttendanceRecord
	for rows.Next() {
		var (
			a                     leave.AttendanceRecord
			employee, day, status string
		)
		if err := rows.Scan(&a.ID, &employee, &day, &status); err != nil {
			return nil, err
		}
		a.EmployeeID = generic.EntityID(employee)
		a.Date = s.parseDate(day, "attendance.date", a.ID)
		a.Status = leave.ParseAttendanceStatus(status)
		records = append(records, a)
	}
	return records, rows.Err()
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// SaveHoliday saves a holiday to the database.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, date, name, active, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			active = excluded.active,
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.Date.String(),
		h.Name,
		h.Active,
		h.Recurring,
		now(),
	)
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", generic.ErrHolidayNotFound, id)
	}
	return nil
}

// GetHolidays returns the holidays of year, recurring ones moved onto it.
// Inactive holidays are included; the engine's HolidaySet skips them.
func (s *Store) GetHolidays(ctx context.Context, year int) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, name, active, recurring
		FROM holidays
		WHERE recurring = TRUE OR strftime('%Y', date) = printf('%04d', ?)
		ORDER BY strftime('%m-%d', date) ASC
	`
	all, err := s.queryHolidays(ctx, query, year)
	if err != nil {
		return nil, err
	}
	return generic.HolidaysForYear(all, year), nil
}

// ListAllHolidays returns all holidays as stored (for admin UI).
func (s *Store) ListAllHolidays(ctx context.Context) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryHolidays(ctx, `
		SELECT id, date, name, active, recurring
		FROM holidays
		ORDER BY date ASC
	`)
}

func (s *Store) queryHolidays(ctx context.Context, query string, args ...any) ([]generic.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.Active, &h.Recurring); err != nil {
			return nil, err
		}
		h.Date = s.parseDate(dateStr, "holidays.date", h.ID)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset deletes every record (for demo scenarios).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"attendance", "leave_requests", "holidays", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// parseDate degrades unparseable stored dates to the zero date.
func (s *Store) parseDate(value, column, rowID string) generic.TimePoint {
	tp, err := generic.ParseDate(value)
	if err != nil {
		s.logger.Warn("unparseable stored date", "column", column, "id", rowID, "value", value)
		return generic.TimePoint{}
	}
	return tp
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY"))
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
