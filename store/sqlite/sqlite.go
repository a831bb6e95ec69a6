/*
Package sqlite provides a SQLite-backed implementation of payslip.Store.

PURPOSE:
  Persists the INPUTS slips are generated from: employees, salary
  configurations, raw attendance records and monthly leave events.
  Derived values (ledger, payroll, documents) are never stored; they are
  recomputed per request.

KEY TABLES:
  employees:          Employee profile shown in the slip header
  salary_configs:     One salary configuration per employee
  attendance_records: One row per (employee, date), raw as received
  leave_credits:      One credit per (employee, month)
  leave_debits:       One row per leave day, grouped under its month

UPSERT SEMANTICS:
  attendance_records is unique on (employee_id, date) and saving the same
  date again replaces the row. SaveLeaveMonth replaces the month's credit
  and all its debits in one transaction.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block each other.

USAGE:
  store, err := sqlite.New("./data/payslip.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := payslip.NewService(company, payslip.WithSource(store))

SEE ALSO:
  - payslip/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/payroll"
	"github.com/warp/payslip-engine/report"
)

// Store implements payslip.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database lives as long as its connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
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
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		designation TEXT,
		department TEXT,
		joining TEXT,
		mobile TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS salary_configs (
		employee_id TEXT PRIMARY KEY REFERENCES employees(id) ON DELETE CASCADE,
		monthly_gross TEXT NOT NULL,
		hours_per_day TEXT NOT NULL,
		working_days TEXT NOT NULL,
		working_hours TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		punch_in TEXT,
		punch_out TEXT,
		hours_worked TEXT,
		late_in TEXT,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, date)
	);

	-- Month lookups are prefix scans on the ISO date
	CREATE INDEX IF NOT EXISTS idx_attendance_employee_date
		ON attendance_records(employee_id, date);

	CREATE TABLE IF NOT EXISTS leave_credits (
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		month TEXT NOT NULL,
		amount TEXT NOT NULL,
		PRIMARY KEY (employee_id, month)
	);

	CREATE TABLE IF NOT EXISTS leave_debits (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		month TEXT NOT NULL,
		date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_debits_employee_month
		ON leave_debits(employee_id, month, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee inserts or updates an employee. An empty ID gets a UUID.
func (s *Store) SaveEmployee(ctx context.Context, emp report.Employee) (report.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.ID == "" {
		emp.ID = core.EmployeeID(uuid.New().String())
	}

	var joining sql.NullString
	if emp.Joining != nil {
		joining = nullString(emp.Joining.String())
	}

	query := `
		INSERT INTO employees (id, name, designation, department, joining, mobile, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			designation = excluded.designation,
			department = excluded.department,
			joining = excluded.joining,
			mobile = excluded.mobile
	`
	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name,
		nullString(emp.Designation), nullString(emp.Department),
		joining, nullString(emp.Mobile),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return report.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}
	return emp, nil
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id core.EmployeeID) (report.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, designation, department, joining, mobile FROM employees WHERE id = ?",
		id,
	)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return report.Employee{}, core.ErrEmployeeNotFound
	}
	return emp, err
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]report.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, designation, department, joining, mobile FROM employees ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []report.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee; their records cascade.
func (s *Store) DeleteEmployee(ctx context.Context, id core.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrEmployeeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (report.Employee, error) {
	var emp report.Employee
	var designation, department, joining, mob sql.NullString
	if err := row.Scan(&emp.ID, &emp.Name, &designation, &department, &joining, &mob); err != nil {
		return report.Employee{}, err
	}
	emp.Designation = designation.String
	emp.Department = department.String
	emp.Mobile = mob.String
	if joining.Valid {
		d, err := core.ParseDate(joining.String)
		if err == nil {
			emp.Joining = &d
		}
	}
	return emp, nil
}

// =============================================================================
// SALARY CONFIG STORE
// =============================================================================

func (s *Store) SaveSalaryConfig(ctx context.Context, id core.EmployeeID, cfg payroll.SalaryConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO salary_configs (employee_id, monthly_gross, hours_per_day, working_days, working_hours, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			monthly_gross = excluded.monthly_gross,
			hours_per_day = excluded.hours_per_day,
			working_days = excluded.working_days,
			working_hours = excluded.working_hours,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		id,
		cfg.MonthlyGrossSalary.String(),
		cfg.WorkingHoursPerDayRequired.String(),
		cfg.CompanyWorkingDays.String(),
		cfg.CompanyWorkingHours.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if isForeignKeyError(err) {
		return core.ErrEmployeeNotFound
	}
	return err
}

func (s *Store) GetSalaryConfig(ctx context.Context, id core.EmployeeID) (payroll.SalaryConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var gross, perDay, days, hours string
	err := s.db.QueryRowContext(ctx,
		"SELECT monthly_gross, hours_per_day, working_days, working_hours FROM salary_configs WHERE employee_id = ?",
		id,
	).Scan(&gross, &perDay, &days, &hours)
	if err == sql.ErrNoRows {
		return payroll.SalaryConfig{}, core.ErrSalaryConfigNotFound
	}
	if err != nil {
		return payroll.SalaryConfig{}, err
	}

	return payroll.SalaryConfig{
		MonthlyGrossSalary:         core.MustParseDecimal(gross),
		WorkingHoursPerDayRequired: core.MustParseDecimal(perDay),
		CompanyWorkingDays:         core.MustParseDecimal(days),
		CompanyWorkingHours:        core.MustParseDecimal(hours),
	}, nil
}

// =============================================================================
// ATTENDANCE STORE
// =============================================================================

// SaveAttendance upserts records by (employee, date) in one transaction.
func (s *Store) SaveAttendance(ctx context.Context, id core.EmployeeID, records []attendance.RawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer sqlTx.Rollback()

	query := `
		INSERT INTO attendance_records
		(id, employee_id, date, status, punch_in, punch_out, hours_worked, late_in, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			status = excluded.status,
			punch_in = excluded.punch_in,
			punch_out = excluded.punch_out,
			hours_worked = excluded.hours_worked,
			late_in = excluded.late_in
	`
	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range records {
		dateStr := r.Date
		if dateStr == "" {
			dateStr = r.AttendanceDate
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return err
		}
		var lateIn sql.NullString
		if r.LateIn != nil {
			lateIn = sql.NullString{String: *r.LateIn, Valid: true}
		}
		_, err = sqlTx.ExecContext(ctx, query,
			uuid.New().String(), id, d.String(), r.Status,
			nullString(r.PunchInTime), nullString(r.PunchOutTime),
			nullString(string(r.HoursWorked)), lateIn, now,
		)
		if isForeignKeyError(err) {
			return core.ErrEmployeeNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to save attendance for %s: %w", d, err)
		}
	}
	return sqlTx.Commit()
}

// LoadAttendance returns the month's raw records ordered by date.
func (s *Store) LoadAttendance(ctx context.Context, id core.EmployeeID, month core.YearMonth) ([]attendance.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, status, punch_in, punch_out, hours_worked, late_in
		FROM attendance_records
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		id, month.FirstDay().String(), month.LastDay().String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []attendance.RawRecord
	for rows.Next() {
		var (
			r                            attendance.RawRecord
			punchIn, punchOut, hrs, late sql.NullString
		)
		if err := rows.Scan(&r.Date, &r.Status, &punchIn, &punchOut, &hrs, &late); err != nil {
			return nil, err
		}
		r.PunchInTime = punchIn.String
		r.PunchOutTime = punchOut.String
		r.HoursWorked = attendance.RawHours(hrs.String)
		if late.Valid {
			v := late.String
			r.LateIn = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// LEAVE STORE
// =============================================================================

// SaveLeaveMonth replaces the month's credit and debits atomically.
func (s *Store) SaveLeaveMonth(ctx context.Context, id core.EmployeeID, ev ledger.MonthEvents) error {
	if err := ev.Month.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer sqlTx.Rollback()

	month := ev.Month.String()
	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO leave_credits (employee_id, month, amount) VALUES (?, ?, ?)
		ON CONFLICT(employee_id, month) DO UPDATE SET amount = excluded.amount`,
		id, month, ev.Credit.String(),
	)
	if isForeignKeyError(err) {
		return core.ErrEmployeeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to save leave credit: %w", err)
	}

	if _, err := sqlTx.ExecContext(ctx,
		"DELETE FROM leave_debits WHERE employee_id = ? AND month = ?", id, month,
	); err != nil {
		return err
	}
	for _, d := range ev.DebitDates {
		if _, err := sqlTx.ExecContext(ctx,
			"INSERT INTO leave_debits (id, employee_id, month, date) VALUES (?, ?, ?, ?)",
			uuid.New().String(), id, month, d.String(),
		); err != nil {
			return fmt.Errorf("failed to save leave debit %s: %w", d, err)
		}
	}
	return sqlTx.Commit()
}

// LoadLeaveHistory returns every month up to and including through.
// Months with debits but no credit row are returned with a zero credit.
func (s *Store) LoadLeaveHistory(ctx context.Context, id core.EmployeeID, through core.YearMonth) ([]ledger.MonthEvents, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := through.String()

	rows, err := s.db.QueryContext(ctx, `
		SELECT month, amount FROM leave_credits
		WHERE employee_id = ? AND month <= ?
		ORDER BY month`,
		id, limit,
	)
	if err != nil {
		return nil, err
	}
	var months []ledger.MonthEvents
	index := make(map[string]int)
	for rows.Next() {
		var m, amount string
		if err := rows.Scan(&m, &amount); err != nil {
			rows.Close()
			return nil, err
		}
		ym, err := core.ParseYearMonth(m)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[m] = len(months)
		months = append(months, ledger.MonthEvents{Month: ym, Credit: core.MustParseDecimal(amount)})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	debits, err := s.db.QueryContext(ctx, `
		SELECT month, date FROM leave_debits
		WHERE employee_id = ? AND month <= ?
		ORDER BY month, date`,
		id, limit,
	)
	if err != nil {
		return nil, err
	}
	defer debits.Close()

	orphan := false
	for debits.Next() {
		var m, dateStr string
		if err := debits.Scan(&m, &dateStr); err != nil {
			return nil, err
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		i, ok := index[m]
		if !ok {
			ym, err := core.ParseYearMonth(m)
			if err != nil {
				return nil, err
			}
			i = len(months)
			index[m] = i
			months = append(months, ledger.MonthEvents{Month: ym, Credit: decimal.Zero})
			orphan = true
		}
		months[i].DebitDates = append(months[i].DebitDates, d)
	}
	if err := debits.Err(); err != nil {
		return nil, err
	}

	if orphan {
		sortMonths(months)
	}
	return months, nil
}

func sortMonths(months []ledger.MonthEvents) {
	for i := 1; i < len(months); i++ {
		for j := i; j > 0 && months[j].Month.Before(months[j-1].Month); j-- {
			months[j], months[j-1] = months[j-1], months[j]
		}
	}
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"leave_debits", "leave_credits", "attendance_records", "salary_configs", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
