/*
store.go - Persistence interface for slip inputs

PURPOSE:
  Defines the boundary between the slip service and storage. Storage only
  holds INPUTS (employees, raw attendance, leave events, salary configs);
  every derived value (ledger, summary, payroll, document) is recomputed
  per request and never persisted.

KEY INTERFACES:
  Source: Read-only view the service generates slips from
  Store:  Source plus the writes the HTTP API needs

REPLACEMENT SEMANTICS:
  Attendance is keyed by (employee, date) and leave events by
  (employee, month). Writing the same key again replaces the previous
  value, so re-importing a month's data is safe.

IMPLEMENTATIONS:
  - store/memory: In-memory, for tests and the demo server
  - store/sqlite: SQLite via mattn/go-sqlite3

SEE ALSO:
  - service.go: Service.GenerateForEmployee reads through Source
*/
package payslip

import (
	"context"

	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/payroll"
	"github.com/warp/payslip-engine/report"
)

// Source is the read side used to generate slips.
type Source interface {
	// GetEmployee returns core.ErrEmployeeNotFound when id is unknown.
	GetEmployee(ctx context.Context, id core.EmployeeID) (report.Employee, error)

	// GetSalaryConfig returns core.ErrSalaryConfigNotFound when none is set.
	GetSalaryConfig(ctx context.Context, id core.EmployeeID) (payroll.SalaryConfig, error)

	// LoadAttendance returns the month's raw records ordered by date.
	LoadAttendance(ctx context.Context, id core.EmployeeID, month core.YearMonth) ([]attendance.RawRecord, error)

	// LoadLeaveHistory returns leave events for every month up to and
	// including through, in chronological order.
	LoadLeaveHistory(ctx context.Context, id core.EmployeeID, through core.YearMonth) ([]ledger.MonthEvents, error)
}

// Store adds the writes behind the HTTP API.
type Store interface {
	Source

	// SaveEmployee creates or replaces an employee. An empty ID is
	// assigned a new UUID; the stored employee is returned.
	SaveEmployee(ctx context.Context, emp report.Employee) (report.Employee, error)
	ListEmployees(ctx context.Context) ([]report.Employee, error)
	DeleteEmployee(ctx context.Context, id core.EmployeeID) error

	SaveSalaryConfig(ctx context.Context, id core.EmployeeID, cfg payroll.SalaryConfig) error

	// SaveAttendance upserts records by date.
	SaveAttendance(ctx context.Context, id core.EmployeeID, records []attendance.RawRecord) error

	// SaveLeaveMonth replaces the credit and debit dates for one month.
	SaveLeaveMonth(ctx context.Context, id core.EmployeeID, events ledger.MonthEvents) error

	// Reset removes every employee and everything recorded against them.
	Reset(ctx context.Context) error

	Close() error
}
