// Package payslip wires the computation packages into a stateless slip
// service.
package payslip

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/calendar"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/payroll"
	"github.com/warp/payslip-engine/report"
)

// DefaultBatchLimit caps concurrent generations in GenerateBatch.
const DefaultBatchLimit = 8

// =============================================================================
// REQUEST / SLIP
// =============================================================================

// Request carries every input for one employee and month.
type Request struct {
	Company    report.Company
	Employee   report.Employee
	Month      core.YearMonth
	Attendance []attendance.RawRecord
	Leaves     []ledger.MonthEvents
	Salary     payroll.SalaryConfig
	Payment    report.Payment
}

// Slip is the full result: every intermediate value plus the document.
type Slip struct {
	Employee  core.EmployeeID
	Month     core.YearMonth
	Records   []attendance.Record
	Summary   attendance.Summary
	Ledger    ledger.Ledger
	Statement ledger.Statement
	Payroll   payroll.Result
	Grid      calendar.Grid
	Document  report.Document
	Warnings  []core.Warning
}

// =============================================================================
// SERVICE
// =============================================================================

// Service holds only read-only collaborators; each call is independent.
type Service struct {
	company    report.Company
	source     Source
	batchLimit int
}

type Option func(*Service)

// WithSource enables GenerateForEmployee.
func WithSource(src Source) Option {
	return func(s *Service) { s.source = src }
}

func WithBatchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchLimit = n
		}
	}
}

// NewService returns a service that stamps slips with company unless a
// request names its own.
func NewService(company report.Company, opts ...Option) *Service {
	s := &Service{company: company, batchLimit: DefaultBatchLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs classify, summarize, ledger, payroll, grid and assemble
// for one request. The salary config is validated before anything else.
func (s *Service) Generate(ctx context.Context, req Request) (Slip, error) {
	if err := ctx.Err(); err != nil {
		return Slip{}, err
	}
	if err := req.Month.Validate(); err != nil {
		return Slip{}, err
	}
	if err := req.Salary.Validate(); err != nil {
		return Slip{}, err
	}

	records, err := attendance.ClassifyAll(req.Attendance)
	if err != nil {
		return Slip{}, fmt.Errorf("attendance: %w", err)
	}
	summary, err := attendance.Summarize(req.Month, records, req.Salary.RequiredHours())
	if err != nil {
		return Slip{}, fmt.Errorf("summary: %w", err)
	}
	full, err := ledger.Build(req.Leaves)
	if err != nil {
		return Slip{}, fmt.Errorf("ledger: %w", err)
	}
	pay, err := payroll.ComputeDeduction(summary, req.Salary)
	if err != nil {
		return Slip{}, fmt.Errorf("payroll: %w", err)
	}

	grid := calendar.GridFor(req.Month)
	statement := full.Slice(req.Month)

	company := req.Company
	if company.Name == "" {
		company = s.company
	}

	doc := report.Assemble(report.Input{
		Company:  company,
		Employee: req.Employee,
		Period:   req.Month,
		Summary:  summary,
		Payroll:  pay,
		Ledger:   statement,
		Calendar: attendance.Overlay(grid, records),
		Payment:  req.Payment,
	})

	var warnings []core.Warning
	warnings = append(warnings, summary.Warnings...)
	warnings = append(warnings, full.Warnings...)
	warnings = append(warnings, pay.Warnings...)

	return Slip{
		Employee:  req.Employee.ID,
		Month:     req.Month,
		Records:   records,
		Summary:   summary,
		Ledger:    full,
		Statement: statement,
		Payroll:   pay,
		Grid:      grid,
		Document:  doc,
		Warnings:  warnings,
	}, nil
}

// GenerateBatch runs independent requests concurrently. Results keep the
// request order; the first failure cancels the rest.
func (s *Service) GenerateBatch(ctx context.Context, reqs []Request) ([]Slip, error) {
	slips := make([]Slip, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)

	for i := range reqs {
		i := i
		g.Go(func() error {
			slip, err := s.Generate(gctx, reqs[i])
			if err != nil {
				return fmt.Errorf("request %d (%s %s): %w", i, reqs[i].Employee.ID, reqs[i].Month, err)
			}
			slips[i] = slip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slips, nil
}

// GenerateForEmployee loads an employee's inputs from the configured
// Source and generates the month's slip.
func (s *Service) GenerateForEmployee(ctx context.Context, id core.EmployeeID, month core.YearMonth, payment report.Payment) (Slip, error) {
	if s.source == nil {
		return Slip{}, fmt.Errorf("payslip: no source configured")
	}
	if err := month.Validate(); err != nil {
		return Slip{}, err
	}

	emp, err := s.source.GetEmployee(ctx, id)
	if err != nil {
		return Slip{}, err
	}
	cfg, err := s.source.GetSalaryConfig(ctx, id)
	if err != nil {
		return Slip{}, err
	}
	raws, err := s.source.LoadAttendance(ctx, id, month)
	if err != nil {
		return Slip{}, fmt.Errorf("load attendance: %w", err)
	}
	leaves, err := s.source.LoadLeaveHistory(ctx, id, month)
	if err != nil {
		return Slip{}, fmt.Errorf("load leave history: %w", err)
	}

	return s.Generate(ctx, Request{
		Employee:   emp,
		Month:      month,
		Attendance: raws,
		Leaves:     leaves,
		Salary:     cfg,
		Payment:    payment,
	})
}

// Ledger builds an employee's full leave ledger through month.
func (s *Service) Ledger(ctx context.Context, id core.EmployeeID, through core.YearMonth) (ledger.Ledger, error) {
	if s.source == nil {
		return ledger.Ledger{}, fmt.Errorf("payslip: no source configured")
	}
	if _, err := s.source.GetEmployee(ctx, id); err != nil {
		return ledger.Ledger{}, err
	}
	months, err := s.source.LoadLeaveHistory(ctx, id, through)
	if err != nil {
		return ledger.Ledger{}, fmt.Errorf("load leave history: %w", err)
	}
	return ledger.Build(months)
}
