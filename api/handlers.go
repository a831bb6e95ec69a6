/*
handlers.go - HTTP API handlers for the payslip engine

PURPOSE:
  Exposes slip generation and its building blocks via REST API. Handles
  HTTP request/response and JSON serialization, and delegates to the
  payslip service and the domain packages.

ENDPOINTS:
  Stateless computation:
    POST   /api/slips                        Generate a slip from a full payload
    POST   /api/slips/batch                  Generate many slips in parallel
    POST   /api/ledger                       Build a leave ledger
    POST   /api/payroll                      Compute the shortfall deduction
    POST   /api/attendance/classify          Classify and summarize records
    GET    /api/calendar/{year}/{month}      Month grid

  Employees (stored inputs):
    GET    /api/employees                    List employees
    POST   /api/employees                    Create employee
    GET    /api/employees/{id}               Get employee
    DELETE /api/employees/{id}               Delete employee and their data
    POST   /api/employees/{id}/attendance    Upsert attendance records
    GET    /api/employees/{id}/attendance    Classified records (?month=YYYY-MM)
    POST   /api/employees/{id}/leaves        Replace one month of leave events
    GET    /api/employees/{id}/salary        Get salary config
    PUT    /api/employees/{id}/salary        Set salary config or policy
    GET    /api/employees/{id}/ledger        Ledger (?through=, ?month=)
    GET    /api/employees/{id}/slips/{month} Generate the month's slip

  Admin:
    POST   /api/admin/accruals               Credit monthly leave now

  Scenarios:
    GET    /api/scenarios                    List demo scenarios
    POST   /api/scenarios/load               Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, invalid argument, zero divisor
  - 404: Employee or salary config not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/calendar"
	"github.com/warp/payslip-engine/config"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/factory"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/payroll"
	"github.com/warp/payslip-engine/payslip"
	"github.com/warp/payslip-engine/report"
)

// latestMonth bounds ledger reads that should include everything stored.
var latestMonth = core.YearMonth{Year: 9999, Month: 12}

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *payslip.Service
	Store    payslip.Store
	Profile  config.Profile
	Policies *factory.SalaryFactory
	Accruals *AccrualScheduler
	Logger   *slog.Logger

	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a handler over store. The service stamps slips with
// the profile's company and reads stored inputs from store.
func NewHandler(store payslip.Store, profile config.Profile, logger *slog.Logger, opts ...payslip.Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append([]payslip.Option{payslip.WithSource(store)}, opts...)
	return &Handler{
		Service:  payslip.NewService(profile.Company, opts...),
		Store:    store,
		Profile:  profile,
		Policies: factory.NewSalaryFactory(),
		Accruals: NewAccrualScheduler(store, decimal.NewFromFloat(profile.Leave.MonthlyCredit), logger),
		Logger:   logger,
	}
}

// =============================================================================
// STATELESS COMPUTATION
// =============================================================================

// GenerateSlip generates a slip from a complete payload.
// POST /api/slips
func (h *Handler) GenerateSlip(w http.ResponseWriter, r *http.Request) {
	var req SlipRequest
	if !decode(w, r, &req) {
		return
	}

	pr, err := toServiceRequest(req)
	if err != nil {
		h.fail(w, r, "Invalid slip request", err)
		return
	}
	slip, err := h.Service.Generate(r.Context(), pr)
	if err != nil {
		h.fail(w, r, "Failed to generate slip", err)
		return
	}
	h.logWarnings(r, slip)
	writeJSON(w, http.StatusOK, toSlipDTO(slip))
}

// GenerateSlipBatch generates independent slips in parallel. Any failure
// fails the whole batch.
// POST /api/slips/batch
func (h *Handler) GenerateSlipBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []SlipRequest
	if !decode(w, r, &reqs) {
		return
	}

	prs := make([]payslip.Request, len(reqs))
	for i, req := range reqs {
		pr, err := toServiceRequest(req)
		if err != nil {
			h.fail(w, r, "Invalid slip request", fmt.Errorf("request %d: %w", i, err))
			return
		}
		prs[i] = pr
	}

	slips, err := h.Service.GenerateBatch(r.Context(), prs)
	if err != nil {
		h.fail(w, r, "Failed to generate slips", err)
		return
	}
	dtos := make([]SlipDTO, len(slips))
	for i, s := range slips {
		dtos[i] = toSlipDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// BuildLedger builds a ledger from the posted months.
// POST /api/ledger
func (h *Handler) BuildLedger(w http.ResponseWriter, r *http.Request) {
	var req LedgerRequest
	if !decode(w, r, &req) {
		return
	}

	months, err := ledger.ParseMonths(req.Months)
	if err != nil {
		h.fail(w, r, "Invalid leave months", err)
		return
	}
	l, err := ledger.Build(months)
	if err != nil {
		h.fail(w, r, "Failed to build ledger", err)
		return
	}

	dto := toLedgerDTO(l)
	if req.Month != "" {
		month, err := core.ParseYearMonth(req.Month)
		if err != nil {
			h.fail(w, r, "Invalid month", err)
			return
		}
		st := toStatementDTO(l.Slice(month))
		dto.Statement = &st
	}
	writeJSON(w, http.StatusOK, dto)
}

// ComputePayroll computes the deduction for the posted hours.
// POST /api/payroll
func (h *Handler) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	var req PayrollRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := payroll.Compute(core.NewAmountFromDecimal(req.HoursWorked, core.UnitHours), req.Salary)
	if err != nil {
		h.fail(w, r, "Failed to compute payroll", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(res))
}

// ClassifyAttendance classifies raw records and summarizes the month.
// POST /api/attendance/classify
func (h *Handler) ClassifyAttendance(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if !decode(w, r, &req) {
		return
	}

	month, err := core.ParseYearMonth(req.Month)
	if err != nil {
		h.fail(w, r, "Invalid month", err)
		return
	}
	records, err := attendance.ClassifyAll(req.Records)
	if err != nil {
		h.fail(w, r, "Invalid attendance records", err)
		return
	}

	required := h.defaultRequiredHours()
	if req.RequiredHours != nil {
		required = core.NewAmountFromDecimal(*req.RequiredHours, core.UnitHours)
	}
	summary, err := attendance.Summarize(month, records, required)
	if err != nil {
		h.fail(w, r, "Failed to summarize attendance", err)
		return
	}

	writeJSON(w, http.StatusOK, ClassifyResponse{
		Records: toRecordDTOs(records),
		Summary: toSummaryDTO(summary),
	})
}

// GetCalendar returns the week grid for a month.
// GET /api/calendar/{year}/{month}
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	grid, err := calendar.BuildMonthGrid(year, month)
	if err != nil {
		h.fail(w, r, "Invalid month", err)
		return
	}
	writeJSON(w, http.StatusOK, toGridDTO(grid))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list employees", err)
		return
	}
	if employees == nil {
		employees = []report.Employee{}
	}
	writeJSON(w, http.StatusOK, employees)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), employeeID(r))
	if err != nil {
		h.fail(w, r, "Employee not found", err)
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

// CreateEmployee creates (or replaces) an employee. An empty ID is assigned.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var emp report.Employee
	if !decode(w, r, &emp) {
		return
	}
	if emp.Name == "" {
		h.fail(w, r, "Invalid employee", &core.ArgumentError{Field: "name", Reason: "is required"})
		return
	}

	saved, err := h.Store.SaveEmployee(r.Context(), emp)
	if err != nil {
		h.fail(w, r, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// DeleteEmployee removes an employee with all of their inputs.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteEmployee(r.Context(), employeeID(r)); err != nil {
		h.fail(w, r, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadAttendance validates and upserts records by date.
// POST /api/employees/{id}/attendance
func (h *Handler) UploadAttendance(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)
	var req AttendanceUploadRequest
	if !decode(w, r, &req) {
		return
	}

	// Reject the whole upload if any record would not classify later.
	records, err := attendance.ClassifyAll(req.Records)
	if err != nil {
		h.fail(w, r, "Invalid attendance records", err)
		return
	}
	if err := h.Store.SaveAttendance(r.Context(), id, req.Records); err != nil {
		h.fail(w, r, "Failed to save attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTOs(records))
}

// GetAttendance returns an employee's classified records for a month.
// GET /api/employees/{id}/attendance?month=YYYY-MM
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)
	month, err := core.ParseYearMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.fail(w, r, "Invalid month", err)
		return
	}
	if _, err := h.Store.GetEmployee(r.Context(), id); err != nil {
		h.fail(w, r, "Employee not found", err)
		return
	}

	raws, err := h.Store.LoadAttendance(r.Context(), id, month)
	if err != nil {
		h.fail(w, r, "Failed to load attendance", err)
		return
	}
	records, err := attendance.ClassifyAll(raws)
	if err != nil {
		h.fail(w, r, "Stored attendance is invalid", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTOs(records))
}

// SaveLeaveMonth replaces one month of an employee's leave events.
// POST /api/employees/{id}/leaves
func (h *Handler) SaveLeaveMonth(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)
	var raw ledger.RawMonth
	if !decode(w, r, &raw) {
		return
	}

	months, err := ledger.ParseMonths([]ledger.RawMonth{raw})
	if err != nil {
		h.fail(w, r, "Invalid leave month", err)
		return
	}
	ev := months[0]
	if ev.Credit.IsNegative() {
		h.fail(w, r, "Invalid leave month", &core.ArgumentError{Field: "leavesAdded", Value: ev.Credit.String(), Reason: "must not be negative"})
		return
	}
	if err := h.Store.SaveLeaveMonth(r.Context(), id, ev); err != nil {
		h.fail(w, r, "Failed to save leave month", err)
		return
	}

	l, err := h.Service.Ledger(r.Context(), id, latestMonth)
	if err != nil {
		h.fail(w, r, "Failed to build ledger", err)
		return
	}
	st := toStatementDTO(l.Slice(ev.Month))
	writeJSON(w, http.StatusOK, st)
}

// GetSalary returns the stored salary config.
func (h *Handler) GetSalary(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Store.GetSalaryConfig(r.Context(), employeeID(r))
	if err != nil {
		h.fail(w, r, "Salary config not found", err)
		return
	}
	writeJSON(w, http.StatusOK, SalaryDTO{SalaryConfig: cfg, RequiredHours: cfg.RequiredHours().String()})
}

// PutSalary sets the salary config. A policy is resolved against the
// request month; a plain config has zero policy fields filled from the
// company profile.
// PUT /api/employees/{id}/salary
func (h *Handler) PutSalary(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)
	var req SalaryRequest
	if !decode(w, r, &req) {
		return
	}

	cfg, err := h.resolveSalary(req)
	if err != nil {
		h.fail(w, r, "Invalid salary config", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		h.fail(w, r, "Invalid salary config", err)
		return
	}
	if err := h.Store.SaveSalaryConfig(r.Context(), id, cfg); err != nil {
		h.fail(w, r, "Failed to save salary config", err)
		return
	}
	writeJSON(w, http.StatusOK, SalaryDTO{SalaryConfig: cfg, RequiredHours: cfg.RequiredHours().String()})
}

func (h *Handler) resolveSalary(req SalaryRequest) (payroll.SalaryConfig, error) {
	if req.Policy == nil {
		return h.Profile.DefaultSalary.ApplyDefaults(req.SalaryConfig), nil
	}
	policy, err := h.Policies.FromJSON(*req.Policy)
	if err != nil {
		return payroll.SalaryConfig{}, err
	}
	if req.Month == "" {
		return payroll.SalaryConfig{}, &core.ArgumentError{Field: "month", Reason: "is required with a policy"}
	}
	month, err := core.ParseYearMonth(req.Month)
	if err != nil {
		return payroll.SalaryConfig{}, err
	}
	return policy.ForMonth(month), nil
}

// GetLedger returns the employee's ledger up to ?through= (default: all),
// with the statement for ?month= when given.
// GET /api/employees/{id}/ledger
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)
	q := r.URL.Query()

	through := latestMonth
	if s := q.Get("through"); s != "" {
		m, err := core.ParseYearMonth(s)
		if err != nil {
			h.fail(w, r, "Invalid through month", err)
			return
		}
		through = m
	}

	l, err := h.Service.Ledger(r.Context(), id, through)
	if err != nil {
		h.fail(w, r, "Failed to build ledger", err)
		return
	}

	dto := toLedgerDTO(l)
	if s := q.Get("month"); s != "" {
		month, err := core.ParseYearMonth(s)
		if err != nil {
			h.fail(w, r, "Invalid month", err)
			return
		}
		st := toStatementDTO(l.Slice(month))
		dto.Statement = &st
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetEmployeeSlip generates the slip for stored inputs.
// GET /api/employees/{id}/slips/{month}?transaction_id=&amount_paid=
func (h *Handler) GetEmployeeSlip(w http.ResponseWriter, r *http.Request) {
	id := employeeID(r)
	month, err := core.ParseYearMonth(chi.URLParam(r, "month"))
	if err != nil {
		h.fail(w, r, "Invalid month", err)
		return
	}

	q := r.URL.Query()
	payment := report.Payment{TransactionID: q.Get("transaction_id")}
	if s := q.Get("amount_paid"); s != "" {
		paid, err := decimal.NewFromString(s)
		if err != nil {
			h.fail(w, r, "Invalid amount_paid", &core.ArgumentError{Field: "amount_paid", Value: s, Reason: "must be a decimal number"})
			return
		}
		payment.AmountPaid = &paid
	}

	slip, err := h.Service.GenerateForEmployee(r.Context(), id, month, payment)
	if err != nil {
		h.fail(w, r, "Failed to generate slip", err)
		return
	}
	h.logWarnings(r, slip)
	writeJSON(w, http.StatusOK, toSlipDTO(slip))
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// RunAccruals credits monthly leave for every employee now.
// POST /api/admin/accruals
func (h *Handler) RunAccruals(w http.ResponseWriter, r *http.Request) {
	var req AccrualRequest
	if r.ContentLength > 0 && !decode(w, r, &req) {
		return
	}

	now := h.Accruals.Now()
	month := core.YearMonth{Year: now.Year(), Month: now.Month()}
	if req.Month != "" {
		m, err := core.ParseYearMonth(req.Month)
		if err != nil {
			h.fail(w, r, "Invalid month", err)
			return
		}
		month = m
	}

	run, err := h.Accruals.RunMonth(r.Context(), month)
	if err != nil {
		h.fail(w, r, "Accrual run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// =============================================================================
// HELPERS
// =============================================================================

func employeeID(r *http.Request) core.EmployeeID {
	return core.EmployeeID(chi.URLParam(r, "id"))
}

func toServiceRequest(req SlipRequest) (payslip.Request, error) {
	month, err := core.ParseYearMonth(req.Month)
	if err != nil {
		return payslip.Request{}, err
	}
	leaves, err := ledger.ParseMonths(req.Leaves)
	if err != nil {
		return payslip.Request{}, err
	}
	pr := payslip.Request{
		Employee:   req.Employee,
		Month:      month,
		Attendance: req.Attendance,
		Leaves:     leaves,
		Salary:     req.Salary,
		Payment:    req.Payment,
	}
	if req.Company != nil {
		pr.Company = *req.Company
	}
	return pr, nil
}

func toSlipDTO(s payslip.Slip) SlipDTO {
	warnings := s.Warnings
	if warnings == nil {
		warnings = []core.Warning{}
	}
	return SlipDTO{
		EmployeeID: s.Employee,
		Month:      s.Month.String(),
		Records:    toRecordDTOs(s.Records),
		Summary:    toSummaryDTO(s.Summary),
		Statement:  toStatementDTO(s.Statement),
		Payroll:    toPayrollDTO(s.Payroll),
		Grid:       toGridDTO(s.Grid),
		Document:   s.Document,
		Warnings:   warnings,
	}
}

func (h *Handler) defaultRequiredHours() core.Amount {
	return h.Profile.DefaultSalary.ApplyDefaults(payroll.SalaryConfig{}).RequiredHours()
}

func (h *Handler) logWarnings(r *http.Request, s payslip.Slip) {
	if len(s.Warnings) == 0 {
		return
	}
	codes := make([]string, len(s.Warnings))
	for i, w := range s.Warnings {
		codes[i] = w.Code
	}
	h.Logger.InfoContext(r.Context(), "slip generated with warnings",
		slog.String("employee_id", string(s.Employee)),
		slog.String("month", s.Month.String()),
		slog.Any("codes", codes))
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case core.IsNotFound(err):
		return http.StatusNotFound
	case core.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes it with the status statusFor picks.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	attrs := []any{
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("err", err),
	}
	if id := chi.URLParam(r, "id"); id != "" {
		attrs = append(attrs, slog.String("employee_id", id))
	}
	if status >= http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), message, attrs...)
	} else {
		h.Logger.DebugContext(r.Context(), message, attrs...)
	}
	writeError(w, status, message, err)
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

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
