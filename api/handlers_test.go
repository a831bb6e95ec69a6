package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payslip-engine/api"
	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/config"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/payroll"
	"github.com/warp/payslip-engine/report"
	"github.com/warp/payslip-engine/store/memory"
)

// =============================================================================
// HELPERS
// =============================================================================

func newTestServer(t *testing.T) (*api.Handler, http.Handler) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := api.NewHandler(memory.New(), config.DefaultProfile(), logger)
	return h, api.NewRouter(h, api.RouterOptions{})
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func standardSalary() payroll.SalaryConfig {
	return payroll.SalaryConfig{
		MonthlyGrossSalary:         decimal.NewFromInt(40000),
		WorkingHoursPerDayRequired: decimal.NewFromInt(8),
		CompanyWorkingDays:         decimal.NewFromInt(26),
	}
}

// marchAttendance: 20 days of 9h (180h), the remaining 6 working days
// absent, Sundays off.
func marchAttendance() []attendance.RawRecord {
	month := core.YearMonth{Year: 2024, Month: time.March}
	var out []attendance.RawRecord
	present := 0
	for _, d := range month.Days() {
		rec := attendance.RawRecord{Date: d.String()}
		switch {
		case d.Weekday() == time.Sunday:
			rec.Status = "Sunday"
		case present < 20:
			present++
			lateIn := "00:00"
			rec.Status = "Present"
			rec.PunchInTime = "09:00"
			rec.PunchOutTime = "18:00"
			rec.HoursWorked = "09:00"
			rec.LateIn = &lateIn
		default:
			rec.Status = "Absent"
		}
		out = append(out, rec)
	}
	return out
}

func marchSlipRequest() api.SlipRequest {
	return api.SlipRequest{
		Employee:   report.Employee{ID: "EMP-9", Name: "Meera Nair"},
		Month:      "2024-03",
		Attendance: marchAttendance(),
		Leaves: []ledger.RawMonth{
			{Month: "2024-02", LeavesAdded: decimal.NewFromFloat(1.5)},
			{Month: "2024-03", LeavesAdded: decimal.NewFromFloat(1.5), LeaveDates: []string{"2024-03-20"}},
		},
		Salary: standardSalary(),
	}
}

// =============================================================================
// STATELESS COMPUTATION
// =============================================================================

func TestGenerateSlip_ShortfallDeduction(t *testing.T) {
	// GIVEN: 180 of 208 hours worked on a 40000 salary
	// WHEN: posting the full payload
	// THEN: 3.5 days are deducted and the document has every section
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/slips", marchSlipRequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	slip := decodeAs[api.SlipDTO](t, rec)
	assert.Equal(t, "2024-03", slip.Month)
	assert.Equal(t, "3.5", slip.Payroll.DeductionDays)
	assert.Equal(t, "5384.62", slip.Payroll.TotalDeduction)
	assert.Equal(t, "34615.38", slip.Payroll.NetPayable)
	assert.Equal(t, "Rupees Thirty Four Thousand Six Hundred Fifteen and Thirty Eight Paise Only", slip.Payroll.NetPayableInWords)

	assert.Equal(t, "180", slip.Summary.WorkedHours)
	assert.Equal(t, "28", slip.Summary.ShortfallHours)
	assert.Equal(t, 20, slip.Summary.Counts.Present)
	assert.Equal(t, 5, slip.Summary.WeeklyOffs)
	assert.Len(t, slip.Records, 31)

	assert.Equal(t, "1.5", slip.Statement.Opening)
	assert.Equal(t, "2", slip.Statement.Closing)

	assert.Equal(t, "Salary Slip (March 2024)", slip.Document.Title)
	require.Len(t, slip.Document.Sections, len(report.SectionOrder))
	for i, id := range report.SectionOrder {
		assert.Equal(t, id, slip.Document.Sections[i].ID)
	}
	assert.Empty(t, slip.Warnings)
}

func TestGenerateSlip_RejectsBadInput(t *testing.T) {
	_, router := newTestServer(t)

	zeroDays := marchSlipRequest()
	zeroDays.Salary.CompanyWorkingDays = decimal.Zero

	badMonth := marchSlipRequest()
	badMonth.Month = "2024-13"

	badRecord := marchSlipRequest()
	badRecord.Attendance[1].PunchInTime = "9am"

	tests := []struct {
		name string
		body any
	}{
		{"zero working days", zeroDays},
		{"invalid month", badMonth},
		{"malformed punch", badRecord},
		{"malformed body", `{"month": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/slips", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			resp := decodeAs[api.ErrorResponse](t, rec)
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestGenerateSlipBatch_PreservesOrder(t *testing.T) {
	_, router := newTestServer(t)

	first := marchSlipRequest()
	second := marchSlipRequest()
	second.Employee = report.Employee{ID: "EMP-10", Name: "Karan Shah"}
	second.Salary.MonthlyGrossSalary = decimal.NewFromInt(52000)

	rec := do(t, router, http.MethodPost, "/api/slips/batch", []api.SlipRequest{first, second})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	slips := decodeAs[[]api.SlipDTO](t, rec)
	require.Len(t, slips, 2)
	assert.Equal(t, core.EmployeeID("EMP-9"), slips[0].EmployeeID)
	assert.Equal(t, core.EmployeeID("EMP-10"), slips[1].EmployeeID)
	// 52000 / 26 = 2000 a day
	assert.Equal(t, "45000.00", slips[1].Payroll.NetPayable)
}

func TestGenerateSlipBatch_OneBadRequestFailsAll(t *testing.T) {
	_, router := newTestServer(t)

	bad := marchSlipRequest()
	bad.Salary.WorkingHoursPerDayRequired = decimal.Zero

	rec := do(t, router, http.MethodPost, "/api/slips/batch", []api.SlipRequest{marchSlipRequest(), bad})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuildLedger(t *testing.T) {
	// GIVEN: three months of credits with two leave days taken
	// WHEN: building the ledger with the March statement
	// THEN: running balances replay correctly
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/ledger", api.LedgerRequest{
		Months: []ledger.RawMonth{
			{Month: "2024-01", LeavesAdded: decimal.NewFromFloat(1.5), LeaveDates: []string{"2024-01-15"}},
			{Month: "2024-02", LeavesAdded: decimal.NewFromFloat(1.5)},
			{Month: "2024-03", LeavesAdded: decimal.NewFromFloat(1.5), LeaveDates: []string{"2024-03-20"}},
		},
		Month: "2024-03",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	l := decodeAs[api.LedgerDTO](t, rec)
	require.Len(t, l.Entries, 5)
	assert.Equal(t, "Credited", l.Entries[0].Type)
	assert.Equal(t, "0.5", l.Entries[1].RunningBalance)
	assert.Equal(t, "4.5", l.TotalCredited)
	assert.Equal(t, "2", l.TotalDebited)
	assert.Equal(t, "2.5", l.FinalBalance)
	assert.Equal(t, "0.5556", l.Overview.RemainingFraction)

	require.NotNil(t, l.Statement)
	assert.Equal(t, "2", l.Statement.Opening)
	assert.Equal(t, "2.5", l.Statement.Closing)
	assert.Len(t, l.Statement.Entries, 2)
}

func TestBuildLedger_NegativeCredit(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/ledger", api.LedgerRequest{
		Months: []ledger.RawMonth{{Month: "2024-01", LeavesAdded: decimal.NewFromInt(-1)}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComputePayroll(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/payroll", api.PayrollRequest{
		HoursWorked: decimal.NewFromInt(180),
		Salary:      standardSalary(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeAs[api.PayrollDTO](t, rec)
	assert.Equal(t, "208", res.RequiredHours)
	assert.Equal(t, "1538.46", res.DailySalary)
	assert.Equal(t, "34615.38", res.NetPayable)
	assert.False(t, res.Capped)

	// Divisors are validated, not defaulted
	rec = do(t, router, http.MethodPost, "/api/payroll", api.PayrollRequest{
		HoursWorked: decimal.NewFromInt(180),
		Salary:      payroll.SalaryConfig{MonthlyGrossSalary: decimal.NewFromInt(40000)},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyAttendance_DefaultRequiredHours(t *testing.T) {
	// GIVEN: no required hours in the request
	// WHEN: classifying
	// THEN: the profile default (26 days x 8h) applies
	_, router := newTestServer(t)

	late := "00:20"
	rec := do(t, router, http.MethodPost, "/api/attendance/classify", api.ClassifyRequest{
		Month: "2024-03",
		Records: []attendance.RawRecord{
			{Date: "2024-03-01", Status: "present", PunchInTime: "09:20", PunchOutTime: "17:20", HoursWorked: "8", LateIn: &late},
			{Date: "2024-03-02", Status: "ABSENT"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeAs[api.ClassifyResponse](t, rec)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "Present", resp.Records[0].Status)
	assert.Equal(t, "Late", resp.Records[0].Punctuality)
	assert.Equal(t, "08:00", resp.Records[0].HoursWorked)
	assert.Equal(t, "-", resp.Records[1].Punctuality)

	assert.Equal(t, "208", resp.Summary.RequiredHours)
	assert.Equal(t, "200", resp.Summary.ShortfallHours)
	assert.Equal(t, 1, resp.Summary.LateInDays)
	// Two records cannot cover 31 days
	assert.True(t, core.HasWarning(resp.Summary.Warnings, "status_count_mismatch"))
}

func TestGetCalendar(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodGet, "/api/calendar/2024/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	grid := decodeAs[api.GridDTO](t, rec)
	assert.Equal(t, "February 2024", grid.Title)
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, grid.Weekdays)
	require.Len(t, grid.Weeks, 5)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 2, 3}, grid.Weeks[0])
	assert.Equal(t, []int{25, 26, 27, 28, 29, 0, 0}, grid.Weeks[4])

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/calendar/2024/13", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/calendar/2024/feb", nil).Code)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func createEmployee(t *testing.T, router http.Handler, emp report.Employee) report.Employee {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/employees", emp)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeAs[report.Employee](t, rec)
}

func TestEmployees_Lifecycle(t *testing.T) {
	_, router := newTestServer(t)

	created := createEmployee(t, router, report.Employee{Name: "Anil Rao", Department: "Sales"})
	assert.NotEmpty(t, created.ID, "an ID is assigned")

	rec := do(t, router, http.MethodGet, "/api/employees/"+string(created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sales", decodeAs[report.Employee](t, rec).Department)

	rec = do(t, router, http.MethodGet, "/api/employees", nil)
	assert.Len(t, decodeAs[[]report.Employee](t, rec), 1)

	rec = do(t, router, http.MethodDelete, "/api/employees/"+string(created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/employees/"+string(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEmployee_RequiresName(t *testing.T) {
	_, router := newTestServer(t)
	rec := do(t, router, http.MethodPost, "/api/employees", report.Employee{ID: "E1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutSalary(t *testing.T) {
	_, router := newTestServer(t)
	emp := createEmployee(t, router, report.Employee{ID: "E1", Name: "Divya Iyer"})
	path := "/api/employees/" + string(emp.ID) + "/salary"

	t.Run("plain config gets profile defaults", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, path, map[string]any{"monthlyGrossSalary": 30000})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decodeAs[api.SalaryDTO](t, rec)
		assert.Equal(t, "26", got.CompanyWorkingDays.String())
		assert.Equal(t, "8", got.WorkingHoursPerDayRequired.String())
		assert.Equal(t, "208", got.RequiredHours)
	})

	t.Run("policy resolved for month", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, path, map[string]any{
			"month": "2024-03",
			"policy": map[string]any{
				"id": "five", "monthly_gross": 45000, "hours_per_day": 9,
				"weekly_offs": []string{"saturday", "sunday"},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decodeAs[api.SalaryDTO](t, rec)
		assert.Equal(t, "21", got.CompanyWorkingDays.String())
		assert.Equal(t, "189", got.RequiredHours)

		rec = do(t, router, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "45000", decodeAs[api.SalaryDTO](t, rec).MonthlyGrossSalary.String())
	})

	t.Run("policy needs a month", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, path, map[string]any{
			"policy": map[string]any{"id": "p", "hours_per_day": 8},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero hours per day in policy", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, path, map[string]any{
			"month":  "2024-03",
			"policy": map[string]any{"id": "p", "hours_per_day": 0},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown employee", func(t *testing.T) {
		rec := do(t, router, http.MethodPut, "/api/employees/nobody/salary", map[string]any{"monthlyGrossSalary": 1})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAttendance_UploadAndRead(t *testing.T) {
	_, router := newTestServer(t)
	emp := createEmployee(t, router, report.Employee{ID: "E1", Name: "Divya Iyer"})
	path := "/api/employees/" + string(emp.ID) + "/attendance"

	rec := do(t, router, http.MethodPost, path, api.AttendanceUploadRequest{Records: []attendance.RawRecord{
		{Date: "2024-03-01", Status: "Present", HoursWorked: "8"},
		{AttendanceDate: "2024-03-02", Status: "Absent"},
		{Date: "2024-04-01", Status: "Present", HoursWorked: "8"},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, path+"?month=2024-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	records := decodeAs[[]api.RecordDTO](t, rec)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-01", records[0].Date)
	assert.Equal(t, "Absent", records[1].Status)

	// Malformed records reject the whole upload
	rec = do(t, router, http.MethodPost, path, api.AttendanceUploadRequest{Records: []attendance.RawRecord{
		{Date: "2024-03-03", Status: "Present", HoursWorked: "8"},
		{Date: "03/04/2024", Status: "Present"},
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, path, nil).Code, "month is required")
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/employees/nobody/attendance?month=2024-03", nil).Code)
}

func TestSaveLeaveMonth_ReturnsStatement(t *testing.T) {
	_, router := newTestServer(t)
	emp := createEmployee(t, router, report.Employee{ID: "E1", Name: "Divya Iyer"})
	path := "/api/employees/" + string(emp.ID) + "/leaves"

	rec := do(t, router, http.MethodPost, path, ledger.RawMonth{Month: "2024-02", LeavesAdded: decimal.NewFromInt(2)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, path, ledger.RawMonth{
		Month: "2024-03", LeavesAdded: decimal.NewFromFloat(1.5), LeaveDates: []string{"2024-03-04", "2024-03-05"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	st := decodeAs[api.StatementDTO](t, rec)
	assert.Equal(t, "2", st.Opening)
	assert.Equal(t, "1.5", st.Credited)
	assert.Equal(t, "2", st.Debited)
	assert.Equal(t, "1.5", st.Closing)

	rec = do(t, router, http.MethodPost, path, ledger.RawMonth{Month: "March", LeavesAdded: decimal.NewFromInt(1)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEmployeeSlip_MissingSalary(t *testing.T) {
	_, router := newTestServer(t)
	emp := createEmployee(t, router, report.Employee{ID: "E1", Name: "Divya Iyer"})

	rec := do(t, router, http.MethodGet, "/api/employees/"+string(emp.ID)+"/slips/2024-03", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/employees/nobody/slips/2024-03", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/employees/"+string(emp.ID)+"/slips/march", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/health", nil).Code)
}
