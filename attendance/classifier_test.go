package attendance_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/core"
)

func strPtr(s string) *string { return &s }

// =============================================================================
// STATUS NORMALIZATION
// =============================================================================

func TestParseStatus_Vocabulary(t *testing.T) {
	cases := map[string]attendance.Status{
		"Present":   attendance.StatusPresent,
		"present":   attendance.StatusPresent,
		" ABSENT ":  attendance.StatusAbsent,
		"On Leave":  attendance.StatusOnLeave,
		"on_leave":  attendance.StatusOnLeave,
		"comp-off":  attendance.StatusCompOff,
		"Half Day":  attendance.StatusHalfDay,
		"Sunday":    attendance.StatusSunday,
		"saturday":  attendance.StatusSaturday,
		"Holiday":   attendance.StatusHoliday,
		"Unknown":   attendance.StatusUnknown,
		"WFH":       attendance.StatusUnknown,
		"":          attendance.StatusUnknown,
		"present!!": attendance.StatusUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, attendance.ParseStatus(raw), "raw=%q", raw)
	}
}

func TestClassify_UnknownStatusNeverFails(t *testing.T) {
	// GIVEN: statuses outside the vocabulary
	// WHEN: classifying
	// THEN: Unknown is returned, no error
	for _, raw := range []string{"Remote", "???", "Present Late", "0"} {
		rec, err := attendance.Classify(attendance.RawRecord{Date: "2024-03-04", Status: raw})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusUnknown, rec.Status)
		assert.Equal(t, attendance.CategoryUnknown, rec.Category)
	}
}

// =============================================================================
// LATE-IN
// =============================================================================

func TestClassify_LateInThreeWay(t *testing.T) {
	tests := []struct {
		name   string
		lateIn *string
		want   attendance.Punctuality
		label  string
	}{
		{"null is not applicable", nil, attendance.NotApplicable, "-"},
		{"empty is not applicable", strPtr(""), attendance.NotApplicable, "-"},
		{"dash is not applicable", strPtr("-"), attendance.NotApplicable, "-"},
		{"zero is on time", strPtr("00:00"), attendance.OnTime, "On Time"},
		{"non-zero is late", strPtr("00:12"), attendance.Late, "Late"},
		{"hours late", strPtr("01:30"), attendance.Late, "Late"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := attendance.Classify(attendance.RawRecord{
				Date:   "2024-03-04",
				Status: "Present",
				LateIn: tt.lateIn,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Punctuality)
			assert.Equal(t, tt.label, rec.Punctuality.Label())
		})
	}
}

func TestClassify_OnTimeAndNotApplicableStayDistinct(t *testing.T) {
	onTime, err := attendance.Classify(attendance.RawRecord{Date: "2024-03-04", Status: "Present", LateIn: strPtr("00:00")})
	require.NoError(t, err)
	absent, err := attendance.Classify(attendance.RawRecord{Date: "2024-03-05", Status: "Absent"})
	require.NoError(t, err)

	assert.NotEqual(t, onTime.Punctuality, absent.Punctuality)
	require.NotNil(t, onTime.LateIn)
	assert.Equal(t, time.Duration(0), *onTime.LateIn)
	assert.Nil(t, absent.LateIn)
}

func TestClassify_MalformedLateIn(t *testing.T) {
	_, err := attendance.Classify(attendance.RawRecord{Date: "2024-03-04", Status: "Present", LateIn: strPtr("late")})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

// =============================================================================
// FIELD PARSING
// =============================================================================

func TestClassify_FullRecord(t *testing.T) {
	rec, err := attendance.Classify(attendance.RawRecord{
		AttendanceDate: "2024-03-04",
		Status:         "Present",
		PunchInTime:    "09:05",
		PunchOutTime:   "18:10",
		HoursWorked:    "09:05",
		LateIn:         strPtr("00:05"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", rec.Date.String())
	require.NotNil(t, rec.PunchIn)
	require.NotNil(t, rec.PunchOut)
	assert.Equal(t, "09:05", rec.PunchIn.String())
	assert.Equal(t, "18:10", rec.PunchOut.String())
	assert.Equal(t, 9*time.Hour+5*time.Minute, rec.HoursWorked)
	assert.Empty(t, rec.Warnings)
}

func TestClassify_MissingPunches(t *testing.T) {
	rec, err := attendance.Classify(attendance.RawRecord{Date: "2024-03-10", Status: "Sunday"})
	require.NoError(t, err)

	assert.Nil(t, rec.PunchIn)
	assert.Nil(t, rec.PunchOut)
	assert.Zero(t, rec.HoursWorked)
	assert.Equal(t, attendance.CategoryWeeklyOff, rec.Category)
}

func TestClassify_MalformedFields(t *testing.T) {
	tests := []struct {
		name string
		raw  attendance.RawRecord
	}{
		{"bad date", attendance.RawRecord{Date: "2024-13-01", Status: "Present"}},
		{"missing date", attendance.RawRecord{Status: "Present"}},
		{"bad punch in", attendance.RawRecord{Date: "2024-03-04", Status: "Present", PunchInTime: "25:00"}},
		{"bad punch out", attendance.RawRecord{Date: "2024-03-04", Status: "Present", PunchOutTime: "9am"}},
		{"negative hours", attendance.RawRecord{Date: "2024-03-04", Status: "Present", HoursWorked: "-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := attendance.Classify(tt.raw)
			assert.ErrorIs(t, err, core.ErrInvalidArgument)
		})
	}
}

func TestClassify_HoursOnAbsentDayAreZeroed(t *testing.T) {
	// GIVEN: an Absent day carrying worked hours
	// WHEN: classifying
	// THEN: hours are forced to zero and the anomaly is flagged
	rec, err := attendance.Classify(attendance.RawRecord{Date: "2024-03-04", Status: "Absent", HoursWorked: "04:00"})
	require.NoError(t, err)

	assert.Zero(t, rec.HoursWorked)
	require.Len(t, rec.Warnings, 1)
	assert.Equal(t, core.DataIntegrity, rec.Warnings[0].Kind)
	assert.Equal(t, "hours_on_non_working_day", rec.Warnings[0].Code)
}

func TestRawHours_JSONForms(t *testing.T) {
	var payload []attendance.RawRecord
	err := json.Unmarshal([]byte(`[
		{"date":"2024-03-04","status":"Present","hoursWorked":"08:30"},
		{"date":"2024-03-05","status":"Present","hoursWorked":7.5},
		{"date":"2024-03-06","status":"Present","hoursWorked":null},
		{"date":"2024-03-07","status":"Present"}
	]`), &payload)
	require.NoError(t, err)

	recs, err := attendance.ClassifyAll(payload)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, 8*time.Hour+30*time.Minute, recs[0].HoursWorked)
	assert.Equal(t, 7*time.Hour+30*time.Minute, recs[1].HoursWorked)
	assert.Zero(t, recs[2].HoursWorked)
	assert.Zero(t, recs[3].HoursWorked)
}

func TestClassifyAll_ReportsRecordIndex(t *testing.T) {
	_, err := attendance.ClassifyAll([]attendance.RawRecord{
		{Date: "2024-03-04", Status: "Present"},
		{Date: "not-a-date", Status: "Present"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
