package checkpoint

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockOn(t *testing.T) {
	day := time.Date(2025, time.April, 24, 9, 17, 33, 0, time.UTC)

	got, err := parseClockOn(day, "21:45")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.April, 24, 21, 45, 0, 0, time.UTC), got)

	_, err = parseClockOn(day, "9:45pm")
	assert.Error(t, err)
}

func TestRecordResponseMarshalJSON(t *testing.T) {
	checkIn := time.Date(2025, time.April, 24, 8, 5, 12, 0, time.UTC)
	hours := 7.92

	r := RecordResponse{
		ID:          3,
		EmployeeID:  10,
		CheckInTime: &checkIn,
		HoursWorked: &hours,
	}

	data, err := json.Marshal(&r)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "08:05", out["check_in_time"])
	_, hasOut := out["check_out_time"]
	assert.False(t, hasOut, "open shift should omit check_out_time")
	assert.Equal(t, 7.92, out["hours_worked"])
}
