package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.March, 15)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-15"`, string(raw))

	var parsed Date
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, d, parsed)
}

func TestDateMarshalZeroAsNull(t *testing.T) {
	raw, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestDateUnmarshalNull(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte("null"), &d))
	assert.True(t, d.IsZero())
}

func TestDateUnmarshalRejectsOtherLayouts(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"15/03/2026"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"2026-03-15T10:00:00Z"`), &d))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, time.March, 15, 13, 45, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2026, time.March, 15), d)

	require.NoError(t, d.Scan([]byte("2026-01-02")))
	assert.Equal(t, NewDate(2026, time.January, 2), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}

func TestDateValue(t *testing.T) {
	v, err := NewDate(2026, time.March, 15).Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParseExpenseStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "APPROVED", "REJECTED"} {
		status, ok := ParseExpenseStatus(valid)
		assert.True(t, ok)
		assert.Equal(t, ExpenseStatus(valid), status)
	}

	for _, invalid := range []string{"pending", "IN_REVIEW", ""} {
		_, ok := ParseExpenseStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestExpenseStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestExpenseFilterHasDateRange(t *testing.T) {
	start := NewDate(2026, time.March, 1)
	end := NewDate(2026, time.March, 31)

	assert.False(t, ExpenseFilter{}.HasDateRange())
	assert.False(t, ExpenseFilter{StartDate: &start}.HasDateRange())
	assert.False(t, ExpenseFilter{EndDate: &end}.HasDateRange())
	assert.True(t, ExpenseFilter{StartDate: &start, EndDate: &end}.HasDateRange())
}
