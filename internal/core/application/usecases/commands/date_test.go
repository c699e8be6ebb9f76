package commands_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/arvni/provider-panel-sub000/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	t.Run("accepts plain dates", func(t *testing.T) {
		var d commands.Date
		require.NoError(t, json.Unmarshal([]byte(`"2025-03-14"`), &d))
		assert.Equal(t, 2025, d.Year())
		assert.Equal(t, time.March, d.Month())
		assert.Equal(t, 14, d.Day())
	})

	t.Run("accepts RFC 3339 timestamps and truncates to the day", func(t *testing.T) {
		var d commands.Date
		require.NoError(t, json.Unmarshal([]byte(`"2025-03-14T15:26:00Z"`), &d))
		assert.Equal(t, 14, d.Day())
		assert.Equal(t, 0, d.Hour())
	})

	t.Run("keeps the calendar day of offset timestamps", func(t *testing.T) {
		var d commands.Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-03-01T01:00:00+04:00"`), &d))
		assert.Equal(t, time.March, d.Month())
		assert.Equal(t, 1, d.Day())
		assert.Equal(t, 0, d.Hour())
	})

	t.Run("accepts null as the zero date", func(t *testing.T) {
		var d commands.Date
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.True(t, d.IsZero())
		assert.Nil(t, d.TimePtr())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var d commands.Date
		require.Error(t, json.Unmarshal([]byte(`"14/03/2025"`), &d))
	})
}

func TestDate_MarshalJSON(t *testing.T) {
	t.Run("emits the day-precision form", func(t *testing.T) {
		d := commands.NewDate(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))
		raw, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2025-03-14"`, string(raw))
	})

	t.Run("emits null for the zero date", func(t *testing.T) {
		raw, err := json.Marshal(commands.Date{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(raw))
	})
}

func TestDate_TimePtr(t *testing.T) {
	t.Run("nil receiver yields nil", func(t *testing.T) {
		var d *commands.Date
		assert.Nil(t, d.TimePtr())
	})

	t.Run("set date yields a copy", func(t *testing.T) {
		d := commands.NewDate(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
		ptr := d.TimePtr()
		require.NotNil(t, ptr)
		assert.Equal(t, d.Time, *ptr)
	})
}
