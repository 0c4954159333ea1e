package engine

import (
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUTCOffset(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "+0000"},
		{3600, "+0100"},
		{19800, "+0530"},
		{-18000, "-0500"},
		{-(9*3600 + 30*60), "-0930"},
		{561, "+000921"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUTCOffset(tt.seconds))
	}
}

func TestTimezoneComponent_SouthernHemisphere(t *testing.T) {
	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	tz := timezoneComponent(sydney, 2025)
	assert.Equal(t, ical.CompTimezone, tz.Name)

	tzid, err := tz.Props.Text(ical.PropTimezoneID)
	require.NoError(t, err)
	assert.Equal(t, "Australia/Sydney", tzid)

	// Summer time on January 1st, back to standard in April, summer again in October.
	require.Len(t, tz.Children, 3)
	assert.Equal(t, ical.CompTimezoneDaylight, tz.Children[0].Name)
	assert.Equal(t, ical.CompTimezoneStandard, tz.Children[1].Name)
	assert.Equal(t, ical.CompTimezoneDaylight, tz.Children[2].Name)

	assert.Equal(t, "20250406T030000", tz.Children[1].Props.Get(ical.PropDateTimeStart).Value)
	assert.Equal(t, "+1100", tz.Children[1].Props.Get(ical.PropTimezoneOffsetFrom).Value)
	assert.Equal(t, "+1000", tz.Children[1].Props.Get(ical.PropTimezoneOffsetTo).Value)
	assert.Equal(t, "20251005T020000", tz.Children[2].Props.Get(ical.PropDateTimeStart).Value)
}
