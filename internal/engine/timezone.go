package engine

import (
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-timeturner/internal/config"
)

// timezoneComponent describes loc for the given year: the observance already
// in effect on January 1st followed by every offset change during the year.
func timezoneComponent(loc *time.Location, year int) *ical.Component {
	tz := ical.NewComponent(ical.CompTimezone)
	tz.Props.SetText(ical.PropTimezoneID, loc.String())

	t := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	yearEnd := time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc)

	onset, end := t.ZoneBounds()
	tz.Children = append(tz.Children, observance(onset, t))

	for !end.IsZero() && end.Before(yearEnd) {
		tz.Children = append(tz.Children, observance(end, end))
		_, end = end.ZoneBounds()
	}
	return tz
}

// observance is the STANDARD or DAYLIGHT block for the zone in effect at at.
// A zero onset means the zone never changed; the epoch stands in for it.
func observance(onset, at time.Time) *ical.Component {
	name, offsetTo := at.Zone()
	offsetFrom := offsetTo
	if !onset.IsZero() {
		_, offsetFrom = onset.Add(-time.Second).Zone()
	}

	kind := ical.CompTimezoneStandard
	if at.IsDST() {
		kind = ical.CompTimezoneDaylight
	}
	comp := ical.NewComponent(kind)

	// DTSTART is the onset as wall time of the previous offset.
	start := time.Unix(0, 0).UTC()
	if !onset.IsZero() {
		start = onset.UTC().Add(time.Duration(offsetFrom) * time.Second)
	}
	dtStart := ical.NewProp(ical.PropDateTimeStart)
	dtStart.Value = start.Format(config.FormatLocalDateTime)
	comp.Props.Set(dtStart)

	from := ical.NewProp(ical.PropTimezoneOffsetFrom)
	from.Value = formatUTCOffset(offsetFrom)
	comp.Props.Set(from)

	to := ical.NewProp(ical.PropTimezoneOffsetTo)
	to.Value = formatUTCOffset(offsetTo)
	comp.Props.Set(to)

	if name != "" {
		comp.Props.SetText(ical.PropTimezoneName, name)
	}
	return comp
}

// formatUTCOffset renders seconds east of UTC as ±hhmm[ss].
func formatUTCOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if s != 0 {
		return fmt.Sprintf(config.FormatUTCOffsetSec, sign, h, m, s)
	}
	return fmt.Sprintf(config.FormatUTCOffset, sign, h, m)
}
