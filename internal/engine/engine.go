package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-timeturner/internal/config"
	"github.com/tartampluch/go-timeturner/internal/cycles"
)

// SyncConfig contains all parameters required to perform a synchronization.
type SyncConfig struct {
	Mode      string // config.SourceModeLocal, config.SourceModeWeb or empty
	LocalPath string // Absolute path to the .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password

	// Profiles declared in the settings file. They come first in the result.
	Profiles []cycles.BirthProfile

	ForecastDays int
	OrganClock   bool

	// Location defines "today" and the organ-clock wall time. Nil means UTC.
	Location *time.Location
}

// Generator is the core service responsible for collecting profiles and
// rendering the calendar feed.
type Generator struct {
	Clock   Clock        // Interface for time mocking.
	Fetcher VCardFetcher // Interface for network abstraction.

	// Formatters allow the caller to inject localized strings into the logic layer.
	FormatSummary     func(name string, pct cycles.BiorhythmPercent) string
	FormatDescription func(r cycles.Reading) string
	FormatOrgan       func(o cycles.Organ) (summary, description string)

	CalendarName string
}

type syncStats struct {
	cards, profiles, events int
}

// RunSync executes the collection, parsing, and generation pipeline.
// It returns the ICS data, the profiles it used, and any error.
func (g *Generator) RunSync(ctx context.Context, cfg SyncConfig) ([]byte, []ProfileEntry, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	var stats syncStats
	entries, err := g.collectProfiles(ctx, cfg, &stats)
	if err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	ics, err := g.generateCalendar(ctx, entries, cfg, &stats)
	if err != nil {
		return nil, nil, err
	}

	stats.profiles = len(entries)
	g.logSuccess(stats)
	log.Debug("Sync finished", config.LogKeyDuration, time.Since(start).Milliseconds())
	return ics, entries, nil
}

// collectProfiles merges settings profiles with those read from the vCard
// source. Duplicates (same name and date) keep their first occurrence.
func (g *Generator) collectProfiles(ctx context.Context, cfg SyncConfig, stats *syncStats) ([]ProfileEntry, error) {
	entries := make([]ProfileEntry, 0, len(cfg.Profiles))
	seen := make(map[string]bool)
	add := func(e ProfileEntry) {
		if seen[e.UID] {
			return
		}
		seen[e.UID] = true
		entries = append(entries, e)
	}

	for _, p := range cfg.Profiles {
		add(NewProfileEntry(p, SourceSettings))
	}

	if cfg.Mode == config.SourceModeNone {
		return entries, nil
	}

	reader, err := g.acquireStream(ctx, cfg)
	if err != nil {
		// If context error occurred during acquisition, return it directly.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	// Best effort close. Errors in Close() for read-only files are rarely actionable here.
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profiles, err := decodeProfiles(ctx, reader, stats)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		add(NewProfileEntry(p, SourceVCard))
	}
	return entries, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (g *Generator) acquireStream(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// decodeProfiles reads every card of the stream. Cards without a usable
// birthday are skipped.
func decodeProfiles(ctx context.Context, r io.Reader, stats *syncStats) ([]cycles.BirthProfile, error) {
	decoder := vcard.NewDecoder(r)
	var out []cycles.BirthProfile

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log error but continue to next card to maximize data recovery
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			continue
		}
		stats.cards++

		p, ok := profileFromCard(card)
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func profileFromCard(card vcard.Card) (cycles.BirthProfile, bool) {
	bday := card.Get(config.VCardBDAY)
	if bday == nil || bday.Value == "" {
		return cycles.BirthProfile{}, false
	}

	p, err := parseBirth(bday.Value)
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyValue, bday.Value,
			config.LogKeyError, err)
		return cycles.BirthProfile{}, false
	}

	// Name Strategy: FN (Formatted) > N (Structured) > Fallback
	p.Name = config.FallbackName
	if fn := card.Get(config.VCardFN); fn != nil && strings.TrimSpace(fn.Value) != "" {
		p.Name = strings.TrimSpace(fn.Value)
	} else if n := card.Name(); n != nil {
		if full := strings.TrimSpace(n.GivenName + " " + n.FamilyName); full != "" {
			p.Name = full
		}
	}

	if place := card.Get(config.VCardBirthPlace); place != nil {
		p.Place = strings.TrimSpace(place.Value)
	}
	return p, true
}

// parseBirth handles the vCard BDAY formats. Readings need the birth year, so
// truncated dates are rejected with ErrYearUnknown.
func parseBirth(value string) (cycles.BirthProfile, error) {
	value = strings.TrimSpace(value)

	formatsWithTime := []string{
		config.DateFormatRFC3339,
		config.DateFormatFullT,
		config.DateFormatFullTM,
		config.DateFormatBasicTZ,
		config.DateFormatBasicT,
		config.DateFormatBasicTM,
	}
	for _, f := range formatsWithTime {
		if t, err := time.Parse(f, value); err == nil {
			// Keep the wall clock as written, whatever the offset.
			return cycles.BirthProfile{
				Date:      civilDate(t),
				Hour:      t.Hour(),
				Minute:    t.Minute(),
				TimeKnown: true,
			}, nil
		}
	}

	for _, f := range []string{config.DateFormatFullDash, config.DateFormatFullBasic} {
		if t, err := time.Parse(f, value); err == nil {
			return cycles.BirthProfile{Date: civilDate(t)}, nil
		}
	}

	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if _, err := time.Parse(f, value); err == nil {
			return cycles.BirthProfile{}, errors.New(config.ErrYearUnknown)
		}
	}

	return cycles.BirthProfile{}, errors.New(config.ErrDateParse)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// generateCalendar constructs the iCalendar object from the collected profiles.
func (g *Generator) generateCalendar(ctx context.Context, entries []ProfileEntry, cfg SyncConfig, stats *syncStats) ([]byte, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()

	calName := g.CalendarName
	if calName == "" {
		calName = config.ICalCalName
	}

	// Set standard iCalendar headers
	setCalendarText(cal.Props, config.PropVersion, config.ICalVersion)
	setCalendarText(cal.Props, config.PropProdid, config.ICalProdid)
	setCalendarText(cal.Props, config.PropXWRCalName, calName)
	setCalendarText(cal.Props, config.PropCalScale, config.ICalScale)
	setCalendarText(cal.Props, config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval (Standardized in config)
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	// RFC 7986 requires the explicit VALUE=DURATION parameter.
	refreshProp.Params.Set(ical.ParamValue, string(ical.ValueDuration))
	cal.Props.Set(refreshProp)

	// "Today" is the local calendar date; DTSTAMP stays in UTC.
	now := g.Clock.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, e := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		birth := e.Profile.BirthDateIn(loc)
		for offset := -1; offset <= cfg.ForecastDays; offset++ {
			day := today.AddDate(0, 0, offset)
			// Guard: no readings before the person is born.
			if day.Before(birth) {
				continue
			}
			event := g.dayEvent(e, day)
			event.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, event.Component)
		}
	}

	if cfg.OrganClock {
		// Organ events carry TZID=loc, which needs a matching VTIMEZONE.
		if loc != time.UTC {
			cal.Children = append(cal.Children, timezoneComponent(loc, today.Year()))
		}
		for _, w := range cycles.OrganSchedule() {
			event := g.organEvent(w, today)
			event.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, event.Component)
		}
	}

	stats.events = len(cal.Events())

	// Handle case where no events are found.
	if len(cal.Children) == 0 {
		var buf bytes.Buffer
		// Use the constant stub to ensure a valid VCALENDAR is returned even if empty.
		// This prevents clients from flagging the feed as invalid.
		buf.WriteString(config.StubVCalendar)
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// setCalendarText sets an escaped text property without the VALUE=TEXT
// parameter go-ical adds to properties it has no default type for.
func setCalendarText(props ical.Props, name, text string) {
	prop := ical.NewProp(name)
	prop.SetText(text)
	prop.Params.Del(ical.ParamValue)
	props.Set(prop)
}

// dayEvent is the all-day biorhythm event of one profile on one day.
func (g *Generator) dayEvent(e ProfileEntry, day time.Time) *ical.Event {
	reading := cycles.Read(e.Profile, day)

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, e.UID, day.Format(config.FormatUIDDay), config.ICalDomain))

	pct := reading.Percent
	summary := fmt.Sprintf(config.FallbackBiorhythm, e.Profile.Name, pct.Physical, pct.Emotional, pct.Intellectual)
	if g.FormatSummary != nil {
		summary = g.FormatSummary(e.Profile.Name, pct)
	}
	event.Props.SetText(config.PropSummary, summary)

	z := reading.Zodiac
	description := fmt.Sprintf(config.FallbackDescription, z.Sign, z.Element, z.Quality, reading.Description, pct.Physical, pct.Emotional, pct.Intellectual)
	if g.FormatDescription != nil {
		description = g.FormatDescription(reading)
	}
	event.Props.SetText(config.PropDescription, description)
	event.Props.SetText(config.PropCategories, config.CategoryBiorhythm)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(day)
	event.Props.Set(dtStartProp)

	return event
}

// organEvent is a daily-recurring event covering one organ window.
func (g *Generator) organEvent(w cycles.OrganWindow, today time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatOrganUID, w.StartHour, config.ICalDomain))

	summary := fmt.Sprintf(config.FallbackOrgan, w.Organ)
	description := w.Organ.Function()
	if g.FormatOrgan != nil {
		summary, description = g.FormatOrgan(w.Organ)
	}
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropDescription, description)
	event.Props.SetText(config.PropCategories, config.CategoryOrgan)

	start := time.Date(today.Year(), today.Month(), today.Day(), w.StartHour, 0, 0, 0, today.Location())
	end := start.Add(time.Duration(w.Hours()) * time.Hour)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDateTime(start)
	event.Props.Set(dtStartProp)

	dtEndProp := ical.NewProp(config.PropDTEnd)
	dtEndProp.SetDateTime(end)
	event.Props.Set(dtEndProp)

	// Set the rule manually to keep it unescaped
	rrule := ical.NewProp(config.PropRRule)
	rrule.Value = config.ICalRRule
	event.Props.Set(rrule)

	return event
}

// logSuccess logs the final statistics of the generation process.
func (g *Generator) logSuccess(stats syncStats) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.cards),
			slog.Int(config.LogKeyProfiles, stats.profiles),
			slog.Int(config.LogKeyEvents, stats.events),
		),
	)
}
