package cycles

import (
	"fmt"
	"strings"
	"time"
)

// Input layouts accepted by the parsing helpers.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// BirthProfile is the immutable input to every reading.
type BirthProfile struct {
	Name string `json:"name"`

	// Date is the civil birth date at midnight UTC. Only year, month and day
	// are meaningful.
	Date time.Time `json:"date"`

	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Place  string `json:"place"`

	// TimeKnown is false when no birth time was supplied.
	TimeKnown bool `json:"time_known"`
}

// ParseDate parses an ISO calendar date. The error wraps ErrInvalidInput.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %v", ErrInvalidInput, value, err)
	}
	return d, nil
}

// ParseClock parses an HH:MM wall-clock time. The error wraps ErrInvalidInput.
func ParseClock(value string) (hour, minute int, err error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q: %v", ErrInvalidInput, value, err)
	}
	return t.Hour(), t.Minute(), nil
}

// ParseHour returns the hour of an HH:MM string.
func ParseHour(value string) (int, error) {
	h, _, err := ParseClock(value)
	return h, err
}

// ParseBirthProfile validates the raw profile fields. An empty clock leaves
// TimeKnown false; an empty date is an error.
func ParseBirthProfile(name, date, clock, place string) (BirthProfile, error) {
	d, err := ParseDate(date)
	if err != nil {
		return BirthProfile{}, err
	}
	p := BirthProfile{
		Name:  strings.TrimSpace(name),
		Date:  d,
		Place: strings.TrimSpace(place),
	}
	if strings.TrimSpace(clock) != "" {
		h, m, err := ParseClock(clock)
		if err != nil {
			return BirthProfile{}, err
		}
		p.Hour, p.Minute, p.TimeKnown = h, m, true
	}
	return p, nil
}

// IsComplete mirrors the onboarding check: name, date, time and place set.
func (p BirthProfile) IsComplete() bool {
	return p.Name != "" && !p.Date.IsZero() && p.TimeKnown && p.Place != ""
}

// Clock formats the birth time as HH:MM, or "" when it is unknown.
func (p BirthProfile) Clock() string {
	if !p.TimeKnown {
		return ""
	}
	return time.Date(0, 1, 1, p.Hour, p.Minute, 0, 0, time.UTC).Format(TimeLayout)
}

// BirthDateIn returns midnight of the birth date in loc.
func (p BirthProfile) BirthDateIn(loc *time.Location) time.Time {
	y, m, d := p.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Zodiac returns the sun sign of the profile.
func (p BirthProfile) Zodiac() ZodiacInfo {
	return ZodiacForMonthDay(p.Date.Month(), p.Date.Day())
}
