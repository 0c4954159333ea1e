package cycles

import "time"

// Reading is everything the central panel shows for one profile at one instant.
type Reading struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`

	// BirthTime is the HH:MM birth time, empty when unknown.
	BirthTime string `json:"birth_time,omitempty"`
	// Complete reports whether name, date, time and place are all set.
	Complete bool `json:"complete"`

	Zodiac       ZodiacInfo       `json:"zodiac"`
	Symbol       string           `json:"symbol"`
	Description  string           `json:"description"`
	ElementColor string           `json:"element_color"`
	DayDelta     int              `json:"days_alive"`
	Biorhythm    BiorhythmReading `json:"biorhythm"`
	Percent      BiorhythmPercent `json:"percent"`
	Organ        Organ            `json:"organ"`
	NextOrgan    Organ            `json:"next_organ"`
	NextChange   time.Time        `json:"next_change"`
}

// Read computes the reading of p at the instant at. Days are counted between
// wall-clock dates in at's location, so a daylight-saving shift never moves
// the day count.
func Read(p BirthProfile, at time.Time) Reading {
	birth := p.BirthDateIn(time.UTC)
	wall := time.Date(at.Year(), at.Month(), at.Day(), at.Hour(), at.Minute(), at.Second(), at.Nanosecond(), time.UTC)
	bio := BiorhythmFor(birth, wall)
	z := p.Zodiac()
	next, change := NextOrgan(at)
	return Reading{
		Name:         p.Name,
		At:           at,
		BirthTime:    p.Clock(),
		Complete:     p.IsComplete(),
		Zodiac:       z,
		Symbol:       z.Sign.Symbol(),
		Description:  z.Sign.Description(),
		ElementColor: z.Element.Color(),
		DayDelta:     DayDelta(birth, wall),
		Biorhythm:    bio,
		Percent:      bio.Percentages(),
		Organ:        OrganFor(at),
		NextOrgan:    next,
		NextChange:   change,
	}
}
