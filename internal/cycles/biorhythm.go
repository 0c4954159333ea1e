package cycles

import (
	"math"
	"time"
)

// Cycle names one of the three biorhythm waves.
type Cycle string

const (
	Physical     Cycle = "physical"
	Emotional    Cycle = "emotional"
	Intellectual Cycle = "intellectual"
)

// Cycle lengths in days.
const (
	PhysicalPeriod     = 23
	EmotionalPeriod    = 28
	IntellectualPeriod = 33
)

const day = 24 * time.Hour

// Cycles lists the waves in display order.
func Cycles() []Cycle {
	return []Cycle{Physical, Emotional, Intellectual}
}

// Period returns the length of the cycle in days, or 0 for an unknown cycle.
func (c Cycle) Period() int {
	switch c {
	case Physical:
		return PhysicalPeriod
	case Emotional:
		return EmotionalPeriod
	case Intellectual:
		return IntellectualPeriod
	default:
		return 0
	}
}

// BiorhythmReading holds the three wave values, each in [-1, 1].
type BiorhythmReading struct {
	Physical     float64 `json:"physical"`
	Emotional    float64 `json:"emotional"`
	Intellectual float64 `json:"intellectual"`
}

// Value returns the reading for c.
func (r BiorhythmReading) Value(c Cycle) float64 {
	switch c {
	case Physical:
		return r.Physical
	case Emotional:
		return r.Emotional
	case Intellectual:
		return r.Intellectual
	default:
		return 0
	}
}

// Percentages returns the display values of the reading.
func (r BiorhythmReading) Percentages() BiorhythmPercent {
	return BiorhythmPercent{
		Physical:     Percent(r.Physical),
		Emotional:    Percent(r.Emotional),
		Intellectual: Percent(r.Intellectual),
	}
}

// BiorhythmPercent is a BiorhythmReading scaled to whole percentages.
type BiorhythmPercent struct {
	Physical     int `json:"physical"`
	Emotional    int `json:"emotional"`
	Intellectual int `json:"intellectual"`
}

// DayDelta is the number of whole days from birth to eval, floored. It is
// negative when eval precedes birth.
func DayDelta(birth, eval time.Time) int {
	return int(math.Floor(float64(eval.Sub(birth)) / float64(day)))
}

// Biorhythm returns sin(2π·days/periodDays) where days is DayDelta(birth, eval).
// A non-positive period yields 0.
func Biorhythm(birth, eval time.Time, periodDays int) float64 {
	if periodDays <= 0 {
		return 0
	}
	return wave(DayDelta(birth, eval), periodDays)
}

// BiorhythmFor evaluates all three cycles at once.
func BiorhythmFor(birth, eval time.Time) BiorhythmReading {
	days := DayDelta(birth, eval)
	return BiorhythmReading{
		Physical:     wave(days, PhysicalPeriod),
		Emotional:    wave(days, EmotionalPeriod),
		Intellectual: wave(days, IntellectualPeriod),
	}
}

func wave(days, period int) float64 {
	return math.Sin(2 * math.Pi * float64(days) / float64(period))
}

// Percent scales v to a whole percentage. Halves round up (towards +Inf) so
// that -0.5% reads as 0, not -1.
func Percent(v float64) int {
	return int(math.Floor(v*100 + 0.5))
}
