package cycles_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-timeturner/internal/cycles"
)

var birth = time.Date(1991, time.August, 13, 0, 0, 0, 0, time.UTC)

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

func TestBiorhythm_ZeroOnBirthDay(t *testing.T) {
	for _, period := range []int{cycles.PhysicalPeriod, cycles.EmotionalPeriod, cycles.IntellectualPeriod, 7} {
		assert.Zero(t, cycles.Biorhythm(birth, birth, period), "period %d", period)
	}
}

func TestBiorhythm_PeakAtQuarterPeriod(t *testing.T) {
	// 28 and 4 divide evenly by four, so the quarter falls on a whole day.
	for _, period := range []int{cycles.EmotionalPeriod, 4, 100} {
		got := cycles.Biorhythm(birth, birth.Add(days(period/4)), period)
		assert.InDelta(t, 1.0, got, 1e-9, "period %d", period)
	}
}

func TestBiorhythm_Periodic(t *testing.T) {
	for _, c := range cycles.Cycles() {
		p := c.Period()
		for _, offset := range []int{-400, -5, 0, 1, 17, 12345} {
			d := birth.Add(days(offset))
			a := cycles.Biorhythm(birth, d, p)
			b := cycles.Biorhythm(birth, d.Add(days(p)), p)
			assert.InDelta(t, a, b, 1e-9, "cycle %s offset %d", c, offset)
		}
	}
}

func TestBiorhythm_BeforeBirth(t *testing.T) {
	got := cycles.Biorhythm(birth, birth.Add(-days(7)), cycles.EmotionalPeriod)
	assert.InDelta(t, -1.0, got, 1e-9)
}

func TestBiorhythm_NonPositivePeriod(t *testing.T) {
	assert.Zero(t, cycles.Biorhythm(birth, birth.Add(days(3)), 0))
	assert.Zero(t, cycles.Biorhythm(birth, birth.Add(days(3)), -23))
}

func TestDayDelta_Floors(t *testing.T) {
	tests := []struct {
		name string
		eval time.Time
		want int
	}{
		{"same instant", birth, 0},
		{"one hour later", birth.Add(time.Hour), 0},
		{"almost a week", birth.Add(days(7) - time.Minute), 6},
		{"exactly a week", birth.Add(days(7)), 7},
		{"one hour before", birth.Add(-time.Hour), -1},
		{"a day and a bit before", birth.Add(-days(1) - time.Hour), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cycles.DayDelta(birth, tt.eval))
		})
	}
}

func TestBiorhythmFor_MatchesSingleCycles(t *testing.T) {
	eval := birth.Add(days(11000) + 5*time.Hour)
	r := cycles.BiorhythmFor(birth, eval)

	for _, c := range cycles.Cycles() {
		want := cycles.Biorhythm(birth, eval, c.Period())
		assert.InDelta(t, want, r.Value(c), 1e-12, "cycle %s", c)
		assert.GreaterOrEqual(t, r.Value(c), -1.0)
		assert.LessOrEqual(t, r.Value(c), 1.0)
	}
	assert.Zero(t, r.Value(cycles.Cycle("spiritual")))
	assert.Zero(t, cycles.Cycle("spiritual").Period())
}

func TestPercent_Rounding(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1, 100},
		{-1, -100},
		{0.456, 46},
		{0.454, 45},
		{-0.004, 0},
		{-0.0051, -1},
		{0.125, 13},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cycles.Percent(tt.in), "Percent(%v)", tt.in)
	}
}

func TestBiorhythmReading_Percentages(t *testing.T) {
	r := cycles.BiorhythmReading{Physical: 0.5, Emotional: -0.25, Intellectual: 1}
	assert.Equal(t, cycles.BiorhythmPercent{Physical: 50, Emotional: -25, Intellectual: 100}, r.Percentages())
}
