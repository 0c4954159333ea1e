package locale_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-timeturner/internal/cycles"
	"github.com/tartampluch/go-timeturner/internal/locale"
)

func TestNew_LanguageSelection(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"fr", "fr"},
		{"fr-CA", "fr"},
		{"en-GB", "en"},
		{"de", "en"},
		{"", "en"},
		{"not a tag!", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, locale.New(tt.in).Language())
		})
	}
}

func TestLanguages(t *testing.T) {
	assert.ElementsMatch(t, []string{"en", "fr"}, locale.New("en").Languages())
}

func TestNames(t *testing.T) {
	en := locale.New("en")
	fr := locale.New("fr")

	assert.Equal(t, "Leo", en.Sign(cycles.Leo))
	assert.Equal(t, "Lion", fr.Sign(cycles.Leo))
	assert.Equal(t, "Feu", fr.Element(cycles.Fire))
	assert.Equal(t, "Fixe", fr.Quality(cycles.Fixed))
	assert.Equal(t, "Large Intestine", en.Organ(cycles.LargeIntestine))
	assert.Equal(t, "Gros intestin", fr.Organ(cycles.LargeIntestine))
	assert.Equal(t, cycles.Liver.Function(), en.OrganFunction(cycles.Liver))
	assert.Equal(t, "Emotional", en.Cycle(cycles.Emotional))
	assert.Equal(t, "Physique", fr.Cycle(cycles.Physical))
	assert.Equal(t, "Time Turner", en.CalendarName())
	assert.Equal(t, cycles.Pisces.Description(), en.SignDescription(cycles.Pisces))
	assert.Equal(t, "Compatissant, artiste et intuitif", fr.SignDescription(cycles.Pisces))
}

func TestMsg_MissingKey(t *testing.T) {
	assert.Equal(t, "fallback", locale.New("en").Msg("no_such_key", "fallback"))
}

func TestFormatSummary(t *testing.T) {
	pct := cycles.BiorhythmPercent{Physical: 10, Emotional: -5, Intellectual: 100}

	assert.Equal(t, "Ada: P 10% E -5% I 100%", locale.New("en").FormatSummary("Ada", pct))
	assert.Equal(t, "Ada : P 10% É -5% I 100%", locale.New("fr").FormatSummary("Ada", pct))
}

func TestFormatDescription(t *testing.T) {
	p, err := cycles.ParseBirthProfile("Ada", "1991-08-13", "", "")
	require.NoError(t, err)
	r := cycles.Read(p, time.Date(1991, 8, 20, 12, 0, 0, 0, time.UTC))

	en := locale.New("en").FormatDescription(r)
	assert.Contains(t, en, "Leo (Fire, Fixed): Confident, dramatic, and generous.")
	assert.Contains(t, en, "Day 7")
	assert.Contains(t, en, "Emotional 100%")

	fr := locale.New("fr").FormatDescription(r)
	assert.Contains(t, fr, "Lion (Feu, Fixe) : Confiant, théâtral et généreux.")
	assert.Contains(t, fr, "Jour 7")
}

func TestFormatOrgan(t *testing.T) {
	summary, desc := locale.New("en").FormatOrgan(cycles.Liver)
	assert.Equal(t, "Liver meridian", summary)
	assert.Equal(t, "Liver: Detoxification & Planning", desc)

	summary, desc = locale.New("fr").FormatOrgan(cycles.TripleBurner)
	assert.Equal(t, "Méridien : Triple réchauffeur", summary)
	assert.Equal(t, "Triple réchauffeur : Température et liquides", desc)
}
