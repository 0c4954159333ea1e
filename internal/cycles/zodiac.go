package cycles

import (
	"fmt"
	"time"
)

// Sign is one of the twelve tropical zodiac signs.
type Sign string

const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

// Element is the classical element attached to a sign.
type Element string

const (
	Fire  Element = "Fire"
	Earth Element = "Earth"
	Air   Element = "Air"
	Water Element = "Water"
)

// Quality (or modality) of a sign.
type Quality string

const (
	Cardinal Quality = "Cardinal"
	Fixed    Quality = "Fixed"
	Mutable  Quality = "Mutable"
)

// ZodiacInfo describes a sign together with its element and quality.
type ZodiacInfo struct {
	Sign    Sign    `json:"sign"`
	Element Element `json:"element"`
	Quality Quality `json:"quality"`
}

// signMeta holds the presentation data the clock face shows next to a sign.
type signMeta struct {
	info        ZodiacInfo
	symbol      string
	description string
}

var signs = map[Sign]signMeta{
	Aries:       {ZodiacInfo{Aries, Fire, Cardinal}, "♈", "Dynamic, energetic, and pioneering"},
	Taurus:      {ZodiacInfo{Taurus, Earth, Fixed}, "♉", "Stable, practical, and determined"},
	Gemini:      {ZodiacInfo{Gemini, Air, Mutable}, "♊", "Versatile, expressive, and curious"},
	Cancer:      {ZodiacInfo{Cancer, Water, Cardinal}, "♋", "Nurturing, intuitive, and protective"},
	Leo:         {ZodiacInfo{Leo, Fire, Fixed}, "♌", "Confident, dramatic, and generous"},
	Virgo:       {ZodiacInfo{Virgo, Earth, Mutable}, "♍", "Analytical, practical, and diligent"},
	Libra:       {ZodiacInfo{Libra, Air, Cardinal}, "♎", "Harmonious, diplomatic, and fair"},
	Scorpio:     {ZodiacInfo{Scorpio, Water, Fixed}, "♏", "Intense, passionate, and transformative"},
	Sagittarius: {ZodiacInfo{Sagittarius, Fire, Mutable}, "♐", "Adventurous, optimistic, and philosophical"},
	Capricorn:   {ZodiacInfo{Capricorn, Earth, Cardinal}, "♑", "Ambitious, disciplined, and patient"},
	Aquarius:    {ZodiacInfo{Aquarius, Air, Fixed}, "♒", "Progressive, original, and humanitarian"},
	Pisces:      {ZodiacInfo{Pisces, Water, Mutable}, "♓", "Compassionate, artistic, and intuitive"},
}

// zodiacRange bounds are encoded as month*100+day, inclusive on both ends.
type zodiacRange struct {
	sign       Sign
	start, end int
}

// zodiacRanges partition the calendar year. Capricorn is the only range whose
// start is greater than its end; it wraps across New Year.
var zodiacRanges = []zodiacRange{
	{Capricorn, 1222, 119},
	{Aquarius, 120, 218},
	{Pisces, 219, 320},
	{Aries, 321, 419},
	{Taurus, 420, 520},
	{Gemini, 521, 620},
	{Cancer, 621, 722},
	{Leo, 723, 822},
	{Virgo, 823, 922},
	{Libra, 923, 1022},
	{Scorpio, 1023, 1121},
	{Sagittarius, 1122, 1221},
}

// Signs lists the twelve signs in calendar order starting with Capricorn.
func Signs() []Sign {
	out := make([]Sign, len(zodiacRanges))
	for i, r := range zodiacRanges {
		out[i] = r.sign
	}
	return out
}

// Zodiac returns the sign for the calendar date of t, read in t's location.
func Zodiac(t time.Time) ZodiacInfo {
	return ZodiacForMonthDay(t.Month(), t.Day())
}

// ZodiacForMonthDay returns the sign covering the given month and day.
func ZodiacForMonthDay(month time.Month, day int) ZodiacInfo {
	md := int(month)*100 + day
	for _, r := range zodiacRanges {
		if r.contains(md) {
			return signs[r.sign].info
		}
	}
	return signs[Capricorn].info
}

// ParseZodiac parses an ISO date (2006-01-02) and returns its sign.
func ParseZodiac(value string) (ZodiacInfo, error) {
	d, err := ParseDate(value)
	if err != nil {
		return ZodiacInfo{}, err
	}
	return Zodiac(d), nil
}

func (r zodiacRange) contains(md int) bool {
	if r.start > r.end {
		return md >= r.start || md <= r.end
	}
	return md >= r.start && md <= r.end
}

// Info returns the element and quality of s. Unknown signs yield a zero value.
func (s Sign) Info() ZodiacInfo {
	return signs[s].info
}

// Symbol returns the Unicode glyph of the sign, or "" if unknown.
func (s Sign) Symbol() string {
	return signs[s].symbol
}

// Description is a short English character sketch of the sign.
func (s Sign) Description() string {
	return signs[s].description
}

// Color is the hex color the clock face uses for an element.
func (e Element) Color() string {
	switch e {
	case Fire:
		return "#FF4D4D"
	case Earth:
		return "#8B4513"
	case Air:
		return "#87CEEB"
	case Water:
		return "#4169E1"
	default:
		return "#FFFFFF"
	}
}

func (z ZodiacInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", z.Sign, z.Element, z.Quality)
}
