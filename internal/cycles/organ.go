package cycles

import (
	"time"
)

// Organ is one of the twelve organs of the TCM organ clock.
type Organ string

const (
	Gallbladder    Organ = "Gallbladder"
	Liver          Organ = "Liver"
	Lung           Organ = "Lung"
	LargeIntestine Organ = "Large Intestine"
	Stomach        Organ = "Stomach"
	Spleen         Organ = "Spleen"
	Heart          Organ = "Heart"
	SmallIntestine Organ = "Small Intestine"
	Bladder        Organ = "Bladder"
	Kidney         Organ = "Kidney"
	Pericardium    Organ = "Pericardium"
	TripleBurner   Organ = "Triple Burner"
)

const (
	hoursPerDay     = 24
	organMatchRange = 1
)

type organEntry struct {
	hour     int
	organ    Organ
	glyph    string
	function string
}

// organTable is searched in order; the first entry within one hour of the
// input wins. Even hours sit between two entries and take the earlier one in
// this list, so hour 22 resolves to Gallbladder rather than Triple Burner.
var organTable = []organEntry{
	{23, Gallbladder, "胆", "Decision Making"},
	{1, Liver, "肝", "Detoxification & Planning"},
	{3, Lung, "肺", "Breathing & Letting Go"},
	{5, LargeIntestine, "大腸", "Elimination"},
	{7, Stomach, "胃", "Breaking Down"},
	{9, Spleen, "脾", "Transformation"},
	{11, Heart, "心", "Joy & Circulation"},
	{13, SmallIntestine, "小腸", "Sorting & Processing"},
	{15, Bladder, "膀胱", "Storage & Release"},
	{17, Kidney, "腎", "Vitality & Willpower"},
	{19, Pericardium, "心包", "Protection & Relationships"},
	{21, TripleBurner, "三焦", "Temperature & Fluid"},
}

// Organs lists the organs in table order.
func Organs() []Organ {
	out := make([]Organ, len(organTable))
	for i, e := range organTable {
		out[i] = e.organ
	}
	return out
}

// OrganAt returns the organ active at hour (0-23). Hours outside that range
// fall back to the first table entry.
func OrganAt(hour int) Organ {
	return organTable[organIndex(hour)].organ
}

// OrganFor returns the organ active at t, read in t's location.
func OrganFor(t time.Time) Organ {
	return OrganAt(t.Hour())
}

func organIndex(hour int) int {
	for i, e := range organTable {
		if abs(e.hour-hour) <= organMatchRange {
			return i
		}
	}
	return 0
}

// Glyph returns the Chinese character(s) for the organ.
func (o Organ) Glyph() string {
	for _, e := range organTable {
		if e.organ == o {
			return e.glyph
		}
	}
	return ""
}

// Function is the short description of what the organ governs.
func (o Organ) Function() string {
	for _, e := range organTable {
		if e.organ == o {
			return e.function
		}
	}
	return ""
}

// OrganWindow is a contiguous span of hours during which one organ is active.
// EndHour is exclusive and may be 24.
type OrganWindow struct {
	Organ     Organ `json:"organ"`
	StartHour int   `json:"start_hour"`
	EndHour   int   `json:"end_hour"`
}

// Hours is the length of the window.
func (w OrganWindow) Hours() int {
	return w.EndHour - w.StartHour
}

// OrganSchedule walks hours 0-23 through OrganAt and groups consecutive hours
// that share an organ. The result is ordered by start hour and covers the day
// without gaps.
func OrganSchedule() []OrganWindow {
	var out []OrganWindow
	for h := 0; h < hoursPerDay; h++ {
		o := OrganAt(h)
		if n := len(out); n > 0 && out[n-1].Organ == o {
			out[n-1].EndHour = h + 1
			continue
		}
		out = append(out, OrganWindow{Organ: o, StartHour: h, EndHour: h + 1})
	}
	return out
}

// NextOrgan reports which organ follows the one active at t and the instant
// the change happens.
func NextOrgan(t time.Time) (Organ, time.Time) {
	current := OrganFor(t)
	top := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	for i := 1; i <= hoursPerDay; i++ {
		at := top.Add(time.Duration(i) * time.Hour)
		if o := OrganFor(at); o != current {
			return o, at
		}
	}
	return current, top.Add(hoursPerDay * time.Hour)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
