package engine

import (
	"crypto/sha256"
	"fmt"

	"github.com/tartampluch/go-timeturner/internal/config"
	"github.com/tartampluch/go-timeturner/internal/cycles"
)

// Profile sources reported in ProfileEntry.Source.
const (
	SourceSettings = "settings"
	SourceVCard    = "vcard"
)

// ProfileEntry is a birth profile plus the bookkeeping the server and the
// calendar need.
type ProfileEntry struct {
	// UID is a unique identifier (hash) used for stable event UIDs.
	UID string `json:"uid"`

	// Source tells whether the profile came from the settings file or a vCard.
	Source string `json:"source"`

	Profile cycles.BirthProfile `json:"profile"`
}

// NewProfileEntry derives a deterministic UID from the name and birth date.
func NewProfileEntry(p cycles.BirthProfile, source string) ProfileEntry {
	input := fmt.Sprintf(config.FormatHashInput, p.Name, p.Date.Format(config.DateFormatFullDash), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return ProfileEntry{
		UID:     fmt.Sprintf("%x", hash[:config.UIDHashLength]),
		Source:  source,
		Profile: p,
	}
}
