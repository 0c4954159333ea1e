// Package cycles computes the temporal cycles shown on the clock face:
// the zodiac sign of a calendar date, the TCM organ active at an hour of the
// day, and the three biorhythm waves keyed to days elapsed since birth.
//
// Every function here is pure. Callers pass the instant they care about;
// nothing reads the wall clock.
package cycles

import "errors"

// ErrInvalidInput is returned (wrapped) by the parsing helpers when a date or
// time string cannot be understood. The calculators themselves never fail.
var ErrInvalidInput = errors.New("invalid input")
