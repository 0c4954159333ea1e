package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// It is used by the Generator to determine "today" and the forecast window.
// clockwork.Clock satisfies it; production passes clockwork.NewRealClock().
type Clock interface {
	Now() time.Time
}
