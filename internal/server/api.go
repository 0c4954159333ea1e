package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tartampluch/go-timeturner/internal/config"
	"github.com/tartampluch/go-timeturner/internal/cycles"
	"github.com/tartampluch/go-timeturner/internal/engine"
)

type errorResponse struct {
	Error string `json:"error"`
}

type organSlot struct {
	cycles.OrganWindow
	Glyph    string `json:"glyph"`
	Function string `json:"function"`
}

type organsResponse struct {
	At         time.Time    `json:"at"`
	Current    cycles.Organ `json:"current"`
	Next       cycles.Organ `json:"next"`
	NextChange time.Time    `json:"next_change"`
	Schedule   []organSlot  `json:"schedule"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// handleReadings returns the live reading of every loaded profile, or of the
// one named by ?name= (case-insensitive).
func (s *CalendarServer) handleReadings(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	var entries []engine.ProfileEntry
	if p := s.profiles.Load(); p != nil {
		entries = *p
	}

	name := strings.TrimSpace(r.URL.Query().Get(config.QueryName))
	now := s.now()

	readings := make([]cycles.Reading, 0, len(entries))
	for _, e := range entries {
		if name != "" && !strings.EqualFold(e.Profile.Name, name) {
			continue
		}
		readings = append(readings, cycles.Read(e.Profile, now))
	}

	if name != "" && len(readings) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: config.ErrProfileNotFound})
		return
	}
	writeJSON(w, http.StatusOK, readings)
}

// handleCalculate computes an ad-hoc reading from ?date=YYYY-MM-DD[&time=HH:MM].
func (s *CalendarServer) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	q := r.URL.Query()
	p, err := cycles.ParseBirthProfile(q.Get(config.QueryName), q.Get(config.QueryDate), q.Get(config.QueryTime), "")
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, cycles.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, cycles.Read(p, s.now()))
}

// handleOrgans returns the current organ and the daily schedule.
func (s *CalendarServer) handleOrgans(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	now := s.now()
	next, change := cycles.NextOrgan(now)

	windows := cycles.OrganSchedule()
	schedule := make([]organSlot, len(windows))
	for i, win := range windows {
		schedule[i] = organSlot{
			OrganWindow: win,
			Glyph:       win.Organ.Glyph(),
			Function:    win.Organ.Function(),
		}
	}

	writeJSON(w, http.StatusOK, organsResponse{
		At:         now,
		Current:    cycles.OrganFor(now),
		Next:       next,
		NextChange: change,
		Schedule:   schedule,
	})
}
