// Package app wires settings, the sync worker and the HTTP server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tartampluch/go-timeturner/internal/config"
	"github.com/tartampluch/go-timeturner/internal/cycles"
	"github.com/tartampluch/go-timeturner/internal/engine"
	"github.com/tartampluch/go-timeturner/internal/locale"
	"github.com/tartampluch/go-timeturner/internal/observability"
	"github.com/tartampluch/go-timeturner/internal/server"
	"github.com/zalando/go-keyring"
)

// App owns the running services and the current configuration.
type App struct {
	Server  *server.CalendarServer
	Fetcher engine.VCardFetcher
	Clock   clockwork.Clock // Injected clock for testability (e.g. mocking time travel)
	Metrics *observability.Metrics

	settingsPath string

	mu         sync.RWMutex
	settings   *config.Settings
	translator *locale.Translator

	configChan chan struct{}
}

// New constructs the application and wires dependencies.
func New(settingsPath string, settings *config.Settings, clock clockwork.Clock, metrics *observability.Metrics) *App {
	return &App{
		Server:       server.NewCalendarServer(settings.Port, clock, metrics),
		Fetcher:      engine.NewHTTPFetcher(),
		Clock:        clock,
		Metrics:      metrics,
		settingsPath: settingsPath,
		settings:     settings,
		translator:   locale.New(settings.Language),
		configChan:   make(chan struct{}, config.ChannelBufferSize),
	}
}

// Run starts the HTTP server and the refresh worker, and blocks until ctx is
// cancelled or the server fails to start.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.backgroundWorker(ctx)
	}()

	err := a.Server.Start(ctx)
	cancel()
	wg.Wait()

	if err != nil {
		return err
	}
	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompApp)
	return nil
}

// Settings returns the active configuration. Callers must not modify it.
func (a *App) Settings() *config.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

func (a *App) snapshot() (*config.Settings, *locale.Translator) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings, a.translator
}

// Reconfigure swaps the settings and wakes the worker, which resyncs and
// adjusts its interval. The listening port only changes on restart.
func (a *App) Reconfigure(s *config.Settings) {
	a.mu.Lock()
	old := a.settings
	a.settings = s
	if old == nil || old.Language != s.Language {
		a.translator = locale.New(s.Language)
	}
	a.mu.Unlock()

	select {
	case a.configChan <- struct{}{}:
	default:
	}
}

// Reload re-reads the settings file and applies it.
func (a *App) Reload() error {
	slog.Info(config.MsgReload,
		config.LogKeyComponent, config.CompApp,
		config.LogKeyPath, a.settingsPath,
	)
	s, err := config.LoadSettings(a.settingsPath)
	if err != nil {
		return err
	}
	a.Reconfigure(s)
	return nil
}

// Readings runs one collection pass and returns the reading of every profile
// at the current instant.
func (a *App) Readings(ctx context.Context) ([]cycles.Reading, error) {
	s, tr := a.snapshot()
	cfg, err := a.loadSyncConfig(s)
	if err != nil {
		return nil, err
	}
	_, entries, err := a.generator(tr).RunSync(ctx, cfg)
	if err != nil {
		return nil, err
	}

	now := a.Clock.Now().In(cfg.Location)
	out := make([]cycles.Reading, 0, len(entries))
	for _, e := range entries {
		out = append(out, cycles.Read(e.Profile, now))
	}
	return out, nil
}

// backgroundWorker manages the periodic synchronization schedule.
func (a *App) backgroundWorker(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	_ = a.performSync(ctx)

	var ticker clockwork.Ticker
	var tick <-chan time.Time
	current := a.Settings().RefreshInterval()
	if current > 0 {
		ticker = a.Clock.NewTicker(current)
		tick = ticker.Chan()
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, current)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-a.configChan:
			next := a.Settings().RefreshInterval()
			if next != current {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, current, config.LogKeyNew, next)
				current = next
				switch {
				case next <= 0 && ticker != nil:
					ticker.Stop()
					ticker, tick = nil, nil
				case next > 0 && ticker == nil:
					ticker = a.Clock.NewTicker(next)
					tick = ticker.Chan()
				case next > 0:
					ticker.Reset(next)
				}
			}
			_ = a.performSync(ctx)

		case <-tick:
			_ = a.performSync(ctx)
		}
	}
}

// performSync executes the pipeline (collect -> render -> publish).
func (a *App) performSync(ctx context.Context) error {
	slog.Info(config.MsgSyncReq, config.LogKeyComponent, config.CompApp)
	start := a.Clock.Now()

	s, tr := a.snapshot()
	cfg, err := a.loadSyncConfig(s)
	if err == nil {
		var ics []byte
		var entries []engine.ProfileEntry
		ics, entries, err = a.generator(tr).RunSync(ctx, cfg)
		if err == nil {
			a.Server.SetLocation(cfg.Location)
			a.Server.UpdateProfiles(entries)
			a.Server.Update(ics)
			a.Metrics.Profiles.Set(float64(len(entries)))
		}
	}

	a.Metrics.SyncDuration.Observe(a.Clock.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error(config.MsgSyncFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompApp)
		}
		a.Metrics.SyncRuns.WithLabelValues(observability.OutcomeError).Inc()
		return err
	}
	a.Metrics.SyncRuns.WithLabelValues(observability.OutcomeSuccess).Inc()
	return nil
}

func (a *App) generator(tr *locale.Translator) *engine.Generator {
	return &engine.Generator{
		Clock:             a.Clock,
		Fetcher:           a.Fetcher,
		FormatSummary:     tr.FormatSummary,
		FormatDescription: tr.FormatDescription,
		FormatOrgan:       tr.FormatOrgan,
		CalendarName:      tr.CalendarName(),
	}
}

// loadSyncConfig assembles the engine configuration from the settings and the keyring.
func (a *App) loadSyncConfig(s *config.Settings) (engine.SyncConfig, error) {
	profiles, err := s.BirthProfiles()
	if err != nil {
		return engine.SyncConfig{}, err
	}
	loc, err := s.Location()
	if err != nil {
		return engine.SyncConfig{}, err
	}

	cfg := engine.SyncConfig{
		Mode:         s.Source.Mode,
		LocalPath:    s.Source.LocalPath,
		WebURL:       s.Source.WebURL,
		WebUser:      s.Source.WebUser,
		Profiles:     profiles,
		ForecastDays: s.ForecastDays,
		OrganClock:   s.OrganClock,
		Location:     loc,
	}

	if cfg.Mode == config.SourceModeWeb && cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompApp)
		}
	}

	return cfg, nil
}

// StorePassword saves the web source password in the OS keyring.
func StorePassword(user, password string) error {
	if user == "" {
		return errors.New(config.ErrWebUserEmpty)
	}
	if err := keyring.Set(config.KeyringService, user, password); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringStore, err)
	}
	return nil
}
