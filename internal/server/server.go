package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-timeturner/internal/config"
	"github.com/tartampluch/go-timeturner/internal/engine"
	"github.com/tartampluch/go-timeturner/internal/observability"
)

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// CalendarServer serves the generated ICS feed and the live readings API.
type CalendarServer struct {
	// cache uses atomic.Pointer for lock-free reads.
	// Since the calendar is read frequently by clients but updated infrequently
	// (only on sync), this provides better performance than a RWMutex
	// by eliminating contention on the hot path (HTTP GET).
	cache    atomic.Pointer[cacheItem]
	profiles atomic.Pointer[[]engine.ProfileEntry]
	location atomic.Pointer[time.Location]

	Port    string
	clock   engine.Clock
	metrics *observability.Metrics
}

// NewCalendarServer creates a new instance of the server. metrics may be nil.
func NewCalendarServer(port string, clock engine.Clock, metrics *observability.Metrics) *CalendarServer {
	s := &CalendarServer{
		Port:    port,
		clock:   clock,
		metrics: metrics,
	}
	s.location.Store(time.UTC)
	return s
}

// Handler returns the routing table of the server.
func (s *CalendarServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot+"{$}", s.instrument(config.RouteCalendar, s.handleCalendarRequest))
	mux.HandleFunc(config.RouteCalendar, s.instrument(config.RouteCalendar, s.handleCalendarRequest))
	mux.HandleFunc(config.RouteReadings, s.instrument(config.RouteReadings, s.handleReadings))
	mux.HandleFunc(config.RouteCalculate, s.instrument(config.RouteCalculate, s.handleCalculate))
	mux.HandleFunc(config.RouteOrgans, s.instrument(config.RouteOrgans, s.handleOrgans))
	mux.Handle(config.RouteMetrics, promhttp.Handler())
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		// Use defined constant for separator
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served content.
func (s *CalendarServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	// Use centralized format string for ETag consistency.
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	lastMod := s.clock.Now().UTC().Format(http.TimeFormat)

	item := &cacheItem{
		data:         data,
		etag:         etag,
		lastModified: lastMod,
	}

	// Atomic store ensures that any concurrent reader sees either the old or the new complete item,
	// never a partial state.
	s.cache.Store(item)

	if s.metrics != nil {
		s.metrics.CalendarSize.Set(float64(len(data)))
	}

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// UpdateProfiles atomically replaces the profiles served by the readings API.
func (s *CalendarServer) UpdateProfiles(entries []engine.ProfileEntry) {
	cp := make([]engine.ProfileEntry, len(entries))
	copy(cp, entries)
	s.profiles.Store(&cp)

	slog.Debug(config.MsgProfilesLoaded,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyProfiles, len(cp),
	)
}

// SetLocation sets the zone live readings are computed in. Nil means UTC.
func (s *CalendarServer) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	s.location.Store(loc)
}

func (s *CalendarServer) now() time.Time {
	return s.clock.Now().In(s.location.Load())
}

// allowRead rejects anything but GET and HEAD. It reports whether the
// request may proceed.
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set(config.HeaderAllow, config.AllowedMethods)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	return false
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *CalendarServer) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	// 1. Method Validation
	if !allowRead(w, r) {
		return
	}

	// 2. Load Data (Atomic / Lock-Free)
	item := s.cache.Load()

	// 3. Readiness Check
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	// 4. Set Response Headers
	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	// 5. Check Conditional Headers (Browser Caching)
	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				// If server content is not newer than client cache, return 304.
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	// 6. Serve Content
	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// instrument counts requests per route and status code.
func (s *CalendarServer) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	if s.metrics == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.APIRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
