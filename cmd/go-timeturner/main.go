package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/tartampluch/go-timeturner/internal/app"
	"github.com/tartampluch/go-timeturner/internal/config"
	"github.com/tartampluch/go-timeturner/internal/observability"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	settingsPath := flag.String(config.FlagConfig, "", config.FlagDescConfig)
	once := flag.Bool(config.FlagOnce, false, config.FlagDescOnce)
	storePassword := flag.Bool(config.FlagStorePassword, false, config.FlagDescStorePassword)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// We configure structured logging (slog) early to capture startup issues.
	// Stdout is reserved for the JSON document in one-shot mode.
	var console io.Writer = os.Stdout
	if *once {
		console = os.Stderr
	}
	logCloser := setupLogging(console, *debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	var err error
	switch {
	case *storePassword:
		err = runStorePassword(*settingsPath, os.Stdin)
	case *once:
		err = runOnce(ctx, *settingsPath, os.Stdout)
	default:
		err = run(ctx, *settingsPath)
	}
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	return config.ExitCodeSuccess
}

// loadSettings resolves the settings path and reads the file.
func loadSettings(path string) (string, *config.Settings, error) {
	if path == "" {
		p, err := config.DefaultSettingsPath()
		if err != nil {
			return "", nil, err
		}
		path = p
	}
	s, err := config.LoadSettings(path)
	if err != nil {
		return "", nil, err
	}
	return path, s, nil
}

// run wires dependencies and serves until the context is cancelled.
// SIGHUP reloads the settings file.
func run(ctx context.Context, settingsPath string) error {
	path, settings, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}

	a := app.New(path, settings, clockwork.NewRealClock(), observability.NewMetrics())

	hup := make(chan os.Signal, config.ChannelBufferSize)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := a.Reload(); err != nil {
					slog.Error(config.ErrSettingsRead,
						config.LogKeyComponent, config.CompMain,
						config.LogKeyError, err,
					)
				}
			}
		}
	}()

	return a.Run(ctx)
}

// runOnce prints the current readings as JSON.
func runOnce(ctx context.Context, settingsPath string, out io.Writer) error {
	path, settings, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}

	a := app.New(path, settings, clockwork.NewRealClock(), observability.NewMetrics())
	readings, err := a.Readings(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(readings)
}

// runStorePassword reads one line from in and stores it for the configured web user.
func runStorePassword(settingsPath string, in io.Reader) error {
	_, settings, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}
	user := settings.Source.WebUser
	if user == "" {
		return errors.New(config.ErrWebUserEmpty)
	}

	fmt.Fprintf(os.Stderr, config.MsgPasswordPrompt, user)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", config.ErrPasswordRead, err)
	}

	if err := app.StorePassword(user, strings.TrimRight(line, "\r\n")); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, config.MsgPasswordStored, user)
	return nil
}

// printVersion outputs the build information to stdout and exits.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(console io.Writer, debugMode bool) io.Closer {
	var logFile *os.File
	writers := []io.Writer{console}

	// Attempt to set up a file writer in the user's cache directory.
	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		// Use centralized permission constants for security.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
