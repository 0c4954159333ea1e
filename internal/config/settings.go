package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // time zones must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"
	"github.com/tartampluch/go-timeturner/internal/cycles"
	"gopkg.in/yaml.v3"
)

// ProfileSettings is a birth profile as written in the settings file.
type ProfileSettings struct {
	Name       string `yaml:"name"`
	BirthDate  string `yaml:"birth_date"`
	BirthTime  string `yaml:"birth_time,omitempty"`
	BirthPlace string `yaml:"birth_place,omitempty"`
}

// SourceSettings selects where additional profiles are read from.
type SourceSettings struct {
	Mode      string `yaml:"mode,omitempty"` // SourceModeLocal, SourceModeWeb or empty
	LocalPath string `yaml:"local_path,omitempty"`
	WebURL    string `yaml:"web_url,omitempty"`
	WebUser   string `yaml:"web_user,omitempty"` // password lives in the OS keyring
}

// Settings is the persisted user configuration.
type Settings struct {
	Language       string            `yaml:"language"`
	Port           string            `yaml:"port"`
	RefreshMinutes int               `yaml:"refresh_minutes"`
	ForecastDays   int               `yaml:"forecast_days"`
	Timezone       string            `yaml:"timezone"`
	OrganClock     bool              `yaml:"organ_clock"`
	Source         SourceSettings    `yaml:"source"`
	Profiles       []ProfileSettings `yaml:"profiles"`
}

// DefaultSettings returns the configuration used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Language:       DefaultLanguage,
		Port:           DefaultPort,
		RefreshMinutes: DefaultRefreshMin,
		ForecastDays:   DefaultForecastDays,
		Timezone:       DefaultTimezone,
		OrganClock:     true,
	}
}

// DefaultSettingsPath is settings.yaml inside the user's config directory.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}

// LoadSettings reads the YAML file at path, then applies a sibling .env file
// and TIMETURNER_* environment variables on top. A missing file yields the
// defaults.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info(MsgSettingsNone, LogKeyComponent, CompSettings, LogKeyPath, path)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
		}
	}

	// The .env file is read on every load and never exported, so a reload
	// sees edits and removals. Real environment variables win over it.
	envPath := filepath.Join(filepath.Dir(path), EnvFileName)
	dotenv, err := godotenv.Read(envPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", ErrEnvFile, err)
	}

	if err := s.applyEnvOverrides(dotenv); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the settings as YAML, creating the directory if needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := os.WriteFile(path, data, FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	return nil
}

// lookupEnv returns the process variable key, or the .env entry when unset.
func lookupEnv(dotenv map[string]string, key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := dotenv[key]
	return v, ok
}

func (s *Settings) applyEnvOverrides(dotenv map[string]string) error {
	strOverrides := map[string]*string{
		EnvLanguage:   &s.Language,
		EnvPort:       &s.Port,
		EnvTimezone:   &s.Timezone,
		EnvSourceMode: &s.Source.Mode,
		EnvLocalPath:  &s.Source.LocalPath,
		EnvWebURL:     &s.Source.WebURL,
		EnvWebUser:    &s.Source.WebUser,
	}
	for key, dst := range strOverrides {
		if v, ok := lookupEnv(dotenv, key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	intOverrides := map[string]*int{
		EnvRefresh:      &s.RefreshMinutes,
		EnvForecastDays: &s.ForecastDays,
	}
	for key, dst := range intOverrides {
		v, ok := lookupEnv(dotenv, key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %s: %w", ErrSettingsParse, key, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks every field and the profiles.
func (s *Settings) Validate() error {
	if err := ValidatePort(s.Port); err != nil {
		return err
	}
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	if s.RefreshMinutes < 0 {
		return errors.New(ErrRefresh)
	}
	if s.ForecastDays < 0 || s.ForecastDays > MaxForecastDays {
		return errors.New(ErrForecastDays)
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	switch s.Source.Mode {
	case SourceModeNone:
	case SourceModeLocal:
		if s.Source.LocalPath == "" {
			return errors.New(ErrLocalPathEmpty)
		}
	case SourceModeWeb:
		if s.Source.WebURL == "" {
			return errors.New(ErrWebURLEmpty)
		}
	default:
		return fmt.Errorf("%s: %q", ErrModeUnsupport, s.Source.Mode)
	}
	_, err := s.BirthProfiles()
	return err
}

// ValidatePort checks that port is a number in the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrPortNumber, err)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// Location resolves the configured IANA time zone.
func (s *Settings) Location() (*time.Location, error) {
	name := s.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrTimezone, err)
	}
	return loc, nil
}

// RefreshInterval is the worker period; zero disables periodic refresh.
func (s *Settings) RefreshInterval() time.Duration {
	if s.RefreshMinutes <= DisabledInterval {
		return 0
	}
	return time.Duration(s.RefreshMinutes) * time.Minute
}

// BirthProfiles parses the configured profiles.
func (s *Settings) BirthProfiles() ([]cycles.BirthProfile, error) {
	out := make([]cycles.BirthProfile, 0, len(s.Profiles))
	for i, p := range s.Profiles {
		bp, err := cycles.ParseBirthProfile(p.Name, p.BirthDate, p.BirthTime, p.BirthPlace)
		if err != nil {
			return nil, fmt.Errorf("%s #%d (%s): %w", ErrProfile, i+1, p.Name, err)
		}
		if bp.Name == "" {
			bp.Name = FallbackName
		}
		out = append(out, bp)
	}
	return out, nil
}
