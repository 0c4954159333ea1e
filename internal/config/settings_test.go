package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-timeturner/internal/config"
	"github.com/tartampluch/go-timeturner/internal/cycles"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), s)
	assert.Equal(t, time.Hour, s.RefreshInterval())
}

func TestLoadSettings_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, `
language: fr
port: "19000"
refresh_minutes: 15
forecast_days: 7
timezone: Europe/Paris
organ_clock: false
source:
  mode: local
  local_path: /tmp/contacts.vcf
profiles:
  - name: Ada
    birth_date: "1991-08-13"
    birth_time: "08:30"
    birth_place: London
`)

	s, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "fr", s.Language)
	assert.Equal(t, "19000", s.Port)
	assert.Equal(t, 15*time.Minute, s.RefreshInterval())
	assert.Equal(t, 7, s.ForecastDays)
	assert.False(t, s.OrganClock)
	assert.Equal(t, config.SourceModeLocal, s.Source.Mode)

	loc, err := s.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())

	profiles, err := s.BirthProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, cycles.Leo, profiles[0].Zodiac().Sign)
	assert.True(t, profiles[0].IsComplete())
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, "port: \"19000\"\n")

	t.Setenv(config.EnvPort, "19500")
	t.Setenv(config.EnvForecastDays, "3")
	t.Setenv(config.EnvRefresh, "0")

	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "19500", s.Port)
	assert.Equal(t, 3, s.ForecastDays)
	assert.Zero(t, s.RefreshInterval(), "0 disables the periodic refresh")
}

func TestLoadSettings_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeFile(t, filepath.Join(dir, config.EnvFileName), config.EnvWebUser+"=carol\n")

	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "carol", s.Source.WebUser)

	_, exported := os.LookupEnv(config.EnvWebUser)
	assert.False(t, exported, ".env values stay out of the process environment")
}

func TestLoadSettings_DotEnvReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	envPath := filepath.Join(dir, config.EnvFileName)

	writeFile(t, envPath, config.EnvForecastDays+"=5\n")
	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 5, s.ForecastDays)

	writeFile(t, envPath, config.EnvForecastDays+"=9\n")
	s, err = config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 9, s.ForecastDays, "Edits are picked up on reload")

	writeFile(t, envPath, "")
	s, err = config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultForecastDays, s.ForecastDays, "Removed entries fall back to the defaults")
}

func TestLoadSettings_EnvironmentBeatsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeFile(t, filepath.Join(dir, config.EnvFileName), config.EnvForecastDays+"=5\n")
	t.Setenv(config.EnvForecastDays, "12")

	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 12, s.ForecastDays)
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "port: [", config.ErrSettingsParse},
		{"port not a number", "port: abc", config.ErrPortNumber},
		{"port out of range", "port: \"70000\"", config.ErrPortRange},
		{"unknown language", "language: xx", config.ErrLanguage},
		{"negative refresh", "refresh_minutes: -1", config.ErrRefresh},
		{"forecast too long", "forecast_days: 1000", config.ErrForecastDays},
		{"bad timezone", "timezone: Mars/Olympus", config.ErrTimezone},
		{"unknown source", "source: {mode: ftp}", config.ErrModeUnsupport},
		{"local without path", "source: {mode: local}", config.ErrLocalPathEmpty},
		{"web without url", "source: {mode: web}", config.ErrWebURLEmpty},
		{"bad profile", "profiles: [{name: Ada, birth_date: soon}]", config.ErrProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			writeFile(t, path, tt.content)

			_, err := config.LoadSettings(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBirthProfiles_InvalidInputPropagates(t *testing.T) {
	s := config.DefaultSettings()
	s.Profiles = []config.ProfileSettings{{Name: "Ada", BirthDate: "1991-08-13", BirthTime: "8h30"}}

	_, err := s.BirthProfiles()
	assert.ErrorIs(t, err, cycles.ErrInvalidInput)
}

func TestBirthProfiles_FallbackName(t *testing.T) {
	s := config.DefaultSettings()
	s.Profiles = []config.ProfileSettings{{BirthDate: "2000-01-01"}}

	profiles, err := s.BirthProfiles()
	require.NoError(t, err)
	assert.Equal(t, config.FallbackName, profiles[0].Name)
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	s := config.DefaultSettings()
	s.Profiles = []config.ProfileSettings{{Name: "Ada", BirthDate: "1991-08-13"}}

	require.NoError(t, s.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	loaded, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestValidatePort(t *testing.T) {
	assert.EqualError(t, config.ValidatePort(""), config.ErrPortRequired)
	assert.EqualError(t, config.ValidatePort("0"), config.ErrPortRange)
	assert.NoError(t, config.ValidatePort("65535"))
}
