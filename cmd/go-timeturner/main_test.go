package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-timeturner/internal/config"
	"github.com/zalando/go-keyring"
)

func writeSettings(t *testing.T, s *config.Settings) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	require.NoError(t, s.Save(path))
	return path
}

func TestRunOnce(t *testing.T) {
	s := config.DefaultSettings()
	s.Profiles = []config.ProfileSettings{{Name: "Ada", BirthDate: "1815-12-10"}}
	path := writeSettings(t, s)

	var out bytes.Buffer
	require.NoError(t, runOnce(context.Background(), path, &out))

	var readings []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &readings))
	require.Len(t, readings, 1)
	assert.Equal(t, "Ada", readings[0]["name"])
	assert.Equal(t, "Sagittarius", readings[0]["zodiac"].(map[string]any)["sign"])
}

func TestRunStorePassword(t *testing.T) {
	keyring.MockInit()

	s := config.DefaultSettings()
	s.Source = config.SourceSettings{Mode: config.SourceModeWeb, WebURL: "https://dav.example.com/a.vcf", WebUser: "alice"}
	path := writeSettings(t, s)

	require.NoError(t, runStorePassword(path, strings.NewReader("open sesame\n")))

	got, err := keyring.Get(config.KeyringService, "alice")
	require.NoError(t, err)
	assert.Equal(t, "open sesame", got)
}

func TestRunStorePassword_NoUser(t *testing.T) {
	path := writeSettings(t, config.DefaultSettings())

	err := runStorePassword(path, strings.NewReader("pw\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrWebUserEmpty)
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	got, s, err := loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, config.DefaultPort, s.Port)
}
