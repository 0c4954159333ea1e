package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-timeturner/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
// This prevents accidental deletion of keys required at runtime.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"KeyringService", config.KeyringService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Greater(t, config.DefaultRefreshMin, 0, "Default refresh interval must be positive")
	assert.Greater(t, config.DefaultForecastDays, 0)
	assert.LessOrEqual(t, config.DefaultForecastDays, config.MaxForecastDays)
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
	assert.NoError(t, config.ValidatePort(config.DefaultPort))

	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-TimeTurner/"), "UserAgent must start with AppName/")
}

// TestStubVCalendar_IsMinimalCalendar guards the empty-feed fallback.
func TestStubVCalendar_IsMinimalCalendar(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.StubVCalendar, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(config.StubVCalendar, "END:VCALENDAR\r\n"))
	assert.Contains(t, config.StubVCalendar, config.ICalProdid)
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")

	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
	assert.Less(t, int64(config.MaxHTTPResponseSize), int64(1*1024*1024*1024), "MaxHTTPResponseSize should stay under 1GB to protect RAM")

	assert.Greater(t, config.FetchMaxRetries, 0)
	assert.Less(t, config.FetchInitialInterval, config.FetchMaxElapsed)
}
