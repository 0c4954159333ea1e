package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-TimeTurner/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Time Turner"
	AppID             = "com.github.tartampluch.go-timeturner"
	KeyringService    = "com.github.tartampluch.go-timeturner"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	SettingsFileName  = "settings.yaml"
	EnvFileName       = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs and settings.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion       = "version"
	FlagDebug         = "debug"
	FlagConfig        = "config"
	FlagOnce          = "once"
	FlagStorePassword = "store-password"

	FlagDescVersion       = "Show application version and exit"
	FlagDescDebug         = "Enable debug logging to stdout"
	FlagDescConfig        = "Path to the YAML settings file (default: user config dir)"
	FlagDescOnce          = "Print the current readings as JSON and exit"
	FlagDescStorePassword = "Read the web source password from stdin and store it in the OS keyring"

	MsgVersionOutput  = "%s version %s (%s/%s)\n"
	MsgPasswordPrompt = "Password for %s: "
	MsgPasswordStored = "Password stored in keyring for %s\n"
)

// -----------------------------------------------------------------------------
// Environment Overrides
// -----------------------------------------------------------------------------

const (
	EnvLanguage     = "TIMETURNER_LANGUAGE"
	EnvPort         = "TIMETURNER_PORT"
	EnvRefresh      = "TIMETURNER_REFRESH_MINUTES"
	EnvForecastDays = "TIMETURNER_FORECAST_DAYS"
	EnvTimezone     = "TIMETURNER_TIMEZONE"
	EnvSourceMode   = "TIMETURNER_SOURCE_MODE"
	EnvLocalPath    = "TIMETURNER_LOCAL_PATH"
	EnvWebURL       = "TIMETURNER_WEB_URL"
	EnvWebUser      = "TIMETURNER_WEB_USER"
)

// SupportedLanguages defines the list of available languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyEvtBiorhythm   = "event_biorhythm"   // Requires Name, Physical, Emotional, Intellectual
	TKeyEvtDescription = "event_description" // Requires Sign, Element, Quality, Trait, Days, Physical, Emotional, Intellectual
	TKeyEvtOrgan       = "event_organ"       // Requires Organ
	TKeyEvtOrganDesc   = "event_organ_desc"  // Requires Organ, Function
	TKeyCalName        = "calendar_name"

	// Prefixes completed with the lower-case, underscore-joined value.
	TKeyPrefixSign    = "sign_"
	TKeyPrefixTrait   = "sign_trait_"
	TKeyPrefixElement = "element_"
	TKeyPrefixQuality = "quality_"
	TKeyPrefixOrgan   = "organ_"
	TKeyPrefixOrganFn = "organ_function_"
	TKeyPrefixCycle   = "cycle_"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeNone      = ""
	SourceModeWeb       = "web"
	SourceModeLocal     = "local"
	DefaultPort         = "18081"
	DefaultRefreshMin   = 60
	DefaultLanguage     = "en"
	DefaultForecastDays = 30
	DefaultTimezone     = "UTC"
	MaxForecastDays     = 366
	UIDSalt             = "go-timeturner-v1-" // Salt for deterministic UID generation
	DisabledInterval    = 0
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Time Turner//Engine//EN"
	ICalCalName = "Time Turner"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "gotimeturner"
	ICalRRule   = "FREQ=DAILY"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropDescription = "DESCRIPTION"
	PropCategories  = "CATEGORIES"
	PropRRule       = "RRULE"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	CategoryBiorhythm = "BIORHYTHM"
	CategoryOrgan     = "TCM"

	VCardBDAY       = "BDAY"
	VCardFN         = "FN"
	VCardBirthPlace = "BIRTHPLACE"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatFullTM    = "2006-01-02T15:04"
	DateFormatBasicT    = "20060102T150405"
	DateFormatBasicTZ   = "20060102T150405Z"
	DateFormatBasicTM   = "20060102T1504"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%s@%s"
	FormatOrganUID  = "organ-%02d@%s"
	FormatUIDDay    = "20060102"

	// VTIMEZONE observances use floating local times.
	FormatLocalDateTime = "20060102T150405"
	FormatUTCOffset     = "%s%02d%02d"
	FormatUTCOffsetSec  = "%s%02d%02d%02d"

	// Fallback formats when no translation is available.
	FallbackBiorhythm   = "%s: P %d%% E %d%% I %d%%"
	FallbackDescription = "%s (%s, %s): %s. Physical %d%%, emotional %d%%, intellectual %d%%."
	FallbackOrgan       = "%s meridian"
	FallbackName        = "Unknown"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	// Fetch retries for transient failures (network errors, 5xx).
	FetchMaxRetries      = 3
	FetchInitialInterval = 500 * time.Millisecond
	FetchMaxElapsed      = 20 * time.Second

	RouteRoot      = "/"
	RouteCalendar  = "/calendar.ics"
	RouteReadings  = "/api/readings"
	RouteCalculate = "/api/calculate"
	RouteOrgans    = "/api/organs"
	RouteMetrics   = "/metrics"

	QueryName = "name"
	QueryDate = "date"
	QueryTime = "time"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrLanguage        = "configuration error: unsupported language"
	ErrRefresh         = "configuration error: refresh interval must not be negative"
	ErrForecastDays    = "configuration error: forecast days must be between 0 and 366"
	ErrTimezone        = "configuration error: unknown time zone"
	ErrProfile         = "configuration error: invalid profile"
	ErrSettingsRead    = "failed to read settings file"
	ErrSettingsParse   = "failed to parse settings file"
	ErrSettingsWrite   = "failed to write settings file"
	ErrEnvFile         = "failed to read env file"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrFetchStatus     = "server returned unexpected status"
	ErrFetchNetwork    = "network error during fetch"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrYearUnknown     = "birth year is required for biorhythm readings"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrConfigDir       = "could not determine user config dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrProfileNotFound = "profile not found"
	ErrKeyringStore    = "failed to store password in keyring"
	ErrPasswordRead    = "failed to read password"
	ErrWebUserEmpty    = "configuration error: web user is empty"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted    = "Synchronization started..."
	MsgSyncFailed     = "Synchronization failed. Check logs."
	MsgSyncReq        = "Sync requested"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgUpdateSync     = "Updating sync interval"
	MsgAppStop        = "Application stopped gracefully"
	MsgReload         = "Reloading settings"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgGenSuccess     = "Calendar generation successful"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgProfilesLoaded = "Profiles updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgFetchRetry     = "Fetch failed, retrying"
	MsgSettingsNone   = "Settings file not found, using defaults"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyProfiles  = "profiles"
	LogKeyEvents    = "events"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyDuration  = "duration_ms"
	LogKeyAttempt   = "retry_in"
	LogKeyPath      = "path"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompApp      = "app"
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
	CompSettings = "settings"
)
