// Package constants defines system-wide constants for the stalker portal prober.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Wire Protocol Constants
// ================================================================================

const (
	// ParamType is the fixed client type sent with every portal request
	ParamType = "stb"

	// ActionHandshake requests a session token from the portal
	ActionHandshake = "handshake"

	// ActionGetProfile requests the device profile (the authentication step)
	ActionGetProfile = "get_profile"

	// ActionGetMainInfo requests account information after authorization
	ActionGetMainInfo = "get_main_info"

	// ActionGetGenres requests the genre list
	ActionGetGenres = "get_genres"

	// ActionGetAllChannels requests the full channel list
	ActionGetAllChannels = "get_all_channels"

	// TypeAccountInfo is the request type for account information calls
	TypeAccountInfo = "account_info"

	// TypeITV is the request type for channel and genre calls
	TypeITV = "itv"

	// ParamJsHTTPRequest is the fixed JsHttpRequest literal the middleware expects
	ParamJsHTTPRequest = "1-xml"
)

// ================================================================================
// Device Emulation Constants
// ================================================================================

// Portals key device recognition off this header and cookie set, not just the
// mac query parameter. The values emulate a MAG250 running a known firmware.
const (
	// UserAgentMAG200 is the User-Agent of the emulated set-top-box firmware family
	UserAgentMAG200 = "Mozilla/5.0 (QtEmbedded; U; Linux; C) AppleWebKit/533.3 (KHTML, like Gecko) MAG200 stbapp ver: 2 rev: 250 Safari/533.3"

	// DeviceModel is sent in the X-User-Agent model header
	DeviceModel = "Model: MAG250; Link: WiFi"

	// STBType identifies the emulated hardware in get_profile requests
	STBType = "MAG250"

	// FirmwareVersion is the full firmware identification string
	FirmwareVersion = "ImageDescription: 0.2.18-r24-pub-250; ImageDate: Fri Dec 28 18:45:22 EET 2018; PORTAL version: 5.6.0; API Version: JS API version: 343; STB API version: 146; Player Engine version: 0x582"

	// ImageVersion is the short firmware image version
	ImageVersion = "218"

	// HardwareVersion is the emulated board revision
	HardwareVersion = "1.7-BD-00"

	// HardwareVersion2 is the secondary hardware hash the firmware reports
	HardwareVersion2 = "a38a7c2b19ca1467a5e9fd29594d1877"

	// CookieLanguage is the fixed stb_lang cookie value
	CookieLanguage = "en"

	// CookieSessionInit is the literal PHPSESSID value before the first handshake
	CookieSessionInit = "null"
)

// ================================================================================
// Endpoint Discovery Constants
// ================================================================================

// CandidatePaths is the ordered list of relative paths probed to locate the
// live API entry point of a portal.
var CandidatePaths = []string{
	"portal.php",
	"server/load.php",
	"stalker_portal/server/load.php",
	"c/version.js",
	"api/v1/",
}

// ProbePaths extends CandidatePaths with paths only useful for manual
// inspection of a portal (raw prober).
var ProbePaths = []string{
	"",
	"portal.php",
	"server/load.php",
	"stalker_portal/server/load.php",
	"c/version.js",
	"api/v1/",
	"c/",
	"server/",
	"index.html",
}

// FallbackPath is returned when no candidate responds with 200. Discovery is
// best-effort: the handshake re-validates whichever path is chosen.
const FallbackPath = "server/load.php"

// ================================================================================
// Timeout Constants
// ================================================================================

const (
	// ResolveProbeTimeout bounds each candidate-path probe
	ResolveProbeTimeout = 5 * time.Second

	// RequestTimeout bounds handshake and authenticate calls
	RequestTimeout = 10 * time.Second

	// ResolvedPathCacheTTL is the in-memory cache lifetime for resolved API paths
	ResolvedPathCacheTTL = 30 * time.Minute
)

// ================================================================================
// Retry and Pacing Constants
// ================================================================================

const (
	// RetryBackoffBase is the base wait of the exponential backoff schedule
	RetryBackoffBase = 10 * time.Second

	// RetryMaxAttempts is the number of retries after the initial authenticate
	// attempt before the outcome becomes RateLimitExhausted
	RetryMaxAttempts = 3

	// DefaultPacingInterval is the default inter-identity delay during a batch scan
	DefaultPacingInterval = 1 * time.Second
)

// ================================================================================
// Configuration Defaults
// ================================================================================

const (
	// DefaultTimezone is sent when an identity carries no timezone of its own
	DefaultTimezone = "America/New_York"

	// EnvPrefix is the environment variable prefix for configuration overrides
	EnvPrefix = "STALKER"

	// DefaultLogLevel is used when no log level is configured
	DefaultLogLevel = "info"
)

// ================================================================================
// Logging Constants
// ================================================================================

// LogLevel represents the severity of a log entry
type LogLevel int8

const (
	// LogLevelDebug enables verbose diagnostic output
	LogLevelDebug LogLevel = iota - 1

	// LogLevelInfo is the standard operational level
	LogLevelInfo

	// LogLevelWarn reports recoverable anomalies
	LogLevelWarn

	// LogLevelError reports failures
	LogLevelError

	// LogLevelFatal reports unrecoverable failures and exits
	LogLevelFatal
)
