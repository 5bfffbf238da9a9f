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

// UserAgent identifies the HTTP client used for vCard imports.
var UserAgent = "StaffDir/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName     = "Staff Directory"
	AppID       = "com.github.staffdir"
	LogFileName = "app.log"
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
	// Used for sensitive files like logs and the persisted filter state.
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
	FlagVersion    = "version"
	FlagDebug      = "debug"
	FlagAddr       = "addr"
	FlagDB         = "db"
	FlagState      = "state"
	FlagImportFile = "import-file"
	FlagImportURL  = "import-url"
	FlagImportUser = "import-user"
	FlagImportPass = "import-pass"

	FlagDescVersion    = "Show application version and exit"
	FlagDescDebug      = "Enable debug logging to stdout"
	FlagDescAddr       = "HTTP listen address (host:port)"
	FlagDescDB         = "Path to the SQLite employee database"
	FlagDescState      = "Path to the persisted filter state file"
	FlagDescImportFile = "Seed the database from a local .vcf file before serving"
	FlagDescImportURL  = "Seed the database from a vCard URL before serving"
	FlagDescImportUser = "HTTP basic auth username for -import-url"
	FlagDescImportPass = "HTTP basic auth password for -import-url"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultAddr      = ":8080"
	EnvPort          = "PORT"
	DefaultDBPath    = "staffdir.db"
	DefaultStatePath = "filters.json"
	DefaultLanguage  = "en"
	DefaultLeapYear  = 2000 // Leap year fallback for dates like --02-29
	UIDSalt          = "staffdir-v1-"

	// UnassignedGroup is the literal bucket for blank unit or crew values.
	UnassignedGroup = "Unassigned"

	// Occasion windows. Birthdays look 30 days out, anniversaries 14.
	// The asymmetry is intentional and mirrored by the filter panel copy.
	BirthdayWindowDays    = 30
	AnniversaryWindowDays = 14
	NewHireWindowDays     = 30
)

// MilestoneYears lists the service anniversaries that get a celebration badge.
var MilestoneYears = []int{5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55}

// SupportedLanguages defines the list of available badge languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Import Source Modes
// -----------------------------------------------------------------------------

const (
	SourceModeWeb   = "web"
	SourceModeLocal = "local"
)

// -----------------------------------------------------------------------------
// Database
// -----------------------------------------------------------------------------

const (
	DBDriver     = "sqlite3"
	DBDSNOptions = "?_journal_mode=WAL&_busy_timeout=5000"

	// Rows whose name matches these patterns are service accounts, not people.
	DBExcludeNameTest     = "%test%"
	DBExcludeNameWireless = "%wireless%"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Staff Directory//Occasions//EN"
	ICalCalName   = "Staff Occasions"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "staffdir"

	// iCal Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	// vCard Fields consumed by the importer and produced by the exporter.
	VCardBDAY      = "BDAY"
	VCardFN        = "FN"
	VCardN         = "N"
	VCardTitle     = "TITLE"
	VCardOrg       = "ORG"
	VCardTel       = "TEL"
	VCardEmail     = "EMAIL"
	VCardUID       = "UID"
	VCardAnniv     = "ANNIVERSARY"
	VCardParamType = "TYPE"
	VCardTypeWork  = "work"
	VCardTypeCell  = "cell"

	DefaultICalRefresh = 1 * time.Hour
)

// RosterMimeTypes are the media types accepted for a roster download.
// HR exports label .vcf files inconsistently; plain text and raw octet
// streams are common in the wild.
var RosterMimeTypes = []string{
	"text/vcard",
	"text/x-vcard",
	"text/directory",
	"text/plain",
	"application/octet-stream",
}

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY/ANNIVERSARY fields and DB columns
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
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

	RouteDirectory       = "/api/directory"
	RouteDirectoryDetail = "/api/directory/"
	RouteLetters         = "/api/letters"
	RouteFilters         = "/api/filters"
	RouteCalendar        = "/calendar.ics"
	RouteVCard           = "/directory.vcf"
	RouteMetrics         = "/metrics"
)

// -----------------------------------------------------------------------------
// HTTP Query Parameters
// -----------------------------------------------------------------------------

const (
	ParamSearch        = "search"
	ParamUnits         = "units"
	ParamCrews         = "crews"
	ParamLocations     = "locations"
	ParamLetter        = "letter"
	ParamBirthdays     = "birthdays"
	ParamNewHires      = "newhires"
	ParamAnniversaries = "anniversaries"
	ParamOnlyMyCrew    = "onlymycrew"
	ParamMyCrew        = "mycrew"

	ParamListSeparator = ","
	ParamTrue          = "1"
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
	HeaderAcceptLanguage  = "Accept-Language"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeTextVCard       = "text/vcard; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store, no-cache, must-revalidate, proxy-revalidate"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrDBOpen           = "failed to open employee database"
	ErrDBInit           = "failed to initialize database schema"
	ErrDBQuery          = "employee query failed"
	ErrDBScan           = "failed to scan employee row"
	ErrDBUpsert         = "failed to upsert employee"
	ErrEmployeeNotFound = "employee not found"
	ErrStateLoad        = "failed to load filter state"
	ErrStateSave        = "failed to save filter state"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrAddrRequired     = "listen address is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrFetchRequest     = "failed to create roster request"
	ErrFetchNetwork     = "network error during roster fetch"
	ErrFetchStatus      = "unexpected status for roster fetch"
	ErrContentType      = "unexpected roster content type"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrVCardEncode      = "failed to encode vCard data"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrLocalPathEmpty   = "import error: local path is empty"
	ErrWebURLEmpty      = "import error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "import error: unsupported source mode"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Directory initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgNotFound     = "Employee not found"
	HTTPMsgBadRequest   = "Invalid request"
)

// -----------------------------------------------------------------------------
// Badge Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyBadgeBirthdayToday    = "badge_birthday_today"
	TKeyBadgeBirthdayUpcoming = "badge_birthday_upcoming"
	TKeyBadgeAnnivToday       = "badge_anniversary_today"
	TKeyBadgeAnnivUpcoming    = "badge_anniversary_upcoming"
	TKeyBadgeMilestone        = "badge_milestone_month"
	TKeyBadgeNewHire          = "badge_new_hire"

	TKeyCalBirthdaySummary = "calendar_birthday_summary"
	TKeyCalAnnivSummary    = "calendar_anniversary_summary"
)

// -----------------------------------------------------------------------------
// Fallbacks & Messages
// -----------------------------------------------------------------------------

const (
	// Fallback badge copy when no localizer is available.
	FallbackBirthdaySummary = "Birthday: %s"
	FallbackAnnivSummary    = "Work anniversary: %s (%d years)"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Occasions calendar cache updated"
	MsgStoreReady    = "Employee store ready"
	MsgStateLoaded   = "Filter state loaded"
	MsgStateSaved    = "Filter state saved"
	MsgStateMissing  = "No persisted filter state, using defaults"
	MsgFetchStart    = "Initiating roster download"
	MsgFetchBody     = "Roster downloading"
	MsgFetchStatus   = "Roster server returned error status"
	MsgFetchBadMime  = "Roster server returned non-vCard content"
	MsgImportStarted = "vCard import started..."
	MsgImportDone    = "vCard import completed"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgBdayToday     = "Birthday observed today"
	MsgComposeDone   = "Directory composed"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
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
	LogKeyAddr      = "addr"
	LogKeyMode      = "mode"
	LogKeyRoute     = "route"
	LogKeyEmpNo     = "emp_no"
	LogKeyUnit      = "unit"
	LogKeyCrew      = "crew"
	LogKeyDB        = "db_path"
	LogKeyTotal     = "total_cards"
	LogKeyImported  = "imported"
	LogKeyGroups    = "groups"
	LogKeyEmployees = "employees"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyMime      = "content_type"
	LogKeyLength    = "content_length"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"

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
	CompEngine   = "engine"
	CompStore    = "store"
	CompState    = "state"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompImporter = "importer"
	CompMain     = "main"
	CompI18n     = "i18n"
)
