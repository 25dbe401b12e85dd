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

// UserAgent identifies the HTTP client against the directory API.
var UserAgent = "Hermandad/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Hermandad"
	AppID             = "com.github.tartampluch.hermandad"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	EnvPrefix         = "HERMANDAD_"
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
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// -----------------------------------------------------------------------------
// Preferences
// -----------------------------------------------------------------------------

// The selected theme is deliberately absent: it resets on every launch.
const (
	PrefAPIBaseURL = "api_base_url"
	PrefLanguage   = "language"
	PrefInterval   = "refresh_interval_min"
	PrefFeedPort   = "feed_port"
	PrefLastRun    = "last_run_version"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"es", "en"}

// -----------------------------------------------------------------------------
// UI Layout
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 480
	MainWindowHeight    = 720
	AvatarSize          = 80
	ThumbSize           = 48
	LayoutColumnsDouble = 2

	DateFormatDisplay = "02-01-2006"
	PlaceholderURL    = "https://..."
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle = "win_title"

	// Tabs
	TKeyTabProfile  = "tab_profile"
	TKeyTabMembers  = "tab_members"
	TKeyTabSummary  = "tab_summary"
	TKeyTabSettings = "tab_settings"

	// Profile screen
	TKeyProfileTitle     = "profile_title"
	TKeyPhotoPlaceholder = "photo_placeholder"
	TKeyFieldPhoto       = "field_photo"
	TKeyFieldName        = "field_name"
	TKeyFieldLastname    = "field_lastname"
	TKeyFieldBirthday    = "field_birthday"
	TKeyFieldPhone       = "field_phone"
	TKeyFieldAge         = "field_age"
	TKeyFieldSex         = "field_sex"
	TKeyFieldDesc        = "field_description"
	TKeyFieldAddress     = "field_address"
	TKeyFieldEmail       = "field_email"
	TKeyFieldPassword    = "field_password"
	TKeyBtnSaveUser      = "btn_save_user"
	TKeyNoticeSaved      = "notice_user_saved"
	TKeyNoticeRequired   = "notice_required_fields"
	TKeyNoticeInvalid    = "notice_invalid_fields"
	TKeyNoticeSaveError  = "notice_save_error"

	// Members screen
	TKeyMembersTitle = "members_title"
	TKeyLoading      = "lbl_loading"
	TKeyNoMembers    = "lbl_no_members"
	TKeyNoPhoto      = "lbl_no_photo"
	TKeyBtnReload    = "btn_reload"
	TKeyNoticeLoad   = "notice_load_error"

	// Summary screen
	TKeySummaryTitle   = "summary_title"
	TKeyLblMale        = "lbl_male"
	TKeyLblFemale      = "lbl_female"
	TKeyBirthdaysMonth = "lbl_birthdays_month"
	TKeyNoBirthdays    = "lbl_no_birthdays"
	TKeyAgeLine        = "lbl_age_line" // Requires Birthday, Age

	// Settings screen
	TKeySettingsTitle  = "settings_title"
	TKeyLblBackground  = "lbl_background"
	TKeyLblGeneral     = "lbl_general"
	TKeyLblLanguage    = "lbl_language"
	TKeyLblAPIURL      = "lbl_api_url"
	TKeyHelpAPIURL     = "help_api_url"
	TKeyLblPort        = "lbl_feed_port"
	TKeyHelpPort       = "help_feed_port"
	TKeyLblRefresh     = "lbl_refresh_interval"
	TKeyLblMinutes     = "lbl_minutes_suffix"
	TKeyLblContacts    = "lbl_contacts"
	TKeyContactsCount  = "lbl_contacts_count" // Requires Count
	TKeyBtnImport      = "btn_import_vcard"
	TKeyBtnExport      = "btn_export_vcard"
	TKeyBtnSave        = "btn_save"
	TKeyLblFooter      = "lbl_footer"
	TKeyNoticeSettings = "notice_settings_saved"
	TKeyNoticeImport   = "notice_import_done" // Requires Count
	TKeyNoticeFileErr  = "notice_file_error"
	TKeyErrPortReq     = "err_port_required"
	TKeyErrPortNum     = "err_port_number"
	TKeyErrPortRange   = "err_port_range"

	// Palette labels
	TKeyColorAmarilloClaro = "color_amarillo_claro"
	TKeyColorBlanco        = "color_blanco"
	TKeyColorNaranja1      = "color_naranja_1"
	TKeyColorNaranja2      = "color_naranja_2"
	TKeyColorGrisClaro     = "color_gris_claro"
	TKeyColorVerdeMenta    = "color_verde_menta"

	// Calendar feed
	TKeyEvtSummary    = "event_summary"     // Requires Name
	TKeyEvtSummaryAge = "event_summary_age" // Requires Name, Age

	// Notice titles
	TKeyTitleNotice = "title_notice"
	TKeyTitleError  = "title_error"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultAPIBaseURL = "http://127.0.0.1:8000/api"
	DefaultFeedPort   = "18081"
	DefaultRefreshMin = 30
	DefaultLanguage   = "es"
	DisabledInterval  = 0

	SexMale   = "M"
	SexFemale = "F"

	// BirthdayLayout is the only accepted textual birthday form (DD-MM-YYYY).
	BirthdayLayout = "02-01-2006"

	UIDSalt         = "hermandad-v1-"
	UIDHashLength   = 16
	FormatHashInput = "%d|%s|%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	FormatUIDDup    = "%s-%d"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Hermandad//Cumpleanos//ES"
	ICalCalName   = "Cumpleaños Hermandad"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "hermandad"

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

	// DefaultAlarmTrigger fires the reminder at the start of the day.
	DefaultAlarmTrigger = "PT0M"
	DefaultICalRefresh  = 1 * time.Hour

	VCardVersion = "4.0"
	VCardDateISO = "2006-01-02"
	VCardDateNoY = "--0102"

	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"

	ExportFileName = "hermandad-contactos.vcf"

	// StubVCalendar is the minimal valid iCalendar object used when no member has a birthday.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
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
	FeedRateLimit       = 10 // requests per second
	FeedRateBurst       = 30
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB, the member list carries URLs only
	MaxErrorBodyLog     = 512
	MaxPhotoSize        = 4 * 1024 * 1024
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteUsers          = "/usuarios"
	RouteRoot           = "/"
	RouteFeed           = "/cumpleanos.ics"
	AddrSeparator       = ":"
	MinPort             = 1
	MaxPort             = 65535
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderAccept          = "Accept"
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

	MimeJSON            = "application/json"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 0 and 65535"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrBaseURLEmpty    = "configuration error: API base URL is empty"
	ErrEnvParse        = "failed to parse environment"
	ErrValidation      = "registration form is invalid"
	ErrUnavailable     = "directory service unavailable"
	ErrTransport       = "request to directory failed"
	ErrServerStatus    = "directory returned unexpected status"
	ErrResponseDecode  = "failed to decode directory response"
	ErrResponseSize    = "directory response exceeds size limit"
	ErrBirthdayFormat  = "birthday must use the DD-MM-YYYY layout"
	ErrAgeNumber       = "age must be a whole number"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrVCardEmpty      = "no vCard found in stream"
	ErrPhotoFetch      = "failed to download member photo"
	ErrVCardEncode     = "failed to encode vCard"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrLocNotInit      = "localizer not initialized"
	ErrInvalidHexColor = "invalid hex color"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgNotFound     = "Not Found"
	HTTPMsgTooMany      = "Too Many Requests"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary    = "Cumpleaños: %s"
	FallbackSummaryAge = "Cumpleaños: %s (%d)"

	MsgUserCreated    = "User saved"
	MsgUserCreateFail = "Failed to save user"
	MsgUsersLoaded    = "Users loaded from API"
	MsgUsersLoadFail  = "Failed to load users"
	MsgValidationFail = "Registration rejected before sending"
	MsgSyncReq        = "Sync requested"
	MsgSyncFailed     = "Synchronization failed"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgUpdateSync     = "Updating sync interval"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgGenSuccess     = "Calendar generation successful"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid birthday"
	MsgContactAdded   = "Contact added"
	MsgContactsImport = "Contacts imported"
	MsgContactsExport = "Contacts exported"
	MsgThemeChanged   = "Theme changed"
	MsgThemeUnknown   = "Ignoring unknown theme key"
	MsgResultDropped  = "Dropping result for closed view"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgSettingsSaved  = "Saving preferences"
	MsgRateLimited    = "Feed request rate limited"
	MsgPhotoFailed    = "Member photo unavailable"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyLimit     = "limit_bytes"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyTotal     = "total_users"
	LogKeyFound     = "birthdays_found"
	LogKeyID        = "id"
	LogKeyFields    = "fields"
	LogKeyTheme     = "theme"
	LogKeyView      = "view"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
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
	CompUI        = "ui"
	CompUISet     = "ui_settings"
	CompEngine    = "engine"
	CompServer    = "server"
	CompDirectory = "directory"
	CompContacts  = "contacts"
	CompTheme     = "theme"
	CompWorker    = "worker"
	CompMain      = "main"
	CompI18n      = "i18n"
)
