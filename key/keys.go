// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Downloads - where artifacts land and how videos are scheduled.
const (
	DownloadsPath    = "downloads.path"
	DownloadParallel = "download.parallel"
	DownloadKeepRaw  = "download.keep_raw"
)

// Segment fetching.
const (
	FetchWorkers        = "fetch.workers"
	FetchRetries        = "fetch.retries"
	FetchSegmentTimeout = "fetch.segment_timeout"
	FetchBackoff        = "fetch.backoff"
	FetchMaxBackoff     = "fetch.max_backoff"
)

// Segment count probing.
const (
	ProbeRetries    = "probe.retries"
	ProbeBackoff    = "probe.backoff"
	ProbeMaxBackoff = "probe.max_backoff"
	ProbeTimeout    = "probe.timeout"
	ProbeDeadline   = "probe.deadline"
)

// External media converter.
const (
	ConverterPath = "converter.path"
	ConverterArgs = "converter.args"
)

// Portal - these keys locate the web portal and its stream host.
const (
	PortalBaseURL       = "portal.base_url"
	PortalLoginURL      = "portal.login_url"
	PortalCertURL       = "portal.cert_url"
	PortalStreamPattern = "portal.stream_pattern"
	PortalCacheCourses  = "portal.cache_courses"
)

const (
	AuthUsername = "auth.username"
	AuthPassword = "auth.password"
)

const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored = "cli.colored"
)
