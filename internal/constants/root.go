package constants

import "time"

const (
	AppName            = "questlog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/questlog"
	DefaultConfigPath  = "~/.config/questlog/config.yaml"
	DefaultDBPath      = "~/.config/questlog/questlog.db"
	DBConnectionEnvVar = "QUESTLOG_DB_CONNECTION"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// EndOfDay is the time-of-day assigned to generated tasks whose habit
	// has neither a reminder time nor a preferred time of day.
	EndOfDay = "23:59"

	// Log file rotation
	LogDirName    = "logs"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "questlog-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "questlog-notifier.lock"
	NotificationDurationMs = 4000
	TrayAppIdentifier      = "com.julianstephens.questlog"
	TrayExecutablePrefix   = "questlog-tray"
)
