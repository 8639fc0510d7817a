package constants

const (
	AppName           = "meterlog"
	Version           = "v0.1.0"
	DefaultConfigPath = "~/.config/meterlog/readings.txt"

	// DateFormat is the wire and display date format (YYYY.MM.DD)
	DateFormat = "2006.01.02"

	// EnvFile is loaded from the working directory before flags are parsed
	EnvFile = ".env"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "meterlog-"

	// Log constants
	LogDirName  = "logs"
	LogFileName = "meterlog.log"

	// LockFileSuffix is appended to the data file path for the session lock
	LockFileSuffix = ".lock"
)
