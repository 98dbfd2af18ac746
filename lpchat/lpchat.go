// Package lpchat holds shared application defaults used across the
// loan-pricing chat components.
package lpchat

const (
	// DefaultAppName tags every logged message row and names config lookup paths.
	DefaultAppName = "lpchat"

	// DefaultConfigPath is the fallback directory searched for config.yaml.
	DefaultConfigPath = "/etc/lpchat"

	// DefaultDatabasePath is the embedded libsql database file.
	DefaultDatabasePath = "data/lpchat.db"

	// DefaultLogPath is the append-only operational log. The console is
	// reserved for conversational I/O.
	DefaultLogPath = "logs/app.log"
)
