package domain

// LogLevel is the wire encoding of a console log entry's severity.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogCritical
)

// LogEntry is one console log line held in a service's bounded log ring and
// returned by retrieveConsoleLogs. Timestamp is seconds since epoch.
type LogEntry struct {
	Timestamp float64  `json:"timestamp"`
	Level     LogLevel `json:"level"`
	Message   string   `json:"message"`
}
