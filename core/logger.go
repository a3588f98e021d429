package core

// Logger is any leveled logger the app can report through.
// Implementations may inspect args for well-known types (eg. an error to
// attach a stack trace to, or an access.Identity to tag the report with).
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
