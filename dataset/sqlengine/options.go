package sqlengine

// Logger interface for SQL query logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option defines a functional option for configuring an Adapter.
type Option func(*Adapter) error

// WithLogger sets the logger for the Adapter.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Transaction lifecycle
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(a *Adapter) error {
		a.logger = logger
		return nil
	}
}
