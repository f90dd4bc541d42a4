package cities

import "io"

// DefaultOutputPath is where the dataset is written unless WithOutputPath says otherwise.
const DefaultOutputPath = "dataset/json/belgian-cities.json"

// Logger interface for export progress and failures.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option defines a functional option for configuring an Exporter.
type Option func(*Exporter) error

// WithSchema qualifies the cities and provinces tables with schema.
func WithSchema(schema string) Option {
	return func(e *Exporter) error {
		e.schema = schema
		return nil
	}
}

// WithOutputPath sets the file the dataset is written to.
func WithOutputPath(path string) Option {
	return func(e *Exporter) error {
		if path == "" {
			return ErrEmptyOutputPath
		}

		e.outputPath = path
		return nil
	}
}

// WithLogger sets the logger for the Exporter.
func WithLogger(logger Logger) Option {
	return func(e *Exporter) error {
		e.logger = logger
		return nil
	}
}

// WithStdout sets where the success message is printed.
func WithStdout(w io.Writer) Option {
	return func(e *Exporter) error {
		e.stdout = w
		return nil
	}
}
