package pool

import (
	"io"
	"log/slog"
	"os"

	"github.com/dverbeek/reportpool/pkg/core"
)

// Option configures a Pool.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// Config holds pool configuration.
type Config struct {
	// Workers is the number of concurrent workers. Zero selects the runtime
	// default (GOMAXPROCS); negative values are rejected at Run.
	Workers int

	// ReportRate is how many progress reports are printed per second. In
	// on-change mode it caps the report frequency instead.
	ReportRate float64

	// OnChange switches the reporter to print only when a job finishes.
	OnChange bool

	// TrackFailures isolates job failures: a failed job is recorded and the
	// batch continues. When off, the first job error aborts the run.
	TrackFailures bool

	// Output receives progress lines and the failure summary.
	Output io.Writer

	// Logger receives lifecycle diagnostics, never progress lines.
	Logger *slog.Logger

	// Events, when set, receives every lifecycle event. Called synchronously
	// from worker goroutines, so it must be safe for concurrent use.
	Events func(core.Event)

	// Recorder, when set, persists the summary of each finished batch.
	Recorder core.Recorder
}

func defaultConfig() Config {
	return Config{
		ReportRate: 60,
		Output:     os.Stdout,
		Logger:     slog.Default(),
	}
}

// Workers sets the number of concurrent workers. Zero means the runtime
// default; values above the hard limit are clamped at Run.
func Workers(n int) Option {
	return optionFunc(func(c *Config) {
		c.Workers = n
	})
}

// ReportRate sets how many progress reports are printed per second.
func ReportRate(perSecond float64) Option {
	return optionFunc(func(c *Config) {
		c.ReportRate = perSecond
	})
}

// ReportOnChange makes the reporter print only when the set of finished
// jobs changes, at most ReportRate times per second.
func ReportOnChange(enabled bool) Option {
	return optionFunc(func(c *Config) {
		c.OnChange = enabled
	})
}

// TrackFailures contains job failures instead of aborting the batch. Failed
// jobs keep a zero value in the results and are named in the failure summary.
func TrackFailures(enabled bool) Option {
	return optionFunc(func(c *Config) {
		c.TrackFailures = enabled
	})
}

// WithOutput redirects progress lines. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(c *Config) {
		c.Output = w
	})
}

// WithLogger sets the logger for lifecycle diagnostics.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *Config) {
		c.Logger = l
	})
}

// WithEvents registers a callback receiving batch and job lifecycle events.
func WithEvents(fn func(core.Event)) Option {
	return optionFunc(func(c *Config) {
		c.Events = fn
	})
}

// WithRecorder persists each finished batch summary after the run. Recording
// failures are logged, never surfaced to the caller.
func WithRecorder(r core.Recorder) Option {
	return optionFunc(func(c *Config) {
		c.Recorder = r
	})
}
