// Package reportpool runs a batch of independent jobs across a bounded pool
// of concurrent workers while a background reporter prints aggregate
// progress: completion percentage, elapsed time, an ETA, and every job's
// status symbol (Q queued, R running, S succeeded, F failed).
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	square := func(ctx context.Context, v int) (int, error) {
//	    return v * v, nil
//	}
//
//	res, err := reportpool.Run(ctx, square, []int{0, 1, 2, 3},
//	    reportpool.Workers(4),
//	    reportpool.ReportRate(20),
//	    reportpool.TrackFailures(true),
//	)
//
// With TrackFailures a failing job is contained: its slot is marked failed,
// the batch continues, and the failed indices are listed in the result and
// in a summary line after the run. Without it the first job error fails the
// whole run and no result is returned.
package reportpool

import (
	"context"
	"io"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/dverbeek/reportpool/pkg/core"
	"github.com/dverbeek/reportpool/pkg/history"
	"github.com/dverbeek/reportpool/pkg/limits"
	"github.com/dverbeek/reportpool/pkg/pool"
	"github.com/dverbeek/reportpool/pkg/reporter"
	"github.com/dverbeek/reportpool/pkg/schedule"
	"github.com/dverbeek/reportpool/pkg/state"
)

// Type aliases re-exported from the pkg/ packages.
type (
	// JobStatus is the completion state of one job in a batch.
	JobStatus = core.JobStatus

	// Failure records one isolated job failure.
	Failure = core.Failure

	// BatchSummary is the outcome of one finished batch.
	BatchSummary = core.BatchSummary

	// Event is the interface for all batch lifecycle events.
	Event = core.Event

	// BatchStarted is emitted once, before any job is submitted.
	BatchStarted = core.BatchStarted

	// JobStarted is emitted when a worker picks up a job.
	JobStarted = core.JobStarted

	// JobSucceeded is emitted when a job function returns without error.
	JobSucceeded = core.JobSucceeded

	// JobFailed is emitted when a job function returns an error or panics.
	JobFailed = core.JobFailed

	// BatchFinished is emitted after the pool drained and the reporter exited.
	BatchFinished = core.BatchFinished

	// CompletionState is the shared per-job status table.
	CompletionState = state.CompletionState

	// Reporter prints progress lines derived from a CompletionState.
	Reporter = reporter.Reporter

	// Policy selects when progress lines are printed.
	Policy = reporter.Policy

	// Option configures a Pool.
	Option = pool.Option

	// Config holds pool configuration.
	Config = pool.Config

	// Schedule defines when the next recurring batch run starts.
	Schedule = schedule.Schedule

	// Scheduler executes a batch function on a Schedule.
	Scheduler = schedule.Scheduler

	// Recorder persists finished batch outcomes with GORM.
	Recorder = history.Recorder

	// BatchRecord is one finished batch in the history ledger.
	BatchRecord = history.BatchRecord

	// JobRecord is the final status of one job in the history ledger.
	JobRecord = history.JobRecord
)

// Generic aliases.
type (
	// Func is the job function applied to every input.
	Func[A, R any] = pool.Func[A, R]

	// Pool executes batches of a job function over input slices.
	Pool[A, R any] = pool.Pool[A, R]

	// Result is the outcome of one batch run.
	Result[R any] = pool.Result[R]
)

// Status constants
const (
	StatusQueued    = core.StatusQueued
	StatusRunning   = core.StatusRunning
	StatusSucceeded = core.StatusSucceeded
	StatusFailed    = core.StatusFailed
)

// Reporting policies
const (
	Periodic = reporter.Periodic
	OnChange = reporter.OnChange
)

// Hard limits
const (
	MaxWorkers            = limits.MaxWorkers
	MaxErrorMessageLength = limits.MaxErrorMessageLength
)

// Error variables
var (
	ErrNilJobFunc         = core.ErrNilJobFunc
	ErrInvalidWorkerCount = core.ErrInvalidWorkerCount
	ErrInvalidReportRate  = core.ErrInvalidReportRate
)

// New creates a pool around fn. The same pool can run any number of batches.
func New[A, R any](fn Func[A, R], opts ...Option) *Pool[A, R] {
	return pool.New(fn, opts...)
}

// Run executes fn over every input on a bounded worker pool, reporting
// progress until all jobs finish. It is shorthand for New(fn, opts...).Run.
func Run[A, R any](ctx context.Context, fn Func[A, R], inputs []A, opts ...Option) (*Result[R], error) {
	return pool.New(fn, opts...).Run(ctx, inputs)
}

// Pool option functions

// Workers sets the number of concurrent workers. Zero means the runtime
// default (GOMAXPROCS).
func Workers(n int) Option {
	return pool.Workers(n)
}

// ReportRate sets how many progress reports are printed per second.
func ReportRate(perSecond float64) Option {
	return pool.ReportRate(perSecond)
}

// ReportOnChange makes the reporter print only when a job finishes.
func ReportOnChange(enabled bool) Option {
	return pool.ReportOnChange(enabled)
}

// TrackFailures contains job failures instead of aborting the batch.
func TrackFailures(enabled bool) Option {
	return pool.TrackFailures(enabled)
}

// WithOutput redirects progress lines (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return pool.WithOutput(w)
}

// WithLogger sets the logger for lifecycle diagnostics.
func WithLogger(l *slog.Logger) Option {
	return pool.WithLogger(l)
}

// WithEvents registers a callback receiving batch and job lifecycle events.
func WithEvents(fn func(Event)) Option {
	return pool.WithEvents(fn)
}

// WithRecorder persists each finished batch summary after the run.
func WithRecorder(r core.Recorder) Option {
	return pool.WithRecorder(r)
}

// NewRecorder creates a GORM-backed history recorder.
func NewRecorder(db *gorm.DB) *Recorder {
	return history.NewRecorder(db)
}

// NewScheduler creates a scheduler executing run at each instant produced by s.
func NewScheduler(s Schedule, run func(context.Context) error) *Scheduler {
	return schedule.NewScheduler(s, run)
}

// Schedule functions

// Every creates a schedule that runs at fixed intervals.
func Every(d time.Duration) Schedule {
	return schedule.Every(d)
}

// Daily creates a schedule that runs at a specific UTC time each day.
func Daily(hour, minute int) Schedule {
	return schedule.Daily(hour, minute)
}

// Weekly creates a schedule that runs at a specific UTC day and time each week.
func Weekly(day time.Weekday, hour, minute int) Schedule {
	return schedule.Weekly(day, hour, minute)
}

// Cron creates a schedule from a five-field cron expression.
func Cron(expr string) Schedule {
	return schedule.Cron(expr)
}
