// Package pool runs one batch of independent jobs across a bounded worker
// pool while a reporter goroutine prints aggregate progress.
package pool

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dverbeek/reportpool/pkg/core"
	"github.com/dverbeek/reportpool/pkg/limits"
	"github.com/dverbeek/reportpool/pkg/reporter"
	"github.com/dverbeek/reportpool/pkg/state"
)

// Func is the job function applied to every input. It must be safe for
// concurrent invocation: the pool calls it from many goroutines at once, and
// anything it captures is shared across workers.
type Func[A, R any] func(ctx context.Context, arg A) (R, error)

// Pool executes batches of a job function over input slices.
type Pool[A, R any] struct {
	fn  Func[A, R]
	cfg Config
}

// New creates a pool around fn. The same pool can run any number of batches.
func New[A, R any](fn Func[A, R], opts ...Option) *Pool[A, R] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	return &Pool[A, R]{fn: fn, cfg: cfg}
}

// Result is the outcome of one batch run.
type Result[R any] struct {
	// BatchID identifies the run in events and history.
	BatchID string

	// Values[i] is the return value for inputs[i]. When failure tracking is
	// on, a failed job leaves the zero value in its position.
	Values []R

	// Statuses is the final completion snapshot in job-index order.
	Statuses []core.JobStatus

	// Failures lists each isolated failure, in job-index order. Empty unless
	// failure tracking was on.
	Failures []core.Failure

	StartedAt time.Time
	Elapsed   time.Duration
}

// FailedIndices returns the indices of jobs whose final status is failed.
func (r *Result[R]) FailedIndices() []int {
	var idx []int
	for i, s := range r.Statuses {
		if s == core.StatusFailed {
			idx = append(idx, i)
		}
	}
	return idx
}

// FailureSummary renders the post-run line naming failed jobs, or the empty
// string when every job succeeded.
func (r *Result[R]) FailureSummary() string {
	idx := r.FailedIndices()
	if len(idx) == 0 {
		return ""
	}
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	if len(idx) == 1 {
		return fmt.Sprintf("Job %s was not finished correctly.", parts[0])
	}
	return fmt.Sprintf("Jobs %s were not finished correctly.", strings.Join(parts, ", "))
}

// Summary converts the result to the form handed to a Recorder.
func (r *Result[R]) Summary() core.BatchSummary {
	return core.BatchSummary{
		BatchID:   r.BatchID,
		Statuses:  r.Statuses,
		Failures:  r.Failures,
		StartedAt: r.StartedAt,
		Elapsed:   r.Elapsed,
	}
}

// Run executes fn over every input on a bounded worker pool, reporting
// progress until all jobs finish. Values are returned in input order
// regardless of completion order.
//
// Without failure tracking the first job error makes the whole run fail and
// no result is returned; jobs already submitted are not cancelled, they run
// to a terminal state and their values are discarded. With failure tracking
// Run only fails on invalid configuration.
func (p *Pool[A, R]) Run(ctx context.Context, inputs []A) (*Result[R], error) {
	if p.fn == nil {
		return nil, core.ErrNilJobFunc
	}
	if err := limits.ValidateWorkers(p.cfg.Workers); err != nil {
		return nil, err
	}
	if err := limits.ValidateReportRate(p.cfg.ReportRate); err != nil {
		return nil, err
	}

	workers := p.cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = limits.ClampWorkers(workers)

	n := len(inputs)
	batchID := uuid.New().String()
	st := state.New(n)

	policy := reporter.Periodic
	if p.cfg.OnChange {
		policy = reporter.OnChange
	}

	p.cfg.Logger.Debug("batch starting",
		"batch_id", batchID, "jobs", n, "workers", workers, "policy", policy.String())

	started := time.Now()
	// The reporter starts before submission so the all-queued report is the
	// first thing visible in on-change mode.
	repDone := reporter.New(st, p.cfg.ReportRate, policy, p.cfg.Output).Start()
	p.emit(&core.BatchStarted{BatchID: batchID, Jobs: n, Workers: workers, Timestamp: started})

	values := make([]R, n)
	jobErrs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range inputs {
		g.Go(func() error {
			return p.runJob(ctx, st, batchID, i, inputs[i], values, jobErrs)
		})
	}

	err := g.Wait()
	// Every job reached a terminal status even on failure, so this wait is
	// bounded by one reporting interval.
	<-repDone
	elapsed := time.Since(started)

	if err != nil {
		statuses := st.Snapshot()
		failed := core.BatchSummary{Statuses: statuses}.Failed()
		p.cfg.Logger.Error("batch failed", "batch_id", batchID, "error", err)
		p.emit(&core.BatchFinished{
			BatchID: batchID, Jobs: n, Failed: failed,
			Elapsed: elapsed, Err: err, Timestamp: time.Now(),
		})
		return nil, err
	}

	res := &Result[R]{
		BatchID:   batchID,
		Values:    values,
		Statuses:  st.Snapshot(),
		StartedAt: started,
		Elapsed:   elapsed,
	}
	for i, jerr := range jobErrs {
		if jerr != nil {
			res.Failures = append(res.Failures, core.Failure{Index: i, Err: jerr})
		}
	}

	if p.cfg.TrackFailures {
		if summary := res.FailureSummary(); summary != "" {
			fmt.Fprintln(p.cfg.Output, summary)
		}
	}

	p.cfg.Logger.Debug("batch finished",
		"batch_id", batchID, "jobs", n, "failed", len(res.Failures), "elapsed", elapsed)
	p.emit(&core.BatchFinished{
		BatchID: batchID, Jobs: n, Failed: len(res.Failures),
		Elapsed: elapsed, Timestamp: time.Now(),
	})

	if p.cfg.Recorder != nil {
		if rerr := p.cfg.Recorder.Record(ctx, res.Summary()); rerr != nil {
			p.cfg.Logger.Error("failed to record batch history",
				"batch_id", batchID, "error", rerr)
		}
	}

	return res, nil
}

// runJob is the worker wrapper: it owns exactly one status slot, moves it
// queued -> running -> terminal, and never blocks outside the job function.
func (p *Pool[A, R]) runJob(ctx context.Context, st *state.CompletionState, batchID string, i int, arg A, values []R, jobErrs []error) error {
	st.Set(i, core.StatusRunning)
	p.emit(&core.JobStarted{BatchID: batchID, Index: i, Timestamp: time.Now()})
	start := time.Now()

	v, err := p.invoke(ctx, arg)
	if err != nil {
		// The slot goes terminal before the error propagates so the reporter
		// always observes an all-terminal state eventually.
		st.Set(i, core.StatusFailed)
		p.emit(&core.JobFailed{BatchID: batchID, Index: i, Err: err, Timestamp: time.Now()})
		if !p.cfg.TrackFailures {
			return fmt.Errorf("reportpool: job %d: %w", i, err)
		}
		p.cfg.Logger.Warn("job failed", "batch_id", batchID, "index", i, "error", err)
		jobErrs[i] = err
		return nil
	}

	values[i] = v
	st.Set(i, core.StatusSucceeded)
	p.emit(&core.JobSucceeded{BatchID: batchID, Index: i, Duration: time.Since(start), Timestamp: time.Now()})
	return nil
}

// invoke calls the job function, converting a panic into an error so a
// panicking job still reaches a terminal status.
func (p *Pool[A, R]) invoke(ctx context.Context, arg A) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.fn(ctx, arg)
}

func (p *Pool[A, R]) emit(e core.Event) {
	if p.cfg.Events != nil {
		p.cfg.Events(e)
	}
}
