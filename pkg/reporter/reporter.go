// Package reporter prints batch progress derived from the shared completion
// state. The reporter runs as its own goroutine and terminates purely on
// observing that every slot is terminal; nothing cancels it.
package reporter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dverbeek/reportpool/pkg/core"
	"github.com/dverbeek/reportpool/pkg/state"
)

// Policy selects when progress lines are printed.
type Policy int

const (
	// Periodic prints one line per reporting interval.
	Periodic Policy = iota

	// OnChange prints only when the set of finished jobs changed since the
	// previous check, at most once per reporting interval. Useful when the
	// job functions themselves write a lot of output.
	OnChange
)

func (p Policy) String() string {
	switch p {
	case Periodic:
		return "periodic"
	case OnChange:
		return "on-change"
	default:
		return "unknown"
	}
}

// Reporter observes a CompletionState and writes progress lines to out.
// It holds a read-only view: it never writes a slot.
type Reporter struct {
	state   *state.CompletionState
	rate    float64
	policy  Policy
	out     io.Writer
	started time.Time
}

// New creates a reporter over st printing rate reports per second under the
// given policy. A nil out defaults to os.Stdout. The rate must already be
// validated by the caller.
func New(st *state.CompletionState, rate float64, policy Policy, out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{state: st, rate: rate, policy: policy, out: out}
}

// Start launches the reporting loop in its own goroutine. The returned
// channel closes after the final summary line has been written. There is no
// stop signal: the loop ends when every slot reaches a terminal status,
// which the pool guarantees.
func (r *Reporter) Start() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.run()
	}()
	return done
}

func (r *Reporter) run() {
	r.started = time.Now()

	// Degenerate batch: one immediate 100% report, no sleeping.
	if r.state.Len() == 0 {
		r.report(nil)
		r.finish()
		return
	}

	period := time.Duration(float64(time.Second) / r.rate)
	if r.policy == OnChange {
		r.runOnChange(period)
	} else {
		r.runPeriodic(period)
	}
}

func (r *Reporter) runPeriodic(period time.Duration) {
	for !r.state.AllTerminal() {
		r.report(r.state.Snapshot())
		time.Sleep(period)
	}
	r.report(r.state.Snapshot())
	r.finish()
}

func (r *Reporter) runOnChange(period time.Duration) {
	// First report is printed immediately so an all-queued line is visible
	// even before any job starts.
	snap := r.state.Snapshot()
	r.report(snap)
	prev := terminalMask(snap)

	for {
		time.Sleep(period)
		snap = r.state.Snapshot()
		cur := terminalMask(snap)
		if allTrue(cur) {
			break
		}
		if !maskEqual(cur, prev) {
			r.report(snap)
		}
		prev = cur
	}

	r.report(snap)
	r.finish()
}

// report writes one progress line: completion percentage, elapsed time, an
// ETA extrapolated from throughput so far, and every slot's status symbol in
// job-index order.
func (r *Reporter) report(snap []core.JobStatus) {
	n := len(snap)
	completed := 0
	symbols := make([]byte, n)
	for i, s := range snap {
		if s.Terminal() {
			completed++
		}
		symbols[i] = s.Symbol()
	}

	elapsed := time.Since(r.started).Seconds()

	remaining := "unknown"
	if completed > 0 {
		remaining = fmt.Sprintf("%.2f", elapsed/float64(completed)*float64(n-completed))
	}

	pct := 100.0
	if n > 0 {
		pct = float64(completed) / float64(n) * 100
	}

	fmt.Fprintf(r.out, "Completed %.2f%% of jobs. Time elapsed: %.2f s, remaining: %s s. List: %s.\n",
		pct, elapsed, remaining, symbols)
}

func (r *Reporter) finish() {
	fmt.Fprintf(r.out, "Batch finished after %.4f s.\n", time.Since(r.started).Seconds())
}

func terminalMask(snap []core.JobStatus) []bool {
	mask := make([]bool, len(snap))
	for i, s := range snap {
		mask[i] = s.Terminal()
	}
	return mask
}

func maskEqual(a, b []bool) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allTrue(mask []bool) bool {
	for _, v := range mask {
		if !v {
			return false
		}
	}
	return true
}
