// Package state holds the shared completion table for one batch.
package state

import (
	"fmt"
	"sync/atomic"

	"github.com/dverbeek/reportpool/pkg/core"
)

// CompletionState is a fixed-size table of per-job statuses shared between
// the workers and the reporter. Each slot has exactly one writer for the
// lifetime of the batch (the worker running that job); all other access is
// read-only. Slot values are stored atomically so a write is visible to
// readers without locking, and a lock never serializes independent slots.
type CompletionState struct {
	slots []atomic.Int32
}

// New returns a CompletionState with n slots, all StatusQueued.
func New(n int) *CompletionState {
	return &CompletionState{slots: make([]atomic.Int32, n)}
}

// Len returns the number of slots.
func (s *CompletionState) Len() int {
	return len(s.slots)
}

// Get returns the current status of slot i.
func (s *CompletionState) Get(i int) core.JobStatus {
	return core.JobStatus(s.slots[i].Load())
}

// Set advances slot i to next. Statuses only move forward
// (queued -> running -> succeeded|failed); anything else is a bug in the
// caller and panics. The load-check-store is safe because each slot has a
// single writer.
func (s *CompletionState) Set(i int, next core.JobStatus) {
	cur := core.JobStatus(s.slots[i].Load())
	if !cur.CanAdvance(next) {
		panic(fmt.Sprintf("reportpool: illegal status transition %s -> %s on slot %d", cur, next, i))
	}
	s.slots[i].Store(int32(next))
}

// Snapshot copies every slot for rendering. The copy may tear between slots
// while jobs are running; each individual value is accurate at its read,
// which is all the reporter needs.
func (s *CompletionState) Snapshot() []core.JobStatus {
	snap := make([]core.JobStatus, len(s.slots))
	for i := range s.slots {
		snap[i] = core.JobStatus(s.slots[i].Load())
	}
	return snap
}

// AllTerminal reports whether every slot is succeeded or failed. Trivially
// true for an empty table.
func (s *CompletionState) AllTerminal() bool {
	for i := range s.slots {
		if !core.JobStatus(s.slots[i].Load()).Terminal() {
			return false
		}
	}
	return true
}

// CountTerminal returns how many slots are succeeded or failed.
func (s *CompletionState) CountTerminal() int {
	n := 0
	for i := range s.slots {
		if core.JobStatus(s.slots[i].Load()).Terminal() {
			n++
		}
	}
	return n
}
