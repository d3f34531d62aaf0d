package core

import (
	"context"
	"time"
)

// BatchSummary is the outcome of one finished batch in the form handed to a
// Recorder. Statuses is the final completion snapshot in job-index order.
type BatchSummary struct {
	BatchID   string
	Statuses  []JobStatus
	Failures  []Failure
	StartedAt time.Time
	Elapsed   time.Duration
}

// Total returns the number of jobs in the batch.
func (b BatchSummary) Total() int {
	return len(b.Statuses)
}

// Succeeded returns the number of jobs that finished without error.
func (b BatchSummary) Succeeded() int {
	n := 0
	for _, s := range b.Statuses {
		if s == StatusSucceeded {
			n++
		}
	}
	return n
}

// Failed returns the number of jobs whose final status is failed.
func (b BatchSummary) Failed() int {
	n := 0
	for _, s := range b.Statuses {
		if s == StatusFailed {
			n++
		}
	}
	return n
}

// Recorder persists finished batch outcomes. Recording happens once, after
// the batch has fully completed; nothing in a running batch reads it back.
type Recorder interface {
	Record(ctx context.Context, sum BatchSummary) error
}
