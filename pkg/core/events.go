package core

import "time"

// Event is the interface for all batch lifecycle events.
type Event interface {
	eventMarker()
}

// BatchStarted is emitted once, before any job is submitted.
type BatchStarted struct {
	BatchID   string
	Jobs      int
	Workers   int
	Timestamp time.Time
}

func (*BatchStarted) eventMarker() {}

// JobStarted is emitted when a worker picks up a job.
type JobStarted struct {
	BatchID   string
	Index     int
	Timestamp time.Time
}

func (*JobStarted) eventMarker() {}

// JobSucceeded is emitted when a job function returns without error.
type JobSucceeded struct {
	BatchID   string
	Index     int
	Duration  time.Duration
	Timestamp time.Time
}

func (*JobSucceeded) eventMarker() {}

// JobFailed is emitted when a job function returns an error or panics.
type JobFailed struct {
	BatchID   string
	Index     int
	Err       error
	Timestamp time.Time
}

func (*JobFailed) eventMarker() {}

// BatchFinished is emitted after the pool has drained and the reporter has
// printed its final summary. Err is non-nil only when failure tracking was
// off and a job error aborted the run.
type BatchFinished struct {
	BatchID   string
	Jobs      int
	Failed    int
	Elapsed   time.Duration
	Err       error
	Timestamp time.Time
}

func (*BatchFinished) eventMarker() {}
