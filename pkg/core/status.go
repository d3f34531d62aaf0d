package core

// JobStatus is the completion state of one job in a batch.
//
// The zero value is StatusQueued. Statuses only move forward:
// queued -> running -> succeeded or failed. A terminal status never changes.
// Values fit in an int32 so a status slot can be stored atomically.
type JobStatus int32

const (
	StatusQueued JobStatus = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s JobStatus) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Symbol returns the single-letter rendering used in progress lines.
func (s JobStatus) Symbol() byte {
	switch s {
	case StatusQueued:
		return 'Q'
	case StatusRunning:
		return 'R'
	case StatusSucceeded:
		return 'S'
	case StatusFailed:
		return 'F'
	default:
		return '?'
	}
}

// Terminal reports whether the status is succeeded or failed.
func (s JobStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// CanAdvance reports whether a slot may legally move from s to next.
func (s JobStatus) CanAdvance(next JobStatus) bool {
	switch s {
	case StatusQueued:
		return next == StatusRunning
	case StatusRunning:
		return next == StatusSucceeded || next == StatusFailed
	default:
		return false
	}
}
