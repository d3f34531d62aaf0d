package core

import (
	"errors"
	"fmt"
)

// Configuration errors, surfaced before any job is submitted.
var (
	ErrNilJobFunc         = errors.New("reportpool: job function must not be nil")
	ErrInvalidWorkerCount = errors.New("reportpool: worker count must not be negative")
	ErrInvalidReportRate  = errors.New("reportpool: report rate must be a positive number")
)

// Failure records one isolated job failure.
type Failure struct {
	Index int
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("job %d: %v", f.Index, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}
