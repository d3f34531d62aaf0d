// Package core provides the domain models shared by the reportpool packages.
//
// This package contains:
//   - JobStatus and its legal transitions
//   - Event types emitted during a batch run
//   - BatchSummary and the Recorder interface for post-run persistence
//   - Error variables and the Failure type
//
// Most users should import the root package github.com/dverbeek/reportpool
// instead of this package directly.
package core
