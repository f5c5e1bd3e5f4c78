package matcher

import (
	"errors"
	"time"

	"github.com/praetorian-inc/what/pkg/types"
)

// ErrBudgetExceeded marks a blob that was not scanned completely because a
// size or time budget ran out. The matches found so far are still returned.
var ErrBudgetExceeded = errors.New("match budget exceeded")

// SignatureStatus represents the status of a signature on one blob
type SignatureStatus int

const (
	// SignatureCompleted indicates the signature finished successfully
	SignatureCompleted SignatureStatus = iota
	// SignatureTimedOut indicates the signature exceeded its timeout
	SignatureTimedOut
	// SignatureError indicates the regex engine returned an error
	SignatureError
	// SignatureSkipped indicates the blob deadline passed before the signature ran
	SignatureSkipped
)

// String returns the string representation of SignatureStatus
func (s SignatureStatus) String() string {
	switch s {
	case SignatureCompleted:
		return "completed"
	case SignatureTimedOut:
		return "timeout"
	case SignatureError:
		return "error"
	case SignatureSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// SignatureStat contains statistics about a single signature execution
type SignatureStat struct {
	Signature string          // Signature name
	Status    SignatureStatus // Execution status
	Duration  time.Duration   // Time taken to execute
	Matches   int             // Number of matches found
	Error     error           // Error if Status is SignatureError
}

// Summary provides aggregate statistics for a blob
type Summary struct {
	Candidates int // Signatures that survived selection and prefiltering
	Completed  int
	TimedOut   int
	Errored    int
	Skipped    int
}

// Result contains the raw matches of one blob and execution statistics.
type Result struct {
	Matches []*types.RawMatch // ordered by signature index, then position
	Stats   []SignatureStat   // one per candidate signature, in index order
	Summary Summary

	Size    int // content length in bytes
	Scanned int // bytes actually scanned

	// Truncated is set when some part of the blob was not scanned by some
	// signature. Err explains why and wraps ErrBudgetExceeded for budget
	// overruns.
	Truncated bool
	Err       error
}

func (r *Result) truncate(err error) {
	r.Truncated = true
	r.Err = errors.Join(r.Err, err)
}

func (r *Result) record(stat SignatureStat) {
	r.Stats = append(r.Stats, stat)
	switch stat.Status {
	case SignatureCompleted:
		r.Summary.Completed++
	case SignatureTimedOut:
		r.Summary.TimedOut++
	case SignatureError:
		r.Summary.Errored++
	case SignatureSkipped:
		r.Summary.Skipped++
	}
}
