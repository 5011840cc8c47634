package ingest

import (
	"errors"
	"fmt"
)

// ErrEmptyTeamName marks a record whose team name is blank after trimming.
// Such records are data defects, not transient failures, and are skipped.
var ErrEmptyTeamName = errors.New("team name is empty")

// skipError wraps a reason a record was invalid. Skipped records are counted
// separately from failed ones: a skip is the record's fault, a failure is
// the system's.
type skipError struct {
	reason error
}

func (e *skipError) Error() string {
	return fmt.Sprintf("record skipped: %v", e.reason)
}

func (e *skipError) Unwrap() error {
	return e.reason
}

// Skip marks err as a record-level defect rather than a processing failure.
func Skip(err error) error {
	if err == nil {
		return nil
	}
	return &skipError{reason: err}
}

// IsSkip reports whether err was produced by Skip.
func IsSkip(err error) bool {
	var se *skipError
	return errors.As(err, &se)
}
