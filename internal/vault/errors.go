package vault

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPoolConfigured is returned by Acquire when no credential source is
// available: the configured pool is empty and no manual key was supplied.
// This is a distinct, non-fatal state; the session continues in degraded
// mode until the operator configures keys or the user enters one.
var ErrNoPoolConfigured = errors.New("no credential pool configured")

// Attempt records the outcome of trying one credential during an acquire.
type Attempt struct {
	Index  int    // position in the pool (manual key comes last)
	Key    string // masked credential, safe for logs
	Manual bool   // true if this was the ad hoc manual key
	Err    error
}

// ExhaustedError is returned when every candidate credential failed local
// handle construction. It carries the per-credential outcomes so callers
// and tests can inspect why each attempt failed.
type ExhaustedError struct {
	Attempts []Attempt
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "all %d credentials exhausted", len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&sb, "; %s: %v", a.Key, a.Err)
	}
	return sb.String()
}

// IsExhausted reports whether err is an ExhaustedError.
func IsExhausted(err error) bool {
	var ex *ExhaustedError
	return errors.As(err, &ex)
}
