package gemini

import "fmt"

// CallError represents a failure of a submitted remote call: quota, network,
// or a malformed payload rejected by the service. It is caught at the call
// site and rendered inline; it never triggers a retry with another
// credential within the same user action.
type CallError struct {
	// Model is the model the request was submitted to.
	Model string

	// Message is a human-readable error message for failures without an
	// underlying SDK error.
	Message string

	// Err is the underlying error (if any).
	Err error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gemini call failed (%s): %v", e.Model, e.Err)
	}
	return fmt.Sprintf("gemini call failed (%s): %s", e.Model, e.Message)
}

// Unwrap returns the underlying error.
func (e *CallError) Unwrap() error {
	return e.Err
}
