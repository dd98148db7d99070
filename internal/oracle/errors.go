// FILE: internal/oracle/errors.go
package oracle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured means no API key is set; callers fall back silently
var ErrNotConfigured = errors.New("oracle: no API key configured")

// UnavailableError aborts the failover chain: a transport failure or an unexpected status
type UnavailableError struct {
	Endpoint Endpoint
	Status   int
	Detail   string
	Err      error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oracle %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("oracle %s: status %d: %s", e.Endpoint, e.Status, e.Detail)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// EmptyResponseError is a 2xx without move text. It stops the chain.
type EmptyResponseError struct {
	Endpoint Endpoint
	Reason   string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("oracle %s: empty response: %s", e.Endpoint, e.Reason)
}

// ExhaustedError is returned when every endpoint asked to move on.
// When all of them were not found, Available or DiagnosticErr holds the
// result of the model listing call.
type ExhaustedError struct {
	Tried         []Endpoint
	Last          Outcome
	Available     []string
	DiagnosticErr error
}

func (e *ExhaustedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "oracle: all %d endpoints failed (last: %s)", len(e.Tried), e.Last)
	switch {
	case e.DiagnosticErr != nil:
		fmt.Fprintf(&sb, "; diagnostic failed: %v", e.DiagnosticErr)
	case len(e.Available) > 0:
		fmt.Fprintf(&sb, "; models available for this key: %s", strings.Join(e.Available, ", "))
	}
	return sb.String()
}

func (e *ExhaustedError) Unwrap() error {
	return e.DiagnosticErr
}
