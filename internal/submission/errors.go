package submission

import (
	"errors"
	"strings"
)

// ErrTransport is the sentinel behind every network, status or decoding
// failure of the outbound request.
var ErrTransport = errors.New("transport error")

// ErrInFlight is returned when the in-flight guard refuses an attempt.
var ErrInFlight = errors.New("submission already in flight")

// ValidationError lists the required fields that were empty.
type ValidationError struct {
	Missing []Field
	Msg     string // user-facing status text
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return "missing required fields: " + strings.Join(names, ", ")
}

// TransportError wraps the cause of a failed request.
type TransportError struct {
	Op    string
	Cause error
}

func newTransportError(op string, cause error) error {
	return &TransportError{Op: op, Cause: cause}
}

func (e *TransportError) Error() string {
	msg := ErrTransport.Error() + ": " + e.Op
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Cause}
}
