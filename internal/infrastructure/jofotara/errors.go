package jofotara

import "fmt"

// Failure taxonomy of the integration. Every error a caller can see is one of
// these four, matchable with errors.As; submission failures additionally land
// in a SubmitResult the caller can persist and display.

// BuildError marks malformed or insufficient input to the XML builder. Fatal
// to that generation attempt; never retried.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string { return "jofotara: build: " + e.Reason }

// ConfigError marks a missing endpoint or credential. The client never
// attempts the HTTP call; the user sees it as a setup problem.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "jofotara: config: " + e.Reason }

// TransportError marks a network-level failure (connection error, timeout).
// The caller may retry manually; an interrupted request may still have been
// accepted remotely, so automatic retry is deliberately absent.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "jofotara: transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// Diagnostic is one structured validation message from the portal
// (EINV_RESULTS entries). Codes are authoritative and preserved verbatim.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RejectedError marks a remote validation or business rejection (non-2xx, or
// an unreadable success body). Not retried automatically.
type RejectedError struct {
	StatusCode  int
	Body        string
	Diagnostics []Diagnostic
}

func (e *RejectedError) Error() string {
	if len(e.Diagnostics) > 0 {
		return fmt.Sprintf("jofotara: rejected (HTTP %d): %s: %s",
			e.StatusCode, e.Diagnostics[0].Code, e.Diagnostics[0].Message)
	}
	return fmt.Sprintf("jofotara: rejected (HTTP %d)", e.StatusCode)
}
