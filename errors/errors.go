// Package errors defines the fault taxonomy for the transcription pipeline.
// Every failure in the pipeline is a *Fault constructed at the point of
// detection with a specific, human-readable message; faults propagate to the
// caller as the terminal outcome of a request and are never wrapped or
// retried on the way up.
package errors

import (
	"fmt"
	"net/http"
)

// Fault is the terminal, typed failure outcome of a transcription request.
type Fault struct {
	// Code is the machine-readable fault classification.
	Code FaultCode `json:"code"`
	// Message is a specific, human-readable description of what failed.
	Message string `json:"message"`
	// Retryable indicates whether the caller may reasonably resubmit.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this fault.
	HTTPStatus int `json:"-"`
	// Details carries additional structured context.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error returns the string representation of the fault.
func (f *Fault) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", f.Code, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Unwrap returns the underlying cause of the fault.
func (f *Fault) Unwrap() error { return f.Cause }

// WithDetail sets a single detail key-value pair and returns the receiver.
func (f *Fault) WithDetail(key string, value any) *Fault {
	if f.Details == nil {
		f.Details = make(map[string]any)
	}
	f.Details[key] = value
	return f
}

// New creates a Fault with automatic retryable classification. The
// taxonomy constructors below all build through New so a code's retryable
// flag has exactly one source of truth.
func New(code FaultCode, message string, httpStatus int) *Fault {
	return &Fault{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Fault constructors, one per taxonomy entry ---

// MissingCredential creates a fault for a request with no resolvable API credential.
func MissingCredential() *Fault {
	return New(CodeMissingCredential,
		"Please provide your Groq API key or set the GROQ_API_KEY environment variable",
		http.StatusUnauthorized)
}

// MissingSource creates a fault for a request that supplied no media source.
func MissingSource(reason string) *Fault {
	if reason == "" {
		reason = "Please upload an audio or video file"
	}
	return New(CodeMissingSource, reason, http.StatusBadRequest)
}

// InvalidFormat creates a fault for a source rejected by format validation.
// The reason comes verbatim from the validator so the caller sees the exact
// rejection cause (bad extension, unparsable URL, unsupported scheme).
func InvalidFormat(reason string) *Fault {
	return New(CodeInvalidFormat, reason, http.StatusUnsupportedMediaType)
}

// OversizeSource creates a fault for a source exceeding the size ceiling.
func OversizeSource(reason string) *Fault {
	return New(CodeOversizeSource, reason, http.StatusRequestEntityTooLarge)
}

// UnreachableSource creates a fault for a remote source that could not be
// reached. statusCode is the HTTP status from the probe, or 0 for
// connection-level failures.
func UnreachableSource(url string, statusCode int, cause error) *Fault {
	msg := fmt.Sprintf("URL is not reachable: %s", url)
	if statusCode > 0 {
		msg = fmt.Sprintf("URL is not reachable (HTTP %d): %s", statusCode, url)
	}
	f := New(CodeUnreachableSource, msg, http.StatusBadGateway)
	f.Cause = cause
	if statusCode > 0 {
		f.WithDetail("status_code", statusCode)
	}
	return f
}

// TransferError creates a fault for an I/O failure while streaming a remote
// source to local storage.
func TransferError(cause error) *Fault {
	f := New(CodeTransferError, fmt.Sprintf("Failed to download the file: %v", cause), http.StatusBadGateway)
	f.Cause = cause
	return f
}

// RemoteServiceError creates a fault for a failed transcription backend call.
// The underlying message is carried through so auth rejections, quota errors
// and payload errors stay distinguishable to the caller.
func RemoteServiceError(cause error) *Fault {
	f := New(CodeRemoteServiceError, fmt.Sprintf("Transcription failed: %v", cause), http.StatusBadGateway)
	f.Cause = cause
	return f
}
