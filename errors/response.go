package errors

import (
	stderrors "errors"
)

// FaultResponse is the JSON structure returned to clients.
type FaultResponse struct {
	Error FaultBody `json:"error"`
}

// FaultBody contains the fault details sent to clients.
type FaultBody struct {
	Code      FaultCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts a Fault to a FaultResponse for JSON serialization.
func (f *Fault) ToResponse() FaultResponse {
	return FaultResponse{
		Error: FaultBody{
			Code:      f.Code,
			Message:   f.Message,
			Retryable: f.Retryable,
			Details:   f.Details,
		},
	}
}

// AsFault converts an error to a Fault if possible.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if stderrors.As(err, &f) {
		return f, true
	}
	return nil, false
}
