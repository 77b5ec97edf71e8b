package errors

// FaultCode is a machine-readable classification of a transcription fault.
type FaultCode string

// Input acquisition faults
const (
	// CodeMissingCredential indicates no API credential could be resolved.
	CodeMissingCredential FaultCode = "MISSING_CREDENTIAL"
	// CodeMissingSource indicates no media source was supplied.
	CodeMissingSource FaultCode = "MISSING_SOURCE"
	// CodeInvalidFormat indicates the media source has an unsupported format.
	CodeInvalidFormat FaultCode = "INVALID_FORMAT"
	// CodeOversizeSource indicates the media source exceeds the size ceiling.
	CodeOversizeSource FaultCode = "OVERSIZE_SOURCE"
)

// Transfer and downstream faults
const (
	// CodeUnreachableSource indicates a remote source could not be reached.
	CodeUnreachableSource FaultCode = "UNREACHABLE_SOURCE"
	// CodeTransferError indicates the download of a remote source failed mid-stream.
	CodeTransferError FaultCode = "TRANSFER_ERROR"
	// CodeRemoteServiceError indicates the transcription backend rejected or failed the call.
	CodeRemoteServiceError FaultCode = "REMOTE_SERVICE_ERROR"
)

// retryableCodes marks faults the caller may reasonably resubmit. The
// pipeline itself never retries; this is advisory for clients only.
var retryableCodes = map[FaultCode]bool{
	CodeUnreachableSource:  true,
	CodeTransferError:      true,
	CodeRemoteServiceError: true,
}

// IsRetryableCode returns true if the fault code indicates a retryable fault.
func IsRetryableCode(code FaultCode) bool {
	return retryableCodes[code]
}
