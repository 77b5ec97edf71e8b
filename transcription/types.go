package transcription

// Request holds parameters for a single transcription call. The API key
// travels with the request because credentials are resolved fresh per
// request and never stored in provider state.
type Request struct {
	// FileName is the name presented to the backend for the audio payload.
	FileName string
	// Data is the raw audio/video content.
	Data []byte
	// APIKey authenticates this single call to the backend.
	APIKey string
	// Model is the transcription model to use. Empty selects the
	// provider's configured default.
	Model string
	// Language is the expected language of the audio (e.g. "en").
	Language string
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcript, verbatim as returned by the backend.
	Text string `json:"text"`
}
