// Package transcription defines the transcription provider interface and
// common types for interacting with speech-to-text backends.
//
// It follows the provider pattern with a pluggable registry for
// runtime-selectable backends:
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory(groq.ProviderName, groq.Factory())
//	p, err := reg.Create(groq.ProviderName, cfg)
package transcription

import (
	"context"

	"github.com/skillsenselab/scribe/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe sends audio for transcription and returns the result.
	// The call is made exactly once; callers decide whether to resubmit.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// NewRegistry creates a new provider registry for transcription providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
