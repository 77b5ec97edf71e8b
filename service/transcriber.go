// Package service orchestrates a full transcription request: credential
// resolution, source validation, remote materialization, and the single
// call to the transcription backend. Every request terminates in exactly
// one of a transcript or a typed fault.
package service

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skillsenselab/scribe/credential"
	apperrors "github.com/skillsenselab/scribe/errors"
	"github.com/skillsenselab/scribe/fetch"
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/observability"
	"github.com/skillsenselab/scribe/request"
	"github.com/skillsenselab/scribe/source"
	"github.com/skillsenselab/scribe/transcription"
)

// fallbackRemoteName is presented to the backend when a URL path yields no
// usable file name (bare host, query-only URL).
const fallbackRemoteName = "audio_from_url"

// Transcriber composes the pipeline stages into the two request entry
// points. It is stateless across requests and safe for concurrent use.
type Transcriber struct {
	resolver *credential.Resolver
	fetcher  *fetch.Fetcher
	provider transcription.Provider
	metrics  *observability.Metrics
	log      *logger.Logger
}

// Option configures a Transcriber.
type Option func(*Transcriber)

// WithMetrics enables per-request metric recording.
func WithMetrics(m *observability.Metrics) Option {
	return func(t *Transcriber) { t.metrics = m }
}

// NewTranscriber creates a Transcriber over the given provider, fetcher,
// and credential resolver.
func NewTranscriber(p transcription.Provider, f *fetch.Fetcher, r *credential.Resolver, opts ...Option) *Transcriber {
	t := &Transcriber{
		resolver: r,
		fetcher:  f,
		provider: p,
		log:      logger.WithComponent("transcriber"),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// TranscribeFile transcribes a media file already present on the local
// filesystem. explicitKey is the credential supplied in the request
// payload, if any; meta carries inbound request metadata (may be nil).
func (t *Transcriber) TranscribeFile(ctx context.Context, filePath, explicitKey string, meta *request.Meta) (string, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "transcribe.file")
	defer span.End()

	text, err := t.transcribeFile(ctx, span, filePath, explicitKey, meta)
	t.finish(ctx, span, "file", start, err)
	return text, err
}

// TranscribeURL transcribes a media file fetched from a remote URL. The
// temporary download is released before this method returns, on success
// and failure paths alike.
func (t *Transcriber) TranscribeURL(ctx context.Context, rawURL, explicitKey string, meta *request.Meta) (string, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "transcribe.url")
	defer span.End()

	text, err := t.transcribeURL(ctx, span, rawURL, explicitKey, meta)
	t.finish(ctx, span, "url", start, err)
	return text, err
}

func (t *Transcriber) transcribeFile(ctx context.Context, span trace.Span, filePath, explicitKey string, meta *request.Meta) (string, error) {
	key, err := t.resolver.Resolve(explicitKey, meta)
	if err != nil {
		return "", err
	}

	if filePath == "" {
		return "", apperrors.MissingSource("")
	}
	info, statErr := os.Stat(filePath)
	if statErr != nil {
		return "", apperrors.MissingSource("File not found: " + filePath)
	}

	if out := source.ValidateLocal(filePath, info.Size()); !out.Accepted {
		return "", out.Fault()
	}

	data, readErr := os.ReadFile(filePath)
	if readErr != nil {
		return "", apperrors.TransferError(readErr)
	}

	fileName := filepath.Base(filePath)
	span.SetAttributes(
		attribute.String("file_name", fileName),
		attribute.Int64("size_bytes", info.Size()),
	)
	return t.submit(ctx, fileName, key, data)
}

func (t *Transcriber) transcribeURL(ctx context.Context, span trace.Span, rawURL, explicitKey string, meta *request.Meta) (string, error) {
	key, err := t.resolver.Resolve(explicitKey, meta)
	if err != nil {
		return "", err
	}

	if rawURL == "" {
		return "", apperrors.MissingSource("No URL provided")
	}

	// Format checks run before any network activity so obviously-invalid
	// URLs never cost a probe.
	if out := source.ValidateRemote(rawURL, source.SizeUnknown); !out.Accepted {
		return "", out.Fault()
	}

	probe := t.fetcher.Probe(ctx, rawURL)
	if !probe.Reachable {
		return "", apperrors.UnreachableSource(rawURL, probe.StatusCode, nil)
	}
	if out := source.ValidateRemote(rawURL, probe.SizeBytes); !out.Accepted {
		return "", out.Fault()
	}

	asset, err := t.fetcher.Download(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer asset.Release()

	data, readErr := asset.Bytes()
	if readErr != nil {
		return "", apperrors.TransferError(readErr)
	}

	fileName := remoteFileName(rawURL)
	span.SetAttributes(
		attribute.String("file_name", fileName),
		attribute.Int64("size_bytes", asset.SizeBytes),
	)
	return t.submit(ctx, fileName, key, data)
}

// submit performs the single transcription call and maps any backend
// failure into a RemoteServiceError. The transcript comes back verbatim.
func (t *Transcriber) submit(ctx context.Context, fileName, key string, data []byte) (string, error) {
	resp, err := t.provider.Transcribe(ctx, transcription.Request{
		FileName: fileName,
		Data:     data,
		APIKey:   key,
	})
	if err != nil {
		return "", apperrors.RemoteServiceError(err)
	}
	return resp.Text, nil
}

// finish records the request outcome on the span, metrics, and log.
func (t *Transcriber) finish(ctx context.Context, span trace.Span, sourceKind string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		if fault, ok := apperrors.AsFault(err); ok {
			outcome = string(fault.Code)
		} else {
			outcome = "error"
		}
		span.RecordError(err)
	}
	span.SetAttributes(attribute.String("outcome", outcome))

	duration := time.Since(start)
	t.metrics.RecordRequest(ctx, sourceKind, outcome, duration)

	fields := logger.Fields(
		logger.FieldOperation, "transcribe",
		logger.FieldSource, sourceKind,
		logger.FieldStatus, outcome,
		logger.FieldDuration, duration.Milliseconds(),
	)
	if err != nil {
		t.log.Warn("transcription request failed", fields)
		return
	}
	t.log.Info("transcription request completed", fields)
}

// remoteFileName derives the name presented to the backend from the URL
// path's final segment, falling back to a fixed placeholder when the path
// yields nothing usable.
func remoteFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallbackRemoteName
	}
	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return fallbackRemoteName
	}
	return base
}
