// Package fetch materializes remote media sources into scoped temporary
// assets: a body-free probe for reachability and size, then a bounded
// streaming download that never buffers a whole file in memory.
package fetch

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"path"
	"time"

	apperrors "github.com/skillsenselab/scribe/errors"
	"github.com/skillsenselab/scribe/httpclient"
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/source"
)

const (
	defaultProbeTimeout    = 10 * time.Second
	defaultDownloadTimeout = 30 * time.Second

	// chunkSize bounds peak memory during a download regardless of how big
	// the remote claims (or lies) its payload is.
	chunkSize = 8 * 1024
)

// Config configures the fetcher's timeouts and the download byte ceiling.
type Config struct {
	ProbeTimeout    time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`
	DownloadTimeout time.Duration `yaml:"download_timeout" mapstructure:"download_timeout"`
	// MaxBytes caps the total bytes accepted from a download. Defaults to
	// the 25 MiB source ceiling.
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = defaultProbeTimeout
	}
	if c.DownloadTimeout <= 0 {
		c.DownloadTimeout = defaultDownloadTimeout
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = source.MaxSourceBytes
	}
}

// ProbeResult describes the outcome of a metadata-only reachability check.
type ProbeResult struct {
	// Reachable is true when the probe got a 2xx response in time.
	Reachable bool
	// SizeBytes is the reported content length, or source.SizeUnknown.
	SizeBytes int64
	// StatusCode is the HTTP status from the probe, 0 on connection failure.
	StatusCode int
}

// Fetcher downloads remote sources into temporary assets. It is stateless
// with respect to request history and safe for concurrent use.
type Fetcher struct {
	client *httpclient.Client
	cfg    Config
	log    *logger.Logger
}

// NewFetcher creates a Fetcher with the given configuration.
func NewFetcher(cfg Config) *Fetcher {
	cfg.ApplyDefaults()
	return &Fetcher{
		client: httpclient.New(httpclient.Config{Timeout: cfg.ProbeTimeout}),
		cfg:    cfg,
		log:    logger.WithComponent("fetch"),
	}
}

// Probe issues a HEAD request with a bounded timeout. Failures of any kind
// fold into Reachable=false; the probe never downloads a body.
func (f *Fetcher) Probe(ctx context.Context, url string) ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.ProbeTimeout)
	defer cancel()

	resp, err := f.client.Do(ctx, httpclient.Request{Method: http.MethodHead, Path: url})
	if err != nil {
		result := ProbeResult{Reachable: false, SizeBytes: source.SizeUnknown}
		if resp != nil {
			result.StatusCode = resp.StatusCode
		}
		return result
	}

	size := resp.ContentLength()
	if size < 0 {
		size = source.SizeUnknown
	}
	return ProbeResult{Reachable: true, SizeBytes: size, StatusCode: resp.StatusCode}
}

// Download streams the URL into a freshly created, uniquely named temporary
// file in fixed-size chunks. The returned TempAsset is exclusively owned by
// the caller, who must Release it. The byte ceiling is enforced against the
// actual transferred bytes, not just the declared content length.
func (f *Fetcher) Download(ctx context.Context, url string) (*TempAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.DownloadTimeout)
	defer cancel()

	stream, err := f.client.DoStream(ctx, httpclient.Request{Method: http.MethodGet, Path: url})
	if err != nil {
		var httpErr *httpclient.Error
		if stderrors.As(err, &httpErr) && httpErr.Code == httpclient.ErrCodeStatus {
			return nil, apperrors.UnreachableSource(url, httpErr.StatusCode, httpErr)
		}
		return nil, apperrors.UnreachableSource(url, 0, err)
	}
	defer func() { _ = stream.Close() }()

	tmp, err := os.CreateTemp("", "scribe-*"+urlExt(url))
	if err != nil {
		return nil, apperrors.TransferError(err)
	}
	asset := &TempAsset{Path: tmp.Name()}

	written, err := copyBounded(tmp, stream.Body, f.cfg.MaxBytes)
	closeErr := tmp.Close()
	if err != nil {
		asset.Release()
		return nil, err
	}
	if closeErr != nil {
		asset.Release()
		return nil, apperrors.TransferError(closeErr)
	}

	asset.SizeBytes = written
	f.log.Debug("remote source downloaded", logger.Fields(
		logger.FieldURL, url,
		logger.FieldSizeBytes, written,
		"path", asset.Path,
	))
	return asset, nil
}

// urlExt extracts the file extension from a URL's path component, ignoring
// any query string.
func urlExt(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}

// copyBounded copies src to dst in chunkSize pieces, failing with an
// OversizeSource fault as soon as the transferred bytes pass maxBytes.
func copyBounded(dst io.Writer, src io.Reader, maxBytes int64) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > maxBytes {
				return written, apperrors.OversizeSource(
					"Download exceeds 25MB limit; transfer aborted",
				).WithDetail("limit_bytes", maxBytes)
			}
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return written, apperrors.TransferError(writeErr)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, apperrors.TransferError(readErr)
		}
	}
}
