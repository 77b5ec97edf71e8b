// Package source decides the admissibility of submitted media sources
// before any network or transcription cost is incurred.
package source

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	apperrors "github.com/skillsenselab/scribe/errors"
	"github.com/skillsenselab/scribe/util"
)

// MaxSourceBytes is the hard size ceiling for any media source. It is part
// of the external contract (a user-documented limit), not a tuning knob.
const MaxSourceBytes = 25 * 1024 * 1024

// SizeUnknown marks a remote source whose size could not be probed. Such
// sources are provisionally accepted; the download path still enforces the
// ceiling against the actual transferred bytes.
const SizeUnknown int64 = -1

// allowedExtensions is the fixed allow-list of media file extensions,
// matched case-insensitively against the final path segment's suffix.
var allowedExtensions = map[string]bool{
	".mp3":  true,
	".mp4":  true,
	".mpeg": true,
	".mpga": true,
	".m4a":  true,
	".wav":  true,
	".webm": true,
	".flac": true,
	".ogg":  true,
	".aac":  true,
}

// Outcome is the result of a validation decision. Reason is always
// populated: a success note when accepted, the specific cause otherwise.
type Outcome struct {
	Accepted bool
	Reason   string

	code apperrors.FaultCode
}

// Fault converts a rejection into its typed fault. Accepted outcomes
// return nil.
func (o Outcome) Fault() *apperrors.Fault {
	if o.Accepted {
		return nil
	}
	switch o.code {
	case apperrors.CodeOversizeSource:
		return apperrors.OversizeSource(o.Reason)
	case apperrors.CodeMissingSource:
		return apperrors.MissingSource(o.Reason)
	default:
		return apperrors.InvalidFormat(o.Reason)
	}
}

func accept(reason string) Outcome { return Outcome{Accepted: true, Reason: reason} }

func reject(code apperrors.FaultCode, reason string) Outcome {
	return Outcome{Accepted: false, Reason: reason, code: code}
}

// ValidateLocal decides admissibility of a local file by extension and size.
// It is a pure function over its inputs: no filesystem access happens here.
func ValidateLocal(filePath string, sizeBytes int64) Outcome {
	if filePath == "" {
		return reject(apperrors.CodeMissingSource, "No file uploaded")
	}
	if out := checkExtension(filePath); !out.Accepted {
		return out
	}
	if out := checkSize(sizeBytes); !out.Accepted {
		return out
	}
	return accept("File is valid")
}

// ValidateRemote decides admissibility of a URL-sourced input. probedSize is
// the content length reported by a probe, or SizeUnknown when unavailable;
// unknown sizes are provisionally accepted.
func ValidateRemote(rawURL string, probedSize int64) Outcome {
	if rawURL == "" {
		return reject(apperrors.CodeMissingSource, "No URL provided")
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return reject(apperrors.CodeInvalidFormat, fmt.Sprintf("Invalid URL: %s", rawURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return reject(apperrors.CodeInvalidFormat, fmt.Sprintf("Unsupported URL scheme %q (only http and https are supported)", u.Scheme))
	}

	if out := checkExtension(u.Path); !out.Accepted {
		return out
	}
	if probedSize != SizeUnknown {
		if out := checkSize(probedSize); !out.Accepted {
			return out
		}
	}
	return accept("URL is valid")
}

// checkExtension matches the final path segment's suffix against the
// allow-list, case-insensitively.
func checkExtension(p string) Outcome {
	ext := strings.ToLower(path.Ext(path.Base(p)))
	if ext == "" || !allowedExtensions[ext] {
		return reject(apperrors.CodeInvalidFormat, fmt.Sprintf("Invalid file type. Supported formats: %s", supportedFormats()))
	}
	return accept("")
}

// checkSize enforces the 25 MiB ceiling with the measured size and the
// limit both spelled out in the reason.
func checkSize(sizeBytes int64) Outcome {
	if sizeBytes > MaxSourceBytes {
		return reject(apperrors.CodeOversizeSource, fmt.Sprintf("File size (%s) exceeds 25MB limit", util.FormatSizeMB(sizeBytes)))
	}
	return accept("")
}

func supportedFormats() string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
