package fetch

import (
	"os"

	"github.com/skillsenselab/scribe/logger"
)

// TempAsset is a short-lived, exclusively-owned local copy of a downloaded
// remote source. Exactly one exists per in-flight URL request; the request
// that created it must call Release before returning, on success and
// failure paths alike.
type TempAsset struct {
	// Path is the unique temporary file backing the asset.
	Path string
	// SizeBytes is the number of bytes written during the download.
	SizeBytes int64

	released bool
}

// Bytes reads the full content of the asset.
func (a *TempAsset) Bytes() ([]byte, error) {
	return os.ReadFile(a.Path)
}

// Release deletes the backing file. It is safe to call more than once and
// never fails the request: by the time cleanup runs the primary outcome is
// already decided, so a deletion failure is only logged.
func (a *TempAsset) Release() {
	if a == nil || a.released {
		return
	}
	a.released = true
	if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove temporary asset", logger.Fields(
			"path", a.Path,
			logger.FieldError, err.Error(),
		))
	}
}
