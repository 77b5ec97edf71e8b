package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/scribe/errors"
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/request"
	"github.com/skillsenselab/scribe/service"
	"github.com/skillsenselab/scribe/transcription"
)

// urlRequest is the body of the URL transcription endpoint. The URL is
// checked by the pipeline, not here, so every rejection carries the
// pipeline's own message.
type urlRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key"`
}

// Handlers holds the HTTP handlers for the transcription API.
type Handlers struct {
	transcriber *service.Transcriber
	provider    transcription.Provider
	version     string
	log         *logger.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(t *service.Transcriber, p transcription.Provider, version string) *Handlers {
	return &Handlers{
		transcriber: t,
		provider:    p,
		version:     version,
		log:         logger.WithComponent("handlers"),
	}
}

// Register mounts all routes on the engine.
func (h *Handlers) Register(engine *gin.Engine) {
	v1 := engine.Group("/v1")
	v1.POST("/transcriptions/file", h.TranscribeFile)
	v1.POST("/transcriptions/url", h.TranscribeURL)
	v1.GET("/headers", h.Headers)
	engine.GET("/health", h.Health)
}

// TranscribeFile accepts a multipart upload under the "file" field, with
// an optional "api_key" field, and responds with the transcript.
func (h *Handlers) TranscribeFile(c *gin.Context) {
	meta := request.FromHeader(c.Request.Header)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondWithError(c, apperrors.MissingSource(""))
		return
	}

	// The upload is staged under its original base name so validation and
	// the backend both see the user's file name.
	dir, err := os.MkdirTemp("", "scribe-upload-")
	if err != nil {
		RespondWithError(c, apperrors.TransferError(err))
		return
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			h.log.Warn("upload cleanup failed", logger.Fields(logger.FieldError, rmErr.Error()))
		}
	}()

	dst := filepath.Join(dir, filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		RespondWithError(c, apperrors.TransferError(err))
		return
	}

	text, err := h.transcriber.TranscribeFile(c.Request.Context(), dst, c.PostForm("api_key"), meta)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondTranscript(c, text)
}

// TranscribeURL accepts a JSON body naming a remote media URL, with an
// optional api_key, and responds with the transcript.
func (h *Handlers) TranscribeURL(c *gin.Context) {
	meta := request.FromHeader(c.Request.Header)

	var body urlRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondWithError(c, apperrors.MissingSource("No URL provided"))
		return
	}

	text, err := h.transcriber.TranscribeURL(c.Request.Context(), body.URL, body.APIKey, meta)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondTranscript(c, text)
}

// Headers echoes the inbound request headers verbatim as a flat JSON
// object. Diagnostic surface: whatever arrived is what is returned.
func (h *Handlers) Headers(c *gin.Context) {
	c.JSON(http.StatusOK, request.FromHeader(c.Request.Header).Snapshot())
}

// Health reports service status. The backend is probed with a short
// deadline; an unreachable backend degrades the report without failing it.
func (h *Handlers) Health(c *gin.Context) {
	status := "healthy"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if !h.provider.IsAvailable(ctx) {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"service":  "scribe",
		"version":  h.version,
		"provider": h.provider.Name(),
	})
}
