package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/scribe/errors"
)

// TranscriptResponse is the success body of both transcription endpoints.
type TranscriptResponse struct {
	Text string `json:"text"`
}

// RespondWithError maps err to its HTTP status and fault envelope. Errors
// that are not faults become an opaque 500.
func RespondWithError(c *gin.Context, err error) {
	if fault, ok := apperrors.AsFault(err); ok {
		c.JSON(fault.HTTPStatus, fault.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// RespondTranscript sends a 200 with the transcript text verbatim.
func RespondTranscript(c *gin.Context, text string) {
	c.JSON(http.StatusOK, TranscriptResponse{Text: text})
}
