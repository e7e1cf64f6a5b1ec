package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/response"
	"github.com/stemsi/school-registry/internal/service"
	"github.com/stemsi/school-registry/internal/workflow"
)

// MediaHandler handles media upload endpoints.
type MediaHandler struct {
	mediaService *service.MediaService
	guard        workflow.Guard
	log          zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService, guard workflow.Guard, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		guard:        guard,
		log:          log.With().Str("component", "media_handler").Logger(),
	}
}

// UploadMedia godoc
// POST /api/v1/media/upload
// Uploads one image file and returns its secure URL and preview URL.
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	if session := c.GetHeader(FormSessionHeader); session != "" && h.guard != nil {
		key := config.CacheKey.UploadLockKey(session)
		acquired, gerr := h.guard.Acquire(c.Request.Context(), key)
		if gerr != nil {
			h.log.Warn().Err(gerr).Str("key", key).Msg("Upload guard unavailable")
		} else if !acquired {
			response.Fail(c, http.StatusConflict, response.ErrSubmissionInFlight)
			return
		} else {
			defer func() {
				_ = h.guard.Release(c.Request.Context(), key)
			}()
		}
	}

	res, err := h.mediaService.Upload(c.Request.Context(), service.ImageFromHeader(header))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusBadGateway, response.ErrUploadFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}
