package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/mediahost"
	"github.com/stemsi/school-registry/internal/metrics"
	"github.com/stemsi/school-registry/internal/model"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// MediaService checks images and hands them to the configured media host.
type MediaService struct {
	uploader       mediahost.Uploader
	backend        string
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config, uploader mediahost.Uploader, log zerolog.Logger) *MediaService {
	return &MediaService{
		uploader:       uploader,
		backend:        cfg.MediaBackend,
		maxUploadBytes: cfg.MaxUploadBytes,
		log:            log.With().Str("component", "media_service").Logger(),
	}
}

// Upload stores one image and returns its public and preview URLs.
// A nil image never reaches the media host.
func (s *MediaService) Upload(ctx context.Context, img *model.ImageFile) (*model.UploadResult, error) {
	if img == nil {
		return nil, mediahost.ErrNoFile
	}

	if !strings.HasPrefix(strings.ToLower(img.ContentType), "image/") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, img.ContentType)
	}

	if s.maxUploadBytes > 0 && img.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, img.Size, s.maxUploadBytes)
	}

	start := time.Now()
	res, err := s.uploader.Upload(ctx, img)
	metrics.ObserveUpstream(s.backend, "upload", start, err)
	if err != nil {
		s.log.Error().Err(err).Str("file", img.Filename).Msg("Image upload failed")
		return nil, err
	}

	s.log.Info().Str("url", res.SecureURL).Msg("Image uploaded")
	return res, nil
}

// ImageFromHeader adapts a multipart file header. The declared part
// Content-Type is kept as is.
func ImageFromHeader(header *multipart.FileHeader) *model.ImageFile {
	if header == nil {
		return nil
	}
	return &model.ImageFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}
