// Package mediahost uploads school images to an external media host and
// returns a public URL for the stored asset.
package mediahost

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/stemsi/school-registry/internal/model"
)

// Sentinel errors for media uploads.
var (
	ErrNoFile       = errors.New("no file supplied")
	ErrUploadFailed = errors.New("image upload failed")
)

// Uploader stores exactly one image per call. Implementations do not retry.
type Uploader interface {
	Upload(ctx context.Context, img *model.ImageFile) (*model.UploadResult, error)
}

var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/avif":    ".avif",
	"image/svg+xml": ".svg",
}

// extension picks a file extension from the declared type, then the filename.
func extension(img *model.ImageFile) string {
	if ext, ok := extensions[strings.ToLower(img.ContentType)]; ok {
		return ext
	}
	return strings.ToLower(filepath.Ext(img.Filename))
}
