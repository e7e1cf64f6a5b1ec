package mediahost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/model"
	"github.com/tidwall/gjson"
)

// previewTransformation renders a 128x128 cropped thumbnail.
const previewTransformation = "c_fill,h_128,w_128"

const maxResponseBytes = 1 << 20

// CloudinaryUploader posts images to the Cloudinary unsigned upload API.
type CloudinaryUploader struct {
	apiBase      string
	cloudName    string
	uploadPreset string
	httpClient   *http.Client
	log          zerolog.Logger
}

// NewCloudinaryUploader creates a CloudinaryUploader. apiBase is normally
// https://api.cloudinary.com/v1_1.
func NewCloudinaryUploader(apiBase, cloudName, uploadPreset string, httpClient *http.Client, log zerolog.Logger) *CloudinaryUploader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CloudinaryUploader{
		apiBase:      strings.TrimRight(apiBase, "/"),
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		httpClient:   httpClient,
		log:          log.With().Str("component", "cloudinary_uploader").Logger(),
	}
}

// Endpoint returns the upload URL for the configured cloud.
func (u *CloudinaryUploader) Endpoint() string {
	return fmt.Sprintf("%s/%s/image/upload", u.apiBase, u.cloudName)
}

// Upload sends img as one multipart request with fields file, upload_preset
// and cloud_name. Only a 2xx response carrying a string secure_url succeeds.
func (u *CloudinaryUploader) Upload(ctx context.Context, img *model.ImageFile) (*model.UploadResult, error) {
	if img == nil || img.Open == nil {
		return nil, ErrNoFile
	}

	body, contentType, err := u.buildBody(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Endpoint(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: POST %s: %v", ErrUploadFailed, u.Endpoint(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	u.log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("file", img.Filename).
		Msg("Upload completed")
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUploadFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := gjson.GetBytes(data, "error.message").String()
		if detail == "" {
			detail = strings.TrimSpace(string(data))
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, detail)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrUploadFailed)
	}
	secure := gjson.GetBytes(data, "secure_url")
	if secure.Type != gjson.String || secure.Str == "" {
		return nil, fmt.Errorf("%w: response has no secure_url", ErrUploadFailed)
	}

	return &model.UploadResult{
		SecureURL:  secure.Str,
		PreviewURL: PreviewURL(secure.Str),
		PublicID:   gjson.GetBytes(data, "public_id").String(),
	}, nil
}

func (u *CloudinaryUploader) buildBody(img *model.ImageFile) (io.Reader, string, error) {
	src, err := img.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(img.Filename)))
	if img.ContentType != "" {
		h.Set("Content-Type", img.ContentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("copy file: %w", err)
	}
	if err := mw.WriteField("upload_preset", u.uploadPreset); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("cloud_name", u.cloudName); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// PreviewURL derives a thumbnail URL from a Cloudinary delivery URL. URLs that
// are not Cloudinary upload URLs are returned unchanged.
func PreviewURL(secureURL string) string {
	const marker = "/upload/"
	i := strings.Index(secureURL, marker)
	if i < 0 {
		return secureURL
	}
	cut := i + len(marker)
	return secureURL[:cut] + previewTransformation + "/" + secureURL[cut:]
}
