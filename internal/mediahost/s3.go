package mediahost

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/model"
)

// S3Options configures an S3Uploader.
type S3Options struct {
	Endpoint  string // host[:port], no scheme
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL prefixes object keys in returned URLs. Defaults to the
	// path-style bucket URL on Endpoint.
	PublicBaseURL string
}

// S3Uploader stores images in an S3-compatible bucket.
type S3Uploader struct {
	client     *minio.Client
	bucket     string
	publicBase string
	log        zerolog.Logger
}

// NewS3Uploader creates an S3Uploader backed by a minio client.
func NewS3Uploader(opts S3Options, log zerolog.Logger) (*S3Uploader, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	publicBase := strings.TrimRight(opts.PublicBaseURL, "/")
	if publicBase == "" {
		scheme := "https"
		if !opts.UseSSL {
			scheme = "http"
		}
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket)
	}

	return &S3Uploader{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: publicBase,
		log:        log.With().Str("component", "s3_uploader").Logger(),
	}, nil
}

// Upload puts img under schools/<uuid><ext>. The bucket must allow public reads
// for the returned URL to resolve.
func (u *S3Uploader) Upload(ctx context.Context, img *model.ImageFile) (*model.UploadResult, error) {
	if img == nil || img.Open == nil {
		return nil, ErrNoFile
	}

	src, err := img.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open file: %v", ErrUploadFailed, err)
	}
	defer src.Close()

	key := "schools/" + uuid.New().String() + extension(img)
	info, err := u.client.PutObject(ctx, u.bucket, key, src, img.Size, minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: put %s/%s: %v", ErrUploadFailed, u.bucket, key, err)
	}

	u.log.Debug().
		Str("key", key).
		Int64("size", info.Size).
		Msg("Upload completed")

	url := u.publicBase + "/" + key
	return &model.UploadResult{
		SecureURL:  url,
		PreviewURL: url,
		PublicID:   key,
	}, nil
}
