package mediahost_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stemsi/school-registry/internal/logger"
	"github.com/stemsi/school-registry/internal/mediahost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3UploadPutsObjectUnderSchoolsPrefix(t *testing.T) {
	var gotPath, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusOK)
			return
		}
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	endpoint := strings.TrimPrefix(srv.URL, "http://")
	u, err := mediahost.NewS3Uploader(mediahost.S3Options{
		Endpoint:      endpoint,
		AccessKey:     "key",
		SecretKey:     "secret",
		Bucket:        "school-images",
		PublicBaseURL: "https://img.example.test/",
	}, logger.Nop())
	require.NoError(t, err)

	res, err := u.Upload(context.Background(), jpeg("jpeg-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/school-images/schools/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, ".jpg"), gotPath)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Contains(t, gotBody, "jpeg-bytes")
	assert.True(t, strings.HasPrefix(res.SecureURL, "https://img.example.test/schools/"))
	assert.Equal(t, res.SecureURL, res.PreviewURL)
}

func TestS3UploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
	}))
	defer srv.Close()

	u, err := mediahost.NewS3Uploader(mediahost.S3Options{
		Endpoint: strings.TrimPrefix(srv.URL, "http://"),
		Bucket:   "school-images",
	}, logger.Nop())
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), jpeg("x"))
	assert.ErrorIs(t, err, mediahost.ErrUploadFailed)
}
