package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/school-registry/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	return r
}

func TestFailWithFieldsEnvelope(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"city": "City is required"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, response.ErrValidation, body.Error.Code)
	assert.Equal(t, "City is required", body.Error.Fields["city"])
	assert.Equal(t, "req-1", body.Metadata.RequestID)
	assert.NotEmpty(t, body.Metadata.Timestamp)
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"id": response.RequestID(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	generated := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Contains(t, w.Body.String(), generated)
}

func TestMessagesMatchUserNotices(t *testing.T) {
	assert.Equal(t, "Error uploading image to Cloudinary.", response.GetMessage(response.ErrUploadFailed))
	assert.Equal(t, "Failed to save school details. Please try again.", response.GetMessage(response.ErrInsertFailed))
	assert.Equal(t, "An unexpected error occurred.", response.GetMessage("SOMETHING_ELSE"))
}
