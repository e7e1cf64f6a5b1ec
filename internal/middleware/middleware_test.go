package middleware_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/school-registry/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	page := strings.Repeat("<article>Oak High</article>", 200)

	r := gin.New()
	r.Use(middleware.Brotli())
	r.GET("/", func(c *gin.Context) {
		// Written in pieces so later writes land after compression starts.
		c.Status(http.StatusOK)
		_, _ = c.Writer.WriteString(page[:100])
		_, _ = c.Writer.WriteString(page[100:])
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, page, string(body))
}

func TestBrotliLeavesSmallAndSkippedBodies(t *testing.T) {
	r := gin.New()
	r.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		MinLength: 16,
		Skipper:   middleware.SkipPaths("/ShowSchools"),
	}))
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/ShowSchools", func(c *gin.Context) { c.String(http.StatusOK, strings.Repeat("x", 64)) })

	for _, path := range []string{"/small", "/ShowSchools"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Content-Encoding"), path)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := middleware.NewRateLimiter(2, time.Minute)
	r := gin.New()
	r.POST("/SchoolForm", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/SchoolForm", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := middleware.NewRateLimiter(0, time.Minute)
	r := gin.New()
	r.POST("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}
