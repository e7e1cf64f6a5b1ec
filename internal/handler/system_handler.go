package handler

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/response"
)

const pingTimeout = 2 * time.Second

// SystemHandler reports liveness and process details.
type SystemHandler struct {
	rdb          *redis.Client
	startTime    time.Time
	storeBackend string
	mediaBackend string
	log          zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler. rdb may be nil when the guard
// runs in memory.
func NewSystemHandler(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:          rdb,
		startTime:    time.Now(),
		storeBackend: cfg.StoreBackend,
		mediaBackend: cfg.MediaBackend,
		log:          log.With().Str("component", "system_handler").Logger(),
	}
}

type healthStatus struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	StoreBackend string `json:"store_backend"`
	MediaBackend string `json:"media_backend"`
	Guard        string `json:"guard"`
	Goroutines   int    `json:"goroutines"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	AppRSSBytes  uint64 `json:"app_rss_bytes"`
	GoVersion    string `json:"go_version"`
}

// Health godoc
// GET /health
// Always 200 while the process serves; a Redis outage only degrades the guard.
func (h *SystemHandler) Health(c *gin.Context) {
	s := healthStatus{
		Status:       "ok",
		Uptime:       formatDuration(time.Since(h.startTime)),
		StoreBackend: h.storeBackend,
		MediaBackend: h.mediaBackend,
		Guard:        "memory",
		Goroutines:   runtime.NumGoroutine(),
		GoVersion:    runtime.Version(),
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.HeapAlloc = ms.HeapAlloc
	s.AppRSSBytes, _ = readProcessRSS()

	if h.rdb != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			h.log.Warn().Err(err).Msg("Redis ping failed")
			s.Status = "degraded"
			s.Guard = "redis_unreachable"
		} else {
			s.Guard = "redis"
		}
	}

	response.Success(c, http.StatusOK, s)
}

// readProcessRSS reads VmRSS from /proc/self/status.
func readProcessRSS() (uint64, error) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "VmRSS:") {
			return parseMemInfoValue(line), nil
		}
	}
	return 0, fmt.Errorf("VmRSS not found")
}

func parseMemInfoValue(line string) uint64 {
	// Format: "VmRSS:      16384 kB"
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	val, _ := strconv.ParseUint(fields[1], 10, 64)
	return val * 1024
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
