package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/handler"
	"github.com/stemsi/school-registry/internal/middleware"
	"github.com/stemsi/school-registry/internal/response"
	"github.com/stemsi/school-registry/internal/web"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Page   *handler.PageHandler
	School *handler.SchoolHandler
	Media  *handler.MediaHandler
	System *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, tmpl *template.Template, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.SetHTMLTemplate(tmpl)
	if cfg.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID", handler.FormSessionHeader}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// The listing page flushes its spinner before the store answers.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper:   middleware.SkipPaths("/ShowSchools"),
	}))

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// Static assets with a one day cache.
	staticGroup := router.Group("/static")
	staticGroup.Use(middleware.CacheControl(86400))
	{
		staticGroup.StaticFS("/", http.FS(web.Static()))
	}

	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Submissions per IP.
	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRatePerMin, time.Minute)

	// ─── 1. Views ──────────────────────────────────────────────────────
	views := router.Group("/")
	views.Use(middleware.NoStore())
	{
		views.GET("/", handlers.Page.Home)
		views.GET("/SchoolForm", handlers.Page.SchoolForm)
		views.POST("/SchoolForm", submitLimiter.Middleware(), handlers.Page.SubmitSchoolForm)
		views.GET("/ShowSchools", handlers.Page.ShowSchools)
	}

	// ─── 2. JSON API ───────────────────────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.GET("/schools", handlers.School.ListSchools)
		api.POST("/schools", submitLimiter.Middleware(), handlers.School.CreateSchool)
		api.POST("/media/upload", submitLimiter.Middleware(), handlers.Media.UploadMedia)
	}

	return router
}
