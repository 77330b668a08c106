package handlers

import (
	"time"

	"apicollector/internal/metrics"
	"apicollector/internal/middleware"
	"apicollector/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

type RouterConfig struct {
	AllowOrigins []string
	// RateLimit disables throttling when zero.
	RateLimit rate.Limit
	Burst     int
}

func SetupRouter(
	dataService service.DataService,
	collector Collector,
	m *metrics.Metrics,
	log *logrus.Logger,
	config RouterConfig,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(m.Middleware())
	r.Use(cors.New(corsConfig(config.AllowOrigins)))

	if config.RateLimit > 0 {
		r.Use(middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(config.RateLimit, config.Burst), log))
	}

	h := NewDataHandler(dataService, collector, log)

	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/requests", h.ListRequests)
	r.GET("/requests/export", h.ExportRequests)
	r.GET("/requests/:id", h.GetRequest)
	r.GET("/latest/:endpoint", h.GetLatest)
	r.GET("/stats", h.Stats)
	r.POST("/collect", h.Collect)
	r.GET("/sql-example", h.SQLExample)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
