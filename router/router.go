package router

import (
	"channel-stats-service/handler"
	"channel-stats-service/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(h *handler.StatsHandler) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length", "Cache-Control"},
		AllowCredentials: true,
	}))

	r.Use(middleware.PrometheusMiddleware("channel-stats-service"))

	r.GET("/api/channel-stats", h.GetChannelStats)
	r.GET("/api/video-stats", h.GetVideoStats)
	r.GET("/api/channel-stats/history", h.GetHistory)
	r.POST("/api/fetch/:channelId", h.TriggerFetch)

	// Health check endpoints
	r.GET("/", handler.HealthCheck)
	r.GET("/health", handler.HealthCheck)

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
