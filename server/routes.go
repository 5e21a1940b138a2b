package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers the forecast api under rg
//
//	GET    /targets
//	GET    /forecast/:target
//	GET    /forecast/:target/lookup?date=YYYY-MM-DD
//	GET    /forecast/:target/chart
//	DELETE /forecast/:target/cache
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/targets", h.HandleTargets)

	fc := rg.Group("/forecast/:target")
	{
		fc.GET("", h.HandleForecast)
		fc.GET("/lookup", h.HandleLookup)
		fc.GET("/chart", h.HandleChart)
		fc.DELETE("/cache", h.HandleInvalidate)
	}
}

// NewRouter builds the engine serving the api under /api/v1 and prometheus metrics under /metrics
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestMetrics())

	RegisterRoutes(router.Group("/api/v1"), h)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}
