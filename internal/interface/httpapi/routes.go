package httpapi

import (
	"net/http"

	"flightstatus-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine. gatherer backs /metrics; nil means the
// default registry.
func NewRouter(h *Handler, gatherer prometheus.Gatherer, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery(log), RequestLogger(log))

	var metricsHandler http.Handler
	if gatherer == nil {
		metricsHandler = promhttp.Handler()
	} else {
		metricsHandler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metricsHandler))

	api := r.Group("/api/v1")
	{
		api.POST("/messages", h.HandleMessage)
		api.POST("/actions", h.HandleAction)
		api.POST("/notifications/render", h.RenderNotification)
	}

	return r
}
