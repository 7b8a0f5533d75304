package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/balaji-balu/clusterview/internal/api/handlers"
	"github.com/balaji-balu/clusterview/internal/api/middleware"
	"github.com/balaji-balu/clusterview/internal/logger"
	"github.com/balaji-balu/clusterview/internal/metrics"
)

type RouterOptions struct {
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

func NewRouter(q handlers.Querier, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware())
	if opts.Logger != nil {
		r.Use(middleware.AccessLog(opts.Logger))
	}
	if opts.Metrics != nil {
		r.Use(middleware.Duration(opts.Metrics))
	}

	r.GET("/healthz", handlers.Healthz)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.GET("/system", func(c *gin.Context) { handlers.GetSystem(c, q) })
		api.GET("/topology", func(c *gin.Context) { handlers.GetTopology(c, q) })
		api.GET("/workers", func(c *gin.Context) { handlers.GetWorkers(c, q) })
		api.GET("/pools", func(c *gin.Context) { handlers.GetPools(c, q) })
		api.GET("/config", func(c *gin.Context) { handlers.GetConfig(c, q) })
	}

	return r
}
