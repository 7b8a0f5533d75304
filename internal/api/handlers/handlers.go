package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/balaji-balu/clusterview/internal/runtimeconf"
	"github.com/balaji-balu/clusterview/pkg/model"
)

// Querier is the part of the aggregation service the HTTP layer needs.
type Querier interface {
	GetSystemOverview(ctx context.Context) (model.SystemOverview, error)
	GetTopology(ctx context.Context) ([]model.NodeStat, error)
	GetWorkers(ctx context.Context) (model.WorkerReport, error)
	GetPools(ctx context.Context) ([]model.Pool, error)
	GetRuntimeConfig(ctx context.Context) (*runtimeconf.RuntimeConfig, error)
}

func GetSystem(c *gin.Context, q Querier) {
	overview, err := q.GetSystemOverview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"connected": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func GetTopology(c *gin.Context, q Querier) {
	nodes, err := q.GetTopology(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": nodes})
}

func GetWorkers(c *gin.Context, q Querier) {
	r, err := q.GetWorkers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r)
}

func GetPools(c *gin.Context, q Querier) {
	pools, err := q.GetPools(c.Request.Context())
	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "config not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

func GetConfig(c *gin.Context, q Querier) {
	cfg, err := q.GetRuntimeConfig(c.Request.Context())
	var nf *runtimeconf.NotFoundError
	if errors.As(err, &nf) {
		searched := nf.Searched
		if searched == nil {
			searched = []string{}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "no config file found", "searched": searched})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg.Raw})
}

func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
